// Package source fetches documents for condensing and normalizes
// plain-text archives such as Project Gutenberg ebooks.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/localrivet/condense/internal/errortypes"
)

// DefaultTimeout is the HTTP timeout for document fetches.
const DefaultTimeout = 120 * time.Second

// gutenbergMarker matches the "*** START OF ... ***" and
// "*** END OF ... ***" banner lines Project Gutenberg wraps around
// the actual book text.
var gutenbergMarker = regexp.MustCompile(`\*\*\* .+ \*\*\*`)

// Fetch downloads a plain-text document from the given URL. Carriage
// returns are stripped so downstream splitting only deals with "\n".
func Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errortypes.ValidationError(err, "invalid document URL").
			WithField("url", url)
	}

	client := &http.Client{Timeout: DefaultTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", errortypes.NetworkError(err, "failed to fetch document").
			WithField("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errortypes.NetworkError(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			"failed to fetch document").
			WithField("url", url).
			WithField("status_code", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errortypes.NetworkError(err, "failed to read document body").
			WithField("url", url)
	}

	return strings.ReplaceAll(string(body), "\r", ""), nil
}

// StripGutenbergBoilerplate removes the Project Gutenberg header and
// footer, returning only the book text between the START and END
// banners. Text without both banners is returned unchanged.
func StripGutenbergBoilerplate(text string) string {
	parts := gutenbergMarker.Split(text, -1)
	if len(parts) < 3 {
		return text
	}
	return strings.TrimSpace(parts[1])
}
