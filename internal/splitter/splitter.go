// Package splitter divides oversized text into contiguous sections that
// each fit within a token budget, cutting only at a designated boundary
// character wherever possible.
package splitter

import (
	"errors"
	"strings"

	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/tokenizer"
)

// Split divides text into an ordered sequence of segments, each counting
// at most maxInputTokens tokens. Splits happen only after occurrences of
// boundary, so concatenating the segments in order reproduces text
// exactly. A run of text with no boundary within budget is hard-cut at
// the token boundary instead, so the splitter always makes forward
// progress.
func Split(text string, maxInputTokens int, boundary string, counter tokenizer.Counter) ([]string, error) {
	if maxInputTokens <= 0 {
		return nil, errortypes.ValidationError(
			errors.New("max input tokens must be positive"), "cannot split text")
	}
	if text == "" {
		return nil, nil
	}
	if counter.Count(text) <= maxInputTokens {
		return []string{text}, nil
	}
	if boundary == "" {
		return hardCut(text, maxInputTokens, counter), nil
	}

	// Boundary characters stay attached to the piece they terminate, which
	// keeps the concatenation of all segments byte-identical to the input.
	pieces := strings.SplitAfter(text, boundary)

	var segments []string
	var current string
	flush := func() {
		if current != "" {
			segments = append(segments, current)
			current = ""
		}
	}

	for _, piece := range pieces {
		if piece == "" {
			continue
		}

		// A single sentence larger than the whole budget cannot be placed
		// behind any boundary; cut it at the token boundary.
		if counter.Count(piece) > maxInputTokens {
			flush()
			segments = append(segments, hardCut(piece, maxInputTokens, counter)...)
			continue
		}

		if current == "" {
			current = piece
			continue
		}
		if counter.Count(current+piece) > maxInputTokens {
			flush()
			current = piece
		} else {
			current += piece
		}
	}
	flush()

	return segments, nil
}

// hardCut slices text into maxInputTokens-sized segments at raw token
// boundaries.
func hardCut(text string, maxInputTokens int, counter tokenizer.Counter) []string {
	var segments []string
	rest := text
	for rest != "" && counter.Count(rest) > maxInputTokens {
		head, tail := counter.Cut(rest, maxInputTokens)
		if head == "" {
			// Counter refused to cut; emit the remainder rather than loop.
			head, tail = rest, ""
		}
		segments = append(segments, head)
		rest = tail
	}
	if rest != "" {
		segments = append(segments, rest)
	}
	return segments
}
