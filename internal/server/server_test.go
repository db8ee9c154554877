package server

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/localrivet/condense/internal/budget"
	"github.com/localrivet/condense/internal/telemetry"
	"github.com/localrivet/condense/internal/tokenizer"
	"github.com/localrivet/condense/internal/tools"
)

// fakeSummarizer implements summarizer.Summarizer with scripted results.
type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, _ budget.Parameters, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func (f *fakeSummarizer) Synthesize(_ context.Context, _ []string, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func newTestServer(engine *fakeSummarizer) *MCPCondenseToolServer {
	return NewCondenseToolServer(Options{
		Engine:      engine,
		Counter:     tokenizer.NewEstimator(),
		Usage:       telemetry.NewUsageAccumulator(),
		Metrics:     telemetry.NewMetricsCollector(),
		ContextSize: 16000,
		Boundary:    ".",
		Model:       "test-model",
	})
}

func TestInitializeRequiresDependencies(t *testing.T) {
	s := NewCondenseToolServer(Options{})
	if err := s.Initialize(); err == nil {
		t.Fatal("Expected error for missing dependencies")
	}
}

func TestStartRequiresInitialize(t *testing.T) {
	s := newTestServer(&fakeSummarizer{})
	if err := s.Start(); err == nil {
		t.Fatal("Expected error starting an uninitialized server")
	}
}

func TestHandleCondenseText(t *testing.T) {
	engine := &fakeSummarizer{summary: "a condensed summary"}
	s := newTestServer(engine)

	req := tools.CondenseTextRequest{
		Text:       strings.Repeat("the document body goes on and on. ", 20),
		TargetSize: 300,
	}
	resp, err := s.handleCondenseText(nil, req)
	if err != nil {
		t.Fatalf("handleCondenseText returned error: %v", err)
	}

	if resp.Status != "success" {
		t.Fatalf("Status = %q (%s), want success", resp.Status, resp.Error)
	}
	if resp.Summary != "a condensed summary" {
		t.Errorf("Summary = %q", resp.Summary)
	}
	if resp.InputTokens <= 0 || resp.SummaryTokens <= 0 {
		t.Errorf("Token counts not reported: input=%d summary=%d", resp.InputTokens, resp.SummaryTokens)
	}
	if engine.calls != 1 {
		t.Errorf("Engine called %d times, want 1", engine.calls)
	}
}

func TestHandleCondenseTextDefaultsTargetSize(t *testing.T) {
	engine := &fakeSummarizer{summary: "s"}
	s := newTestServer(engine)

	resp, err := s.handleCondenseText(nil, tools.CondenseTextRequest{Text: "some text"})
	if err != nil {
		t.Fatalf("handleCondenseText returned error: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("Status = %q (%s), want success with default target size", resp.Status, resp.Error)
	}
}

func TestHandleCondenseTextReportsBudgetError(t *testing.T) {
	engine := &fakeSummarizer{summary: "s"}
	s := NewCondenseToolServer(Options{
		Engine:      engine,
		Counter:     tokenizer.NewEstimator(),
		ContextSize: 10, // far too small for any target
		Boundary:    ".",
		Model:       "test-model",
	})

	resp, err := s.handleCondenseText(nil, tools.CondenseTextRequest{Text: "some text", TargetSize: 500})
	if err != nil {
		t.Fatalf("handleCondenseText returned error: %v", err)
	}
	if resp.Status != "error" || resp.Error == "" {
		t.Errorf("Expected error status with message, got %q (%s)", resp.Status, resp.Error)
	}
	if engine.calls != 0 {
		t.Error("Engine must not be called when the budget is invalid")
	}
}

func TestHandleCondenseTextReportsEngineFailure(t *testing.T) {
	engine := &fakeSummarizer{err: errors.New("provider exploded")}
	s := newTestServer(engine)

	resp, err := s.handleCondenseText(nil, tools.CondenseTextRequest{Text: "some text", TargetSize: 300})
	if err != nil {
		t.Fatalf("handleCondenseText returned error: %v", err)
	}
	if resp.Status != "error" || !strings.Contains(resp.Error, "provider exploded") {
		t.Errorf("Expected engine failure surfaced in response, got %q (%s)", resp.Status, resp.Error)
	}
}

func TestHandleCondenseUsage(t *testing.T) {
	engine := &fakeSummarizer{summary: "s"}
	s := newTestServer(engine)
	s.opts.Usage.Add(100, 40, 140)

	resp, err := s.handleCondenseUsage(nil, tools.CondenseUsageRequest{})
	if err != nil {
		t.Fatalf("handleCondenseUsage returned error: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("Status = %q, want success", resp.Status)
	}
	if resp.PromptTokens != 100 || resp.CompletionTokens != 40 || resp.TotalTokens != 140 {
		t.Errorf("Usage = %d/%d/%d, want 100/40/140", resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)
	}
	if resp.Report == "" {
		t.Error("Expected a metrics report")
	}
}
