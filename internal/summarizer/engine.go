package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/localrivet/condense/internal/budget"
	"github.com/localrivet/condense/internal/cachestore"
	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/logger"
	"github.com/localrivet/condense/internal/prompt"
	"github.com/localrivet/condense/internal/retry"
	"github.com/localrivet/condense/internal/splitter"
	"github.com/localrivet/condense/internal/summarizer/providers"
	"github.com/localrivet/condense/internal/telemetry"
	"github.com/localrivet/condense/internal/tokenizer"
	"github.com/localrivet/condense/internal/util"
)

// Default settings
const (
	DefaultCallTimeout = 60 * time.Second

	// summaryJoiner separates per-segment summaries before they are
	// re-summarized as one text.
	summaryJoiner = "\n\n"
)

// Engine implements Summarizer. Execution is fully sequential: each
// recursive branch completes, including any retries, before its caller
// proceeds, so the cache never sees two in-flight writers for one key.
type Engine struct {
	provider providers.Provider
	counter  tokenizer.Counter
	cache    cachestore.CallCache
	retry    retry.Policy
	metrics  *telemetry.MetricsCollector
	usage    *telemetry.UsageAccumulator
	timeout  time.Duration
	log      *logger.Logger
}

// EngineConfig holds the collaborators for an Engine. Provider, Counter,
// and Cache are required; everything else has defaults.
type EngineConfig struct {
	Provider providers.Provider
	Counter  tokenizer.Counter
	Cache    cachestore.CallCache
	Retry    *retry.Policy
	Metrics  *telemetry.MetricsCollector
	Usage    *telemetry.UsageAccumulator
	Timeout  time.Duration
	Logger   *logger.Logger
}

// NewEngine creates an Engine from the given collaborators.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Provider == nil || cfg.Counter == nil || cfg.Cache == nil {
		return nil, errortypes.ConfigError(
			errors.New("provider, counter, and cache are required"),
			"cannot create summarization engine")
	}

	policy := retry.DefaultPolicy()
	if cfg.Retry != nil {
		policy = *cfg.Retry
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}
	usage := cfg.Usage
	if usage == nil {
		usage = telemetry.NewUsageAccumulator()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = logger.GetLogger("engine")
	}

	return &Engine{
		provider: cfg.Provider,
		counter:  cfg.Counter,
		cache:    cfg.Cache,
		retry:    policy,
		metrics:  metrics,
		usage:    usage,
		timeout:  timeout,
		log:      log,
	}, nil
}

// Metrics returns the engine's metrics collector.
func (e *Engine) Metrics() *telemetry.MetricsCollector {
	return e.metrics
}

// Usage returns the engine's token usage accumulator.
func (e *Engine) Usage() *telemetry.UsageAccumulator {
	return e.usage
}

// Summarize reduces text to at most params.TargetSummarySize tokens.
//
// Three terminal branches, decided by the token count of text:
// already within the target, returned unchanged; within the input budget,
// summarized with one call; otherwise split at the boundary character,
// each segment summarized recursively, and the joined result summarized
// again until it collapses into a single in-budget summary.
//
// Results are memoized under the full argument signature, so identical
// invocations never repeat a provider call, in this process or any later
// run sharing the cache.
func (e *Engine) Summarize(ctx context.Context, text string, params budget.Parameters, boundary, model string) (string, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordTimer(telemetry.MetricSummarizeTime, time.Since(start))
	}()

	key := util.CallKey("condense.summarize", model, boundary, params.String(), text)
	if cached, ok, err := e.cache.Get(key); err != nil {
		return "", errortypes.DatabaseError(err, "cache lookup failed")
	} else if ok {
		e.metrics.IncrementCounter(telemetry.MetricCacheHits, 1)
		return cached, nil
	}
	e.metrics.IncrementCounter(telemetry.MetricCacheMisses, 1)

	tokens := e.counter.Count(text)
	e.log.Info("Summarizing %d-token text: %s", tokens, preview(text, 60))

	var result string
	switch {
	case tokens <= params.TargetSummarySize:
		// Already short enough, no call needed.
		result = text

	case tokens <= params.SummaryInputSize:
		wrapped, err := e.callSummarize(ctx, text, params.TargetSummarySize, model)
		if err != nil {
			return "", err
		}
		result = StripDelimiters(wrapped)
		e.log.Info("Summarized %d-token text into %d-token summary: %s",
			tokens, e.counter.Count(result), preview(result, 250))

	default:
		segments, err := splitter.Split(text, params.SummaryInputSize, boundary, e.counter)
		if err != nil {
			return "", err
		}
		e.metrics.IncrementCounter(telemetry.MetricSplits, 1)
		e.metrics.IncrementCounter(telemetry.MetricSegments, int64(len(segments)))
		e.log.Info("Split %d-token text into %d segments", tokens, len(segments))

		summaries := make([]string, 0, len(segments))
		for _, segment := range segments {
			summary, err := e.Summarize(ctx, segment, params, boundary, model)
			if err != nil {
				return "", err
			}
			summaries = append(summaries, summary)
		}

		result, err = e.Summarize(ctx, strings.Join(summaries, summaryJoiner), params, boundary, model)
		if err != nil {
			return "", err
		}
	}

	if err := e.cache.Put(key, result); err != nil {
		return "", errortypes.DatabaseError(err, "cache write failed")
	}
	return result, nil
}

// callSummarize performs one external summarization call, memoized under
// its own argument signature and retried per the engine's policy. The
// cached and returned value is the raw completion bracketed by the
// distinguishing delimiters.
func (e *Engine) callSummarize(ctx context.Context, text string, targetSummarySize int, model string) (string, error) {
	key := util.CallKey("condense.call_summarize", model, strconv.Itoa(targetSummarySize), text)
	if cached, ok, err := e.cache.Get(key); err != nil {
		return "", errortypes.DatabaseError(err, "cache lookup failed")
	} else if ok {
		e.metrics.IncrementCounter(telemetry.MetricCacheHits, 1)
		return cached, nil
	}

	messages := prompt.SummarizationMessages(text, targetSummarySize)

	var content string
	attempts, err := e.retry.Do(func() error {
		e.metrics.IncrementCounter(telemetry.MetricProviderCalls, 1)

		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		callStart := time.Now()
		completion, callErr := e.provider.Complete(callCtx, model, messages)
		e.metrics.RecordTimer(telemetry.MetricResponseTime, time.Since(callStart))
		if callErr != nil {
			e.log.Warn("Summarization call failed: %v", callErr)
			return callErr
		}

		e.usage.Add(completion.PromptTokens, completion.CompletionTokens, completion.TotalTokens)
		content = completion.Content
		return nil
	})
	if attempts > 1 {
		e.metrics.IncrementCounter(telemetry.MetricRetryAttempts, int64(attempts-1))
	}
	if err != nil {
		e.metrics.IncrementCounter(telemetry.MetricCallFailure, 1)
		failure := errortypes.CallFailedError(err,
			fmt.Sprintf("summarization call failed after %d attempts", attempts)).
			WithField("attempts", attempts).
			WithField("provider", e.provider.Name())
		e.log.Error("Aborting summarization after %d attempts: %v", attempts, err)
		return "", failure
	}
	if attempts > 1 {
		e.metrics.IncrementCounter(telemetry.MetricRetrySuccess, 1)
	}
	e.metrics.IncrementCounter(telemetry.MetricCallSuccess, 1)

	wrapped := DelimOpen + content + DelimClose
	if err := e.cache.Put(key, wrapped); err != nil {
		return "", errortypes.DatabaseError(err, "cache write failed")
	}
	return wrapped, nil
}

// Synthesize merges independently produced summaries into a single best
// summary, using a higher-capability model than the recursive passes. The
// rendered prompt must fit within SynthesisPromptLimit tokens; violating
// that is fatal, not retryable. The call itself is made at most once per
// argument signature thanks to the shared cache, but is not retried.
func (e *Engine) Synthesize(ctx context.Context, summaries []string, model string) (string, error) {
	if len(summaries) == 0 {
		return "", errortypes.ValidationError(errors.New("no summaries to synthesize"), "cannot synthesize")
	}

	messages := prompt.SynthesisMessages(summaries)
	promptTokens := e.counter.CountMessages(messages)
	if promptTokens > SynthesisPromptLimit {
		return "", errortypes.PreconditionError(
			fmt.Errorf("synthesis prompt is %d tokens, limit is %d", promptTokens, SynthesisPromptLimit),
			"synthesis prompt over token limit")
	}

	keyArgs := append([]string{model}, summaries...)
	key := util.CallKey("condense.synthesize", keyArgs...)
	if cached, ok, err := e.cache.Get(key); err != nil {
		return "", errortypes.DatabaseError(err, "cache lookup failed")
	} else if ok {
		e.metrics.IncrementCounter(telemetry.MetricCacheHits, 1)
		return cached, nil
	}

	e.log.Info("Synthesizing %d summaries into a single summary", len(summaries))
	e.metrics.IncrementCounter(telemetry.MetricSynthesisCalls, 1)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	completion, err := e.provider.Complete(callCtx, model, messages)
	if err != nil {
		e.metrics.IncrementCounter(telemetry.MetricCallFailure, 1)
		failure := errortypes.CallFailedError(err, "synthesis call failed").
			WithField("provider", e.provider.Name())
		e.log.Error("Synthesis call failed: %v", err)
		return "", failure
	}
	e.metrics.IncrementCounter(telemetry.MetricCallSuccess, 1)
	e.usage.Add(completion.PromptTokens, completion.CompletionTokens, completion.TotalTokens)

	if err := e.cache.Put(key, completion.Content); err != nil {
		return "", errortypes.DatabaseError(err, "cache write failed")
	}
	return completion.Content, nil
}

// StripDelimiters removes the provider completion markers from s.
func StripDelimiters(s string) string {
	s = strings.ReplaceAll(s, DelimOpen, "")
	return strings.ReplaceAll(s, DelimClose, "")
}

// preview collapses whitespace and truncates text for progress logging.
func preview(text string, max int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= max {
		return collapsed
	}
	return string(runes[:max]) + "..."
}
