// Package condense recursively summarizes large documents with an LLM
// provider, memoizing every upstream call in a persistent cache. It can
// be embedded as a library or run as an MCP tool server over stdio.
package condense

import (
	"context"
	"log/slog"

	"github.com/localrivet/condense/internal/budget"
	"github.com/localrivet/condense/internal/cachestore"
	"github.com/localrivet/condense/internal/config"
	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/server"
	"github.com/localrivet/condense/internal/summarizer"
	"github.com/localrivet/condense/internal/summarizer/providers"
	"github.com/localrivet/condense/internal/telemetry"
	"github.com/localrivet/condense/internal/tokenizer"
)

// Config represents the configuration for the condense service.
type Config = config.Config

// Pipeline wires the tokenizer, call cache, provider, and summarization
// engine together behind a small document-in, summary-out API.
type Pipeline struct {
	config     *config.Config
	cache      cachestore.CallCache
	counter    tokenizer.Counter
	engine     *summarizer.Engine
	toolServer server.CondenseToolServer
	logger     *slog.Logger
}

// PipelineOptions defines the options for creating a new Pipeline.
type PipelineOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.
}

// NewPipeline creates a new condense Pipeline with the given options.
// If opts.Config is provided, it will be used directly. Otherwise, if
// opts.ConfigPath is provided, configuration will be loaded from that
// path. If neither is provided, DefaultConfig() will be used.
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
		log.Info("Using provided Config object for pipeline initialization")
	} else if opts.ConfigPath != "" {
		log.Info("Loading configuration for pipeline initialization", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			log.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		log.Warn("No Config object or ConfigPath provided, using default configuration")
		cfg = DefaultConfig()
	}

	cache, counter, engine, err := CreateComponents(cfg, log)
	if err != nil {
		log.Error("Failed to create components during pipeline initialization", "error", err)
		return nil, err
	}

	log.Info("Initializing condense tool server component")
	mcpServer := server.NewCondenseToolServer(server.Options{
		Engine:      engine,
		Counter:     counter,
		Usage:       engine.Usage(),
		Metrics:     engine.Metrics(),
		ContextSize: cfg.Provider.ContextSize,
		Boundary:    cfg.Summary.Boundary,
		Model:       cfg.Provider.ModelID,
	})
	if err := mcpServer.Initialize(); err != nil {
		log.Error("Failed to initialize MCP condense tool server component", "error", err)
		return nil, errortypes.ConfigError(err, "Failed to initialize MCP condense tool server component")
	}

	log.Info("Condense pipeline successfully initialized")
	return &Pipeline{
		config:     cfg,
		cache:      cache,
		counter:    counter,
		engine:     engine,
		toolServer: mcpServer,
		logger:     log,
	}, nil
}

// DefaultConfig returns the default configuration for the condense service.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// CreateComponents creates and initializes the components of the condense
// service without creating a Pipeline instance. This is useful for callers
// that need direct access to the cache, token counter, and engine.
func CreateComponents(cfg *Config, log *slog.Logger) (cachestore.CallCache, tokenizer.Counter, *summarizer.Engine, error) {
	if log == nil {
		log = slog.Default()
	}

	// Initialize SQLite call cache
	log.Info("Initializing SQLite call cache", "path", cfg.Cache.SQLitePath)
	cache := cachestore.NewSQLiteCallCache()
	if err := cache.Initialize(cfg.Cache.SQLitePath); err != nil {
		log.Error("Failed to initialize SQLite call cache", "path", cfg.Cache.SQLitePath, "error", err)
		return nil, nil, nil, errortypes.DatabaseError(err, "Failed to initialize SQLite call cache")
	}

	// Initialize the token counter. The BPE vocabulary for the model is
	// fetched on first use; fall back to the estimator when unavailable.
	var counter tokenizer.Counter
	tk, err := tokenizer.New(cfg.Provider.ModelID)
	if err != nil {
		log.Warn("Tokenizer unavailable, falling back to character estimator",
			"model", cfg.Provider.ModelID, "error", err)
		counter = tokenizer.NewEstimator()
	} else {
		counter = tk
	}

	// Initialize the LLM provider
	log.Info("Initializing provider", "provider", cfg.Provider.Name)
	apiKey := providers.APIKeyFromEnv(cfg.Provider.Name)
	if apiKey == "" {
		log.Error("Missing API key for provider", "provider", cfg.Provider.Name)
		return nil, nil, nil, errortypes.ConfigError(
			errortypes.ErrMissingAPIKey,
			"no API key found in environment for provider "+cfg.Provider.Name)
	}

	factory := providers.NewProviderFactory(map[string]providers.Config{
		cfg.Provider.Name: {
			APIKey:  apiKey,
			ModelID: cfg.Provider.ModelID,
		},
	})
	provider, err := factory.GetProvider(cfg.Provider.Name)
	if err != nil {
		log.Error("Failed to create provider", "provider", cfg.Provider.Name, "error", err)
		return nil, nil, nil, err
	}

	engine, err := summarizer.NewEngine(summarizer.EngineConfig{
		Provider: provider,
		Counter:  counter,
		Cache:    cache,
	})
	if err != nil {
		log.Error("Failed to create summarization engine", "error", err)
		return nil, nil, nil, err
	}

	log.Info("Components successfully initialized")
	return cache, counter, engine, nil
}

// Run condenses text to at most targetSize tokens.
func (p *Pipeline) Run(ctx context.Context, text string, targetSize int) (string, error) {
	params, err := budget.Compute(targetSize, p.config.Provider.ContextSize, p.counter)
	if err != nil {
		return "", err
	}

	p.logger.Debug("Condensing text", "length", len(text), "target_size", targetSize)
	return p.engine.Summarize(ctx, text, params, p.config.Summary.Boundary, p.config.Provider.ModelID)
}

// RunTargets condenses text once per configured target size and returns
// the summaries in the same order as the sizes.
func (p *Pipeline) RunTargets(ctx context.Context, text string) ([]string, error) {
	sizes := p.config.Summary.TargetSizes
	if len(sizes) == 0 {
		sizes = config.DefaultTargetSizes
	}

	summaries := make([]string, 0, len(sizes))
	for _, size := range sizes {
		summary, err := p.Run(ctx, text, size)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SynthesizeBest asks the synthesis model to produce one improved summary
// from the candidate summaries.
func (p *Pipeline) SynthesizeBest(ctx context.Context, summaries []string) (string, error) {
	return p.engine.Synthesize(ctx, summaries, p.config.Provider.SynthesisModelID)
}

// Usage returns the cumulative token usage of all upstream calls made
// through this pipeline.
func (p *Pipeline) Usage() telemetry.Usage {
	return p.engine.Usage().Snapshot()
}

// Metrics returns the engine's metrics collector.
func (p *Pipeline) Metrics() *telemetry.MetricsCollector {
	return p.engine.Metrics()
}

// Counter returns the token counter used by the pipeline.
func (p *Pipeline) Counter() tokenizer.Counter {
	return p.counter
}

// Engine returns the summarization engine used by the pipeline.
func (p *Pipeline) Engine() *summarizer.Engine {
	return p.engine
}

// Health probes the provider and returns a JSON health report covering
// provider reachability, cache statistics, and token usage.
func (p *Pipeline) Health(ctx context.Context) (string, error) {
	return summarizer.CreateHealthReportJSON(ctx, p.engine)
}

// Serve runs the MCP tool server over stdio. It blocks until stdin
// is closed.
func (p *Pipeline) Serve() error {
	p.logger.Info("Starting condense MCP service")
	return p.toolServer.Start()
}

// Close stops the tool server and closes the call cache.
func (p *Pipeline) Close() error {
	p.logger.Info("Stopping condense service")
	if err := p.toolServer.Stop(); err != nil {
		p.logger.Error("Error stopping tool server", "error", err)
		return err
	}

	p.logger.Info("Closing call cache")
	if err := p.cache.Close(); err != nil {
		p.logger.Error("Failed to close call cache", "error", err)
		return err
	}

	p.logger.Info("Condense service stopped")
	return nil
}
