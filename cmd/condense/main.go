package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/localrivet/condense"
	"github.com/localrivet/condense/internal/config"
	"github.com/localrivet/condense/internal/logger"
	"github.com/localrivet/condense/internal/source"
)

// costPerThousandTokens is a rough input-token price used for the
// pre-run cost estimate.
const costPerThousandTokens = 0.001

func main() {
	appLogger := setupLogging()

	var (
		configPath  = flag.String("config", config.DefaultConfigFilename, "path to the config file")
		docURL      = flag.String("url", "", "URL of a plain-text document to condense")
		docFile     = flag.String("file", "", "path of a local document to condense")
		targetSize  = flag.Int("target", 0, "single target summary size in tokens (0 runs all configured sizes plus synthesis)")
		skipConfirm = flag.Bool("yes", false, "skip the cost-estimate confirmation prompt")
		mcpMode     = flag.Bool("mcp", false, "run as an MCP tool server over stdio")
		healthCheck = flag.Bool("health", false, "probe the provider and print a health report")
	)
	flag.Parse()

	appLogger.Info("Condense - Starting...")

	cfg, err := config.LoadConfigWithPath(*configPath)
	if err != nil {
		logger.LogError(err)
		appLogger.Fatal("Failed to load configuration")
	}

	// Configure logging based on config
	if cfg.Logging.Level != "" {
		appLogger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	}
	if cfg.Logging.Format == "json" {
		appLogger.SetFormat(logger.JSON)
	}

	pipeline, err := condense.NewPipeline(condense.PipelineOptions{Config: cfg})
	if err != nil {
		logger.LogError(err)
		appLogger.Fatal("Failed to initialize condense pipeline")
	}
	defer pipeline.Close()

	setupSignalHandler(pipeline, appLogger)

	if *healthCheck {
		report, err := pipeline.Health(context.Background())
		if err != nil {
			logger.LogError(err)
			appLogger.Fatal("Health check failed")
		}
		fmt.Println(report)
		return
	}

	if *mcpMode {
		appLogger.Info("Starting MCP server...")
		if err := pipeline.Serve(); err != nil {
			err = logger.APIError(err, "MCP server failed")
			logger.LogError(err)
			appLogger.Fatal("Failed to start MCP server")
		}
		return
	}

	text, err := loadDocument(*docURL, *docFile)
	if err != nil {
		logger.LogError(err)
		appLogger.Fatal("Failed to load document")
	}

	tokens := pipeline.Counter().Count(text)
	estimate := float64(tokens) * costPerThousandTokens / 1000
	fmt.Printf("Document is %d tokens. Estimated input cost: $%.4f\n", tokens, estimate)

	if !*skipConfirm {
		fmt.Print("Press enter to continue, or Ctrl-C to abort: ")
		bufio.NewReader(os.Stdin).ReadString('\n')
	}

	ctx := context.Background()

	if *targetSize > 0 {
		summary, err := pipeline.Run(ctx, text, *targetSize)
		if err != nil {
			logger.LogError(err)
			appLogger.Fatal("Summarization failed")
		}
		fmt.Println(summary)
	} else {
		summaries, err := pipeline.RunTargets(ctx, text)
		if err != nil {
			logger.LogError(err)
			appLogger.Fatal("Summarization failed")
		}

		final, err := pipeline.SynthesizeBest(ctx, summaries)
		if err != nil {
			logger.LogError(err)
			appLogger.Fatal("Synthesis failed")
		}
		fmt.Println(final)
	}

	usage := pipeline.Usage()
	appLogger.Info("Token usage: prompt=%d completion=%d total=%d",
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

// setupLogging configures and returns the application logger
func setupLogging() *logger.Logger {
	config := logger.DefaultConfig()

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		config.Level = logger.ParseLevel(levelStr)
	}

	appLogger := logger.New(config)
	logger.SetDefaultLogger(appLogger)

	return appLogger
}

// loadDocument reads the document text from a URL or a local file.
// Gutenberg banner stripping is a no-op for documents without banners.
func loadDocument(docURL, docFile string) (string, error) {
	switch {
	case docURL != "":
		text, err := source.Fetch(context.Background(), docURL)
		if err != nil {
			return "", err
		}
		return source.StripGutenbergBoilerplate(text), nil
	case docFile != "":
		data, err := os.ReadFile(docFile)
		if err != nil {
			return "", logger.ConfigError(err, "failed to read document file")
		}
		return strings.ReplaceAll(string(data), "\r", ""), nil
	default:
		return "", logger.ConfigError(
			fmt.Errorf("no document given"),
			"one of -url or -file is required (or use -mcp)")
	}
}

// setupSignalHandler sets up a signal handler for graceful shutdown.
func setupSignalHandler(pipeline *condense.Pipeline, log *logger.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Received shutdown signal, terminating gracefully...")

		if err := pipeline.Close(); err != nil {
			err = logger.DatabaseError(err, "Error closing pipeline during shutdown")
			logger.LogError(err)
		} else {
			log.Info("Shutdown complete")
		}
		os.Exit(0)
	}()
}
