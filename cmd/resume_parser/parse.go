package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/extractor"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/pipeline"
)

var (
	parseConfigPath string
	parseModel      string
	parseVerbose    bool
	parseSave       bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file> [file...]",
	Short: "Parse one or more resume files",
	Long:  `Parse extracts structured data from PDF or DOCX resumes. Multiple files are parsed concurrently, each as an independent run.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseConfigPath, "config", "", "Path to JSON config file")
	parseCmd.Flags().StringVar(&parseModel, "model", "", "Model identifier override")
	parseCmd.Flags().BoolVar(&parseVerbose, "verbose", false, "Print parsed records and debug logs")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Persist results to the database (requires DATABASE_URL)")
	rootCmd.AddCommand(parseCmd)
}

func buildConfig(configPath string) (config.Config, error) {
	cfg := *config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(parseConfigPath)
	if err != nil {
		return err
	}
	if parseModel != "" {
		cfg.Model = parseModel
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	logger := newLogger(parseVerbose)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	var store pipeline.ResultStore
	if parseSave {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("--save requires DATABASE_URL")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		store = database
	}

	records := parsing.NewStructuredExtractor(client, logger,
		parsing.WithMaxRetries(cfg.RetryCount()),
		parsing.WithRetryBaseDelay(time.Duration(cfg.RetryBaseDelaySeconds)*time.Second),
		parsing.WithCallTimeout(time.Duration(cfg.CallTimeoutSeconds)*time.Second))
	runner := pipeline.NewRunner(extractor.New(logger), records, store, logger,
		pipeline.WithChunkPolicy(cfg.ChunkThreshold, cfg.ChunkSize, cfg.Overlap()))

	results := make([]pipeline.Result, len(args))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range args {
		g.Go(func() error {
			results[i] = runner.Parse(gctx, pipeline.Request{
				Path:             path,
				OriginalFilename: filepath.Base(path),
			})
			return nil
		})
	}
	// Parse never returns an error; the group only propagates ctx cancellation
	_ = g.Wait()

	printer := observability.NewPrinter(os.Stdout)
	failed := 0
	for i, result := range results {
		if parseVerbose || !result.Success {
			printer.PrintResult(result)
		} else {
			fmt.Printf("%s: parsed (run %s)\n", args[i], result.CorrelationID)
		}
		if !result.Success {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(args))
	}
	return nil
}
