package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/dataset"
	httpadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-heatmap/internal/adapter/svg"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "heatmap",
		Short:        "Global land-surface temperature heat-map",
		Long:         "Fetches the monthly land-surface temperature dataset and renders it as a year x month heat-map.",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the heat-map over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Load the dataset once and write the heat-map to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("out")
			input, _ := cmd.Flags().GetString("input")
			format, _ := cmd.Flags().GetString("format")
			return render(cmd.Context(), out, input, format)
		},
	}
	renderCmd.Flags().StringP("out", "o", "", "output path (default stdout)")
	renderCmd.Flags().StringP("input", "i", "", "local dataset JSON (overrides DATASET_URL and DATASET_FILE)")
	renderCmd.Flags().StringP("format", "f", "svg", "output format (svg, json)")

	rootCmd.AddCommand(serveCmd, renderCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newPipeline builds the pipeline shared by both commands.
func newPipeline(cfg *config.Config, loader pipeline.SnapshotLoader, logger *slog.Logger, metrics *observability.Metrics) (*pipeline.Pipeline, error) {
	palette, err := config.LoadPalette(cfg.LegendFile)
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}

	var source pipeline.DatasetSource
	if cfg.DatasetFile != "" {
		source = dataset.NewFileSource(cfg.DatasetFile)
	} else {
		source = dataset.NewClient(cfg.DatasetURL, cfg.FetchTimeout, logger)
	}

	opts := pipeline.Options{
		Layout:        heatmap.DefaultLayout().WithSize(cfg.CanvasWidth, cfg.CanvasHeight),
		Palette:       palette,
		SkipMalformed: cfg.SkipMalformed,
		CacheSize:     cfg.RenderCacheSize,
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("canvas: %w", err)
	}

	return pipeline.New(source, loader, opts, logger, metrics), nil
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var writer *kafkaadapter.Writer
	var loader pipeline.SnapshotLoader
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka cell sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka cell sink disabled")
	}

	p, err := newPipeline(cfg, loader, logger, metrics)
	if err != nil {
		return err
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p.Layout(), metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// One-shot load; on failure the server keeps answering 503 until restart.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func render(ctx context.Context, out, input, format string) error {
	if format != "svg" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if input != "" {
		cfg.DatasetFile = input
	}

	logger := observability.NewLogger(cfg)
	p, err := newPipeline(cfg, nil, logger, observability.NewMetrics())
	if err != nil {
		return err
	}
	if err := p.Run(ctx); err != nil {
		return err
	}
	snap, err := p.Snapshot()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(snap)
	} else {
		err = svg.Render(w, snap)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	logger.Info("heat-map rendered", "format", format, "cells", len(snap.Cells), "out", out)
	return nil
}
