package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pivolan/analysis_server/config"
	"github.com/pivolan/analysis_server/plot"
)

var markdown bool

func main() {
	rootCmd := &cobra.Command{
		Use:           "analysis-server",
		Short:         "Analyze uploaded CSV, JSON and Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (and the Telegram bot when TG_TOKEN is set)",
		Args:  cobra.NoArgs,
		RunE:  runServer,
	}
	analyzeCmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a local file and print the report",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().BoolVar(&markdown, "markdown", false, "print tables as markdown")

	rootCmd.AddCommand(serveCmd, analyzeCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	storage  *Storage
	analyzer *Analyzer
}

func newApp() (*app, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	storage, err := NewStorage(cfg.UploadDir, cfg.ChartDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare storage: %w", err)
	}

	opts := plot.Options{
		ChartDir: storage.ChartDir(),
		HTML:     cfg.ChartHTML,
		Logger:   logger.With().Str("component", "charts").Logger(),
	}
	if cfg.ChartFontPath != "" {
		font, err := plot.LoadFont(cfg.ChartFontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load chart font: %w", err)
		}
		opts.Font = font
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		storage:  storage,
		analyzer: NewAnalyzer(storage, plot.NewSelector(opts)),
	}, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(a.logger.WithContext(cmd.Context()))
	defer cancel()

	if a.cfg.FileTTL > 0 {
		go a.sweep(ctx)
	}
	if a.cfg.TelegramEnabled() {
		bot, err := NewTelegramBot(a.cfg.TgToken, a.analyzer, a.storage, a.cfg.MaxUploadBytes(), a.logger)
		if err != nil {
			return err
		}
		go func() {
			if err := bot.Run(ctx); err != nil {
				a.logger.Error().Err(err).Msg("telegram bot stopped")
			}
		}()
	}

	api := NewWebAPI(Config{
		Addr:            a.cfg.HTTPAddr,
		ShutdownTimeout: a.cfg.ShutdownTimeout,
		AllowedOrigins:  a.cfg.AllowedOrigins,
		MaxUploadBytes:  a.cfg.MaxUploadBytes(),
		Dependencies: Dependencies{
			Analyzer: a.analyzer,
			Storage:  a.storage,
			Logger:   a.logger,
		},
	})
	return api.Start()
}

func (a *app) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.storage.RemoveOlderThan(time.Now().Add(-a.cfg.FileTTL))
			if err != nil {
				a.logger.Error().Err(err).Msg("removing old files failed")
			}
			if n > 0 {
				a.logger.Info().Int("removed", n).Msg("old files removed")
			}
		}
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	report, err := a.analyzer.Analyze(a.logger.WithContext(cmd.Context()), filepath.Base(args[0]), raw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file_id: %s\n\n%s\n\n", report.FileID, report.Summary)
	if markdown {
		fmt.Fprintln(out, GenerateTableMarkdown(report.Statistics))
	} else {
		fmt.Fprintln(out, GenerateTable(report.Statistics))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, GenerateChartsTable(report.Charts, markdown))
	return nil
}
