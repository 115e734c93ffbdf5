// Package main provides the stratagem binary entry point.
// Stratagem is an LLM-backed business strategy advisor: it turns a
// submitted business context into a prioritized strategy plan and
// per-action elaborations over an HTTP JSON API or a one-shot CLI run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	// Register LLM providers via init()
	_ "github.com/stratagem-io/stratagem/llm/providers"

	"github.com/spf13/cobra"

	"github.com/stratagem-io/stratagem/advisor"
	"github.com/stratagem-io/stratagem/briefs"
	"github.com/stratagem-io/stratagem/config"
	"github.com/stratagem-io/stratagem/intel"
	"github.com/stratagem-io/stratagem/llm"
	"github.com/stratagem-io/stratagem/server"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "stratagem"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Business strategy advisor",
		Long: `Stratagem is a business strategy advisor backed by a completion model.

It turns a company profile and a free-text challenge into a structured
strategy plan, then elaborates the action you pick: implementation
roadmap, ROI projection, competitive analysis, risk assessment,
financial projections, and KPI framework.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(serveCmd(&configPath, &logLevel))
	cmd.AddCommand(analyzeCmd(&configPath, &logLevel))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func serveCmd(configPath, logLevel *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the advisory HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(*logLevel)

			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	engine, library, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	registry, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("build model allow-list: %w", err)
	}

	intelSvc := intel.NewService(cfg.Intel.Timeout, cfg.Intel.UserAgent, cfg.Intel.MaxContentSize)

	opts := []server.Option{
		server.WithIntel(intelSvc),
		server.WithLogger(logger),
	}
	if library != nil {
		opts = append(opts, server.WithBriefs(library))
	}

	srv := server.New(cfg.Server.Addr, engine, registry, opts...)

	logger.Info("Stratagem ready",
		"version", Version,
		"addr", cfg.Server.Addr,
		"default_model", registry.DefaultModel())

	return srv.Run(ctx)
}

func analyzeCmd(configPath, logLevel *string) *cobra.Command {
	var (
		company   string
		industry  string
		size      string
		challenge string
		focus     []string
		modelName string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a one-shot strategy analysis and print the plan as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(*logLevel)

			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			engine, _, err := buildEngine(ctx, cfg, logger)
			if err != nil {
				return err
			}

			store := advisor.NewStore()
			session, err := store.Create(advisor.BusinessContext{
				Company:     company,
				Industry:    advisor.Industry(industry),
				CompanySize: advisor.CompanySize(size),
				Challenge:   challenge,
				FocusAreas:  focus,
				Model:       modelName,
			})
			if err != nil {
				return err
			}

			if _, err := engine.Analyze(ctx, session); err != nil {
				return err
			}

			out, err := json.MarshalIndent(session.Snapshot(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "Company name (required)")
	cmd.Flags().StringVar(&industry, "industry", "other", "Industry (saas, ecommerce, fintech, healthcare, manufacturing, retail, education, other)")
	cmd.Flags().StringVar(&size, "size", "small", "Company size (startup, small, medium, large, enterprise)")
	cmd.Flags().StringVar(&challenge, "challenge", "", "Business challenge to analyze (required)")
	cmd.Flags().StringSliceVar(&focus, "focus", nil, "Focus areas")
	cmd.Flags().StringVar(&modelName, "model", "", "Model name from the allow-list (empty = default)")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("challenge")

	return cmd
}

// buildEngine assembles the completion client, briefs library, and
// analysis engine from configuration. The returned library is nil when
// no briefs directory is configured.
func buildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*advisor.Engine, *briefs.Library, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, nil, fmt.Errorf("build model allow-list: %w", err)
	}

	clientOpts := []llm.ClientOption{
		llm.WithLogger(logger),
	}
	if cfg.Model.Timeout > 0 {
		clientOpts = append(clientOpts, llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}))
	}
	if cfg.Cache.Enabled {
		clientOpts = append(clientOpts, llm.WithCache(llm.NewCache(cfg.Cache.TTL)))
	}
	client := llm.NewClient(registry, clientOpts...)

	engineOpts := []advisor.EngineOption{
		advisor.WithEngineLogger(logger),
	}

	var library *briefs.Library
	if cfg.Briefs.Dir != "" {
		briefsCfg := briefs.DefaultConfig()
		briefsCfg.Dir = cfg.Briefs.Dir
		if len(cfg.Briefs.Include) > 0 {
			briefsCfg.Include = cfg.Briefs.Include
		}
		if cfg.Briefs.DebounceDelay > 0 {
			briefsCfg.DebounceDelay = cfg.Briefs.DebounceDelay
		}

		library, err = briefs.NewLibrary(briefsCfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("load briefs from %s: %w", cfg.Briefs.Dir, err)
		}

		watcher, err := briefs.NewWatcher(library)
		if err != nil {
			logger.Warn("Briefs watcher unavailable, documents load once", "error", err)
		} else {
			go watcher.Run(ctx)
		}

		engineOpts = append(engineOpts, advisor.WithBriefs(library))
	}

	return advisor.NewEngine(client, engineOpts...), library, nil
}

func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}

func setupLogging(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
