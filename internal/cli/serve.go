package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/handora/gamesapi/internal/adapters/openai"
	adapterotel "github.com/handora/gamesapi/internal/adapters/otel"
	"github.com/handora/gamesapi/internal/adapters/turso"
	"github.com/handora/gamesapi/internal/domain"
	"github.com/handora/gamesapi/internal/infrastructure/config"
	"github.com/handora/gamesapi/internal/migrate"
	"github.com/handora/gamesapi/internal/ports"
	"github.com/handora/gamesapi/internal/store"
	"github.com/handora/gamesapi/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the games API server",
	Long: `Start the games API server.

Examples:
  handora serve              # Listen on the configured port (default 8080)
  handora serve --port 3000  # Listen on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides HANDORA_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	policy, err := domain.ParseScoringPolicy(cfg.Server.ScoringPolicy)
	if err != nil {
		return fmt.Errorf("invalid scoring policy %q: %w", cfg.Server.ScoringPolicy, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The remote datastore is a best-effort mirror: an absent credential or
	// an unreachable database degrades to the in-memory store alone.
	var repo ports.SessionRepository
	if cfg.Database.URL == "" {
		logger.Info("no database configured, running in-memory only")
	} else {
		db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
		if err != nil {
			logger.Warn("remote store unreachable, running in-memory only", "error", err)
		} else {
			defer db.Close()
			if err := migrate.RunAll(ctx, db); err != nil {
				logger.Warn("migrations failed, remote mirror may reject writes", "error", err)
			}
			repo = turso.NewSessionRepository(db)
		}
	}

	var metrics ports.MetricsExporter
	if exporter, err := adapterotel.NewExporter(ctx, adapterotel.Config{
		Enabled:  cfg.OTel.Enabled,
		Endpoint: cfg.OTel.Endpoint,
		Insecure: cfg.OTel.Insecure,
	}); err != nil {
		if cfg.OTel.Enabled {
			logger.Warn("metrics exporter disabled", "error", err)
		}
		metrics = adapterotel.NewNoOpExporter()
	} else {
		metrics = exporter
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Close(closeCtx); err != nil {
			logger.Error("metrics exporter close", "error", err)
		}
	}()

	analyzer := openai.NewClient(openai.Config{
		APIKey:       cfg.OpenAI.APIKey,
		Model:        cfg.OpenAI.Model,
		ResponsesURL: cfg.OpenAI.ResponsesURL,
		Timeout:      cfg.OpenAI.Timeout,
	})

	sessions := store.New(store.Options{
		Repo:          repo,
		Metrics:       metrics,
		Logger:        logger.With("component", "store"),
		Policy:        policy,
		MirrorTimeout: cfg.Server.MirrorTimeout,
	})

	server := web.NewServer(web.Config{
		Port:       cfg.Server.Port,
		CORSOrigin: cfg.Server.CORSOrigin,
	}, sessions, analyzer, metrics, logger.With("component", "http"))

	return server.Start(ctx)
}
