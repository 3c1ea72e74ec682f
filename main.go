package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/dskvich/claim-analyzer/pkg/converter"
	"github.com/dskvich/claim-analyzer/pkg/domain"
	"github.com/dskvich/claim-analyzer/pkg/logger"
	"github.com/dskvich/claim-analyzer/pkg/openai"
	"github.com/dskvich/claim-analyzer/pkg/repository"
	"github.com/dskvich/claim-analyzer/pkg/services"
	"github.com/dskvich/claim-analyzer/pkg/web"
	"github.com/dskvich/claim-analyzer/pkg/workers"
)

type Config struct {
	OpenAIToken          string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL        string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAITimeout        time.Duration `env:"OPENAI_TIMEOUT" envDefault:"2m"`
	HTTPAddr             string        `env:"HTTP_ADDR" envDefault:":8501"`
	HTTPShutdownTimeout  time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HTTPBodyLimit        string        `env:"HTTP_BODY_LIMIT" envDefault:"64M"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
	DefaultModel         string        `env:"DEFAULT_MODEL" envDefault:"gpt-4"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"debug"`
	LogNoColor           bool          `env:"LOG_NO_COLOR" envDefault:"false"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("loading config", logger.Err(err))
		os.Exit(1)
	}

	opts := *logger.DefaultOptions
	opts.Level = logger.ParseLevel(cfg.LogLevel)
	opts.NoColor = cfg.LogNoColor
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))

	if err := runMain(cfg); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

// loadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	if !lo.Contains(domain.SupportedModels, cfg.DefaultModel) {
		return nil, &domain.ConfigurationError{
			Setting: "DEFAULT_MODEL",
			Err:     fmt.Errorf("%w: %q", domain.ErrUnsupportedModel, cfg.DefaultModel),
		}
	}

	if cfg.SessionSweepInterval <= 0 {
		return nil, &domain.ConfigurationError{
			Setting: "SESSION_SWEEP_INTERVAL",
			Err:     fmt.Errorf("must be positive, got %s", cfg.SessionSweepInterval),
		}
	}

	return cfg, nil
}

func runMain(cfg *Config) error {
	workerGroup, err := setupWorkers(cfg)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers(cfg *Config) (workers.Group, error) {
	if cfg.OpenAIToken == "" {
		slog.Warn("OPENAI_API_KEY is not set, analyses will fail until it is configured")
	}

	openAIClient := openai.NewClient(openai.Config{
		Token:   cfg.OpenAIToken,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OpenAITimeout,
		Models:  domain.SupportedModels,
	})

	claimService := services.NewClaimService(
		&converter.PDFToText{},
		openAIClient,
		cfg.DefaultModel,
	)

	sessionRepository := repository.NewSessionRepository(cfg.SessionTTL)

	server, err := web.NewServer(claimService, sessionRepository, web.Config{
		Models:       domain.SupportedModels,
		DefaultModel: cfg.DefaultModel,
		SessionTTL:   cfg.SessionTTL,
		BodyLimit:    cfg.HTTPBodyLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("creating web server: %w", err)
	}

	workerGroup := workers.Group{
		workers.NewHTTPServer(server, cfg.HTTPAddr, cfg.HTTPShutdownTimeout),
	}
	if cfg.SessionTTL > 0 {
		workerGroup = append(workerGroup, workers.NewSessionSweeper(sessionRepository, cfg.SessionSweepInterval))
	}

	return workerGroup, nil
}
