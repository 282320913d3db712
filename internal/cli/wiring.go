package cli

import (
	"log/slog"

	"github.com/sharkusmanch/wrapped-runner/internal/app"
	"github.com/sharkusmanch/wrapped-runner/internal/backend"
	"github.com/sharkusmanch/wrapped-runner/internal/config"
	"github.com/sharkusmanch/wrapped-runner/internal/http"
	"github.com/sharkusmanch/wrapped-runner/internal/pathresolve"
	"github.com/sharkusmanch/wrapped-runner/internal/runserver"
)

func newDispatcher(cfg *config.Config, logger *slog.Logger) *backend.Dispatcher {
	opts := []backend.Option{
		backend.WithExecutable(cfg.Backend.Executable),
		backend.WithScript(cfg.Backend.Script),
		backend.WithInterpreter(cfg.Backend.Interpreter),
		backend.WithMaxWorkers(cfg.Backend.MaxWorkers),
		backend.WithLogger(logger),
	}
	if cfg.Backend.WorkDir != "" {
		opts = append(opts, backend.WithWorkDir(cfg.Backend.WorkDir))
	}
	return backend.NewDispatcher(opts...)
}

func newResolver(cfg *config.Config, logger *slog.Logger) *pathresolve.Resolver {
	return pathresolve.New(cfg.AppName,
		pathresolve.WithSystemRoot(cfg.SystemRoot),
		pathresolve.WithLogger(logger),
	)
}

func newCommands(cfg *config.Config, logger *slog.Logger) *app.Commands {
	return app.NewCommands(
		app.WithDispatcher(newDispatcher(cfg, logger)),
		app.WithResolver(newResolver(cfg, logger)),
		app.WithLogger(logger),
	)
}

func newRunServer(cfg *config.Config, logger *slog.Logger) *runserver.Server {
	return runserver.New(newDispatcher(cfg, logger),
		runserver.WithAddress(cfg.Server.Address),
		runserver.WithReadBufferSize(cfg.Server.ReadBufferSize),
		runserver.WithLogger(logger),
	)
}

func newRunClient(cfg *config.Config, retry http.RetryConfig, logger *slog.Logger) *http.RunClient {
	client := http.NewClient(
		http.WithRetryConfig(retry),
		http.WithLogger(logger),
	)
	return http.NewRunClient(cfg.Server.Address, client)
}

func retryFromConfig(cfg *config.Config) http.RetryConfig {
	return http.RetryConfig{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: cfg.Retry.InitialDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
	}
}
