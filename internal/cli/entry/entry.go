package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/peakydash/internal/cli/dashcmd"
	"github.com/regenrek/peakydash/internal/cli/root"
	"github.com/regenrek/peakydash/internal/cli/version"
	"github.com/regenrek/peakydash/internal/identity"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/logging"
	"github.com/regenrek/peakydash/internal/telemetry"
)

// Run starts the CLI and returns the process exit code.
func Run(args []string, version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, root.DefaultDependencies(version))
}

func run(ctx context.Context, args []string, deps root.Dependencies) int {
	appName := identity.CLIName
	configPath := root.ConfigPathFromArgs(args)
	if configPath == "" {
		if p, err := layout.DefaultConfigPath(); err == nil && p != "" {
			if err := layout.EnsureDefaultGlobalConfig(p); err != nil {
				fmt.Fprintf(deps.Stderr, "%s: init config: %v\n", appName, err)
				return 1
			}
			configPath = p
		}
	}
	cfg, err := layout.LoadConfigOrDefault(configPath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "%s: load config: %v\n", appName, err)
		return 1
	}
	deps.Config = cfg
	deps.ConfigPath = configPath

	mode := logging.ModeFromArgs(args)
	closeLogger, err := logging.Init(cfg.Logging, logging.InitOptions{
		App:     identity.AppSlug,
		Version: deps.Version,
		Mode:    mode,
	})
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
		slog.Error("init logging failed; using stderr fallback", slog.Any("err", err))
	} else if closeLogger != nil {
		defer func() { _ = closeLogger() }()
	}
	deps.Logger = slog.Default()

	shutdown, err := telemetry.Setup(ctx, deps.Version)
	if err != nil {
		slog.Warn("telemetry disabled", slog.Any("err", err))
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("telemetry shutdown failed", slog.Any("err", err))
			}
		}()
	}

	reg := root.NewRegistry()
	if err := errors.Join(dashcmd.Register(reg), version.Register(reg)); err != nil {
		fmt.Fprintf(deps.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	runner, err := root.NewRunner(deps, reg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	if err := runner.Run(ctx, args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(deps.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}
