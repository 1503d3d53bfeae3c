package cli

import (
	"context"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/ktop/internal/config"
	"github.com/rileyhilliard/ktop/internal/errors"
	"github.com/rileyhilliard/ktop/internal/event"
	"github.com/rileyhilliard/ktop/internal/gitstatus"
	"github.com/rileyhilliard/ktop/internal/logger"
	"github.com/rileyhilliard/ktop/internal/monitor"
	"github.com/rileyhilliard/ktop/internal/queue"
	"github.com/rileyhilliard/ktop/internal/snapshot"
	"github.com/rileyhilliard/ktop/internal/source"
	"github.com/rileyhilliard/ktop/internal/sysinfo"
	"github.com/rileyhilliard/ktop/internal/terminal"
)

// dashboardCommand is the root command's implementation.
func dashboardCommand(cmd *cobra.Command) error {
	pipeline, log, err := setupLogging(true, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer pipeline.Close()

	cfg, res, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return runDashboard(ctx, cfg, res, pipeline.Notices, log)
}

// runDashboard takes over the terminal and runs until the user quits or
// ctx is cancelled.
func runDashboard(parent context.Context, cfg *config.Config, res config.Result, notices monitor.NoticeSource, log logger.Logger) error {
	guard, err := terminal.Acquire(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	return guard.Protect(func() error {
		ctx, cancel := context.WithCancel(parent)
		defer cancel()

		input, err := terminal.NewInput(os.Stdin)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrTerminal,
				"Cannot read keyboard input",
				"Run ktop from an interactive terminal")
		}
		input.Start()
		input.WatchResize(int(os.Stdout.Fd()))

		events := queue.New[event.Event]()
		snaps := queue.New[snapshot.Snapshot]()

		var wg sync.WaitGroup
		mux := event.NewMultiplexer(cfg.TickRate(), input.Events(), log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			mux.Run(ctx, events)
		}()

		sources := source.Spawn(ctx, source.Plan{
			Resources:    sysinfo.NewCollector(),
			Repos:        cfg.Git.Repos,
			RepoInterval: cfg.GitInterval(),
			RepoProvider: gitstatus.New(),
		}, snaps, log)

		dash := monitor.NewDashboard(monitor.Options{
			Renderer:     terminal.NewScreen(os.Stdout, int(os.Stdout.Fd())),
			Refresher:    sources,
			Notices:      notices,
			ConfigNotice: res.Notice(),
			ReposEnabled: sources.Has(source.RepositoriesName),
			Log:          log,
		})
		runErr := dash.Run(ctx, events, snaps)

		// Closed queues make every producer's next push fail, which is the
		// only way out for a source blocked in a slow probe.
		events.Close()
		snaps.Close()
		cancel()
		if err := input.Close(); err != nil {
			log.Debug("closing input: %v", err)
		}
		sources.Wait()
		wg.Wait()

		log.Info("dashboard stopped after %d frames", dash.Frames())
		return runErr
	})
}
