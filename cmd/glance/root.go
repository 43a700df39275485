// Package main provides the CLI entrypoint for glance.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/glance/internal/config"
	"github.com/jmylchreest/glance/internal/daemon"
	"github.com/jmylchreest/glance/internal/display"
	"github.com/jmylchreest/glance/internal/spawn"
)

const appID = "io.github.jmylchreest.glance"

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	logger     *slog.Logger
	globalOpts struct {
		verbose    bool
		configPath string
	}
)

// rootCmd runs the overlay when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "glance",
	Short: "Wayland dashboard overlay",
	Long: `glance is a dashboard overlay for Wayland compositors.

It shows a configurable tree of widgets - clock, calendar, battery,
backlight, audio mixer, application launcher - on a layer-shell surface
and redraws whenever any widget's backing data changes.

Running glance without a subcommand starts the overlay.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOverlay()
	},
}

// runOverlay wires the surface, the spawner, and the render loop, then
// hands the main thread to GTK.
func runOverlay() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	overlay := display.NewOverlay(cfg, logger)
	loop := daemon.New(cfg, overlay, spawn.New(logger), logger)
	overlay.SetCommands(loop.Commands())

	app := adw.NewApplication(appID, 0)
	app.ConnectActivate(func() {
		if err := overlay.Activate(&app.Application); err != nil {
			// No surface means nothing can ever render: the one
			// non-recoverable failure.
			logger.Error("failed to create overlay surface", "error", err)
			os.Exit(1)
		}

		go func() {
			if err := loop.Run(ctx); err != nil {
				logger.Error("render loop failed", "error", err)
			}
			overlay.Close()
			glib.IdleAdd(app.Quit)
		}()
	})

	logger.Info("starting glance", "version", version)
	if status := app.Run(nil); status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/glance/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func main() {
	Execute()
}
