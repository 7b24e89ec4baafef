package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/logging"
)

// commandContext carries the persistent flags shared by every subcommand.
type commandContext struct {
	configFlag string
	prefsFlag  string
	envFlag    string
}

// loadConfig reads the env file, then the config file, then applies --prefs.
func (c *commandContext) loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(c.envFlag); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(c.configFlag)
	if err != nil {
		return config.Config{}, err
	}
	if p := strings.TrimSpace(c.prefsFlag); p != "" {
		cfg.PrefsPath = p
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	var poll bool
	var headless bool
	var logStderr bool

	rootCmd := &cobra.Command{
		Use:           "marquee",
		Short:         "Now-playing kiosk display",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if poll {
				cfg.Transport = config.TransportPoll
			}

			out := os.Stderr
			if !logStderr {
				f, err := logging.OpenFile(cfg.LogFile)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				out = f
			}
			logger := logging.New(out, cfg.LogLevel)
			log.SetDefault(logger)

			return app.Run(cmd.Context(), app.Options{
				Config:   cfg,
				Logger:   logger,
				Headless: headless,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", fmt.Sprintf("Configuration file path (default %s)", config.DefaultPath()))
	rootCmd.PersistentFlags().StringVar(&ctx.prefsFlag, "prefs", "", "Preference file path (overrides prefs_path)")
	rootCmd.PersistentFlags().StringVar(&ctx.envFlag, "env-file", ".env", "Optional file with MARQUEE_* overrides")
	rootCmd.Flags().BoolVar(&poll, "poll", false, "Poll the backend instead of subscribing to pushes")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Log surface updates instead of drawing the kiosk")
	rootCmd.Flags().BoolVar(&logStderr, "log-stderr", false, "Write logs to stderr instead of the log file")

	rootCmd.AddCommand(newSnapshotCommand(ctx))
	rootCmd.AddCommand(newPrefsCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
