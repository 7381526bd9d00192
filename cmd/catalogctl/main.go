package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"catalog-matcher/internal/config"
	"catalog-matcher/internal/engine"
)

var (
	cfg    config.Config
	logger zerolog.Logger
	eng    *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Match order-list products to catalog images",
	Long:  "Indexes image folders, resolves product names from an order list to image files and writes the automation data file.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		flags := cmd.Flags()
		if v, _ := flags.GetString("settings"); v != "" {
			cfg.SettingsFile = v
		}
		if v, _ := flags.GetString("mappings"); v != "" {
			cfg.MappingsFile = v
		}
		if v, _ := flags.GetString("log-level"); v != "" {
			cfg.LogLevel = v
		}
		if v, _ := flags.GetString("automation-dir"); v != "" {
			cfg.AutomationDir = v
		}
		logger = config.SetupLogger(cfg)

		eng = engine.New(engine.Options{
			SettingsFile:  cfg.SettingsFile,
			MappingsFile:  cfg.MappingsFile,
			AutomationDir: cfg.AutomationDir,
			Logger:        logger,
		})
		return nil
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("settings", "", "engine settings file (JSON)")
	pf.String("mappings", "", "learned mappings file (JSON)")
	pf.String("automation-dir", "", "directory of the automation data file")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
