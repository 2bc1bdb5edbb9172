package main

import (
	"github.com/pevans/ussdcodes/config"
	"github.com/pevans/ussdcodes/internal/logger"
	"github.com/pevans/ussdcodes/profile"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "ussdcodes",
	Short: "ussdcodes builds per-country datasets of USSD and MMI short codes.",
	Long: `ussdcodes scrapes operator, bank and utility websites for USSD and MMI
short codes, falls back to curated tables when a domain yields nothing, and
exports one JSON dataset per country.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default ./ussdcodes.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "log format: text, json")
}

// loadConfig reads the run configuration, applies any overrides collected
// from command flags and configures logging.
func loadConfig(cmd *cobra.Command, overrides map[string]any) (*config.Config, error) {
	if overrides == nil {
		overrides = make(map[string]any)
	}
	if cmd.Flags().Changed("log-level") {
		overrides["log.level"] = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		overrides["log.format"] = logFormat
	}

	cfg, err := config.Load(configPath, overrides)
	if err != nil {
		return nil, err
	}

	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadProfiles reads the built-in profiles plus any configured overrides.
func loadProfiles(cfg *config.Config) (*profile.Registry, error) {
	return profile.Load(cfg.Profiles.Dir)
}
