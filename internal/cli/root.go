// Package cli implements the sentinel command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/misinfoguard/sentinel/internal/config"
)

var (
	cfgFile        string
	generateConfig bool
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel - misinformation claim analysis service",
	Long: `Sentinel screens text for claim-worthy news content, extracts factual
claims, gathers external evidence, and issues verdicts with credibility-weighted
sources. It runs as an HTTP service or checks documents directly from the
command line.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateConfig {
			path := cfgFile
			if path == "" {
				path = "config.yaml"
			}
			if err := config.GenerateSample(path); err != nil {
				return fmt.Errorf("generating config: %w", err)
			}
			fmt.Printf("Sample configuration written to %s\n", path)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: config.yaml)")
	rootCmd.Flags().BoolVar(&generateConfig, "generate-config", false, "write a sample config file and exit")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sentinel v0.3.0")
	},
}

// loadConfig loads the config file and applies logging settings.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	var cfg *config.Config
	var err error
	if path == "" {
		if _, statErr := os.Stat("config.yaml"); statErr == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	setupLogging(cfg.Logging)
	return cfg, nil
}

func setupLogging(cfg config.Logging) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
