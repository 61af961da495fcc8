package main

import (
	"fmt"

	"github.com/martinemde/amrviz/config"
	"github.com/martinemde/amrviz/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "amrviz",
	Short:        "AMR graph converter",
	Long:         "amrviz converts AMR text in PENMAN notation into node/edge graphs for network visualization.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("mode", "m", "heuristic", "Conversion mode: heuristic or nested")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug output")
	rootCmd.PersistentFlags().String("env-file", ".env", "Load environment variables from this file if it exists")

	_ = viper.BindPFlag(config.KeyMode, rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		cobra.CheckErr(err)
	}
	config.SetDefaults(viper.GetViper())
	config.Bind(viper.GetViper())
}

// loadConfig reads the merged flag, environment and default settings.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// newLogger builds the process logger. --debug forces debug level with
// console output.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}
