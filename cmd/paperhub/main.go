// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperhub CLI: fetch arXiv pages
// through racing relays and translate titles and abstracts with cached,
// fallback-ordered providers.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperhub/internal/logging"
	"github.com/pdiddy/paperhub/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials read from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger is the diagnostic logger configured from log.format and log.level.
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "paperhub",
	Short: "Fetch and translate generative recommendation papers from arXiv",
	Long: `paperhub retrieves arXiv search results through a race of relay endpoints
with a direct fallback, detects industry papers, and translates titles and
abstracts through an ordered list of providers with a persistent cache.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(os.Stderr, viper.GetString("log.format"), viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logger = log

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Info().Str("path", used).Msg("using config file")
		}

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Info().Strs("keys", s.Keys()).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperhub.yaml or ~/.config/paperhub/paperhub.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().String("cache-path", "", "translation cache database (empty keeps the cache in memory)")

	mustBind("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBind("cache.path", rootCmd.PersistentFlags().Lookup("cache-path"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperhub")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperhub"))
		}
	}

	viper.SetEnvPrefix("PAPERHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if asJSON, _ := rootCmd.PersistentFlags().GetBool("log-json"); asJSON {
		viper.Set("log.format", "json")
	}

	// A missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
