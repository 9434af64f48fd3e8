// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the plan-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/plan-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup. Only key
// names are ever printed; values stay in memory.
var loadedSecrets map[string]string

// rootCmd is the base command for the plan-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "plan-engine",
	Short: "AI-driven business plan drafting with per-section validation",
	Long: `plan-engine drafts the eight standard sections of a business plan with a
text-generation model, checks each draft for the section's key points, and
re-prompts the model until the points are covered or the revision ceiling
is reached.

Run "plan-engine generate" for a one-shot terminal run, "plan-engine serve"
for the browser UI, and "plan-engine history" to revisit stored plans.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./plan-engine.yaml or ~/.config/plan-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("plan-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "plan-engine"))
		}
	}

	viper.SetEnvPrefix("PLAN_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
