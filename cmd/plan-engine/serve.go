// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/plan-engine/internal/generate"
	"github.com/pdiddy/plan-engine/internal/secrets"
	"github.com/pdiddy/plan-engine/internal/server"
	"github.com/pdiddy/plan-engine/internal/store"
	"github.com/pdiddy/plan-engine/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser UI for plan generation",
	Long: `Serve starts an HTTP server with an embedded single-page UI: enter an
API key, start a run, watch per-section progress, then read, preview, or
download the finished plan. Completed plans are also recorded in the
history store.

The server itself may carry a configured API key; clients can always
supply their own, and --require-client-key refuses runs without one.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "HTTP listen address (default :8080)")
	serveCmd.Flags().Bool("require-client-key", false, "require each request to carry its own API key")
	serveCmd.Flags().String("sections", "", "YAML file overriding the built-in section table")
	serveCmd.Flags().String("state-dir", "state", "directory for the plan history database")
	serveCmd.Flags().Bool("no-save", false, "skip recording completed plans in the history store")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}
	if addr == "" {
		addr = ":8080"
	}
	requireClientKey, _ := cmd.Flags().GetBool("require-client-key")

	// The server can start without a key of its own: the UI collects one
	// per run. generationConfigFromFlags errors on a missing key, so
	// resolve the optional pieces directly here.
	gen := types.GenerationConfig{
		AIConfig: types.AIConfig{
			Provider:     types.Provider(viper.GetString("generation.provider")),
			Model:        viper.GetString("generation.model"),
			APIKey:       viper.GetString("generation.api_key"),
			BaseURL:      viper.GetString("generation.base_url"),
			MaxTokens:    viper.GetInt("generation.max_tokens"),
			Temperature:  viper.GetFloat64("generation.temperature"),
			MaxRevisions: viper.GetInt("generation.max_revisions"),
		},
	}
	if gen.Provider == "" {
		gen.Provider = types.ProviderOpenAI
	}
	if gen.Model == "" {
		gen.Model = defaultModel
	}
	if gen.APIKey == "" {
		gen.APIKey = loadedSecrets[secrets.ForProvider(string(gen.Provider))]
	}

	var specs []types.SectionSpec
	if sectionsFile, _ := cmd.Flags().GetString("sections"); sectionsFile != "" {
		loaded, err := generate.LoadSections(sectionsFile)
		if err != nil {
			return err
		}
		specs = loaded
	}

	var plans *store.Store
	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		stateDir, _ := cmd.Flags().GetString("state-dir")
		st, err := store.New(types.StoreConfig{StateDir: stateDir})
		if err != nil {
			return err
		}
		defer st.Close()
		plans = st
	}

	srv := server.New(types.ServerConfig{
		Addr:             addr,
		RequireClientKey: requireClientKey,
	}, gen, specs, plans)

	fmt.Fprintf(os.Stderr, "Serving plan-engine UI on %s\n", addr)
	return http.ListenAndServe(addr, srv.Routes())
}
