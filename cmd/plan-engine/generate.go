// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/plan-engine/internal/export"
	"github.com/pdiddy/plan-engine/internal/generate"
	"github.com/pdiddy/plan-engine/internal/secrets"
	"github.com/pdiddy/plan-engine/internal/store"
	"github.com/pdiddy/plan-engine/pkg/types"
)

const defaultModel = "gpt-4o-mini"

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a business plan section by section",
	Long: `Generate drafts each business-plan section with the configured model,
validates the draft against the section's key points, and re-prompts the
model (up to the revision ceiling) while points are missing. The finished
plan is written to the output directory and recorded in the history store.

Sections that still miss points after the ceiling are kept as-is and
flagged in the progress output; that is an accepted degraded outcome, not
a failure.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("provider", "", "backend: openai or claude (default openai)")
	generateCmd.Flags().String("model", "", "model identifier (default "+defaultModel+")")
	generateCmd.Flags().String("api-key", "", "API key (overrides config and .secrets/)")
	generateCmd.Flags().String("base-url", "", "OpenAI-compatible endpoint override")
	generateCmd.Flags().String("topic", "", "business idea to ground the plan in")
	generateCmd.Flags().String("sections", "", "YAML file overriding the built-in section table")
	generateCmd.Flags().String("output-dir", "output/plans", "directory for the generated plan files")
	generateCmd.Flags().Int("max-revisions", 0, "corrective re-prompts per section (default 3)")
	generateCmd.Flags().String("state-dir", "state", "directory for the plan history database")
	generateCmd.Flags().Bool("no-save", false, "skip recording the plan in the history store")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	gen, err := generationConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	specs := generate.DefaultSections()
	if gen.SectionsFile != "" {
		specs, err = generate.LoadSections(gen.SectionsFile)
		if err != nil {
			return err
		}
	}

	backend, err := generate.NewBackend(gen.AIConfig)
	if err != nil {
		return err
	}

	g, err := generate.NewGenerator(backend, gen, generate.WriterReporter{W: os.Stdout})
	if err != nil {
		return err
	}

	topic, _ := cmd.Flags().GetString("topic")
	plan, err := g.GeneratePlan(cmd.Context(), specs, topic)
	if err != nil {
		return err
	}

	if err := writePlanFiles(gen.OutputDir, plan); err != nil {
		return err
	}

	noSave, _ := cmd.Flags().GetBool("no-save")
	if !noSave {
		stateDir, _ := cmd.Flags().GetString("state-dir")
		st, err := store.New(types.StoreConfig{StateDir: stateDir})
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Save(cmd.Context(), plan); err != nil {
			return fmt.Errorf("saving plan to history: %w", err)
		}
	}

	fmt.Printf("\nGenerated %d sections (%d fully satisfied). Plan ID: %s\n",
		len(plan.Sections), plan.ValidCount(), plan.ID)
	return nil
}

// generationConfigFromFlags resolves generation settings with the usual
// precedence: flag, then config file, then .secrets/ for the API key.
func generationConfigFromFlags(cmd *cobra.Command) (types.GenerationConfig, error) {
	provider, _ := cmd.Flags().GetString("provider")
	if provider == "" {
		provider = viper.GetString("generation.provider")
	}
	if provider == "" {
		provider = string(types.ProviderOpenAI)
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("generation.model")
	}
	if model == "" {
		model = defaultModel
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("generation.api_key")
	}
	if apiKey == "" {
		apiKey = loadedSecrets[secrets.ForProvider(provider)]
	}
	if apiKey == "" {
		return types.GenerationConfig{}, fmt.Errorf(
			"no API key: pass --api-key, set generation.api_key, or create .secrets/%s",
			secrets.ForProvider(provider))
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("generation.base_url")
	}

	maxRev, _ := cmd.Flags().GetInt("max-revisions")
	if maxRev == 0 {
		maxRev = viper.GetInt("generation.max_revisions")
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	sectionsFile, _ := cmd.Flags().GetString("sections")
	if sectionsFile == "" {
		sectionsFile = viper.GetString("generation.sections_file")
	}

	return types.GenerationConfig{
		AIConfig: types.AIConfig{
			Provider:     types.Provider(provider),
			Model:        model,
			APIKey:       apiKey,
			BaseURL:      baseURL,
			MaxTokens:    viper.GetInt("generation.max_tokens"),
			Temperature:  viper.GetFloat64("generation.temperature"),
			MaxRevisions: maxRev,
		},
		OutputDir:    outputDir,
		SectionsFile: sectionsFile,
	}, nil
}

// writePlanFiles writes the plain-text and Markdown renderings of the
// plan into outputDir, named by plan ID.
func writePlanFiles(outputDir string, plan *types.BusinessPlan) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	txtPath := filepath.Join(outputDir, plan.ID+".txt")
	if err := os.WriteFile(txtPath, []byte(export.Text(plan)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", txtPath, err)
	}

	mdPath := filepath.Join(outputDir, plan.ID+".md")
	if err := os.WriteFile(mdPath, []byte(export.Markdown(plan)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mdPath, err)
	}

	fmt.Printf("Wrote %s and %s\n", txtPath, mdPath)
	return nil
}
