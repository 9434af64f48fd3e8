// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/plan-engine/internal/generate"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Print the section table the generator works from",
	Long: `Sections prints the plan structure: each section name and the key
points its generated text must mention. Without --file this is the
built-in eight-section table.`,
	RunE: runSections,
}

func init() {
	sectionsCmd.Flags().String("file", "", "print a custom sections YAML file instead of the built-in table")
	sectionsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	specs := generate.DefaultSections()
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		loaded, err := generate.LoadSections(file)
		if err != nil {
			return err
		}
		specs = loaded
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(specs)
	}

	for i, s := range specs {
		fmt.Printf("%d. %s\n   %s\n", i+1, s.Name, strings.Join(s.Criteria, ", "))
	}
	return nil
}
