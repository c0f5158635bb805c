package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fleury/bibsite/internal/generator"
	"github.com/fleury/bibsite/internal/publist"
	"github.com/spf13/cobra"
)

var buildOut string

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildOut, "out", "", "Write the list to a file instead of stdout")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the publications list",
	Long: `Build the publications list from the configured BibTeX file.

Runs a generation pass with the publications plugin registered and writes
the resulting list as JSON, ready for the template stage.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	gen := generator.New(cfg.Settings())
	publist.Register(gen)
	gen.SignalInit()

	pubs, ok := gen.Context[publist.ContextKey].([]publist.Record)
	if !ok {
		// Nothing published: either publications_src is unset or the
		// plugin skipped the run (a warning was already logged).
		exitWithError(ExitConfigError, "no publications were produced; check publications_src in %s", configPath)
	}

	out := buildOut
	if out == "" {
		out = cfg.Output
	}
	if out == "" {
		return outputJSON(pubs)
	}

	data, err := json.MarshalIndent(pubs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding publications: %w", err)
	}
	if err := os.WriteFile(out, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	if humanOutput {
		fmt.Printf("Wrote %d publications to %s\n", len(pubs), out)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: out, Count: len(pubs)})
	}
	return nil
}
