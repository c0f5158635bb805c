package main

import (
	"fmt"

	"github.com/fleury/bibsite/internal/storage"
	"github.com/spf13/cobra"
)

var indexDB string

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexDB, "db", "publications.db", "Path to the SQLite index file")
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the SQLite publications index",
	Long: `Rebuild the SQLite publications index from the configured BibTeX file.

The .bib file stays the source of truth; the index is a disposable cache
for ad-hoc SQL queries (see "bibsite query").`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	records := mustBuildRecords(cfg)

	db, err := storage.Open(indexDB)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	if err := db.Rebuild(records); err != nil {
		exitWithError(ExitError, "rebuilding index: %v", err)
	}

	if humanOutput {
		fmt.Printf("Indexed %d publications in %s\n", len(records), indexDB)
		return nil
	}
	return outputJSON(StatusResponse{Status: "indexed", Path: indexDB, Count: len(records)})
}
