package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/fleury/bibsite/internal/storage"
	"github.com/spf13/cobra"
)

var queryDB string
var queryCSV bool

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryDB, "db", "publications.db", "Path to the SQLite index file")
	queryCmd.Flags().BoolVar(&queryCSV, "csv", false, "Output CSV instead of JSON")
}

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Query the publications index using SQL",
	Long: `Execute a SQL query against the SQLite publications index.

Run "bibsite index" first to build the index.

Examples:
  # Journal articles, newest first
  bibsite query "SELECT key, text FROM publications WHERE type_label = 'Journal Articles' ORDER BY year DESC"

  # Everything with a PDF
  bibsite query "SELECT key, pdf FROM publications WHERE pdf != ''" --csv`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(queryDB)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	cols, rows, err := db.Query(args[0])
	if err != nil {
		exitWithError(ExitDataError, "query failed: %v", err)
	}

	if queryCSV {
		return writeCSV(cols, rows)
	}

	if rows == nil {
		rows = []map[string]any{}
	}
	return outputJSON(rows)
}

func writeCSV(cols []string, rows []map[string]any) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(cols); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			if row[col] != nil {
				record[i] = fmt.Sprint(row[col])
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
