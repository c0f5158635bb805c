// Package main provides the bibsite CLI entry point.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the site config file, settable with --config
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibsite",
	Short: "Publications page builder for static sites",
	Long: `bibsite turns a BibTeX bibliography into the formatted publications
list a static site's templates render.

It parses the configured .bib file, classifies and formats each entry,
and emits one record per publication with its citation text, BibTeX
source, and links (pdf, slides, poster, doi). Commands output JSON by
default for easy piping into template pipelines and other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env may carry BIBSITE_* overrides
		_ = godotenv.Load()

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "bibsite.yml", "Path to the site config file")
	rootCmd.Version = Version
}
