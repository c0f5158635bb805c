package main

import (
	"github.com/fleury/bibsite/internal/bib"
	"github.com/fleury/bibsite/internal/config"
	"github.com/fleury/bibsite/internal/publist"
)

// mustLoadConfig loads the site config, exiting on a malformed file.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustBuildRecords parses the configured bibliography and converts it to
// publication records, exiting on missing config or malformed input.
func mustBuildRecords(cfg *config.Config) []publist.Record {
	if cfg.PublicationsSrc == "" {
		exitWithError(ExitConfigError,
			"publications_src is not configured (set it in %s or BIBSITE_PUBLICATIONS_SRC)", configPath)
	}

	entries, err := bib.ParseFile(cfg.PublicationsSrc)
	if err != nil {
		exitWithError(ExitDataError, "%s: %v", cfg.PublicationsSrc, err)
	}

	return publist.Build(entries)
}
