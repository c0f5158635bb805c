package main

import (
	"fmt"
	"os"

	"github.com/fleury/bibsite/internal/assets"
	"github.com/fleury/bibsite/internal/linkcheck"
	"github.com/fleury/bibsite/internal/publist"
	"github.com/spf13/cobra"
)

var checkLinks bool

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkLinks, "links", false, "Also verify http(s) links (url, doi, remote assets)")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the bibliography and its assets",
	Long: `Verify the bibliography: duplicate citation keys, missing local
pdf/slides/poster files, and DOI mismatches between entries and their PDFs.

With --links, remote urls and DOI resolution are verified too (rate-limited).`,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status       string             `json:"status"`
	Publications int                `json:"publications"`
	Duplicates   []string           `json:"duplicate_keys"`
	AssetIssues  []assets.Issue     `json:"asset_issues"`
	LinkFailures []linkcheck.Result `json:"link_failures,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	records := mustBuildRecords(cfg)

	result := CheckResult{
		Publications: len(records),
		Duplicates:   duplicateKeys(records),
		AssetIssues:  assets.Check(cfg.AssetRoot, records),
	}

	if checkLinks {
		checker := linkcheck.NewChecker()
		for _, r := range checker.CheckAll(cmd.Context(), linkcheck.CollectLinks(records)) {
			if !r.OK {
				result.LinkFailures = append(result.LinkFailures, r)
			}
		}
	}

	result.Status = "ok"
	if len(result.Duplicates) > 0 || len(result.AssetIssues) > 0 || len(result.LinkFailures) > 0 {
		result.Status = "issues"
	}

	// Empty arrays, not null, for stable JSON consumers
	if result.Duplicates == nil {
		result.Duplicates = []string{}
	}
	if result.AssetIssues == nil {
		result.AssetIssues = []assets.Issue{}
	}

	if humanOutput {
		printCheckHuman(result)
	} else if err := outputJSON(result); err != nil {
		return err
	}

	if result.Status != "ok" {
		os.Exit(ExitDataError)
	}
	return nil
}

// duplicateKeys returns citation keys appearing more than once, in first
// occurrence order.
func duplicateKeys(records []publist.Record) []string {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Key]++
	}

	var dups []string
	seen := make(map[string]bool)
	for _, r := range records {
		if counts[r.Key] > 1 && !seen[r.Key] {
			seen[r.Key] = true
			dups = append(dups, r.Key)
		}
	}
	return dups
}

func printCheckHuman(result CheckResult) {
	if result.Status == "ok" {
		fmt.Printf("Bibliography check: OK\n\n%d publications checked\n", result.Publications)
		return
	}

	fmt.Printf("Bibliography check: issues found\n\n")
	for _, key := range result.Duplicates {
		fmt.Printf("  [WARN] Duplicate citation key %s\n", key)
	}
	for _, issue := range result.AssetIssues {
		switch issue.Type {
		case "missing_file":
			fmt.Printf("  [WARN] Missing file for %s: %s\n", issue.Key, issue.Path)
		case "doi_mismatch":
			fmt.Printf("  [WARN] DOI mismatch for %s: entry has %s, PDF has %s\n",
				issue.Key, issue.Want, issue.Got)
		}
	}
	for _, link := range result.LinkFailures {
		if link.Error != "" {
			fmt.Printf("  [WARN] Unreachable link %s: %s\n", link.URL, link.Error)
		} else {
			fmt.Printf("  [WARN] Broken link %s (HTTP %d)\n", link.URL, link.Status)
		}
	}
	fmt.Printf("\n%d publications checked\n", result.Publications)
}
