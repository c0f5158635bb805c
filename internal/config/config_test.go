package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fleury/bibsite/internal/publist"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	if err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if cfg.PublicationsSrc != "" {
		t.Errorf("missing file should yield empty config, got src=%q", cfg.PublicationsSrc)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	content := `publications_src: content/pubs.bib
asset_root: static
output: output/publications.json
deploy:
  host: web.example.edu
  remote_path: /var/www/site/publications.json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PublicationsSrc != "content/pubs.bib" {
		t.Errorf("PublicationsSrc = %q", cfg.PublicationsSrc)
	}
	if cfg.AssetRoot != "static" {
		t.Errorf("AssetRoot = %q", cfg.AssetRoot)
	}
	if cfg.Deploy.Host != "web.example.edu" {
		t.Errorf("Deploy.Host = %q", cfg.Deploy.Host)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(":\nnot yaml: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() on malformed YAML should return an error")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("publications_src: from-file.bib\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BIBSITE_PUBLICATIONS_SRC", "from-env.bib")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PublicationsSrc != "from-env.bib" {
		t.Errorf("env should win over file, got %q", cfg.PublicationsSrc)
	}
}

func TestSettings_SourceOnlyWhenConfigured(t *testing.T) {
	empty := &Config{}
	if _, ok := empty.Settings()[publist.SourceKey]; ok {
		t.Error("unset publications_src should not appear in settings")
	}

	cfg := &Config{PublicationsSrc: "pubs.bib"}
	if got := cfg.Settings()[publist.SourceKey]; got != "pubs.bib" {
		t.Errorf("settings[%s] = %v, want pubs.bib", publist.SourceKey, got)
	}
}
