package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/infra/config"
	"github.com/aalvaropc/wallclock/internal/infra/ruletable"
	"github.com/aalvaropc/wallclock/internal/infra/workspacefinder"
	"github.com/aalvaropc/wallclock/internal/ports"
)

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

func TestInitializer_Init_CreatesWorkspaceFiles(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	assertFileExists(t, filepath.Join(tmp, "wallclock.yaml"))
	assertFileExists(t, filepath.Join(tmp, "batches", "demo.yaml"))
	assertFileExists(t, filepath.Join(tmp, "zones", "custom.yaml"))
	assertFileExists(t, filepath.Join(tmp, ".gitignore"))

	for _, d := range []string{"history", filepath.Join(".wallclock", "logs")} {
		info, err := os.Stat(filepath.Join(tmp, d))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", d, err)
		}
	}
}

func TestInitializer_Init_TemplatesAreValid(t *testing.T) {
	tmp := t.TempDir()
	if err := NewInitializer().Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	cfg, err := workspacefinder.LoadConfig(tmp)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Source.Kind != domain.SourceChain || cfg.Source.RulesFile != "zones/custom.yaml" {
		t.Fatalf("unexpected source config %+v", cfg.Source)
	}

	batch, err := config.LoadBatch(filepath.Join(tmp, "batches", "demo.yaml"))
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if batch.Name != "Demo" || len(batch.Entries) != 6 {
		t.Fatalf("unexpected demo batch %+v", batch)
	}

	zones, err := ruletable.Load(filepath.Join(tmp, "zones", "custom.yaml"))
	if err != nil {
		t.Fatalf("ruletable.Load: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 custom zones, got %d", len(zones))
	}
}

func TestInitializer_Init_SkipsExistingFilesUnlessForce(t *testing.T) {
	tmp := t.TempDir()

	cfgPath := filepath.Join(tmp, "wallclock.yaml")
	if err := os.WriteFile(cfgPath, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing wallclock.yaml: %v", err)
	}

	i := NewInitializer()

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init (force=false) error: %v", err)
	}

	b, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read wallclock.yaml: %v", err)
	}
	if string(b) != "custom\n" {
		t.Fatalf("expected wallclock.yaml preserved, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, true); err != nil {
		t.Fatalf("Init (force=true) error: %v", err)
	}

	b, err = os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read wallclock.yaml after force: %v", err)
	}
	if !strings.Contains(string(b), "wallclock:") {
		t.Fatalf("expected wallclock.yaml overwritten with template, got %q", string(b))
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s, stat err=%v", path, err)
	}
}
