package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/infra/historystore"
	"github.com/aalvaropc/wallclock/internal/infra/logger"
	"github.com/aalvaropc/wallclock/internal/infra/ruletable"
	"github.com/aalvaropc/wallclock/internal/infra/systemzone"
	"github.com/aalvaropc/wallclock/internal/infra/tzif"
	"github.com/aalvaropc/wallclock/internal/infra/workspacefinder"
	"github.com/aalvaropc/wallclock/internal/infra/yamlbatch"
	"github.com/aalvaropc/wallclock/internal/infra/zonechain"
	"github.com/aalvaropc/wallclock/internal/ports"
	"github.com/aalvaropc/wallclock/internal/usecase"
)

const defaultZoneinfoDir = "/usr/share/zoneinfo"

var locator ports.WorkspaceLocator = workspacefinder.NewFinder()

type workspaceCtx struct {
	// root is empty when the command runs outside a workspace.
	root string
	cfg  domain.Config

	source     ports.ZoneRuleSource
	sourceName string

	batches ports.BatchLoader
	store   ports.HistoryStore

	log *slog.Logger
}

// loadWorkspace reads wallclock.yaml when a workspace is found and builds the
// zone source. Conversions work without a workspace; requireRoot is for
// commands that only make sense inside one.
func loadWorkspace(g *globalOpts, requireRoot bool) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(g.workspace)
	if err != nil && requireRoot {
		return nil, err
	}

	cfg := domain.DefaultConfig()
	if root != "" {
		cfg, err = workspacefinder.LoadConfig(root)
		if err != nil {
			return nil, err
		}
	}
	if g.source.k != "" {
		cfg.Source.Kind = g.source.k
	}
	if strings.TrimSpace(g.zoneinfo) != "" {
		cfg.Source.ZoneinfoDir = g.zoneinfo
		if g.source.k == "" {
			cfg.Source.Kind = domain.SourceTZif
		}
	}

	src, err := buildSource(cfg, root)
	if err != nil {
		return nil, err
	}

	ws := &workspaceCtx{
		root:       root,
		cfg:        cfg,
		source:     src,
		sourceName: string(cfg.Source.Kind),
		batches:    yamlbatch.NewLoader(yamlbatch.WithBatchesDir(cfg.Paths.BatchesDir)),
		log:        logger.L(),
	}
	if root != "" && cfg.History.Enabled {
		ws.store = historystore.NewJSONStore(root, cfg, historystore.WithIndex(true))
	}

	ws.log.Debug("workspace.loaded", "root", root, "source", ws.sourceName)
	return ws, nil
}

func (ws *workspaceCtx) converter(policy domain.Policy) *usecase.Converter {
	if policy == "" {
		policy = ws.cfg.Defaults.Policy
	}
	return usecase.NewConverter(ws.source,
		usecase.WithPolicy(policy),
		usecase.WithMaxIterations(ws.cfg.Converter.MaxIterations),
		usecase.WithLogger(ws.log),
	)
}

func (ws *workspaceCtx) renderer() *usecase.Renderer {
	return usecase.NewRenderer(ws.source)
}

func (ws *workspaceCtx) zone(flag string) domain.ZoneID {
	if z := strings.TrimSpace(flag); z != "" {
		return domain.ZoneID(z)
	}
	return ws.cfg.Defaults.Zone
}

func (ws *workspaceCtx) display(v displayValue) domain.DisplayFormat {
	if v.f != "" {
		return v.f
	}
	return ws.cfg.Defaults.Display
}

// buildSource wires the zone rule source named by cfg.Source.Kind. Relative
// paths are taken from the workspace root.
func buildSource(cfg domain.Config, root string) (ports.ZoneRuleSource, error) {
	zoneinfo := cfg.Source.ZoneinfoDir
	if zoneinfo == "" {
		zoneinfo = defaultZoneinfoDir
	}

	switch cfg.Source.Kind {
	case domain.SourceSystem, "":
		return systemzone.New(), nil

	case domain.SourceTZif:
		return tzif.New(inRoot(root, zoneinfo)), nil

	case domain.SourceRules:
		if strings.TrimSpace(cfg.Source.RulesFile) == "" {
			return nil, &domain.OpError{
				Op:   "cli.source",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("source rules needs source.rules_file: %w", domain.ErrInvalidConfig),
			}
		}
		return ruletable.Open(inRoot(root, cfg.Source.RulesFile))

	case domain.SourceChain:
		var links []zonechain.Link
		if strings.TrimSpace(cfg.Source.RulesFile) != "" {
			rules, err := ruletable.Open(inRoot(root, cfg.Source.RulesFile))
			if err != nil {
				return nil, err
			}
			links = append(links, zonechain.Link{Name: ruletable.Name, Source: rules})
		}
		if cfg.Source.ZoneinfoDir != "" {
			links = append(links, zonechain.Link{Name: tzif.Name, Source: tzif.New(inRoot(root, zoneinfo))})
		}
		links = append(links, zonechain.Link{Name: systemzone.Name, Source: systemzone.New()})
		return zonechain.New(links...), nil

	default:
		return nil, &domain.OpError{
			Op:   "cli.source",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unknown source %q: %w", cfg.Source.Kind, domain.ErrInvalidConfig),
		}
	}
}

func inRoot(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `wallclock init`): %w", wd, err)
	}
	return root, nil
}

// resolveBatchPath accepts a path, a file name under the batches directory,
// a bare name ("demo" for demo.yaml) or a batch's declared name.
func resolveBatchPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("batch is required (use --batch or -b)")
	}

	if looksLikePath(in) || ws.root == "" {
		p := in
		if !filepath.IsAbs(p) && ws.root != "" {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	batchesDir := inRoot(ws.root, ws.cfg.Paths.BatchesDir)

	if hasYAMLExt(in) {
		p := filepath.Join(batchesDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(batchesDir, in+ext)
		if fileExists(p) {
			return p, nil
		}
	}

	refs, err := ws.batches.ListBatches(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", &domain.OpError{
		Op:   "cli.batch",
		Kind: domain.KindNotFound,
		Path: batchesDir,
		Err:  fmt.Errorf("batch %q: %w", in, domain.ErrNotFound),
	}
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
