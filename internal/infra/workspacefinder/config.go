package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/wallclock/internal/domain"
)

// ConfigFile marks a workspace root.
const ConfigFile = "wallclock.yaml"

// LoadConfig loads wallclock.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if err := apply(&cfg, y); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return cfg, nil
}

// apply puts parsed values on top of defaults.
func apply(cfg *domain.Config, y yamlConfig) error {
	w := y.Wallclock

	if z := strings.TrimSpace(w.Defaults.Zone); z != "" {
		cfg.Defaults.Zone = domain.ZoneID(z)
	}
	if w.Defaults.Policy != "" {
		p, err := domain.ParsePolicy(w.Defaults.Policy)
		if err != nil {
			return fmt.Errorf("defaults.policy: %w", err)
		}
		cfg.Defaults.Policy = p
	}
	if w.Defaults.Display != "" {
		d, err := domain.ParseDisplayFormat(w.Defaults.Display)
		if err != nil {
			return fmt.Errorf("defaults.display: %w", err)
		}
		cfg.Defaults.Display = d
	}

	switch k := domain.SourceKind(strings.TrimSpace(w.Source.Kind)); k {
	case "":
	case domain.SourceSystem, domain.SourceTZif, domain.SourceRules, domain.SourceChain:
		cfg.Source.Kind = k
	default:
		return fmt.Errorf("source.kind: unknown source %q", k)
	}
	if w.Source.ZoneinfoDir != "" {
		cfg.Source.ZoneinfoDir = w.Source.ZoneinfoDir
	}
	if w.Source.RulesFile != "" {
		cfg.Source.RulesFile = w.Source.RulesFile
	}

	if w.Paths.BatchesDir != "" {
		cfg.Paths.BatchesDir = w.Paths.BatchesDir
	}
	if w.Paths.HistoryDir != "" {
		cfg.Paths.HistoryDir = w.Paths.HistoryDir
	}
	if w.History.Enabled != nil {
		cfg.History.Enabled = *w.History.Enabled
	}

	if len(w.Clock.Zones) > 0 {
		cfg.Clock.Zones = cfg.Clock.Zones[:0]
		for _, z := range w.Clock.Zones {
			if z = strings.TrimSpace(z); z != "" {
				cfg.Clock.Zones = append(cfg.Clock.Zones, domain.ZoneID(z))
			}
		}
	}

	if w.Converter.MaxIterations != nil {
		if *w.Converter.MaxIterations <= 0 {
			return fmt.Errorf("converter.max_iterations: must be positive, got %d", *w.Converter.MaxIterations)
		}
		cfg.Converter.MaxIterations = *w.Converter.MaxIterations
	}
	return nil
}

type yamlConfig struct {
	Wallclock struct {
		Defaults struct {
			Zone    string `yaml:"zone"`
			Policy  string `yaml:"policy"`
			Display string `yaml:"display"`
		} `yaml:"defaults"`

		Source struct {
			Kind        string `yaml:"kind"`
			ZoneinfoDir string `yaml:"zoneinfo_dir"`
			RulesFile   string `yaml:"rules_file"`
		} `yaml:"source"`

		Paths struct {
			BatchesDir string `yaml:"batches_dir"`
			HistoryDir string `yaml:"history_dir"`
		} `yaml:"paths"`

		History struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"history"`

		Clock struct {
			Zones []string `yaml:"zones"`
		} `yaml:"clock"`

		Converter struct {
			MaxIterations *int `yaml:"max_iterations"`
		} `yaml:"converter"`
	} `yaml:"wallclock"`
}
