package domain

// Config represents the wallclock configuration loaded from wallclock.yaml.
type Config struct {
	Defaults  DefaultsConfig
	Source    SourceConfig
	Paths     PathsConfig
	History   HistoryConfig
	Clock     ClockConfig
	Converter ConverterConfig
}

type DefaultsConfig struct {
	Zone    ZoneID
	Policy  Policy
	Display DisplayFormat
}

// SourceKind names a ZoneRuleSource implementation.
type SourceKind string

const (
	SourceSystem SourceKind = "system"
	SourceTZif   SourceKind = "tzif"
	SourceRules  SourceKind = "rules"
	SourceChain  SourceKind = "chain"
)

type SourceConfig struct {
	Kind        SourceKind
	ZoneinfoDir string
	RulesFile   string
}

type PathsConfig struct {
	BatchesDir string
	HistoryDir string
}

type HistoryConfig struct {
	Enabled bool
}

type ClockConfig struct {
	Zones []ZoneID
}

type ConverterConfig struct {
	MaxIterations int
}

// DefaultConfig provides sane defaults if wallclock.yaml is partially missing.
func DefaultConfig() Config {
	zones := make([]ZoneID, len(CommonZones))
	copy(zones, CommonZones)

	return Config{
		Defaults: DefaultsConfig{
			Zone:    UTC,
			Policy:  PolicyEarlier,
			Display: DisplayDateTime,
		},
		Source: SourceConfig{
			Kind: SourceSystem,
		},
		Paths: PathsConfig{
			BatchesDir: "batches",
			HistoryDir: "history",
		},
		History: HistoryConfig{Enabled: true},
		Clock:   ClockConfig{Zones: zones},
		Converter: ConverterConfig{
			MaxIterations: 10,
		},
	}
}

// WorkspaceSpec describes where a workspace is initialized.
type WorkspaceSpec struct {
	Root string
}
