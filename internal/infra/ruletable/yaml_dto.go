package ruletable

type yamlTable struct {
	Zones []yamlZone `yaml:"zones"`
}

// yamlZone is either a bare POSIX rule, or an initial offset followed by
// explicit transitions, optionally continued by a POSIX rule.
type yamlZone struct {
	ID          string           `yaml:"id"`
	POSIX       string           `yaml:"posix"`
	Initial     *yamlOffset      `yaml:"initial"`
	Transitions []yamlTransition `yaml:"transitions"`
}

type yamlOffset struct {
	Offset string `yaml:"offset"`
	Abbr   string `yaml:"abbr"`
	DST    bool   `yaml:"dst"`
}

type yamlTransition struct {
	At         string `yaml:"at"`
	yamlOffset `yaml:",inline"`
}
