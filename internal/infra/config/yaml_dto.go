package config

// YAMLBatch is the on-disk shape of a batch file.
type YAMLBatch struct {
	Name    string      `yaml:"name"`
	Zone    string      `yaml:"zone"`
	Entries []YAMLEntry `yaml:"entries"`
}

// YAMLEntry names exactly one of Resolve (a civil reading) or Render (an instant).
type YAMLEntry struct {
	Name    string `yaml:"name"`
	Zone    string `yaml:"zone"`
	Resolve string `yaml:"resolve"`
	Render  string `yaml:"render"`
	Policy  string `yaml:"policy"`
	Display string `yaml:"display"`
}
