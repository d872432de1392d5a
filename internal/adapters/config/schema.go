package config

// Millfile represents the structure of the mill.yaml plan definition.
type Millfile struct {
	Version string            `yaml:"version"`
	Jobs    map[string]JobDTO `yaml:"jobs"`
}

// JobDTO represents one job definition in the configuration.
type JobDTO struct {
	Kind    string            `yaml:"kind"`
	Primary string            `yaml:"primary"`
	Cmd     []string          `yaml:"cmd"`
	Outputs map[string]string `yaml:"outputs"`
	Inputs  []string          `yaml:"inputs"`
	// Condition overrides the record-derived condition when set.
	Condition        string            `yaml:"condition"`
	Env              map[string]string `yaml:"env"`
	PreserveOnSignal bool              `yaml:"preserveOnSignal"`
}
