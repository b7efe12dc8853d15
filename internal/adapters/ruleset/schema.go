package ruleset

// fileDTO is the on-disk shape of a rule base, grounded on the teacher's
// Bobfile/TaskDTO split: one YAML document, a map of named rule entries.
type fileDTO struct {
	Version string            `yaml:"version"`
	Rules   map[string]ruleDTO `yaml:"rules"`
}

// ruleDTO captures one rule entry. At most one of Command, Hardcoded or
// CopyFrom is set (the loader rejects more than one); a rule with none of
// them is a pure dependency grouping.
type ruleDTO struct {
	Targets      []string    `yaml:"targets"`
	Transients   []string    `yaml:"transients"`
	Dependencies []depDTO    `yaml:"dependencies"`
	Command      string      `yaml:"command"`
	Hardcoded    string      `yaml:"hardcoded"`
	CopyFrom     string      `yaml:"copyFrom"`
	InputFrom    string      `yaml:"inputFrom"`
	OutputTo     string      `yaml:"outputTo"`
}

// depDTO is one dependency entry. Target names a file dependency, Transient
// names a transient one; Variable, if set, binds the dependency's file
// content to that environment variable name ($[name] in the original
// grammar). Dynamic wraps the dependency one level deeper, reading its
// built content as a further list of dependencies once it exists. Group
// names several file targets written as one token group ("a b c" in the
// original grammar): they decode into a single domain.ConcatenatedDependency
// instead of several separate dependency entries, and cannot be combined
// with Target/Transient/Dynamic.
type depDTO struct {
	Target    string   `yaml:"target"`
	Transient string   `yaml:"transient"`
	Group     []string `yaml:"group"`
	Variable  string   `yaml:"variable"`
	Dynamic   bool     `yaml:"dynamic"`
	Flags     []string `yaml:"flags"`
}
