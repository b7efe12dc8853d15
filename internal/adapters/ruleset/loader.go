// Package ruleset provides the YAML rule-base loader and the in-memory
// RuleSet store, grounded on the teacher's config.Load/FileConfigLoader
// split: one function parses a path into domain values, one small type
// wraps the parsed result for reuse during a single build.
package ruleset

import (
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.nomake.dev/nomake/internal/core/domain"
)

// FileLoader implements ports.ConfigLoader using a YAML rule-base file.
type FileLoader struct{}

// NewFileLoader returns a FileLoader.
func NewFileLoader() *FileLoader { return &FileLoader{} }

// Load reads the rule base at path and returns its rules in declaration
// order. Declaration order of a YAML mapping isn't preserved by
// gopkg.in/yaml.v3's map decoding, so Parse walks the rules mapping as a
// yaml.Node, in document order, rather than decoding straight into a Go map.
func (l *FileLoader) Load(path string) ([]*domain.Rule, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read rule base"), "path", path)
	}
	return Parse(path, data)
}

// Parse decodes raw YAML rule-base content into domain.Rule values.
func Parse(path string, data []byte) ([]*domain.Rule, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse rule base"), "path", path)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	var rulesNode *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "rules" {
			rulesNode = doc.Content[i+1]
			break
		}
	}
	if rulesNode == nil {
		return nil, nil
	}

	rules := make([]*domain.Rule, 0, len(rulesNode.Content)/2)
	for i := 0; i+1 < len(rulesNode.Content); i += 2 {
		name := rulesNode.Content[i].Value
		var dto ruleDTO
		if err := rulesNode.Content[i+1].Decode(&dto); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to decode rule"), "rule", name)
		}
		line := rulesNode.Content[i].Line
		rule, err := dto.toRule(path, line, name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (dto ruleDTO) toRule(path string, line int, name string) (*domain.Rule, error) {
	place := domain.NewFilePlace(path, line, 0)

	if len(dto.Targets) == 0 && len(dto.Transients) == 0 {
		return nil, zerr.With(zerr.With(domain.ErrParse, "rule", name), "reason", "rule has no targets")
	}

	targets := make([]domain.Target, 0, len(dto.Targets)+len(dto.Transients))
	for _, t := range dto.Targets {
		targets = append(targets, domain.NewFileTarget(t))
	}
	for _, t := range dto.Transients {
		targets = append(targets, domain.NewTransientTarget(t))
	}

	deps := make([]domain.Dependency, 0, len(dto.Dependencies))
	for _, d := range dto.Dependencies {
		dep, err := d.toDependency(place)
		if err != nil {
			return nil, zerr.With(err, "rule", name)
		}
		deps = append(deps, dep)
	}

	kinds := 0
	if dto.Command != "" {
		kinds++
	}
	if dto.Hardcoded != "" {
		kinds++
	}
	if dto.CopyFrom != "" {
		kinds++
	}
	if kinds > 1 {
		return nil, zerr.With(zerr.With(domain.ErrParse, "rule", name), "reason", "command, hardcoded and copyFrom are mutually exclusive")
	}

	rule := &domain.Rule{
		Targets:             targets,
		Dependencies:        deps,
		Place:               place,
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}

	switch {
	case dto.Command != "":
		rule.IsCommand = true
		rule.Command = &domain.Command{Text: dto.Command, Place: place}
	case dto.Hardcoded != "":
		rule.IsHardcode = true
		rule.HardcodedContent = dto.Hardcoded
	case dto.CopyFrom != "":
		rule.IsCopy = true
		rule.CopySource = dto.CopyFrom
	}

	if dto.InputFrom != "" {
		idx, err := findDependencyIndex(deps, dto.InputFrom)
		if err != nil {
			return nil, zerr.With(err, "rule", name)
		}
		rule.InputRedirect = idx
	}
	if dto.OutputTo != "" {
		idx, err := findTargetIndex(targets, dto.OutputTo)
		if err != nil {
			return nil, zerr.With(err, "rule", name)
		}
		rule.OutputRedirectIndex = idx
	}

	return rule, nil
}

func (d depDTO) toDependency(place domain.Place) (domain.Dependency, error) {
	flags, err := flagsFromStrings(d.Flags)
	if err != nil {
		return nil, err
	}
	if d.Variable != "" {
		flags = flags.With(domain.FlagVariable)
	}

	if len(d.Group) > 0 {
		if d.Target != "" || d.Transient != "" || d.Dynamic {
			return nil, zerr.With(domain.ErrParse, "reason", "group cannot be combined with target, transient or dynamic")
		}
		members := make([]domain.Dependency, 0, len(d.Group))
		for _, name := range d.Group {
			members = append(members, domain.NewDirectDependency(place, flags, domain.NewFileTarget(name)))
		}
		return domain.NewConcatenatedDependency(place, flags, members), nil
	}

	var target domain.Target
	switch {
	case d.Transient != "":
		target = domain.NewTransientTarget(d.Transient)
	case d.Target != "":
		target = domain.NewFileTarget(d.Target)
	default:
		return nil, zerr.With(domain.ErrParse, "reason", "dependency has neither target nor transient")
	}

	direct := domain.NewDirectDependency(place, flags, target)
	direct.Variable = d.Variable

	if d.Dynamic {
		return domain.NewDynamicDependency(place, flags.With(domain.FlagDynamic), direct), nil
	}
	return direct, nil
}

func flagsFromStrings(names []string) (domain.FlagSet, error) {
	var flags domain.FlagSet
	for _, name := range names {
		flag, ok := flagByName[name]
		if !ok {
			return 0, zerr.With(zerr.With(domain.ErrParse, "flag", name), "reason", "unknown dependency flag")
		}
		flags = flags.With(flag)
	}
	return flags, nil
}

var flagByName = map[string]domain.Flag{
	"persistent":       domain.FlagPersistent,
	"optional":         domain.FlagOptional,
	"trivial":          domain.FlagTrivial,
	"newlineSeparated": domain.FlagNewlineSeparated,
	"nulSeparated":     domain.FlagNulSeparated,
	"existence":        domain.FlagExistence,
}

func findDependencyIndex(deps []domain.Dependency, targetName string) (int, error) {
	for i, dep := range deps {
		if direct, ok := dep.(*domain.DirectDependency); ok && direct.Target.Name.String() == targetName {
			return i, nil
		}
	}
	return -1, zerr.With(zerr.With(domain.ErrParse, "target", targetName), "reason", "inputFrom does not name a declared dependency")
}

func findTargetIndex(targets []domain.Target, targetName string) (int, error) {
	for i, t := range targets {
		if t.Name.String() == targetName {
			return i, nil
		}
	}
	return -1, zerr.With(zerr.With(domain.ErrParse, "target", targetName), "reason", "outputTo does not name a declared target")
}
