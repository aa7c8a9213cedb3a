package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
)

// Scenario is a parsed scenario document.
type Scenario struct {
	Name   string     `yaml:"name"`
	Config RulesSpec  `yaml:"config"`
	Model  []any      `yaml:"model"`
	Items  []ItemSpec `yaml:"items"`
	Steps  []Step     `yaml:"steps"`

	// File is the path the scenario was loaded from, if any.
	File string `yaml:"-"`
}

// RulesSpec mirrors group.Config in YAML.
type RulesSpec struct {
	Multiple  bool `yaml:"multiple"`
	Mandatory bool `yaml:"mandatory"`
	Max       *int `yaml:"max"`
}

// Rules returns the declared rules as a group.Config.
func (r RulesSpec) Rules() group.Config {
	cfg := group.Config{Multiple: r.Multiple, Mandatory: r.Mandatory}
	if r.Max != nil {
		cfg.Max = group.Limit(*r.Max)
	}
	return cfg
}

// ItemSpec declares an item.
type ItemSpec struct {
	Name string `yaml:"name"`

	// Value defaults to Name.
	Value any `yaml:"value"`

	// ByID registers the item without a value.
	ByID bool `yaml:"by_id"`
}

// value returns the value the item registers with, or nil for by_id items.
func (i ItemSpec) value() any {
	if i.ByID {
		return nil
	}
	if i.Value != nil {
		return i.Value
	}
	return i.Name
}

// Parse parses a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, kiterrors.New("G030").Wrap(err)
	}

	if sc.Name == "" {
		sc.Name = "scenario"
	}
	seen := make(map[string]bool)
	for _, item := range sc.Items {
		if item.Name == "" {
			return nil, kiterrors.New("G030").WithDetail("every item needs a name")
		}
		if seen[item.Name] {
			return nil, kiterrors.New("G030").WithDetailf("duplicate item %q", item.Name)
		}
		seen[item.Name] = true
	}
	if len(sc.Steps) == 0 {
		return nil, kiterrors.New("G030").WithDetail("scenario must have at least one step")
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kiterrors.New("G030").WithDetail(path).Wrap(err)
	}
	sc, err := Parse(data)
	if err != nil {
		if ke, ok := err.(*kiterrors.KitError); ok && ke.Detail == "" {
			ke.Detail = path
		} else if ok {
			ke.Detail = path + ": " + ke.Detail
		}
		return nil, err
	}
	sc.File = path
	return sc, nil
}

// LoadDirectory loads every .yaml or .yml file in dir, sorted by name.
func LoadDirectory(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, kiterrors.New("G030").WithDetail(dir).Wrap(err)
	}

	var names []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		sc, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// formatValues renders values the way scenarios write them.
func formatValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
