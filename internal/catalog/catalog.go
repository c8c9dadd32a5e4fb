package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/snapshot"
)

// ErrUnknownName is returned when a spec names a trait or selection the
// catalog does not define.
var ErrUnknownName = errors.New("unknown name")

// #region types
// Catalog holds the definitions a host ships: every trait and every domain
// with the selections it offers. Dev costs live here, not in the engine.
type Catalog struct {
	Traits  []snapshot.Trait `yaml:"traits" json:"traits"`
	Domains []DomainDef      `yaml:"domains" json:"domains"`

	traits     map[string]snapshot.Trait
	selections map[string]snapshot.Selection
}

// DomainDef is a domain and the selections it offers.
type DomainDef struct {
	Name           string         `yaml:"name" json:"name"`
	AllowsMultiple bool           `yaml:"allows_multiple" json:"allows_multiple"`
	DevCost        int            `yaml:"dev_cost" json:"dev_cost"`
	Selections     []SelectionDef `yaml:"selections" json:"selections"`
}

// SelectionDef is one selection offered by a domain.
type SelectionDef struct {
	Name    string `yaml:"name" json:"name"`
	Rank    int    `yaml:"rank" json:"rank"`
	DevCost int    `yaml:"dev_cost" json:"dev_cost"`
}

// Spec names the active traits and selections of one snapshot.
type Spec struct {
	Traits     []string `yaml:"traits" json:"traits"`
	Selections []string `yaml:"selections" json:"selections"`
}

// #endregion types

// #region load
// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML (or JSON) catalog and indexes it by name.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// index builds the name lookups. Trait, domain and selection names must each
// be unique across the catalog.
func (c *Catalog) index() error {
	c.traits = make(map[string]snapshot.Trait, len(c.Traits))
	for _, t := range c.Traits {
		if _, dup := c.traits[t.Name]; dup {
			return fmt.Errorf("duplicate trait %q", t.Name)
		}
		c.traits[t.Name] = t
	}

	domains := make(map[string]bool, len(c.Domains))
	c.selections = make(map[string]snapshot.Selection)
	for _, d := range c.Domains {
		if domains[d.Name] {
			return fmt.Errorf("duplicate domain %q", d.Name)
		}
		domains[d.Name] = true

		domain := snapshot.Domain{Name: d.Name, AllowsMultiple: d.AllowsMultiple, DevCost: d.DevCost}
		for _, s := range d.Selections {
			if _, dup := c.selections[s.Name]; dup {
				return fmt.Errorf("duplicate selection %q", s.Name)
			}
			c.selections[s.Name] = snapshot.Selection{
				Name:    s.Name,
				Domain:  domain,
				Rank:    s.Rank,
				DevCost: s.DevCost,
			}
		}
	}
	return nil
}

// #endregion load

// #region resolve
// Resolve turns a Spec into a validated Snapshot, keeping the spec's order.
func (c *Catalog) Resolve(spec Spec) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	for _, name := range spec.Traits {
		t, ok := c.traits[name]
		if !ok {
			return snapshot.Snapshot{}, fmt.Errorf("trait %q: %w", name, ErrUnknownName)
		}
		snap.Traits = append(snap.Traits, t)
	}
	for _, name := range spec.Selections {
		s, ok := c.selections[name]
		if !ok {
			return snapshot.Snapshot{}, fmt.Errorf("selection %q: %w", name, ErrUnknownName)
		}
		snap.Selections = append(snap.Selections, s)
	}
	if err := snap.Validate(); err != nil {
		return snapshot.Snapshot{}, err
	}
	return snap, nil
}

// LoadSpec reads a YAML (or JSON) file of trait and selection names.
func LoadSpec(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return spec, nil
}

// #endregion resolve
