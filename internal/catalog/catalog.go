// Package catalog holds the studio's read-only reference data: company profile,
// event types, the service, deliverable and complementary catalogs and unit options.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.json
var dataFS embed.FS

// Company is the studio profile printed on every document.
type Company struct {
	Name               string   `json:"name" yaml:"name"`
	Tagline            string   `json:"tagline" yaml:"tagline"`
	Location           string   `json:"location" yaml:"location"`
	Phone              string   `json:"phone" yaml:"phone"`
	Instagram          string   `json:"instagram" yaml:"instagram"`
	TermsAndConditions []string `json:"termsAndConditions" yaml:"terms_and_conditions"`
}

// Service is a catalog entry that can be attached to an event.
type Service struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	UnitHint string `json:"unitHint" yaml:"unit_hint"`
}

// Item is a deliverable or complementary catalog entry.
type Item struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Catalog is immutable once built; lookups go through the id indexes.
type Catalog struct {
	Company       Company   `json:"company" yaml:"company"`
	EventTypes    []string  `json:"eventTypes" yaml:"event_types"`
	Services      []Service `json:"services" yaml:"services"`
	Deliverables  []Item    `json:"deliverables" yaml:"deliverables"`
	Complementary []Item    `json:"complementary" yaml:"complementary"`
	Units         []string  `json:"units" yaml:"units"`

	services      map[string]Service
	deliverables  map[string]Item
	complementary map[string]Item
}

// Default returns the catalog embedded in the binary.
// It panics if the embedded data is malformed, which is a build defect.
func Default() *Catalog {
	c, err := embedded()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded data: %v", err))
	}
	return c
}

func embedded() (*Catalog, error) {
	c := &Catalog{}
	files := []struct {
		name string
		dst  any
	}{
		{"companyInfo.json", &c.Company},
		{"eventTypes.json", &c.EventTypes},
		{"services.json", &c.Services},
		{"deliverables.json", &c.Deliverables},
		{"complementary.json", &c.Complementary},
		{"unitOptions.json", &c.Units},
	}
	for _, f := range files {
		b, err := dataFS.ReadFile("data/" + f.name)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, f.dst); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

// override mirrors Catalog with pointer/nil-able sections so a YAML file
// only replaces what it actually declares.
type override struct {
	Company       *Company  `yaml:"company"`
	EventTypes    []string  `yaml:"event_types"`
	Services      []Service `yaml:"services"`
	Deliverables  []Item    `yaml:"deliverables"`
	Complementary []Item    `yaml:"complementary"`
	Units         []string  `yaml:"units"`
}

// Load returns the embedded catalog with the sections found in the YAML file at
// path replacing their embedded counterparts. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	base, err := embedded()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var o override
	if err := yaml.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if o.Company != nil {
		base.Company = *o.Company
	}
	if o.EventTypes != nil {
		base.EventTypes = o.EventTypes
	}
	if o.Services != nil {
		base.Services = o.Services
	}
	if o.Deliverables != nil {
		base.Deliverables = o.Deliverables
	}
	if o.Complementary != nil {
		base.Complementary = o.Complementary
	}
	if o.Units != nil {
		base.Units = o.Units
	}
	if err := base.index(); err != nil {
		return nil, err
	}
	return base, nil
}

func (c *Catalog) index() error {
	c.services = make(map[string]Service, len(c.Services))
	for _, s := range c.Services {
		if _, dup := c.services[s.ID]; dup {
			return fmt.Errorf("duplicate service id %q", s.ID)
		}
		c.services[s.ID] = s
	}
	var err error
	if c.deliverables, err = indexItems("deliverable", c.Deliverables); err != nil {
		return err
	}
	if c.complementary, err = indexItems("complementary", c.Complementary); err != nil {
		return err
	}
	return nil
}

func indexItems(kind string, items []Item) (map[string]Item, error) {
	m := make(map[string]Item, len(items))
	for _, it := range items {
		if _, dup := m[it.ID]; dup {
			return nil, fmt.Errorf("duplicate %s id %q", kind, it.ID)
		}
		m[it.ID] = it
	}
	return m, nil
}

// Service resolves a service by id.
func (c *Catalog) Service(id string) (Service, bool) {
	s, ok := c.services[id]
	return s, ok
}

// Deliverable resolves a deliverable by id.
func (c *Catalog) Deliverable(id string) (Item, bool) {
	it, ok := c.deliverables[id]
	return it, ok
}

// ComplementaryItem resolves a complementary offering by id.
func (c *Catalog) ComplementaryItem(id string) (Item, bool) {
	it, ok := c.complementary[id]
	return it, ok
}

// YAML renders the catalog in the same shape Load accepts.
func (c *Catalog) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
