// Package catalog maps concrete game type names onto capability profiles and
// the closed Category set used by the allocation policies.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnknownType is returned by Require for names missing from the catalog.
var ErrUnknownType = errors.New("unknown type")

//go:embed default.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var schemaSource string

// TypeInfo is the type-derived capability profile of an agent or structure.
type TypeInfo struct {
	Name           string   `yaml:"name" json:"name"`
	Category       Category `yaml:"category" json:"category"`
	Flying         bool     `yaml:"flying" json:"flying"`
	Building       bool     `yaml:"building" json:"building"`
	Worker         bool     `yaml:"worker" json:"worker"`
	Detector       bool     `yaml:"detector" json:"detector"`
	AttacksGround  bool     `yaml:"attacks_ground" json:"attacksGround"`
	AttacksAir     bool     `yaml:"attacks_air" json:"attacksAir"`
	Ranged         bool     `yaml:"ranged" json:"ranged"`
	Fast           bool     `yaml:"fast" json:"fast"`
	SpaceRequired  int      `yaml:"space_required" json:"spaceRequired"`
	SpaceProvided  int      `yaml:"space_provided" json:"spaceProvided"`
	Garrisonable   bool     `yaml:"garrisonable" json:"garrisonable"`
	Liftable       bool     `yaml:"liftable" json:"liftable"`
	Scanner        bool     `yaml:"scanner" json:"scanner"`
	FragileMorph   bool     `yaml:"fragile_morph" json:"fragileMorph"`
	NeverCancel    bool     `yaml:"never_cancel" json:"neverCancel"`
	MaxHitPoints   int      `yaml:"max_hp" json:"maxHp"`
	MaxShields     int      `yaml:"max_shields" json:"maxShields"`
}

// IsTransport reports whether the type can carry cargo through the air.
func (t TypeInfo) IsTransport() bool {
	return t.Flying && t.SpaceProvided > 0
}

// Catalog is an immutable name → TypeInfo table. Lookups are case-insensitive.
type Catalog struct {
	types map[string]TypeInfo
}

type catalogFile struct {
	Types []TypeInfo `yaml:"types"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// Load reads a YAML catalog from disk.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates raw YAML against the catalog schema and builds a Catalog.
func Parse(raw []byte) (*Catalog, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Types)
}

// New builds a catalog from explicit entries. Duplicate names are rejected.
func New(types []TypeInfo) (*Catalog, error) {
	c := &Catalog{types: make(map[string]TypeInfo, len(types))}
	for _, t := range types {
		key := strings.ToLower(t.Name)
		if key == "" {
			return nil, errors.New("catalog entry without a name")
		}
		if _, dup := c.types[key]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", t.Name)
		}
		c.types[key] = t
	}
	return c, nil
}

var compiledSchema = func() *jsonschema.Schema {
	s, err := jsonschema.CompileString("catalog.schema.json", schemaSource)
	if err != nil {
		panic(fmt.Sprintf("catalog schema: %v", err))
	}
	return s
}()

// validate checks the document shape before any field is trusted. YAML is
// converted to its JSON form first so the validator sees JSON number types.
func validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("catalog to json: %w", err)
	}
	var generic any
	if err := json.Unmarshal(js, &generic); err != nil {
		return fmt.Errorf("catalog to json: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	return nil
}

// With returns a copy of the catalog with the given entries added or replaced.
func (c *Catalog) With(overrides []TypeInfo) *Catalog {
	out := &Catalog{types: make(map[string]TypeInfo, len(c.types)+len(overrides))}
	for k, v := range c.types {
		out.types[k] = v
	}
	for _, t := range overrides {
		if t.Name == "" {
			continue
		}
		out.types[strings.ToLower(t.Name)] = t
	}
	return out
}

func (c *Catalog) Lookup(name string) (TypeInfo, bool) {
	t, ok := c.types[strings.ToLower(name)]
	return t, ok
}

// Info returns the profile for name, or a ground "other" profile that can
// attack ground when the type is unknown.
func (c *Catalog) Info(name string) TypeInfo {
	if t, ok := c.Lookup(name); ok {
		return t
	}
	return TypeInfo{Name: name, Category: Other, AttacksGround: true}
}

func (c *Catalog) Require(name string) (TypeInfo, error) {
	t, ok := c.Lookup(name)
	if !ok {
		return TypeInfo{}, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return t, nil
}

func (c *Catalog) Len() int { return len(c.types) }

// Names returns every type name in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.types))
	for _, t := range c.types {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
