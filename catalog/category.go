package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category is the closed set of agent kinds the allocation policies reason
// about. Concrete game types map onto exactly one category through the catalog.
type Category int

const (
	Other        Category = iota
	Worker                // gathers resources; pulled for defense only as a last resort
	LightMelee            // fast, cheap melee (zergling)
	Infantry              // ranged infantry that recon pairs with support (marine)
	Support               // healers; never dealt damage (medic)
	Ranged                // mid-weight ranged ground (hydralisk)
	HeavyMelee            // armored melee (zealot)
	Walker                // ranged ground walker (dragoon)
	CloakedMelee          // permanently cloaked melee (dark templar)
	Raider                // fast harassment vehicle (vulture)
	Siege                 // siege tank
	Artillery             // slow area denial (reaver, lurker, guardian)
	Caster                // spellcasters (high templar)
	Gunship               // pure air combatants, always in the flying squad
	AirSupport            // dual-context flyers, flying squad only when one exists
	Transport             // dropships and shuttles
	Detector              // mobile detectors that are not harmless
	Overseer              // harmless air scouts (overlord, observer)
	Structure             // generic buildings
	StaticDefense         // turrets, cannons, colonies
	Garrison              // bunkers
	Morph                 // eggs, cocoons, larvae

	categoryCount
)

var categoryNames = [categoryCount]string{
	Other:         "other",
	Worker:        "worker",
	LightMelee:    "light_melee",
	Infantry:      "infantry",
	Support:       "support",
	Ranged:        "ranged",
	HeavyMelee:    "heavy_melee",
	Walker:        "walker",
	CloakedMelee:  "cloaked_melee",
	Raider:        "raider",
	Siege:         "siege",
	Artillery:     "artillery",
	Caster:        "caster",
	Gunship:       "gunship",
	AirSupport:    "air_support",
	Transport:     "transport",
	Detector:      "detector",
	Overseer:      "overseer",
	Structure:     "structure",
	StaticDefense: "static_defense",
	Garrison:      "garrison",
	Morph:         "morph",
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory maps a catalog name back to its Category.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return Other, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}
