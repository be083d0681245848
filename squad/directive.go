package squad

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Kind is what a squad has been told to do. The micro layer interprets it.
type Kind int

const (
	Idle Kind = iota
	Attack
	Defend
	Hold
	HoldWall // hold against a defensive wall's gap
	Load
	Drop
)

var kindNames = [...]string{
	Idle:     "idle",
	Attack:   "attack",
	Defend:   "defend",
	Hold:     "hold",
	HoldWall: "hold_wall",
	Load:     "load",
	Drop:     "drop",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown directive kind %q", b)
}

// Directive is a squad's current goal. Policies replace it wholesale; a
// squad never edits its own directive.
type Directive struct {
	Kind     Kind      `json:"kind"`
	Position orb.Point `json:"position"`
	Radius   float64   `json:"radius"`
	Label    string    `json:"label"` // diagnostic only
}

func NewDirective(kind Kind, pos orb.Point, radius float64, label string) Directive {
	return Directive{Kind: kind, Position: pos, Radius: radius, Label: label}
}

func (d Directive) String() string {
	return fmt.Sprintf("%s (%.0f,%.0f) r=%.0f %q", d.Kind, d.Position[0], d.Position[1], d.Radius, d.Label)
}
