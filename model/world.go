package model

import (
	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/paulmach/orb"
)

// World is the per-tick battlefield snapshot sent by the game mod. Agents are
// supplied fresh every tick; nothing here outlives the tick except through
// squad membership, which is keyed by unit ID.
type World struct {
	Tick        int  `json:"tick"`
	Aggressive  bool `json:"aggressive"`  // posture from the strategy layer
	DropPlanned bool `json:"dropPlanned"` // strategy layer wants a drop squad

	PullWorkers    int  `json:"pullWorkers,omitempty"`    // move this many free workers into the ground squad
	ReleaseWorkers bool `json:"releaseWorkers,omitempty"` // send pulled workers back to mining

	Units     []Unit     `json:"units"`     // our mobile agents, the combat roster
	Buildings []Building `json:"buildings"` // our structures
	Enemies   []Enemy    `json:"enemies"`   // every known enemy, visible or remembered

	Regions   []Region `json:"regions"`
	Bases     []Base   `json:"bases"`
	MainBase  int      `json:"mainBase"`            // index into Bases; always present
	Natural   *int     `json:"natural,omitempty"`   // index into Bases
	EnemyMain *int     `json:"enemyMain,omitempty"` // index into Bases, when scouted
	Wall      *Wall    `json:"wall,omitempty"`

	SightRange float64 `json:"sightRange,omitempty"`
}

// Unit is one of our own mobile agents.
type Unit struct {
	ID                 int       `json:"id"`
	Type               string    `json:"type"`
	Pos                orb.Point `json:"pos"`
	HP                 int       `json:"hp"`
	Shields            int       `json:"shields"`
	Loaded             bool      `json:"loaded"`
	UnderAttack        bool      `json:"underAttack"`
	RemainingBuildTime int       `json:"remainingBuildTime"`
	CarryingGas        bool      `json:"carryingGas"`
	CarryingMinerals   bool      `json:"carryingMinerals"`
	Free               bool      `json:"free"` // workers only: idle or mining, not reserved

	Info catalog.TypeInfo `json:"-"`
}

func (u Unit) TypeName() string { return u.Type }

// Flying reports the unit's flight state, derived from its type.
func (u Unit) Flying() bool { return u.Info.Flying }

// Building is one of our own structures, complete or not.
type Building struct {
	ID                 int       `json:"id"`
	Type               string    `json:"type"`
	Pos                orb.Point `json:"pos"`
	HP                 int       `json:"hp"`
	Completed          bool      `json:"completed"`
	Powered            bool      `json:"powered"`
	Morphing           bool      `json:"morphing"`
	UnderAttack        bool      `json:"underAttack"`
	RemainingBuildTime int       `json:"remainingBuildTime"`
	SpaceRemaining     int       `json:"spaceRemaining"`
	Occupants          []int     `json:"occupants,omitempty"`

	Info catalog.TypeInfo `json:"-"`
}

func (b Building) TypeName() string { return b.Type }

// Enemy is a known enemy unit or structure. Pos is its last known position.
type Enemy struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Pos       orb.Point `json:"pos"`
	Visible   bool      `json:"visible"`
	Detected  bool      `json:"detected"`
	Burrowing bool      `json:"burrowing"`
	Attacking bool      `json:"attacking"`
	Lifted    bool      `json:"lifted"`
	Gone      bool      `json:"gone"` // seen to have left Pos

	Info catalog.TypeInfo `json:"-"`
}

func (e Enemy) TypeName() string { return e.Type }

// Flying covers both flying types and lifted buildings.
func (e Enemy) Flying() bool { return e.Info.Flying || e.Lifted }

// RegionID identifies a region within one World. NoRegion means "outside every region".
type RegionID int

const NoRegion RegionID = -1

// Region is a topological partition of the map, supplied by the map analyzer.
type Region struct {
	ID       RegionID    `json:"id"`
	Center   orb.Point   `json:"center"`
	Shape    orb.Polygon `json:"shape"`
	Occupied bool        `json:"occupied"` // we hold a structure here
}

// Owner of a base location.
type Owner string

const (
	Neutral  Owner = "neutral"
	Self     Owner = "self"
	Opponent Owner = "enemy"
)

// Base is an expansion location.
type Base struct {
	Pos       orb.Point `json:"pos"`
	Owner     Owner     `json:"owner"`
	Reachable bool      `json:"reachable"` // ground path from our main exists
}

// Wall is a defensive chokepoint structure with a single gap.
type Wall struct {
	GapCenter orb.Point `json:"gapCenter"`
}

const defaultSightRange = 8 * 32

// typed is anything carrying a catalog type name.
type typed interface {
	TypeName() string
}

// CountTypes tallies items by type name, for logging.
func CountTypes[T typed](items []T) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.TypeName()]++
	}
	return counts
}

// Resolve attaches type profiles from cat to every unit, building and enemy.
func (w *World) Resolve(cat *catalog.Catalog) {
	for i := range w.Units {
		w.Units[i].Info = cat.Info(w.Units[i].Type)
	}
	for i := range w.Buildings {
		w.Buildings[i].Info = cat.Info(w.Buildings[i].Type)
	}
	for i := range w.Enemies {
		w.Enemies[i].Info = cat.Info(w.Enemies[i].Type)
	}
}

func (w *World) base(idx *int) (Base, bool) {
	if idx == nil || *idx < 0 || *idx >= len(w.Bases) {
		return Base{}, false
	}
	return w.Bases[*idx], true
}

// MyMain returns our main base. A World always carries one, even after it falls.
func (w *World) MyMain() Base {
	b, ok := w.base(&w.MainBase)
	if !ok {
		return Base{Owner: Self}
	}
	return b
}

func (w *World) MyNatural() (Base, bool) { return w.base(w.Natural) }

func (w *World) EnemyMainBase() (Base, bool) { return w.base(w.EnemyMain) }

// RegionAt returns the region containing p, or NoRegion.
func (w *World) RegionAt(p orb.Point) RegionID {
	for _, r := range w.Regions {
		if len(r.Shape) > 0 && containsPoint(r.Shape, p) {
			return r.ID
		}
	}
	return NoRegion
}

// Region looks a region up by ID.
func (w *World) Region(id RegionID) (Region, bool) {
	for _, r := range w.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// IsVisible reports whether any of our units or buildings can see p.
func (w *World) IsVisible(p orb.Point) bool {
	sight := w.SightRange
	if sight <= 0 {
		sight = defaultSightRange
	}
	for _, u := range w.Units {
		if Distance(u.Pos, p) <= sight {
			return true
		}
	}
	for _, b := range w.Buildings {
		if Distance(b.Pos, p) <= sight {
			return true
		}
	}
	return false
}

// VisibleEnemies returns the enemies currently in sight.
func (w *World) VisibleEnemies() []*Enemy {
	var out []*Enemy
	for i := range w.Enemies {
		if w.Enemies[i].Visible {
			out = append(out, &w.Enemies[i])
		}
	}
	return out
}
