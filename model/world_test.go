package model

import (
	"testing"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/paulmach/orb"
)

func TestRegionAt(t *testing.T) {
	w := World{
		Regions: []Region{
			{ID: 0, Center: orb.Point{50, 50}, Shape: Box(0, 0, 100, 100)},
			{ID: 1, Center: orb.Point{150, 50}, Shape: Box(100, 0, 200, 100)},
		},
	}
	if got := w.RegionAt(orb.Point{20, 20}); got != 0 {
		t.Errorf("RegionAt(20,20) = %d, want 0", got)
	}
	if got := w.RegionAt(orb.Point{150, 80}); got != 1 {
		t.Errorf("RegionAt(150,80) = %d, want 1", got)
	}
	if got := w.RegionAt(orb.Point{500, 500}); got != NoRegion {
		t.Errorf("RegionAt outside = %d, want NoRegion", got)
	}
}

func TestBaseAccessors(t *testing.T) {
	nat := 1
	w := World{
		Bases: []Base{
			{Pos: orb.Point{10, 10}, Owner: Self},
			{Pos: orb.Point{20, 20}, Owner: Neutral},
		},
		MainBase: 0,
		Natural:  &nat,
	}
	if w.MyMain().Pos != (orb.Point{10, 10}) {
		t.Errorf("MyMain = %v", w.MyMain())
	}
	if b, ok := w.MyNatural(); !ok || b.Pos != (orb.Point{20, 20}) {
		t.Errorf("MyNatural = %v, %v", b, ok)
	}
	if _, ok := w.EnemyMainBase(); ok {
		t.Error("EnemyMainBase should be unknown")
	}
}

func TestIsVisible(t *testing.T) {
	w := World{
		Units:      []Unit{{ID: 1, Pos: orb.Point{0, 0}}},
		SightRange: 100,
	}
	if !w.IsVisible(orb.Point{60, 60}) {
		t.Error("point within sight range should be visible")
	}
	if w.IsVisible(orb.Point{200, 0}) {
		t.Error("point beyond sight range should not be visible")
	}
}

func TestResolveAttachesProfiles(t *testing.T) {
	w := World{
		Units:   []Unit{{ID: 1, Type: "mutalisk"}},
		Enemies: []Enemy{{ID: 2, Type: "barracks", Lifted: true}},
	}
	w.Resolve(catalog.Default())
	if !w.Units[0].Flying() {
		t.Error("mutalisk should fly")
	}
	if !w.Enemies[0].Flying() {
		t.Error("lifted barracks should count as flying")
	}
}

func TestCountTypes(t *testing.T) {
	w := World{
		Units:   []Unit{{ID: 1, Type: "zergling"}, {ID: 2, Type: "zergling"}, {ID: 3, Type: "drone"}},
		Enemies: []Enemy{{ID: 4, Type: "marine", Visible: true}, {ID: 5, Type: "marine"}},
	}
	units := CountTypes(w.Units)
	if units["zergling"] != 2 || units["drone"] != 1 || len(units) != 2 {
		t.Errorf("units = %v", units)
	}
	if enemies := CountTypes(w.VisibleEnemies()); enemies["marine"] != 1 {
		t.Errorf("visible enemies = %v", enemies)
	}
}
