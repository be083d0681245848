package combat

import (
	"testing"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/squad"
	"github.com/paulmach/orb"
)

func dropWorld(tick int, loaded bool) *model.World {
	units := []model.Unit{mine(1, "shuttle", 300, 300)}
	for id := 2; id <= 5; id++ {
		u := mine(id, "dark_templar", 300, 300)
		u.Loaded = loaded
		units = append(units, u)
	}
	units = append(units, mine(6, "zealot", 300, 300))
	w := testWorld(tick, units, nil)
	w.DropPlanned = true
	return w
}

func TestDropProtocol(t *testing.T) {
	c, _ := newTestCommander(t, nil)

	w := dropWorld(tick1, false)
	c.Update(w)
	drop := c.reg.Get(DropSquad)
	if drop.Len() != 5 {
		t.Fatalf("drop squad size = %d, want transport + 4 templar", drop.Len())
	}
	if drop.Contains(6) {
		t.Error("zealot does not pass the drop filter")
	}
	if drop.Directive().Kind != squad.Hold || c.drop != dropCollecting {
		t.Fatalf("after collecting: %v / %v", drop.Directive(), c.drop)
	}

	w.Tick = tick2
	c.Update(w)
	if d := drop.Directive(); d.Kind != squad.Load || d.Position != (orb.Point{300, 300}) {
		t.Fatalf("expected load at the transport, got %v", d)
	}

	w = dropWorld(tick3, true)
	c.Update(w)
	d := drop.Directive()
	if d.Kind != squad.Drop || d.Position != (orb.Point{3500, 3500}) || d.Radius != 300 {
		t.Fatalf("expected drop on the enemy main, got %v", d)
	}
	if c.drop != dropDropped {
		t.Errorf("phase = %v, want dropped", c.drop)
	}

	// Terminal: nothing changes afterwards.
	w = dropWorld(tick3+8, false)
	c.Update(w)
	if drop.Directive().Kind != squad.Drop {
		t.Error("drop squad left the terminal phase")
	}
}

func TestDropBoardedSquadGoesImmediately(t *testing.T) {
	c, _ := newTestCommander(t, nil)
	w := dropWorld(tick1, true)
	c.Update(w)
	w.Tick = tick2
	c.Update(w)
	if got := c.reg.Get(DropSquad).Directive().Kind; got != squad.Drop {
		t.Errorf("directive = %v, want drop", got)
	}
}

func TestDropWaitsForTransport(t *testing.T) {
	c, _ := newTestCommander(t, nil)
	w := dropWorld(tick1, false)
	w.Units = w.Units[1:] // no shuttle
	c.Update(w)
	w.Tick = tick2
	c.Update(w)
	drop := c.reg.Get(DropSquad)
	if drop.Directive().Kind != squad.Hold {
		t.Errorf("directive = %v, want hold", drop.Directive().Kind)
	}
	if drop.Len() != 4 {
		t.Errorf("drop squad size = %d, want 4 templar", drop.Len())
	}
}

func TestDropSquadIsProtected(t *testing.T) {
	c, _ := newTestCommander(t, nil)
	// A dark templar standing in our main next to an attacking zergling.
	w := dropWorld(tick1, false)
	w.Enemies = []model.Enemy{foe(100, "zergling", 320, 320)}
	w.Enemies[0].Attacking = true
	w.Resolve(catalog.Default())
	c.Update(w)
	for id := 1; id <= 5; id++ {
		if s := c.reg.SquadOf(id); s == nil || s.Name() != DropSquad {
			t.Errorf("agent %d raided from the drop squad", id)
		}
	}
}

func TestDropPhaseNeverGoesBack(t *testing.T) {
	c, _ := newTestCommander(t, nil)
	c.advanceDrop(dropLoading)
	c.advanceDrop(dropDropped)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on backward transition")
		}
	}()
	c.advanceDrop(dropLoading)
}

func TestDropSquadCreatedWhenPlanned(t *testing.T) {
	c, _ := newTestCommander(t, nil)
	w := testWorld(tick1, nil, nil)
	c.Update(w)
	if c.reg.Exists(DropSquad) {
		t.Fatal("drop squad created without a plan")
	}
	w.Tick = tick2
	w.DropPlanned = true
	c.Update(w)
	if !c.reg.Exists(DropSquad) || !c.reg.IsProtected(DropSquad) {
		t.Error("drop squad should appear, protected, once planned")
	}
}
