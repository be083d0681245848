package combat

import (
	"slices"
	"testing"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
)

func TestWorkerPullScore(t *testing.T) {
	info := catalog.Default().Info("probe")
	tests := []struct {
		name string
		u    model.Unit
		want int
	}{
		{"healthy", model.Unit{HP: 20, Shields: 20, Info: info}, 14},
		{"hurt", model.Unit{HP: 5, Shields: 20, Info: info}, 4},
		{"no shields", model.Unit{HP: 20, Shields: 0, Info: info}, 10},
		{"carrying gas", model.Unit{HP: 20, Shields: 20, CarryingGas: true, Info: info}, 11},
		{"carrying minerals", model.Unit{HP: 20, Shields: 20, CarryingMinerals: true, Info: info}, 12},
		{"scv has no shields to lose", model.Unit{HP: 60, Info: catalog.Default().Info("scv")}, 14},
	}
	for _, tc := range tests {
		if got := workerPullScore(&tc.u); got != tc.want {
			t.Errorf("%s: score %d, want %d", tc.name, got, tc.want)
		}
	}
}

func workforce() []model.Unit {
	miner := mine(1, "probe", 100, 100)
	miner.CarryingMinerals = true
	hurt := mine(2, "probe", 100, 100)
	hurt.HP = 10
	gas := mine(4, "probe", 100, 100)
	gas.CarryingGas = true
	return []model.Unit{
		miner,
		hurt,
		mine(3, "probe", 100, 100),
		gas,
		mine(5, "probe", 100, 100), // reserved by the economy
		mine(6, "zealot", 300, 300),
	}
}

func TestPullWorkersTakesTheBest(t *testing.T) {
	c, wm := newTestCommander(t, nil)
	wm.busy[5] = true

	w := testWorld(3, workforce(), nil)
	w.PullWorkers = 2
	orders := c.Update(w)

	if want := []int{3, 1}; !slices.Equal(orders.CombatWorkers, want) {
		t.Errorf("combat workers = %v, want %v", orders.CombatWorkers, want)
	}
	if !slices.Equal(wm.marked, orders.CombatWorkers) {
		t.Errorf("marked %v, reported %v", wm.marked, orders.CombatWorkers)
	}
	ground := c.reg.Get(GroundSquad)
	if !ground.Contains(3) || !ground.Contains(1) || ground.Len() != 2 {
		t.Errorf("Ground = %v", ground.IDs())
	}
}

func TestPullWorkersAccumulates(t *testing.T) {
	c, wm := newTestCommander(t, nil)
	wm.busy[5] = true

	for tick := 3; tick <= 5; tick++ {
		w := testWorld(tick, workforce(), nil)
		w.PullWorkers = 2
		c.Update(w)
	}
	ground := c.reg.Get(GroundSquad)
	if ground.Len() != 4 {
		t.Errorf("Ground = %v, want every free worker", ground.IDs())
	}
	if ground.Contains(5) {
		t.Error("reserved worker pulled")
	}
	assertNoDuplicates(t, c.reg)
}

func TestPullWorkersNothingRequested(t *testing.T) {
	c, wm := newTestCommander(t, nil)
	w := testWorld(3, workforce(), nil)
	w.PullWorkers = -1
	orders := c.Update(w)
	if len(orders.CombatWorkers) != 0 || len(wm.marked) != 0 || !c.reg.Get(GroundSquad).IsEmpty() {
		t.Error("no worker should move")
	}
}

func TestReleaseWorkers(t *testing.T) {
	c, _ := newTestCommander(t, nil)
	w := testWorld(tick1, workforce(), nil)
	w.PullWorkers = 10
	c.Update(w)
	if n := c.reg.Get(GroundSquad).Len(); n != 6 {
		t.Fatalf("Ground size = %d, want 5 workers and the zealot", n)
	}

	w = testWorld(tick1+1, workforce(), nil)
	w.ReleaseWorkers = true
	c.Update(w)
	ground := c.reg.Get(GroundSquad)
	if ground.Len() != 1 || !ground.Contains(6) {
		t.Errorf("Ground = %v, want only the zealot", ground.IDs())
	}
	for id := 1; id <= 5; id++ {
		if c.reg.SquadOf(id) != nil {
			t.Errorf("worker %d still owned", id)
		}
	}

	c.Update(testWorld(tick2, workforce(), nil))
	idle := c.reg.Get(IdleSquad)
	for id := 1; id <= 5; id++ {
		if !idle.Contains(id) {
			t.Errorf("released worker %d not back in Idle", id)
		}
	}
}
