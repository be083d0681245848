package combat

import (
	"testing"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/squad"
	"github.com/paulmach/orb"
)

// Policy ticks with the default period and offset.
const (
	tick1 = 1
	tick2 = 9
	tick3 = 17
)

// fakeWorkers treats every worker as free unless listed as busy.
type fakeWorkers struct {
	busy   map[int]bool
	marked []int
}

func (f *fakeWorkers) IsFree(id int) bool { return !f.busy[id] }
func (f *fakeWorkers) MarkCombatWorker(id int) { f.marked = append(f.marked, id) }

func newTestCommander(t *testing.T, mutate func(*Config)) (*Commander, *fakeWorkers) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 1
	if mutate != nil {
		mutate(&cfg)
	}
	wm := &fakeWorkers{busy: map[int]bool{}}
	c, err := New(cfg, wm, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, wm
}

func mine(id int, typ string, x, y float64) model.Unit {
	info := catalog.Default().Info(typ)
	return model.Unit{ID: id, Type: typ, Pos: orb.Point{x, y}, HP: info.MaxHitPoints, Shields: info.MaxShields}
}

func foe(id int, typ string, x, y float64) model.Enemy {
	return model.Enemy{ID: id, Type: typ, Pos: orb.Point{x, y}, Visible: true, Detected: true}
}

// testWorld is a four-region map. Region 0 holds our main at (200,200),
// region 1 our natural, region 2 an open expansion and region 3 the enemy
// main.
func testWorld(tick int, units []model.Unit, enemies []model.Enemy) *model.World {
	enemyMain := 3
	w := &model.World{
		Tick:       tick,
		Aggressive: true,
		Units:      units,
		Enemies:    enemies,
		Regions: []model.Region{
			{ID: 0, Center: orb.Point{500, 500}, Shape: model.Box(0, 0, 1000, 1000), Occupied: true},
			{ID: 1, Center: orb.Point{1500, 500}, Shape: model.Box(1000, 0, 2000, 1000)},
			{ID: 2, Center: orb.Point{2500, 500}, Shape: model.Box(2000, 0, 3000, 1000)},
			{ID: 3, Center: orb.Point{3500, 3500}, Shape: model.Box(3000, 3000, 4000, 4000)},
		},
		Bases: []model.Base{
			{Pos: orb.Point{200, 200}, Owner: model.Self, Reachable: true},
			{Pos: orb.Point{1500, 500}, Owner: model.Neutral, Reachable: true},
			{Pos: orb.Point{2500, 500}, Owner: model.Neutral, Reachable: true},
			{Pos: orb.Point{3500, 3500}, Owner: model.Opponent, Reachable: true},
		},
		MainBase:  0,
		EnemyMain: &enemyMain,
	}
	w.Resolve(catalog.Default())
	return w
}

func assertNoDuplicates(t *testing.T, reg *squad.Registry) {
	t.Helper()
	seen := map[int]string{}
	for _, s := range reg.Squads() {
		for _, id := range s.IDs() {
			if prev, ok := seen[id]; ok {
				t.Errorf("agent %d in both %s and %s", id, prev, s.Name())
			}
			seen[id] = s.Name()
		}
	}
}

func members(s *squad.Squad) map[int]bool {
	out := map[int]bool{}
	for _, id := range s.IDs() {
		out[id] = true
	}
	return out
}
