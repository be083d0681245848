package combat

import (
	"testing"

	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/squad"
	"github.com/paulmach/orb"
)

func TestWeakestEnemyBase(t *testing.T) {
	natural := orb.Point{2500, 500}
	enemyMain := orb.Point{3500, 3500}
	gone := foe(100, "photon_cannon", 2500, 550)
	gone.Gone = true

	tests := []struct {
		name              string
		enemies           []model.Enemy
		hasGround, hasAir bool
		want              orb.Point
	}{
		{"tie keeps the first base", nil, true, false, natural},
		{"defended base skipped", []model.Enemy{foe(100, "photon_cannon", 2500, 550)}, true, false, enemyMain},
		{"sunken cannot hit flyers", []model.Enemy{foe(100, "sunken_colony", 2500, 550)}, false, true, natural},
		{"sunken hits ground", []model.Enemy{foe(100, "sunken_colony", 2500, 550)}, true, false, enemyMain},
		{"caster counts for anyone", []model.Enemy{foe(100, "high_templar", 2500, 550)}, false, true, enemyMain},
		{"lurker anchors a base", []model.Enemy{foe(100, "lurker", 2500, 550)}, true, false, enemyMain},
		{"mobile units do not", []model.Enemy{foe(100, "zealot", 2500, 550)}, true, false, natural},
		{"gone structures do not", []model.Enemy{gone}, true, false, natural},
		{"out of range", []model.Enemy{foe(100, "photon_cannon", 2500, 1200)}, true, false, natural},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testWorld(tick1, nil, tc.enemies)
			w.Bases[2].Owner = model.Opponent
			got, ok := weakestEnemyBase(w, tc.hasGround, tc.hasAir)
			if !ok || got != tc.want {
				t.Errorf("got %v (%v), want %v", got, ok, tc.want)
			}
		})
	}
}

func TestWeakestEnemyBaseNone(t *testing.T) {
	w := testWorld(tick1, nil, nil)
	w.Bases[3].Owner = model.Neutral
	if _, ok := weakestEnemyBase(w, true, false); ok {
		t.Error("no enemy base should be found")
	}
}

// squadOf registers a squad holding the given units of w.
func squadOf(c *Commander, w *model.World, ids ...int) *squad.Squad {
	s := squad.New("Probe", squad.Directive{}, AttackPriority)
	c.reg.Add(s)
	for _, id := range ids {
		for i := range w.Units {
			if w.Units[i].ID == id {
				c.reg.Assign(&w.Units[i], s)
			}
		}
	}
	return s
}

func TestAttackLocation(t *testing.T) {
	hidden := foe(100, "barracks", 1500, 500)
	hidden.Visible = false
	gonePylon := foe(101, "pylon", 2500, 500)
	gonePylon.Gone = true
	cloaked := foe(102, "dark_templar", 900, 900)
	cloaked.Detected = false

	tests := []struct {
		name      string
		unit      string // squad member; empty means no squad
		enemyMain bool
		enemies   []model.Enemy
		want      orb.Point
	}{
		{"enemy base", "", true, nil, orb.Point{3500, 3500}},
		{"remembered building", "", false, []model.Enemy{gonePylon, hidden}, orb.Point{1500, 500}},
		{"air squad skips enemy bases", "valkyrie", true, []model.Enemy{foe(101, "pylon", 2500, 500), hidden}, orb.Point{1500, 500}},
		{"visible enemy", "", false, []model.Enemy{cloaked, foe(103, "egg", 800, 800), foe(104, "zealot", 700, 700)}, orb.Point{700, 700}},
		{"air squad hunts flyers", "valkyrie", false, []model.Enemy{foe(104, "zealot", 700, 700), foe(105, "mutalisk", 600, 600)}, orb.Point{600, 600}},
		{"explore", "", false, nil, orb.Point{200, 200}},
		{"explore when nothing reachable", "valkyrie", false, []model.Enemy{foe(104, "zealot", 700, 700)}, orb.Point{200, 200}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestCommander(t, nil)
			var units []model.Unit
			if tc.unit != "" {
				units = append(units, mine(1, tc.unit, 300, 300))
			}
			w := testWorld(tick1, units, tc.enemies)
			if !tc.enemyMain {
				w.Bases[3].Owner = model.Neutral
				w.EnemyMain = nil
			}
			tcx := &tickContext{w: w, roster: combatRoster(w), orders: &Orders{}}

			var s *squad.Squad
			if tc.unit != "" {
				s = squadOf(c, w, 1)
			}
			if got := c.attackLocation(tcx, s); got != tc.want {
				t.Errorf("attackLocation = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDropLocation(t *testing.T) {
	c, _ := newTestCommander(t, nil)
	w := testWorld(tick1, nil, []model.Enemy{foe(100, "pylon", 2500, 500)})
	tcx := &tickContext{w: w, orders: &Orders{}}
	if got := c.dropLocation(tcx); got != (orb.Point{3500, 3500}) {
		t.Errorf("with enemy main: %v", got)
	}
	w.EnemyMain = nil
	if got := c.dropLocation(tcx); got != (orb.Point{2500, 500}) {
		t.Errorf("with a known building: %v", got)
	}
	w.Enemies = nil
	if got := c.dropLocation(tcx); got != (orb.Point{200, 200}) {
		t.Errorf("with nothing known: %v", got)
	}
}

func TestReconLocationOnlyNeutralReachable(t *testing.T) {
	c, _ := newTestCommander(t, nil)
	w := testWorld(tick1, nil, nil)
	w.Bases[1].Reachable = false
	tcx := &tickContext{w: w, orders: &Orders{}}
	for i := 0; i < 20; i++ {
		p, ok := c.reconLocation(tcx)
		if !ok || p != (orb.Point{2500, 500}) {
			t.Fatalf("reconLocation = %v, %v", p, ok)
		}
	}
}
