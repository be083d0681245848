// Package combat decides, tick by tick, which of our units belong to which
// squad and what each squad should be doing.
package combat

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/random"
	"github.com/nstehr/vimy/vimy-squads/squad"
	"github.com/paulmach/orb"
)

// Squad priorities. A squad may take units only from squads ranked below it.
const (
	IdlePriority         = 0
	AttackPriority       = 1
	ReconPriority        = 2
	BaseDefensePriority  = 3
	ScoutDefensePriority = 4
	DropPriority         = 5
)

// Permanent squad names.
const (
	IdleSquad         = "Idle"
	GroundSquad       = "Ground"
	FlyingSquad       = "Flying"
	ReconSquad        = "Recon"
	ScoutDefenseSquad = "ScoutDefense"
	DropSquad         = "Drop"
)

const (
	idleRadius       = 100
	workerAttackMemo = 120 // ticks an attacking enemy worker stays suspicious
	diagInterval     = 100
)

// WorkerManager is the economy side's view of our workers.
type WorkerManager interface {
	// IsFree reports whether a worker is idle or mining rather than
	// reserved for building or scouting.
	IsFree(id int) bool
	// MarkCombatWorker tells the economy a worker now fights.
	MarkCombatWorker(id int)
}

// Commander owns the squad registry and runs the allocation policies.
// It is not safe for concurrent use; one Commander serves one game.
type Commander struct {
	cfg      Config
	reg      *squad.Registry
	terrain  *model.TerrainGrid
	workers  WorkerManager
	rng      *rand.Rand
	goodDrop *AgentFilter

	initialized bool

	reconTarget     orb.Point
	reconValid      bool
	lastReconChange int

	workerAttacked   bool
	workerAttackedAt int

	defense map[model.RegionID]*squad.Squad
	drop    dropPhase

	enemyCanBurrow bool
	lastDiagTick   int
}

// tickContext carries one tick's inputs and outputs through the policies.
type tickContext struct {
	w      *model.World
	roster []*model.Unit
	orders *Orders
}

func (tc *tickContext) tick() int { return tc.w.Tick }

// New builds a Commander. The terrain grid is optional.
func New(cfg Config, workers WorkerManager, terrain *model.TerrainGrid) (*Commander, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("combat config: %w", err)
	}
	f, err := NewAgentFilter(cfg.DropFilter)
	if err != nil {
		return nil, err
	}
	return &Commander{
		cfg:          cfg,
		reg:          squad.NewRegistry(),
		terrain:      terrain,
		workers:      workers,
		rng:          random.New(cfg.Seed),
		goodDrop:     f,
		defense:      make(map[model.RegionID]*squad.Squad),
		lastDiagTick: -diagInterval,
	}, nil
}

// Registry exposes the squads for inspection.
func (c *Commander) Registry() *squad.Registry { return c.reg }

// SetTerrain replaces the exploration grid.
func (c *Commander) SetTerrain(g *model.TerrainGrid) {
	c.terrain = g
	if g != nil {
		slog.Info("terrain grid set", "cols", g.Cols, "rows", g.Rows, "cellW", g.CellW, "cellH", g.CellH)
	}
}

func (c *Commander) EnemyCanBurrow() bool { return c.enemyCanBurrow }

// Update runs one tick. w must already be resolved against a catalog.
func (c *Commander) Update(w *model.World) Orders {
	tc := &tickContext{w: w, roster: combatRoster(w), orders: &Orders{Tick: w.Tick}}

	if !c.initialized {
		c.initializeSquads(tc)
	}
	if w.DropPlanned && !c.reg.Exists(DropSquad) {
		c.addDropSquad(tc)
	}

	c.reg.Refresh(tc.roster)
	c.markExplored(tc)

	if w.ReleaseWorkers {
		c.ReleaseWorkers()
	}
	if w.PullWorkers > 0 {
		c.pullWorkers(tc, w.PullWorkers)
	}

	frame := w.Tick % c.cfg.PolicyPeriod
	if frame == c.cfg.PolicyOffset {
		c.updateIdleSquad(tc)
		c.updateDropSquad(tc)
		c.updateScoutDefenseSquad(tc)
		c.updateBaseDefenseSquads(tc)
		c.updateReconSquad(tc)
		c.updateAttackSquads(tc)
	} else if frame%4 == c.cfg.ScanOffset {
		c.scanCloaked(tc)
	}

	c.loadOrUnloadGarrisons(tc)

	c.reg.Update(w.Tick)

	c.cancelDyingItems(tc)

	c.logDiagnostics(tc)

	tc.orders.Squads = c.reg.Snapshot()
	tc.orders.EnemyCanBurrow = c.enemyCanBurrow
	return *tc.orders
}

// combatRoster is every finished mobile unit of ours. Eggs and cocoons are
// not agents until they hatch.
func combatRoster(w *model.World) []*model.Unit {
	roster := make([]*model.Unit, 0, len(w.Units))
	for i := range w.Units {
		u := &w.Units[i]
		if u.RemainingBuildTime > 0 || u.Info.Category == catalog.Morph {
			continue
		}
		roster = append(roster, u)
	}
	return roster
}

func (c *Commander) initializeSquads(tc *tickContext) {
	home := tc.w.MyMain().Pos

	c.reg.Add(squad.New(IdleSquad, squad.NewDirective(squad.Idle, home, idleRadius, "Chill out"), IdlePriority))

	attack := squad.NewDirective(squad.Attack, c.attackLocation(tc, nil), c.cfg.AttackRadius, "Attack enemy base")
	c.reg.Add(squad.New(GroundSquad, attack, AttackPriority))
	c.reg.Add(squad.New(FlyingSquad, attack, AttackPriority))

	recon := squad.New(ReconSquad, squad.NewDirective(squad.Idle, home, idleRadius, "Chill out"), ReconPriority)
	recon.CombatSimRadius = 200
	recon.FightVisible = true
	c.reg.Add(recon)

	if c.cfg.ScoutDefenseRadius > 0 {
		d := squad.NewDirective(squad.Defend, home, c.cfg.ScoutDefenseRadius, "Get the scout")
		c.reg.Add(squad.New(ScoutDefenseSquad, d, ScoutDefensePriority))
	}

	if tc.w.DropPlanned {
		c.addDropSquad(tc)
	}

	c.initialized = true
}

func (c *Commander) addDropSquad(tc *tickContext) {
	d := squad.NewDirective(squad.Hold, tc.w.MyMain().Pos, c.cfg.AttackRadius, "Wait for transport")
	c.reg.Add(squad.New(DropSquad, d, DropPriority))
	c.reg.Protect(DropSquad)
	c.drop = dropCollecting
}

// markExplored stamps every zone one of our units stands in.
func (c *Commander) markExplored(tc *tickContext) {
	if c.terrain == nil {
		return
	}
	for _, u := range tc.roster {
		c.terrain.MarkSeen(u.Pos, tc.tick())
	}
	for _, b := range tc.w.Buildings {
		c.terrain.MarkSeen(b.Pos, tc.tick())
	}
}

// leastExplored falls back to our main when there is no grid to consult.
func (c *Commander) leastExplored(tc *tickContext, groundOnly bool) orb.Point {
	if c.terrain != nil {
		if p, ok := c.terrain.LeastExplored(groundOnly, c.rng); ok {
			return p
		}
	}
	return tc.w.MyMain().Pos
}

func (c *Commander) noteWorkerAttack(tick int) {
	c.workerAttacked = true
	c.workerAttackedAt = tick
}

func (c *Commander) workerAttackedRecently(tick int) bool {
	return c.workerAttacked && tick-c.workerAttackedAt < workerAttackMemo
}

func (c *Commander) markCombatWorker(tc *tickContext, id int) {
	if c.workers != nil {
		c.workers.MarkCombatWorker(id)
	}
	tc.orders.CombatWorkers = append(tc.orders.CombatWorkers, id)
}

func (c *Commander) logDiagnostics(tc *tickContext) {
	if tc.tick()-c.lastDiagTick < diagInterval {
		return
	}
	c.lastDiagTick = tc.tick()

	sizes := make(map[string]int)
	for _, s := range c.reg.Squads() {
		sizes[s.Name()] = s.Len()
	}
	slog.Info("squad diagnostics",
		"tick", tc.tick(),
		"roster", len(tc.roster),
		"owned", c.reg.Owned(),
		"squads", sizes,
		"aggressive", tc.w.Aggressive,
		"drop", c.drop,
		"reconTarget", c.reconTarget,
	)
}
