package combat

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/squad"
	"github.com/paulmach/orb"
)

const (
	defendersPerFlyer      = 2
	staticDefenseReach     = 500
	staticAirValue         = 3
	staticGroundValue      = 6
	workerPullReach        = 1000
	workerPreferenceMargin = 200
	rushConcernRadius      = 300
	buildingRushRadius     = 1200
)

// regionSquadName is keyed by region ID; centers may coincide or be unset.
func regionSquadName(r model.Region) string {
	return fmt.Sprintf("Base Defense %d", r.ID)
}

// threatsIn lists the visible enemies in region that base defense should
// answer. Harmless flyers and lifted buildings are skipped. The first enemy
// worker is taken for a scout unless a worker attacked us recently.
func (c *Commander) threatsIn(tc *tickContext, region model.RegionID) []*model.Enemy {
	var threats []*model.Enemy
	for _, e := range tc.w.VisibleEnemies() {
		if catalog.Harmless(e.Info.Category) || e.Lifted {
			continue
		}
		if tc.w.RegionAt(e.Pos) == region {
			threats = append(threats, e)
		}
	}
	for i, e := range threats {
		if !e.Info.Worker {
			continue
		}
		if e.Attacking {
			c.noteWorkerAttack(tc.tick())
		} else if !c.workerAttackedRecently(tc.tick()) {
			threats = append(threats[:i], threats[i+1:]...)
		}
		break
	}
	return threats
}

// defendersNeeded converts threats into flying and ground defender counts,
// before static defense. Ground threats are weighted by type and padded by
// a fifth.
func defendersNeeded(threats []*model.Enemy) (flying, ground int) {
	weighted := 0
	for _, e := range threats {
		if e.Flying() {
			flying += defendersPerFlyer
			continue
		}
		weighted += catalog.ThreatWeight(e.Info.Category)
	}
	return flying, ceilSixFifths(weighted)
}

// ceilSixFifths is ceil(1.2 * n) in integers.
func ceilSixFifths(n int) int { return (6*n + 4) / 5 }

// staticDefense counts our finished, powered defensive structures covering
// a region: inside it, or within reach of the point being defended.
// Garrison structures are left to the garrison valve.
func staticDefense(w *model.World, region model.RegionID, at orb.Point) (air, ground int) {
	for _, b := range w.Buildings {
		if b.Info.Category != catalog.StaticDefense || !b.Completed || !b.Powered {
			continue
		}
		if w.RegionAt(b.Pos) != region && model.Distance(at, b.Pos) >= staticDefenseReach {
			continue
		}
		if b.Info.AttacksAir {
			air++
		}
		if b.Info.AttacksGround {
			ground++
		}
	}
	return air, ground
}

// netNeeds is the defenders still needed once static defense covering the
// region is counted, clamped at zero.
func netNeeds(w *model.World, region model.RegionID, at orb.Point, threats []*model.Enemy) (fly, ground, groundStatic int) {
	fly, ground = defendersNeeded(threats)
	airStatic, groundStatic := staticDefense(w, region, at)
	fly = max(fly-staticAirValue*airStatic, 0)
	ground = max(ground-staticGroundValue*groundStatic, 0)
	return fly, ground, groundStatic
}

func (c *Commander) updateBaseDefenseSquads(tc *tickContext) {
	if len(tc.roster) == 0 {
		return
	}

	enemyRegion := model.NoRegion
	if b, ok := tc.w.EnemyMainBase(); ok {
		enemyRegion = tc.w.RegionAt(b.Pos)
	}
	mainRegion := tc.w.RegionAt(tc.w.MyMain().Pos)

	seen := make(map[model.RegionID]bool, len(tc.w.Regions))
	for _, region := range tc.w.Regions {
		seen[region.ID] = true
		// Never defend inside the enemy main; we may be there on purpose.
		if region.ID == enemyRegion {
			continue
		}
		if !region.Occupied {
			c.retireDefense(region.ID)
			continue
		}

		threats := c.threatsIn(tc, region.ID)
		if len(threats) == 0 {
			c.retireDefense(region.ID)
			continue
		}

		var d squad.Directive
		if tc.w.Aggressive || region.ID == mainRegion {
			label := fmt.Sprintf("Defend region at %.0f %.0f", region.Center[0], region.Center[1])
			d = squad.NewDirective(squad.Defend, region.Center, c.cfg.RegionDefenseRadius, label)
		} else {
			// Secondary region while defensive: the main army already holds
			// the front, so share its orders.
			d = c.reg.Get(GroundSquad).Directive()
		}
		s := c.defenseSquad(region)
		s.SetDirective(d)

		flyNeed, groundNeed, groundStatic := netNeeds(tc.w, region.ID, d.Position, threats)

		// Pulling workers can lose the game; only in narrow cases.
		pull := !tc.w.Aggressive || c.cfg.WorkersDefendRush &&
			(groundStatic == 0 && lightMeleeNearMain(tc.w) > 0 || buildingRush(tc))

		slog.Debug("region defense",
			"squad", s.Name(),
			"threats", len(threats),
			"flyNeed", flyNeed,
			"groundNeed", groundNeed,
			"pullWorkers", pull,
		)
		c.updateDefenseSquadUnits(tc, s, flyNeed, groundNeed, pull)
	}

	// Regions the map no longer reports.
	for id := range c.defense {
		if !seen[id] {
			c.retireDefense(id)
		}
	}

	// Threats can leave between detection and arrival.
	for _, s := range c.reg.Squads() {
		d := s.Directive()
		if d.Kind != squad.Defend || s.IsEmpty() {
			continue
		}
		if !enemyWithin(tc.w, d.Position, d.Radius) {
			s.Clear()
		}
	}
}

// defenseSquad returns the region's squad, creating it on first need.
func (c *Commander) defenseSquad(region model.Region) *squad.Squad {
	if s, ok := c.defense[region.ID]; ok {
		return s
	}
	s := squad.New(regionSquadName(region), squad.Directive{}, BaseDefensePriority)
	c.reg.Add(s)
	c.defense[region.ID] = s
	return s
}

func (c *Commander) retireDefense(id model.RegionID) {
	s, ok := c.defense[id]
	if !ok {
		return
	}
	c.reg.Discard(s.Name())
	delete(c.defense, id)
}

func enemyWithin(w *model.World, p orb.Point, radius float64) bool {
	for _, e := range w.VisibleEnemies() {
		if model.Distance(e.Pos, p) < radius {
			return true
		}
	}
	return false
}

// updateDefenseSquadUnits tops the squad up to the needed defenders. Workers
// fill ground gaps only as a stopgap and leave once real units arrive.
func (c *Commander) updateDefenseSquadUnits(tc *tickContext, s *squad.Squad, flyNeed, groundNeed int, pullWorkers bool) {
	if flyNeed == 0 && groundNeed == 0 {
		s.Clear()
		return
	}

	flyAdded, groundAdded, workers := 0, 0, 0
	for _, u := range s.Units() {
		if u.Info.AttacksAir {
			flyAdded++
		}
		if u.Info.Worker {
			workers++
		}
		groundAdded += catalog.DefenderValue(u.Info.Category)
	}

	at := s.Directive().Position
	for flyNeed > flyAdded {
		u := c.closestDefender(tc, s, at, true, false)
		if u == nil {
			break
		}
		if u.Info.Worker {
			panic(fmt.Sprintf("combat: worker %d chosen as flying defender", u.ID))
		}
		c.reg.Assign(u, s)
		flyAdded++
	}

	for groundNeed > groundAdded-workers {
		u := c.closestDefender(tc, s, at, false, pullWorkers)
		if u == nil {
			break
		}
		if u.Info.Worker {
			if !pullWorkers {
				panic(fmt.Sprintf("combat: worker %d pulled while pulling is off", u.ID))
			}
			if groundNeed <= groundAdded {
				break
			}
			c.markCombatWorker(tc, u.ID)
		}
		groundAdded += catalog.DefenderValue(u.Info.Category)
		c.reg.Assign(u, s)
	}

	// Send back workers we no longer need.
	for groundAdded > groundNeed {
		released := false
		for _, u := range s.Units() {
			if u.Info.Worker {
				s.Remove(u.ID)
				groundAdded--
				released = true
				break
			}
		}
		if !released {
			break
		}
	}
}

// closestDefender picks the nearest unit that can join s and shoot the
// right kind of target. A worker is chosen only when nothing else is
// available, or it is closer and the nearest fighter is far off.
func (c *Commander) closestDefender(tc *tickContext, s *squad.Squad, at orb.Point, flying, pullWorkers bool) *model.Unit {
	var best, bestWorker *model.Unit
	bestDist, bestWorkerDist := 0.0, 0.0

	for _, u := range tc.roster {
		if flying && !u.Info.AttacksAir || !flying && !u.Info.AttacksGround {
			continue
		}
		if !c.reg.CanAssign(u.ID, s) {
			continue
		}
		dist := model.Distance(u.Pos, at)
		if u.Info.Worker {
			if !pullWorkers || dist > workerPullReach {
				continue
			}
			// Builders and scouts stay on the job; a worker already fighting may move.
			if c.workers != nil && !c.workers.IsFree(u.ID) && !c.inCombat(u.ID) {
				continue
			}
			if bestWorker == nil || dist < bestWorkerDist {
				bestWorker, bestWorkerDist = u, dist
			}
			continue
		}
		if best == nil || dist < bestDist {
			best, bestDist = u, dist
		}
	}

	if bestWorker != nil && (best == nil || bestWorkerDist < bestDist && bestDist > workerPreferenceMargin) {
		return bestWorker
	}
	return best
}

// lightMeleeNearMain counts fast melee attackers at our front door.
func lightMeleeNearMain(w *model.World) int {
	home := w.MyMain().Pos
	n := 0
	for _, e := range w.VisibleEnemies() {
		if e.Info.Category == catalog.LightMelee && model.Distance(e.Pos, home) < rushConcernRadius {
			n++
		}
	}
	return n
}

// buildingRush is an enemy structure near our main while we have nothing to
// fight it with.
func buildingRush(tc *tickContext) bool {
	for _, u := range tc.roster {
		if !u.Info.Worker && (u.Info.AttacksGround || u.Info.AttacksAir) {
			return false
		}
	}
	home := tc.w.MyMain().Pos
	for _, e := range tc.w.VisibleEnemies() {
		if e.Info.Building && model.Distance(e.Pos, home) < buildingRushRadius {
			return true
		}
	}
	return false
}

// updateScoutDefenseSquad keeps one ranged unit in our main to chase scouts.
// Any real threat there is left to base defense. The Defend sweep in
// updateBaseDefenseSquads sends it back when nothing is in range.
func (c *Commander) updateScoutDefenseSquad(tc *tickContext) {
	if c.cfg.ScoutDefenseRadius == 0 || len(tc.roster) == 0 {
		return
	}
	s := c.reg.Get(ScoutDefenseSquad)

	home := tc.w.RegionAt(tc.w.MyMain().Pos)
	if home == model.NoRegion {
		return
	}

	for _, e := range tc.w.VisibleEnemies() {
		if tc.w.RegionAt(e.Pos) != home || catalog.Harmless(e.Info.Category) {
			continue
		}
		if !e.Info.Worker || c.workerAttackedRecently(tc.tick()) {
			// Something other than a scout is here.
			s.Clear()
			return
		}
	}

	if !s.IsEmpty() {
		return
	}
	for _, u := range tc.roster {
		if !u.Info.Ranged || !u.Info.AttacksGround || u.Flying() || u.Info.Worker {
			continue
		}
		if tc.w.RegionAt(u.Pos) == home && c.reg.CanAssign(u.ID, s) {
			c.reg.Assign(u, s)
			slog.Debug("scout defense recruited", "agent", u.ID, "type", u.Type)
			return
		}
	}
}
