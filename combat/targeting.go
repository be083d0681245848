package combat

import (
	"math"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/random"
	"github.com/nstehr/vimy/vimy-squads/squad"
	"github.com/paulmach/orb"
)

const baseDefenseScanRadius = 600

// attackLocation picks a point for s to attack. s may be nil, meaning a
// ground army that can hit ground.
func (c *Commander) attackLocation(tc *tickContext, s *squad.Squad) orb.Point {
	hasGround, hasAir := true, false
	canAttackGround, canAttackAir := true, false
	if s != nil {
		hasGround = s.HasGround()
		hasAir = s.HasAir()
		canAttackGround = s.CanAttackGround()
		canAttackAir = s.CanAttackAir()
	}

	// 1. The enemy base with the weakest static defense.
	if canAttackGround {
		if p, ok := weakestEnemyBase(tc.w, hasGround, hasAir); ok {
			return p
		}
	}

	// 2. A remembered enemy building. Liftable buildings can fly away from
	// a squad that cannot hit ground, so they stay fair game.
	for _, e := range tc.w.Enemies {
		if e.Info.Building && !e.Gone && (canAttackGround || e.Info.Liftable) {
			return e.Pos
		}
	}

	// 3. Whatever enemy we can see and hit.
	for _, e := range tc.w.Enemies {
		if !e.Visible || !e.Detected || e.Info.Category == catalog.Morph {
			continue
		}
		if e.Flying() && canAttackAir || !e.Flying() && canAttackGround {
			return e.Pos
		}
	}

	// 4. Go look for something.
	return c.leastExplored(tc, hasGround && !hasAir)
}

// weakestEnemyBase scores each enemy base by minus the number of nearby
// defenders that could shoot at the squad. Ties keep the first base found.
func weakestEnemyBase(w *model.World, hasGround, hasAir bool) (orb.Point, bool) {
	var target orb.Point
	found := false
	best := math.MinInt
	for _, b := range w.Bases {
		if b.Owner != model.Opponent {
			continue
		}
		score := 0
		for _, e := range w.Enemies {
			if e.Gone || model.Distance(e.Pos, b.Pos) > baseDefenseScanRadius {
				continue
			}
			caster := e.Info.Category == catalog.Caster
			if !e.Info.Building && !catalog.SlowDefender(e.Info.Category) && !caster {
				continue
			}
			if hasGround && e.Info.AttacksGround || hasAir && e.Info.AttacksAir || caster {
				score--
			}
		}
		if score > best {
			best = score
			target = b.Pos
			found = true
		}
	}
	return target, found
}

// dropLocation: the enemy main, else a remembered building, else explore.
func (c *Commander) dropLocation(tc *tickContext) orb.Point {
	if b, ok := tc.w.EnemyMainBase(); ok {
		return b.Pos
	}
	for _, e := range tc.w.Enemies {
		if e.Info.Building && !e.Gone {
			return e.Pos
		}
	}
	return c.leastExplored(tc, false)
}

// reconLocation picks a random neutral base reachable by ground.
func (c *Commander) reconLocation(tc *tickContext) (orb.Point, bool) {
	pick := random.NewReservoir[orb.Point](c.rng)
	for _, b := range tc.w.Bases {
		if b.Owner == model.Neutral && b.Reachable {
			pick.Offer(b.Pos)
		}
	}
	return pick.Pick()
}
