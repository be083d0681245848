package combat

import (
	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/squad"
)

// updateIdleSquad puts every unit nobody else has claimed into Idle.
func (c *Commander) updateIdleSquad(tc *tickContext) {
	idle := c.reg.Get(IdleSquad)
	for _, u := range tc.roster {
		if c.reg.CanAssign(u.ID, idle) {
			c.reg.Assign(u, idle)
		}
	}
}

// updateAttackSquads splits the main army into Ground and Flying and points
// both at the enemy, or back home when we are defensive.
func (c *Commander) updateAttackSquads(tc *tickContext) {
	ground := c.reg.Get(GroundSquad)
	flying := c.reg.Get(FlyingSquad)

	// At most one detector per squad, ground first since it cannot see uphill.
	groundDetector := ground.HasDetector()
	groundExists := ground.HasCombatUnits()

	flyingDetector := flying.HasDetector()
	flyingExists := false
	for _, u := range flying.Units() {
		if catalog.Affinity(u.Info.Category) == catalog.FlyingSquad {
			flyingExists = true
			break
		}
	}

	for _, u := range tc.roster {
		switch {
		case u.Info.Detector:
			if groundExists && !groundDetector && c.reg.CanAssign(u.ID, ground) {
				groundDetector = true
				c.reg.Assign(u, ground)
			} else if flyingExists && !flyingDetector && c.reg.CanAssign(u.ID, flying) {
				flyingDetector = true
				c.reg.Assign(u, flying)
			}

		case u.Info.Worker:
			// Workers join Ground only through PullWorkers.

		case catalog.Affinity(u.Info.Category) == catalog.FlyingSquad:
			if c.reg.CanAssign(u.ID, flying) {
				c.reg.Assign(u, flying)
			}

		case catalog.Affinity(u.Info.Category) == catalog.OptionalFlying:
			if flyingExists {
				ground.Remove(u.ID)
				if c.reg.CanAssign(u.ID, flying) {
					c.reg.Assign(u, flying)
				}
			} else {
				flying.Remove(u.ID)
				if c.reg.CanAssign(u.ID, ground) {
					c.reg.Assign(u, ground)
				}
			}

		// Catch-all: everything else fights on the ground.
		default:
			if c.reg.CanAssign(u.ID, ground) {
				c.reg.Assign(u, ground)
			}
		}
	}

	if tc.w.Aggressive {
		ground.SetDirective(squad.NewDirective(squad.Attack, c.attackLocation(tc, ground), c.cfg.AttackRadius, "Attack enemy base"))
		flying.SetDirective(squad.NewDirective(squad.Attack, c.attackLocation(tc, flying), c.cfg.AttackRadius, "Attack enemy base"))
		return
	}

	ground.SetDirective(c.holdDirective(tc, true))
	flying.SetDirective(c.holdDirective(tc, false))
}

// holdDirective guards the front line: our natural if we hold it, else our
// main. A wall narrows the hold to its gap.
func (c *Commander) holdDirective(tc *tickContext, canHoldWall bool) squad.Directive {
	base := tc.w.MyMain()
	if nat, ok := tc.w.MyNatural(); ok && nat.Owner == model.Self {
		base = nat
	}
	pos := base.Pos
	radius := c.cfg.DefensivePositionRadius
	kind := squad.Hold
	if tc.w.Wall != nil {
		pos = tc.w.Wall.GapCenter
		radius /= 4
		if canHoldWall {
			kind = squad.HoldWall
		}
	}
	return squad.NewDirective(kind, pos, radius, "Hold the wall")
}
