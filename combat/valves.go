package combat

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
)

const (
	garrisonNearRadius = 12 * 32
	garrisonFastRadius = 18 * 32
	garrisonLoadRadius = 12 * 32

	dyingHP        = 30
	fragileDyingHP = 130 // a fragile morph loses up to 100 hp when it finishes
	fragileLastBit = 24  // ticks of build time left
)

// loadOrUnloadGarrisons fills garrison structures one unit per tick while an
// enemy is close, and empties them otherwise.
func (c *Commander) loadOrUnloadGarrisons(tc *tickContext) {
	for _, b := range tc.w.Buildings {
		if b.Info.Category != catalog.Garrison || !b.Completed {
			continue
		}

		if !enemyThreatensGarrison(tc.w, b) {
			if len(b.Occupants) > 0 {
				tc.orders.Commands = append(tc.orders.Commands, Command{Kind: CmdUnloadAll, Structure: b.ID})
			}
			continue
		}

		if b.SpaceRemaining <= 0 {
			continue
		}
		if u := closestGarrisonable(tc, b); u != nil {
			slog.Debug("garrison load", "structure", b.ID, "agent", u.ID)
			tc.orders.Commands = append(tc.orders.Commands, Command{Kind: CmdLoad, Structure: b.ID, Agent: u.ID})
		}
	}
}

// enemyThreatensGarrison: any visible enemy close by, or a fast one a little
// further out.
func enemyThreatensGarrison(w *model.World, b model.Building) bool {
	for _, e := range w.VisibleEnemies() {
		d := model.Distance(e.Pos, b.Pos)
		if d <= garrisonNearRadius || e.Info.Fast && d <= garrisonFastRadius {
			return true
		}
	}
	return false
}

func closestGarrisonable(tc *tickContext, b model.Building) *model.Unit {
	var best *model.Unit
	bestDist := 0.0
	for _, u := range tc.roster {
		if !u.Info.Garrisonable || u.Loaded || u.Info.SpaceRequired > b.SpaceRemaining {
			continue
		}
		d := model.Distance(u.Pos, b.Pos)
		if d > garrisonLoadRadius {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

// cancelDyingItems gets our money back from construction and morphs about to
// be destroyed.
func (c *Commander) cancelDyingItems(tc *tickContext) {
	for _, b := range tc.w.Buildings {
		if !b.UnderAttack || b.Completed && !b.Morphing || b.Info.NeverCancel {
			continue
		}
		if dying(b.HP, b.RemainingBuildTime, b.Info) {
			c.cancel(tc, b.ID, b.Type, b.HP)
		}
	}
	for _, u := range tc.w.Units {
		if !u.UnderAttack || u.Info.Category != catalog.Morph || u.RemainingBuildTime == 0 || u.Info.NeverCancel {
			continue
		}
		if dying(u.HP, u.RemainingBuildTime, u.Info) {
			c.cancel(tc, u.ID, u.Type, u.HP)
		}
	}
}

func dying(hp, remaining int, info catalog.TypeInfo) bool {
	return hp < dyingHP || info.FragileMorph && hp < fragileDyingHP && remaining < fragileLastBit
}

func (c *Commander) cancel(tc *tickContext, id int, typ string, hp int) {
	slog.Info("cancelling dying item", "structure", id, "type", typ, "hp", hp)
	tc.orders.Commands = append(tc.orders.Commands, Command{Kind: CmdCancel, Structure: id})
}

// scanCloaked spends one scan on an enemy we can see but not hit.
func (c *Commander) scanCloaked(tc *tickContext) {
	scanner := -1
	for _, b := range tc.w.Buildings {
		if b.Info.Scanner && b.Completed {
			scanner = b.ID
			break
		}
	}
	if scanner < 0 {
		return
	}
	for _, e := range tc.w.VisibleEnemies() {
		if !e.Detected || e.Burrowing {
			tc.orders.Commands = append(tc.orders.Commands, scanAt(scanner, e.Pos))
			if !c.enemyCanBurrow {
				slog.Info("enemy can burrow or cloak", "type", e.Type)
			}
			c.enemyCanBurrow = true
			return
		}
	}
}
