package combat

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/nstehr/vimy/vimy-squads/model"
)

// workerPullScore ranks workers for combat: healthy ones first, and
// preferably not ones carrying cargo home.
func workerPullScore(u *model.Unit) int {
	score := 0
	if u.HP == u.Info.MaxHitPoints {
		score += 10
	}
	if u.Shields == u.Info.MaxShields {
		score += 4
	}
	if u.CarryingGas {
		score -= 3
	}
	if u.CarryingMinerals {
		score -= 2
	}
	return score
}

// inCombat reports whether id already belongs to a squad other than Idle.
func (c *Commander) inCombat(id int) bool {
	s := c.reg.SquadOf(id)
	return s != nil && s.Name() != IdleSquad
}

// pullWorkers moves up to n of the best free workers into Ground. Zero or
// negative n does nothing.
func (c *Commander) pullWorkers(tc *tickContext, n int) {
	if n <= 0 || !c.reg.Exists(GroundSquad) {
		return
	}
	ground := c.reg.Get(GroundSquad)

	var candidates []*model.Unit
	for _, u := range tc.roster {
		if !u.Info.Worker || !c.reg.CanAssign(u.ID, ground) {
			continue
		}
		if c.workers != nil && !c.workers.IsFree(u.ID) {
			continue
		}
		candidates = append(candidates, u)
	}
	slices.SortStableFunc(candidates, func(a, b *model.Unit) int {
		return cmp.Compare(workerPullScore(b), workerPullScore(a))
	})

	for _, u := range candidates[:min(n, len(candidates))] {
		c.reg.Assign(u, ground)
		c.markCombatWorker(tc, u.ID)
	}
	slog.Info("workers pulled", "requested", n, "pulled", min(n, len(candidates)))
}

// ReleaseWorkers sends every worker in Ground back to the economy. They
// fall back into Idle on the next policy tick.
func (c *Commander) ReleaseWorkers() {
	if !c.reg.Exists(GroundSquad) {
		return
	}
	ground := c.reg.Get(GroundSquad)
	released := 0
	for _, u := range ground.Units() {
		if u.Info.Worker {
			ground.Remove(u.ID)
			released++
		}
	}
	if released > 0 {
		slog.Info("workers released", "count", released)
	}
}
