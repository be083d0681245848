package combat

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/squad"
	"github.com/paulmach/orb"
)

// Weight a squad must have available before any of it goes on recon.
const reconThreshold = 24

// reconCap is the weight the recon squad may hold given the weight of the
// whole roster.
func reconCap(available, maxWeight int) int {
	if available < reconThreshold {
		return 0
	}
	return min(2+(available-reconThreshold)/6, maxWeight)
}

// updateReconSquad keeps a small force probing empty bases. Infantry are
// admitted only while room remains for two supports, which are topped up
// last.
func (c *Commander) updateReconSquad(tc *tickContext) {
	recon := c.reg.Get(ReconSquad)

	if !tc.w.Aggressive {
		recon.Clear()
		return
	}

	c.chooseReconTarget(tc)
	if !c.reconValid {
		recon.Clear()
		return
	}

	weight, nInfantry, nSupport := 0, 0, 0
	for _, u := range recon.Units() {
		weight += catalog.ReconWeight(u.Info.Category)
		switch u.Info.Category {
		case catalog.Infantry:
			nInfantry++
		case catalog.Support:
			nSupport++
		}
	}

	// A detector alone cannot do reconnaissance in force.
	if weight == 0 && !recon.IsEmpty() {
		recon.Clear()
	}

	available, detectors := 0, 0
	for _, u := range tc.roster {
		available += catalog.ReconWeight(u.Info.Category)
		if u.Info.Detector {
			detectors++
		}
	}

	limit := reconCap(available, c.cfg.ReconMaxWeight)

	// Over budget, or supports left with nobody to support: rebuild.
	if weight > limit || nInfantry == 0 && nSupport > 0 {
		recon.Clear()
		weight, nInfantry, nSupport = 0, 0, 0
	}

	supportWeight := catalog.ReconWeight(catalog.Support)
	hasDetector := recon.HasDetector()
	for _, u := range tc.roster {
		if weight >= limit {
			break
		}
		cat := u.Info.Category
		w := catalog.ReconWeight(cat)
		switch {
		case w > 0 && weight+w <= limit && c.reg.CanAssign(u.ID, recon):
			if cat == catalog.Infantry {
				if nInfantry*w < c.cfg.ReconMaxWeight-2*supportWeight {
					c.reg.Assign(u, recon)
					weight += w
					nInfantry++
				}
			} else if cat != catalog.Support {
				c.reg.Assign(u, recon)
				weight += w
			}
		// Take a detector only if the main army keeps one.
		case !hasDetector && detectors > 1 && u.Info.Detector && c.reg.CanAssign(u.ID, recon):
			c.reg.Assign(u, recon)
			hasDetector = true
		}
	}

	if nInfantry > 0 && nSupport < 2 {
		for _, u := range tc.roster {
			if weight >= limit || nSupport >= 2 {
				break
			}
			if u.Info.Category == catalog.Support && c.reg.CanAssign(u.ID, recon) {
				c.reg.Assign(u, recon)
				weight += supportWeight
				nSupport++
			}
		}
	}

	recon.SetDirective(squad.NewDirective(squad.Attack, c.reconTarget, c.cfg.ReconRadius, "Reconnaissance in force"))
}

// chooseReconTarget keeps the current target or switches, invalidating it
// when there is nowhere left to look.
func (c *Commander) chooseReconTarget(tc *tickContext) {
	next, ok := c.reconLocation(tc)

	var change bool
	switch {
	case !ok:
		change = true
	case !c.reconValid:
		change = true
	case tc.tick()-c.lastReconChange >= c.cfg.ReconTargetTimeout:
		// Too long on one target; the path is probably blocked.
		change = true
	case tc.w.IsVisible(c.reconTarget) && !groundEnemyNear(tc.w, c.reconTarget, c.cfg.ReconRadius):
		change = true
	}
	if !change {
		return
	}

	if ok != c.reconValid || next != c.reconTarget {
		slog.Debug("recon target changed", "from", c.reconTarget, "to", next, "valid", ok)
	}
	c.reconTarget = next
	c.reconValid = ok
	c.lastReconChange = tc.tick()
}

// groundEnemyNear reports a visible non-flying enemy within radius of p.
func groundEnemyNear(w *model.World, p orb.Point, radius float64) bool {
	for _, e := range w.Enemies {
		if e.Visible && !e.Flying() && model.Distance(e.Pos, p) <= radius {
			return true
		}
	}
	return false
}
