package combat

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/squad"
)

// dropPhase is the drop squad's one-way protocol. Dropped is terminal: the
// squad never resets or picks a new target once it has committed.
type dropPhase int

const (
	dropCollecting dropPhase = iota // Hold: gather a transport and cargo
	dropLoading                     // Load: board the transport
	dropDropped                     // Drop: go
)

func (p dropPhase) String() string {
	switch p {
	case dropCollecting:
		return "collecting"
	case dropLoading:
		return "loading"
	case dropDropped:
		return "dropped"
	}
	return fmt.Sprintf("dropPhase(%d)", int(p))
}

// Every transport is assumed to carry the same load.
const transportCapacity = 8

func (c *Commander) advanceDrop(to dropPhase) {
	if to < c.drop {
		panic(fmt.Sprintf("combat: drop phase cannot go from %s back to %s", c.drop, to))
	}
	if to != c.drop {
		slog.Info("drop phase", "from", c.drop, "to", to)
	}
	c.drop = to
}

// updateDropSquad drives the single drop squad through collect, load and
// drop. Only one transport is used.
func (c *Commander) updateDropSquad(tc *tickContext) {
	if !c.reg.Exists(DropSquad) {
		return
	}
	drop := c.reg.Get(DropSquad)

	// TODO: retarget after the drop once the micro layer can redirect a
	// transport in flight.
	if c.drop == dropDropped {
		return
	}

	var transport *model.Unit
	spots := transportCapacity
	anyUnloaded := false
	for _, u := range drop.Units() {
		if u.Info.IsTransport() {
			transport = u
			continue
		}
		spots -= u.Info.SpaceRequired
		if !u.Loaded {
			anyUnloaded = true
		}
	}

	if transport != nil && spots == 0 {
		if anyUnloaded {
			c.advanceDrop(dropLoading)
			drop.SetDirective(squad.NewDirective(squad.Load, transport.Pos, c.cfg.AttackRadius, "Load up"))
		} else {
			c.advanceDrop(dropDropped)
			drop.SetDirective(squad.NewDirective(squad.Drop, c.dropLocation(tc), c.cfg.DropRadius, "Go drop!"))
		}
		return
	}

	// Not complete. Look for more. Cargo must fit what is left so the squad
	// never ends up with a gap nothing can fill.
	for _, u := range tc.roster {
		if transport == nil && u.Info.IsTransport() && c.reg.CanAssign(u.ID, drop) {
			c.reg.Assign(u, drop)
			transport = u
		} else if !u.Info.IsTransport() && u.Info.SpaceRequired > 0 && u.Info.SpaceRequired <= spots &&
			c.goodDrop.Match(u) && c.reg.CanAssign(u.ID, drop) {
			c.reg.Assign(u, drop)
			spots -= u.Info.SpaceRequired
		}
	}
}
