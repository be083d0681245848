package agent

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nstehr/vimy/vimy-squads/combat"
	"github.com/nstehr/vimy/vimy-squads/squad"
)

// EventKind identifies a notable change in squad allocation between two
// consecutive ticks.
type EventKind string

const (
	EventSquadFormed    EventKind = "squad_formed"
	EventSquadDisbanded EventKind = "squad_disbanded"
	EventRetargeted     EventKind = "squad_retargeted"
	EventSquadMauled    EventKind = "squad_mauled"
	EventWorkersPulled  EventKind = "workers_pulled"
	EventEnemyCanBurrow EventKind = "enemy_can_burrow"
)

// A squad this small losing half its members is noise.
const mauledFloor = 4

// Event is a significant allocation change found by diffing consecutive
// orders. Events are logged so a replay can be followed without dumping
// every tick.
type Event struct {
	Kind   EventKind
	Tick   int
	Squad  string
	Detail string
}

// allocationSnapshot keeps the diffable parts of one tick's orders.
type allocationSnapshot struct {
	squads    map[string]squad.Snapshot
	canBurrow bool
}

func takeSnapshot(o combat.Orders) allocationSnapshot {
	snap := allocationSnapshot{
		squads:    make(map[string]squad.Snapshot, len(o.Squads)),
		canBurrow: o.EnemyCanBurrow,
	}
	for _, s := range o.Squads {
		snap.squads[s.Name] = s
	}
	return snap
}

// detectEvents compares this tick's orders against the previous snapshot.
// alive holds the IDs of every agent still on the roster. Returns nil if
// prev is nil (first tick).
func detectEvents(o combat.Orders, alive map[int]bool, prev *allocationSnapshot) []Event {
	if prev == nil {
		return nil
	}
	cur := takeSnapshot(o)

	names := slices.Collect(maps.Keys(prev.squads))
	for name := range cur.squads {
		if _, ok := prev.squads[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	var events []Event
	for _, name := range names {
		p, had := prev.squads[name]
		c, has := cur.squads[name]

		switch {
		case !had && has:
			events = append(events, Event{
				Kind:   EventSquadFormed,
				Tick:   o.Tick,
				Squad:  name,
				Detail: fmt.Sprintf("%d agents, %s", len(c.Agents), c.Directive),
			})
		case had && !has:
			events = append(events, Event{
				Kind:   EventSquadDisbanded,
				Tick:   o.Tick,
				Squad:  name,
				Detail: fmt.Sprintf("was %d agents", len(p.Agents)),
			})
		case p.Directive.Kind != c.Directive.Kind || p.Directive.Position != c.Directive.Position:
			events = append(events, Event{
				Kind:   EventRetargeted,
				Tick:   o.Tick,
				Squad:  name,
				Detail: fmt.Sprintf("%s -> %s", p.Directive, c.Directive),
			})
		}

		if had && len(p.Agents) >= mauledFloor {
			dead := 0
			for _, id := range p.Agents {
				if !alive[id] {
					dead++
				}
			}
			if dead*2 > len(p.Agents) {
				events = append(events, Event{
					Kind:   EventSquadMauled,
					Tick:   o.Tick,
					Squad:  name,
					Detail: fmt.Sprintf("lost %d of %d agents", dead, len(p.Agents)),
				})
			}
		}
	}

	if len(o.CombatWorkers) > 0 {
		events = append(events, Event{
			Kind:   EventWorkersPulled,
			Tick:   o.Tick,
			Detail: fmt.Sprintf("workers %v", o.CombatWorkers),
		})
	}

	if !prev.canBurrow && cur.canBurrow {
		events = append(events, Event{
			Kind:   EventEnemyCanBurrow,
			Tick:   o.Tick,
			Detail: "scanned a hidden enemy",
		})
	}

	return events
}
