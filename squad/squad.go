// Package squad holds named, priority-ranked groups of agents and the
// registry that keeps each agent in at most one of them.
package squad

import (
	"log/slog"
	"slices"

	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/model"
)

// Squad gives units persistent identity across ticks. Membership is keyed by
// unit ID and rebound to the fresh unit records every tick by the Registry.
type Squad struct {
	name      string
	priority  int
	directive Directive

	ids     []int // insertion order, for deterministic iteration
	members map[int]*model.Unit

	reg *Registry // set while the squad is registered

	// CombatSimRadius bounds which enemies the micro layer weighs in a fight.
	CombatSimRadius float64
	// FightVisible makes the micro layer consider only visible enemies
	// rather than every remembered one.
	FightVisible bool

	directiveSince int
	lastKind       Kind
	lastLabel      string
}

// New creates an unregistered squad.
func New(name string, d Directive, priority int) *Squad {
	return &Squad{
		name:            name,
		priority:        priority,
		directive:       d,
		members:         make(map[int]*model.Unit),
		CombatSimRadius: 400,
		lastKind:        d.Kind,
		lastLabel:       d.Label,
	}
}

func (s *Squad) Name() string         { return s.name }
func (s *Squad) Priority() int        { return s.priority }
func (s *Squad) Directive() Directive { return s.directive }

// SetDirective replaces the squad's directive. Only policies call this.
func (s *Squad) SetDirective(d Directive) { s.directive = d }

// DirectiveSince is the tick the current directive kind or label took effect.
func (s *Squad) DirectiveSince() int { return s.directiveSince }

func (s *Squad) Contains(id int) bool {
	_, ok := s.members[id]
	return ok
}

func (s *Squad) Len() int      { return len(s.ids) }
func (s *Squad) IsEmpty() bool { return len(s.ids) == 0 }

// Units returns the members in the order they joined.
func (s *Squad) Units() []*model.Unit {
	out := make([]*model.Unit, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.members[id])
	}
	return out
}

// IDs returns member IDs in the order they joined.
func (s *Squad) IDs() []int { return slices.Clone(s.ids) }

// Remove takes one agent out of the squad. Safe to call for non-members.
func (s *Squad) Remove(id int) {
	if !s.Contains(id) {
		return
	}
	s.remove(id)
	if s.reg != nil {
		delete(s.reg.owner, id)
	}
}

// Clear empties the squad, leaving its directive in place.
func (s *Squad) Clear() {
	if s.IsEmpty() {
		return
	}
	slog.Debug("squad cleared", "squad", s.name, "members", len(s.ids))
	for _, id := range s.ids {
		if s.reg != nil {
			delete(s.reg.owner, id)
		}
	}
	s.ids = s.ids[:0]
	clear(s.members)
}

func (s *Squad) add(u *model.Unit) {
	if s.Contains(u.ID) {
		s.members[u.ID] = u
		return
	}
	s.ids = append(s.ids, u.ID)
	s.members[u.ID] = u
}

func (s *Squad) remove(id int) {
	delete(s.members, id)
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
}

// any reports whether some member satisfies pred.
func (s *Squad) any(pred func(*model.Unit) bool) bool {
	for _, id := range s.ids {
		if pred(s.members[id]) {
			return true
		}
	}
	return false
}

func (s *Squad) HasAir() bool {
	return s.any(func(u *model.Unit) bool { return u.Flying() })
}

func (s *Squad) HasGround() bool {
	return s.any(func(u *model.Unit) bool { return !u.Flying() })
}

func (s *Squad) CanAttackAir() bool {
	return s.any(func(u *model.Unit) bool { return u.Info.AttacksAir })
}

func (s *Squad) CanAttackGround() bool {
	return s.any(func(u *model.Unit) bool { return u.Info.AttacksGround })
}

func (s *Squad) HasDetector() bool {
	return s.any(func(u *model.Unit) bool { return u.Info.Detector })
}

// HasCombatUnits reports whether any member is a fighter rather than a
// detector or worker along for the ride.
func (s *Squad) HasCombatUnits() bool {
	return s.any(func(u *model.Unit) bool {
		return !u.Info.Detector && !u.Info.Worker && (u.Info.AttacksGround || u.Info.AttacksAir)
	})
}

func (s *Squad) ContainsCategory(c catalog.Category) bool {
	return s.any(func(u *model.Unit) bool { return u.Info.Category == c })
}

// refresh rebinds members to this tick's unit records and drops the dead.
// Returns the IDs that were dropped.
func (s *Squad) refresh(alive map[int]*model.Unit) []int {
	var dead []int
	kept := s.ids[:0]
	for _, id := range s.ids {
		u, ok := alive[id]
		if !ok {
			delete(s.members, id)
			dead = append(dead, id)
			continue
		}
		s.members[id] = u
		kept = append(kept, id)
	}
	s.ids = kept
	return dead
}

// update advances the squad's bookkeeping for one tick: it notices when a
// policy handed it a new kind of directive.
func (s *Squad) update(tick int) {
	if s.directive.Kind != s.lastKind || s.directive.Label != s.lastLabel {
		slog.Info("squad directive changed",
			"squad", s.name,
			"from", s.lastKind,
			"to", s.directive.Kind,
			"label", s.directive.Label,
			"members", len(s.ids),
		)
		s.lastKind = s.directive.Kind
		s.lastLabel = s.directive.Label
		s.directiveSince = tick
	}
}

// Snapshot is the (membership, directive) pair handed to the micro layer.
type Snapshot struct {
	Name      string    `json:"name"`
	Priority  int       `json:"priority"`
	Directive Directive `json:"directive"`
	Agents    []int     `json:"agents"`
}

func (s *Squad) Snapshot() Snapshot {
	return Snapshot{
		Name:      s.name,
		Priority:  s.priority,
		Directive: s.directive,
		Agents:    s.IDs(),
	}
}
