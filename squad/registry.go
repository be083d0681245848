package squad

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/vimy-squads/model"
)

// Registry is the authoritative map from squad name to Squad and the only
// place unit ownership changes hands. A unit is owned by at most one squad.
type Registry struct {
	order     []*Squad
	byName    map[string]*Squad
	owner     map[int]*Squad
	protected map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		byName:    make(map[string]*Squad),
		owner:     make(map[int]*Squad),
		protected: make(map[string]bool),
	}
}

// Add registers s. Registering a name twice is a programming error.
func (r *Registry) Add(s *Squad) {
	if _, ok := r.byName[s.name]; ok {
		panic(fmt.Sprintf("squad: %q already registered", s.name))
	}
	if s.reg != nil {
		panic(fmt.Sprintf("squad: %q belongs to another registry", s.name))
	}
	s.reg = r
	r.byName[s.name] = s
	r.order = append(r.order, s)
	for _, id := range s.ids {
		r.take(id, s)
	}
	slog.Info("squad created", "squad", s.name, "priority", s.priority)
}

// Discard clears s and unregisters it. Unknown names are ignored.
func (r *Registry) Discard(name string) {
	s, ok := r.byName[name]
	if !ok {
		return
	}
	s.Clear()
	s.reg = nil
	delete(r.byName, name)
	delete(r.protected, name)
	for i, o := range r.order {
		if o == s {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	slog.Info("squad discarded", "squad", name)
}

func (r *Registry) Exists(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Get returns the named squad. Callers check Exists first when the squad
// may legitimately be missing; asking for an absent squad panics.
func (r *Registry) Get(name string) *Squad {
	s, ok := r.byName[name]
	if !ok {
		panic(fmt.Sprintf("squad: %q does not exist", name))
	}
	return s
}

// Protect marks a squad whose members may never be taken by another squad,
// whatever the priorities say.
func (r *Registry) Protect(name string) {
	r.Get(name)
	r.protected[name] = true
}

func (r *Registry) IsProtected(name string) bool { return r.protected[name] }

// SquadOf returns the squad that owns unit id, or nil.
func (r *Registry) SquadOf(id int) *Squad { return r.owner[id] }

// CanAssign reports whether s may take unit id. Admission has two parts: the
// current owner must not be protected, and must rank strictly below s. An
// unowned unit is always admissible; a unit already in s is not.
func (r *Registry) CanAssign(id int, s *Squad) bool {
	cur, ok := r.owner[id]
	if !ok {
		return true
	}
	if cur == s {
		return false
	}
	if r.protected[cur.name] {
		return false
	}
	return outranks(s, cur)
}

func outranks(s, cur *Squad) bool { return s.priority > cur.priority }

// Assign moves u into s, removing it from its previous owner first.
// Reassigning a unit to the squad that already owns it is a no-op.
func (r *Registry) Assign(u *model.Unit, s *Squad) {
	if s.reg != r {
		panic(fmt.Sprintf("squad: assign to unregistered squad %q", s.name))
	}
	if cur, ok := r.owner[u.ID]; ok {
		if cur == s {
			s.members[u.ID] = u
			return
		}
		cur.remove(u.ID)
	}
	s.add(u)
	r.owner[u.ID] = s
}

// Release takes unit id out of whatever squad owns it.
func (r *Registry) Release(id int) {
	if cur, ok := r.owner[id]; ok {
		cur.remove(id)
		delete(r.owner, id)
	}
}

func (r *Registry) take(id int, s *Squad) {
	if cur, ok := r.owner[id]; ok && cur != s {
		cur.remove(id)
	}
	r.owner[id] = s
}

// Refresh rebinds every member to this tick's unit records and forgets
// units that are no longer on the roster.
func (r *Registry) Refresh(roster []*model.Unit) {
	alive := make(map[int]*model.Unit, len(roster))
	for _, u := range roster {
		alive[u.ID] = u
	}
	for _, s := range r.order {
		for _, id := range s.refresh(alive) {
			delete(r.owner, id)
		}
	}
}

// Update advances every squad once, in registration order.
func (r *Registry) Update(tick int) {
	for _, s := range r.order {
		s.update(tick)
	}
}

// Squads returns the registered squads in registration order.
func (r *Registry) Squads() []*Squad {
	out := make([]*Squad, len(r.order))
	copy(out, r.order)
	return out
}

// Snapshot returns every non-empty squad's membership and directive.
func (r *Registry) Snapshot() []Snapshot {
	var out []Snapshot
	for _, s := range r.order {
		if s.IsEmpty() {
			continue
		}
		out = append(out, s.Snapshot())
	}
	return out
}

// Owned returns the number of units owned by any squad.
func (r *Registry) Owned() int { return len(r.owner) }
