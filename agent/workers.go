package agent

import "github.com/nstehr/vimy/vimy-squads/model"

// workerBook is the sidecar's view of the mod's economy. The mod reports
// which workers are free each tick; we remember which ones we sent to fight
// until they are released or die.
type workerBook struct {
	free   map[int]bool
	combat map[int]bool
}

func newWorkerBook() *workerBook {
	return &workerBook{free: make(map[int]bool), combat: make(map[int]bool)}
}

// observe refreshes the book from a resolved world.
func (b *workerBook) observe(w *model.World) {
	if w.ReleaseWorkers {
		clear(b.combat)
	}
	clear(b.free)
	alive := make(map[int]bool)
	for _, u := range w.Units {
		if !u.Info.Worker {
			continue
		}
		alive[u.ID] = true
		if u.Free && !b.combat[u.ID] {
			b.free[u.ID] = true
		}
	}
	for id := range b.combat {
		if !alive[id] {
			delete(b.combat, id)
		}
	}
}

func (b *workerBook) IsFree(id int) bool { return b.free[id] }

func (b *workerBook) MarkCombatWorker(id int) {
	b.combat[id] = true
	delete(b.free, id)
}

func (b *workerBook) fighting() int { return len(b.combat) }
