package agent

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/combat"
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

var (
	// ErrNoSession is returned for a tick that arrives before the hello handshake.
	ErrNoSession = errors.New("tick before hello")
	// ErrTerrainSize is returned for a hello whose terrain grid could not fit in a message.
	ErrTerrainSize = errors.New("terrain grid too large")
)

// Every cell takes at least two bytes of JSON.
const maxTerrainCells = ipc.MaxMessageSize / 2

// Agent owns the squad allocation for a single player session.
type Agent struct {
	Conn    *ipc.Connection
	Session string
	Player  string
	Faction string

	base      *catalog.Catalog
	catalog   *catalog.Catalog
	cfg       combat.Config
	commander *combat.Commander
	workers   *workerBook
	prev      *allocationSnapshot
	log       *slog.Logger
}

// New creates an agent for conn. base is the catalog every session starts
// from; hello may extend it.
func New(conn *ipc.Connection, base *catalog.Catalog, cfg combat.Config) *Agent {
	id := uuid.NewString()
	log := slog.With("session", id)
	if conn != nil {
		conn.SetLogger(log)
	}
	return &Agent{
		Conn:    conn,
		Session: id,
		base:    base,
		cfg:     cfg,
		workers: newWorkerBook(),
		log:     log,
	}
}

// HandleHello completes the handshake and starts a fresh Commander, so a
// second hello on the same connection starts a new game.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	terrain, err := terrainGrid(hello.Terrain)
	if err != nil {
		return nil, err
	}

	a.Player = hello.Player
	a.Faction = hello.Faction
	a.catalog = a.base.With(hello.Catalog)
	a.workers = newWorkerBook()
	a.prev = nil

	commander, err := combat.New(a.cfg, a.workers, terrain)
	if err != nil {
		return nil, fmt.Errorf("start commander: %w", err)
	}
	a.commander = commander
	if a.Conn != nil {
		a.Conn.Player = a.Player
	}

	a.log.Info("player identified",
		"player", a.Player,
		"faction", a.Faction,
		"catalogOverrides", len(hello.Catalog),
		"terrain", hello.Terrain != nil,
	)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Session: a.Session})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleTick runs one allocation pass and replies with the orders.
func (a *Agent) HandleTick(env ipc.Envelope) (*ipc.Envelope, error) {
	if a.commander == nil {
		return nil, ErrNoSession
	}

	var w model.World
	if err := env.Decode(&w); err != nil {
		return nil, err
	}
	w.Resolve(a.catalog)
	a.workers.observe(&w)

	orders := a.commander.Update(&w)

	alive := make(map[int]bool, len(w.Units))
	for _, u := range w.Units {
		alive[u.ID] = true
	}
	for _, e := range detectEvents(orders, alive, a.prev) {
		a.log.Info("squad event", "kind", e.Kind, "tick", e.Tick, "squad", e.Squad, "detail", e.Detail)
	}
	snap := takeSnapshot(orders)
	a.prev = &snap

	a.log.Debug("tick handled",
		"tick", w.Tick,
		"units", model.CountTypes(w.Units),
		"visibleEnemies", model.CountTypes(w.VisibleEnemies()),
		"squads", len(orders.Squads),
		"commands", len(orders.Commands),
		"fightingWorkers", a.workers.fighting(),
	)

	reply, err := ipc.NewEnvelope(ipc.TypeOrders, orders)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func terrainGrid(td *ipc.TerrainData) (*model.TerrainGrid, error) {
	if td == nil || td.Cols <= 0 || td.Rows <= 0 {
		return nil, nil
	}
	if td.Cols > maxTerrainCells/td.Rows {
		return nil, fmt.Errorf("%w: %dx%d", ErrTerrainSize, td.Cols, td.Rows)
	}
	grid := make([]model.TerrainType, len(td.Grid))
	for i, v := range td.Grid {
		grid[i] = model.TerrainType(v)
	}
	return model.NewTerrainGrid(td.Cols, td.Rows, td.CellW, td.CellH, grid), nil
}
