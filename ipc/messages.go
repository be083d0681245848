package ipc

import "github.com/nstehr/vimy/vimy-squads/catalog"

// These constants must stay in sync with the C# MessageType enum in the game mod.
const (
	TypeHello  = "hello"
	TypeAck    = "ack"
	TypeTick   = "tick"
	TypeOrders = "orders"
)

// HelloMessage opens a session. Catalog entries override or extend the
// built-in type catalog for this game only.
type HelloMessage struct {
	Player  string             `json:"player"`
	Faction string             `json:"faction"`
	Catalog []catalog.TypeInfo `json:"catalog,omitempty"`
	Terrain *TerrainData       `json:"terrain,omitempty"`
}

// TerrainData carries the coarse exploration grid from the mod.
// Optional; without it exploration targets fall back to our main base.
type TerrainData struct {
	Cols  int   `json:"cols"`
	Rows  int   `json:"rows"`
	CellW int   `json:"cellW"`
	CellH int   `json:"cellH"`
	Grid  []int `json:"grid"`
}

type AckMessage struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
	Error   string `json:"error,omitempty"`
}
