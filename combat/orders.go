package combat

import (
	"github.com/nstehr/vimy/vimy-squads/squad"
	"github.com/paulmach/orb"
)

// CommandKind names a one-shot order produced by the safety valves.
type CommandKind string

// These constants must stay in sync with the mod's command executor.
const (
	CmdLoad      CommandKind = "load"
	CmdUnloadAll CommandKind = "unload_all"
	CmdCancel    CommandKind = "cancel"
	CmdScan      CommandKind = "scan"
)

// Command is a direct order to one structure. Agent is set for load; X/Y
// for scan.
type Command struct {
	Kind      CommandKind `json:"kind"`
	Structure int         `json:"structure"`
	Agent     int         `json:"agent,omitempty"`
	X         int         `json:"x,omitempty"`
	Y         int         `json:"y,omitempty"`
}

func scanAt(structure int, p orb.Point) Command {
	return Command{Kind: CmdScan, Structure: structure, X: int(p[0]), Y: int(p[1])}
}

// Orders is everything one Update produces for the micro layer.
type Orders struct {
	Tick           int              `json:"tick"`
	Squads         []squad.Snapshot `json:"squads"`
	Commands       []Command        `json:"commands,omitempty"`
	CombatWorkers  []int            `json:"combat_workers,omitempty"`
	EnemyCanBurrow bool             `json:"enemy_can_burrow,omitempty"`
}
