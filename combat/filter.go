package combat

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/vimy-squads/model"
)

// AgentEnv is what a filter expression sees for one of our units.
type AgentEnv struct {
	Type          string
	Category      string
	Flying        bool
	Worker        bool
	Detector      bool
	AttacksGround bool
	AttacksAir    bool
	Ranged        bool
	Fast          bool
	SpaceRequired int
	HP            int
	Shields       int
}

func envFor(u *model.Unit) AgentEnv {
	return AgentEnv{
		Type:          u.Type,
		Category:      u.Info.Category.String(),
		Flying:        u.Flying(),
		Worker:        u.Info.Worker,
		Detector:      u.Info.Detector,
		AttacksGround: u.Info.AttacksGround,
		AttacksAir:    u.Info.AttacksAir,
		Ranged:        u.Info.Ranged,
		Fast:          u.Info.Fast,
		SpaceRequired: u.Info.SpaceRequired,
		HP:            u.HP,
		Shields:       u.Shields,
	}
}

// AgentFilter is a compiled boolean predicate over AgentEnv.
type AgentFilter struct {
	src     string
	program *vm.Program
}

// NewAgentFilter compiles src. An empty source matches nothing.
func NewAgentFilter(src string) (*AgentFilter, error) {
	if src == "" {
		src = "false"
	}
	prog, err := expr.Compile(src, expr.Env(AgentEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &AgentFilter{src: src, program: prog}, nil
}

func (f *AgentFilter) String() string { return f.src }

// Match evaluates the filter for u. Runtime errors count as no match.
func (f *AgentFilter) Match(u *model.Unit) bool {
	result, err := vm.Run(f.program, envFor(u))
	if err != nil {
		slog.Warn("agent filter error", "filter", f.src, "agent", u.ID, "error", err)
		return false
	}
	ok, _ := result.(bool)
	return ok
}
