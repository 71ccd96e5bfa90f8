package ai

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/1siamBot/ironfront/engine/config"
)

// State is the AI's current posture
type State string

const (
	StateBuildUp    State = "BUILD_UP"
	StateAggressive State = "AGGRESSIVE"
	StateThreatened State = "THREATENED"
	StateAttacked   State = "ATTACKED"
	StateBroke      State = "BROKE"
)

func parseState(s string) (State, error) {
	switch st := State(s); st {
	case StateBuildUp, StateAggressive, StateThreatened, StateAttacked, StateBroke:
		return st, nil
	}
	return "", fmt.Errorf("unknown ai state %q", s)
}

// StateEnv is what state conditions can see
type StateEnv struct {
	Iron            int
	IncomeRate      float64
	HQHealthRatio   float64
	DefenseCooldown int
	EnemiesNearHQ   int
	Waves           int
	EnemyBaseSize   int
}

// DefaultStateRules returns the built-in classifier, highest priority first
func DefaultStateRules() []config.StateRule {
	return []config.StateRule{
		{State: string(StateBroke), Priority: 50, Condition: "Iron < 300 || IncomeRate < 50"},
		{State: string(StateAttacked), Priority: 40, Condition: "HQHealthRatio < 0.6 || DefenseCooldown > 0"},
		{State: string(StateThreatened), Priority: 30, Condition: "EnemiesNearHQ > 0"},
		{State: string(StateAggressive), Priority: 20, Condition: "Waves >= 2 || EnemyBaseSize > 8"},
	}
}

type stateRule struct {
	state    State
	priority int
	src      string
	program  *vm.Program
}

// Classifier picks the AI state from compiled rule conditions. When no
// condition holds the state is BUILD_UP.
type Classifier struct {
	rules []stateRule
}

// NewClassifier compiles the rules, falling back to the built-in set
// when rs is empty.
func NewClassifier(rs []config.StateRule) (*Classifier, error) {
	if len(rs) == 0 {
		rs = DefaultStateRules()
	}
	c := &Classifier{}
	for _, r := range rs {
		st, err := parseState(r.State)
		if err != nil {
			return nil, err
		}
		prog, err := expr.Compile(r.Condition, expr.Env(StateEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile state rule %s: %w", r.State, err)
		}
		c.rules = append(c.rules, stateRule{state: st, priority: r.Priority, src: r.Condition, program: prog})
	}
	sort.SliceStable(c.rules, func(i, j int) bool {
		return c.rules[i].priority > c.rules[j].priority
	})
	return c, nil
}

// Classify returns the state of the first rule that holds
func (c *Classifier) Classify(env StateEnv) State {
	for _, r := range c.rules {
		out, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("state rule error", "state", r.state, "condition", r.src, "error", err)
			continue
		}
		if ok, _ := out.(bool); ok {
			return r.state
		}
	}
	return StateBuildUp
}
