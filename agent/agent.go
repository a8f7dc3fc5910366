// Package agent ties the planning primitives into a per-NPC decision loop:
// hold a goal, plan when the current plan runs out, execute one action per
// tick. Replanning is rate-limited so an unreachable goal cannot burn a
// full search on every tick.
package agent

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kasuganosora/aitoolkit/bt"
	"github.com/kasuganosora/aitoolkit/goap"
)

// TickResult reports what an agent did during one tick.
type TickResult int

const (
	// Done: the blackboard already satisfies the goal.
	Done TickResult = iota
	// Acted: one plan step was executed.
	Acted
	// Gated: the behavior tree gate vetoed acting this tick.
	Gated
	// Throttled: a replan was due but the rate limiter deferred it.
	Throttled
	// Stuck: planning ran and found no path to the goal.
	Stuck
)

func (r TickResult) String() string {
	switch r {
	case Done:
		return "done"
	case Acted:
		return "acted"
	case Gated:
		return "gated"
	case Throttled:
		return "throttled"
	case Stuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// Config carries the tunables for one agent.
type Config struct {
	// Name is a human-readable label used in logs.
	Name string
	// MaxIterations bounds each planning call; 0 = unbounded.
	MaxIterations int
	// ReplansPerSec limits how often a fresh plan may be computed.
	// Zero or negative disables throttling.
	ReplansPerSec float64
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Agent runs one NPC's decision loop over a blackboard of type T.
type Agent[T goap.State[T]] struct {
	id      uuid.UUID
	name    string
	bb      T
	goal    T
	actions []goap.Action[T]
	plan    goap.Plan[T]
	gate    bt.Node[T]
	budget  int
	replan  *rate.Limiter
	logger  *zap.Logger
}

// New creates an agent with the given blackboard, goal and action catalog.
func New[T goap.State[T]](bb, goal T, actions []goap.Action[T], cfg Config) *Agent[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if cfg.ReplansPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ReplansPerSec), 1)
	}
	return &Agent[T]{
		id:      uuid.New(),
		name:    cfg.Name,
		bb:      bb,
		goal:    goal,
		actions: actions,
		budget:  cfg.MaxIterations,
		replan:  limiter,
		logger:  logger,
	}
}

// SetGate installs a behavior tree gate checked before every action.
func (a *Agent[T]) SetGate(gate bt.Node[T]) {
	a.gate = gate
}

// ID returns the agent's instance ID.
func (a *Agent[T]) ID() uuid.UUID { return a.id }

// Blackboard returns a pointer to the agent's live blackboard. External
// world changes applied through it take effect at the next replan.
func (a *Agent[T]) Blackboard() *T { return &a.bb }

// SetGoal replaces the goal and discards the current plan.
func (a *Agent[T]) SetGoal(goal T) {
	a.goal = goal
	a.plan = goap.Plan[T]{}
}

// Tick advances the agent by at most one action.
func (a *Agent[T]) Tick() TickResult {
	if a.bb.Equal(a.goal) {
		return Done
	}

	if !a.plan.IsActive() {
		if a.replan != nil && !a.replan.Allow() {
			return Throttled
		}
		a.plan = goap.NewPlan(a.actions, a.bb, a.goal, a.budget)
		if !a.plan.Found() {
			a.logger.Warn("no plan to goal",
				zap.String("agent", a.name),
				zap.String("id", a.id.String()))
			return Stuck
		}
		a.logger.Info("plan found",
			zap.String("agent", a.name),
			zap.Int("steps", a.plan.Size()))
	}

	if a.gate != nil && a.gate.Tick(&a.bb) == bt.StatusFailure {
		return Gated
	}

	a.plan.RunNext(&a.bb)
	a.logger.Debug("plan step executed",
		zap.String("agent", a.name),
		zap.Int("remaining", a.plan.Size()))
	if a.bb.Equal(a.goal) {
		a.logger.Info("goal reached", zap.String("agent", a.name))
		return Done
	}
	return Acted
}
