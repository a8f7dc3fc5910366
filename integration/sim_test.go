// End-to-end tests: agents, scheduler, planner and scripted gates working
// together the way the demo binary wires them.
package integration

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/aitoolkit/agent"
	"github.com/kasuganosora/aitoolkit/fsm"
	"github.com/kasuganosora/aitoolkit/goap"
	"github.com/kasuganosora/aitoolkit/scheduler"
	"github.com/kasuganosora/aitoolkit/script"
	"github.com/kasuganosora/aitoolkit/sim"
	"github.com/kasuganosora/aitoolkit/testutil"
)

func TestVillageReachesGoals(t *testing.T) {
	logger := testutil.Logger(t)
	goal := sim.Goal(2, 1, 1)

	sched := scheduler.New(logger)
	defer sched.Stop()

	const n = 3
	agents := make([]*agent.Agent[sim.Villager], 0, n)
	remaining := int64(n)
	done := make(chan struct{})

	for i := 0; i < n; i++ {
		a := agent.New(sim.Villager{}, goal, sim.Actions(), agent.Config{
			Name:          fmt.Sprintf("villager-%d", i+1),
			MaxIterations: 10000,
			Logger:        logger,
		})
		agents = append(agents, a)

		finished := false
		sched.AddTicker(fmt.Sprintf("agent-%d", i), time.Millisecond, func() {
			if finished {
				return
			}
			if a.Tick() == agent.Done {
				finished = true
				if atomic.AddInt64(&remaining, -1) == 0 {
					close(done)
				}
			}
		})
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("agents did not reach their goals in time")
	}
	for _, a := range agents {
		assert.True(t, a.Blackboard().Equal(goal))
	}
}

func TestAgentRecoversFromWorldInterference(t *testing.T) {
	goal := sim.Goal(1, 0, 0)
	a := agent.New(sim.Villager{}, goal, sim.Actions(), agent.Config{
		Name:   "unlucky",
		Logger: testutil.Logger(t),
	})

	// Let the agent chop a few logs, then steal them.
	for i := 0; i < 5; i++ {
		require.Equal(t, agent.Acted, a.Tick())
	}
	a.Blackboard().Wood = 0

	// The stale plan drains without reaching the goal; the agent replans
	// from the perturbed blackboard and still gets there.
	for i := 0; i < 200; i++ {
		if a.Tick() == agent.Done {
			break
		}
	}
	assert.True(t, a.Blackboard().Equal(goal))
}

func TestScriptedGateControlsAgent(t *testing.T) {
	sb := script.NewSandbox(2, 200*time.Millisecond, testutil.Logger(t))

	a := agent.New(sim.Villager{}, sim.Goal(0, 0, 0), sim.Actions(), agent.Config{
		Name:   "scripted",
		Logger: testutil.Logger(t),
	})
	// Data-driven work curfew: down tools once twelve logs are stacked.
	a.SetGate(script.Condition[sim.Villager](sb, `$bb.get("wood") < 12`, sim.Bind))

	last := a.Tick()
	for i := 0; i < 100 && last == agent.Acted; i++ {
		last = a.Tick()
	}
	// The goal needs only 10 wood, so the curfew never fires and the
	// agent finishes normally.
	assert.Equal(t, agent.Done, last)
	assert.True(t, a.Blackboard().Equal(sim.Goal(0, 0, 0)))
}

func TestPlanReplayMatchesSearch(t *testing.T) {
	// The plan the demo runs must reproduce the searched goal exactly.
	initial := sim.Villager{}
	goal := sim.Goal(3, 2, 1)

	p := goap.NewPlan(sim.Actions(), initial, goal, 0)
	require.True(t, p.Found())

	bb := initial
	testutil.RunAll(t, &p, &bb, 50)
	assert.True(t, bb.Equal(goal))
}

// ---- FSM-layered agent ----

// shift is the blackboard of the work/rest state machine; the villager
// agent rides along and only acts while the work shift is on top.
type shift struct {
	Agent  *agent.Agent[sim.Villager]
	Breaks int
}

type workShift struct{}

func (workShift) Enter(*shift)    {}
func (workShift) Exit(*shift)     {}
func (workShift) Pause(*shift)    {}
func (workShift) Resume(*shift)   {}
func (workShift) Update(s *shift) { s.Agent.Tick() }

type restShift struct{}

func (restShift) Enter(s *shift) { s.Breaks++ }
func (restShift) Exit(*shift)    {}
func (restShift) Pause(*shift)   {}
func (restShift) Resume(*shift)  {}
func (restShift) Update(*shift)  {}

func TestStackMachineLayersAgentWork(t *testing.T) {
	a := agent.New(sim.Villager{}, sim.Goal(1, 0, 0), sim.Actions(), agent.Config{
		Name:   "shiftworker",
		Logger: testutil.Logger(t),
	})

	bb := shift{Agent: a}
	var m fsm.StackMachine[shift]
	m.PushState(workShift{}, &bb)

	for i := 0; i < 4; i++ {
		m.Update(&bb)
	}
	require.Len(t, a.Blackboard().Journal, 4)

	// Break time: the rest shift shadows work, so updates change nothing.
	m.PushState(restShift{}, &bb)
	for i := 0; i < 10; i++ {
		m.Update(&bb)
	}
	assert.Len(t, a.Blackboard().Journal, 4)
	assert.Equal(t, 1, bb.Breaks)

	// Back to work until the camp goal is met.
	m.PopState(&bb)
	for i := 0; i < 100 && !a.Blackboard().Equal(sim.Goal(1, 0, 0)); i++ {
		m.Update(&bb)
	}
	assert.True(t, a.Blackboard().Equal(sim.Goal(1, 0, 0)))
}
