// Command aitoolkit runs the demo simulation: a handful of villager agents
// plan and execute resource-gathering goals until every camp goal is met.
package main

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kasuganosora/aitoolkit/agent"
	"github.com/kasuganosora/aitoolkit/bt"
	"github.com/kasuganosora/aitoolkit/config"
	"github.com/kasuganosora/aitoolkit/scheduler"
	"github.com/kasuganosora/aitoolkit/script"
	"github.com/kasuganosora/aitoolkit/sim"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Log.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Optional scripted gate ----
	var gate bt.Node[sim.Villager]
	if cfg.Sim.Gate != "" {
		sb := script.NewSandbox(cfg.Script.VMPoolSize, cfg.Script.Timeout, logger)
		gate = script.Condition[sim.Villager](sb, cfg.Sim.Gate, sim.Bind)
		logger.Info("scripted gate enabled", zap.String("gate", cfg.Sim.Gate))
	}

	// ---- Agents ----
	goal := sim.Goal(cfg.Sim.Food, cfg.Sim.Gold, cfg.Sim.Stone)
	agents := make([]*agent.Agent[sim.Villager], 0, cfg.Sim.Agents)
	for i := 0; i < cfg.Sim.Agents; i++ {
		a := agent.New(sim.Villager{}, goal, sim.Actions(), agent.Config{
			Name:          fmt.Sprintf("villager-%d", i+1),
			MaxIterations: cfg.Planner.MaxIterations,
			ReplansPerSec: cfg.Planner.ReplansPerSec,
			Logger:        logger,
		})
		if gate != nil {
			a.SetGate(gate)
		}
		agents = append(agents, a)
	}
	logger.Info("simulation starting",
		zap.Int("agents", len(agents)),
		zap.Int("tick_ms", cfg.Sim.TickMS))

	// ---- Tick loop ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	remaining := int64(len(agents))
	done := make(chan struct{})
	for i, a := range agents {
		finished := false
		name := fmt.Sprintf("agent-%d", i+1)
		sched.AddTicker(name, time.Duration(cfg.Sim.TickMS)*time.Millisecond, func() {
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
		logger.Info("all agents reached their goals")
	case <-time.After(cfg.Sim.Deadline):
		logger.Warn("deadline reached before all goals were met",
			zap.Int64("unfinished", atomic.LoadInt64(&remaining)))
	}

	// Quiesce the tickers before reading the blackboards.
	sched.Stop()
	time.Sleep(time.Duration(cfg.Sim.TickMS) * time.Millisecond)

	for _, a := range agents {
		bb := a.Blackboard()
		logger.Info("final blackboard",
			zap.String("id", a.ID().String()),
			zap.Bool("storage", bb.Storage),
			zap.Int("food", bb.Food),
			zap.Int("gold", bb.Gold),
			zap.Int("stone", bb.Stone),
			zap.Int("actions_run", len(bb.Journal)))
	}
}
