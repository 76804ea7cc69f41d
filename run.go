package main

import (
	"fmt"
	"log/slog"
	"time"

	"scroll-optimizer/scrolling"
)

// Report is the outcome of solving one Problem.
type Report struct {
	Name      string
	StatNames []string
	Goal      scrolling.Stats
	// Root carries the full strategy tree in Root.Child.
	Root     *scrolling.Exists
	PGoal    float64
	ExpCost  float64
	Counters scrolling.Counters
	Pruning  bool
	Elapsed  time.Duration
}

// Scroll is the first scroll to apply, or nil when there is nothing to do.
func (r Report) Scroll() *scrolling.Scroll {
	if r.Root == nil || r.Root.Child == nil {
		return nil
	}
	return r.Root.Child.Scroll
}

// runProblem solves p under cfg. Shared by the CLI and the Lambda handler.
func runProblem(p *Problem, cfg Config, log *slog.Logger) (Report, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	opts := []scrolling.Option{scrolling.WithLogger(log)}
	if !cfg.Pruning {
		opts = append(opts, scrolling.WithoutPruning())
	}
	solver, err := scrolling.NewSolver(p.Scrolls, p.Goal, opts...)
	if err != nil {
		return Report{}, fmt.Errorf("problem %q: %w", p.Name, err)
	}
	master := solver.Master()
	log.Debug("reachability bound", "problem", p.Name, "master", master.String(), "pruning", cfg.Pruning)

	root := scrolling.NewExists(p.Slots, p.Stats.Clone())
	start := time.Now()
	pGoal, expCost, err := solver.Solve(root)
	if err != nil {
		return Report{}, fmt.Errorf("problem %q: %w", p.Name, err)
	}
	elapsed := time.Since(start)

	r := Report{
		Name:      p.Name,
		StatNames: p.StatNames,
		Goal:      p.Goal,
		Root:      root,
		PGoal:     pGoal,
		ExpCost:   expCost,
		Counters:  solver.Counters(),
		Pruning:   cfg.Pruning,
		Elapsed:   elapsed,
	}
	log.Info("solved",
		"problem", p.Name,
		"p_goal", pGoal,
		"exp_cost", expCost,
		"evaluations", r.Counters.Evaluations,
		"cache_hits", r.Counters.CacheHits,
		"elapsed", elapsed,
	)
	return r, nil
}
