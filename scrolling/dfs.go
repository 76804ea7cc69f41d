package scrolling

import (
	"fmt"
	"log/slog"
)

// ── Solver ──────────────────────────────────────────────────────────

// Counters describe the work done by a Solver since it was created.
type Counters struct {
	// Evaluations counts Exists states visited, cache hits included.
	Evaluations int
	CacheHits   int
	CacheMisses int
	// Pruned counts scroll branches cut by the master-scroll bound.
	Pruned int
	// DeadStates counts states with slots left where every scroll was pruned.
	DeadStates int
	CacheSize  int
}

// Option configures a Solver.
type Option func(*Solver)

// WithoutPruning disables the master-scroll bound. The resulting PGoal is
// the same; the search just visits states that cannot reach the goal.
func WithoutPruning() Option {
	return func(s *Solver) { s.prune = false }
}

// WithLogger sets the logger used at solve boundaries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// Solver searches for the scroll choices that maximise the probability of
// reaching a goal stat vector, breaking ties on lower expected cost.
//
// A Solver owns one cache for its (catalog, goal) pair, so solving several
// roots with one Solver reuses earlier work. Not safe for concurrent use.
type Solver struct {
	scrolls  []Scroll
	master   Scroll
	goal     Stats
	prune    bool
	cache    *Cache
	log      *slog.Logger
	counters Counters
}

// NewSolver validates the catalog against goal and precomputes the master
// scroll. scrolls is borrowed: ScrollUse.Scroll points into it, so it must
// not be modified while the solver or its strategy trees are in use.
func NewSolver(scrolls []Scroll, goal Stats, opts ...Option) (*Solver, error) {
	if len(scrolls) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i := range scrolls {
		sc := &scrolls[i]
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("scroll %d: %w", i, err)
		}
		if sc.Stats.Len() != goal.Len() {
			return nil, fmt.Errorf("scroll %d (%q): %w: got %d stats, goal has %d",
				i, sc.Name, ErrLengthMismatch, sc.Stats.Len(), goal.Len())
		}
	}
	master, err := MasterScroll(scrolls)
	if err != nil {
		return nil, err
	}
	s := &Solver{
		scrolls: scrolls,
		master:  master,
		goal:    goal.Clone(),
		prune:   true,
		cache:   NewCache(),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Master returns the master scroll used for the reachability bound.
func (s *Solver) Master() Scroll { return s.master }

// Counters returns a snapshot of the work counters.
func (s *Solver) Counters() Counters {
	c := s.counters
	c.CacheSize = s.cache.Len()
	return c
}

// Solve computes the optimal strategy from root, writing it into root.Child
// and transitively into every outcome below it. Any previous root.Child is
// discarded; root.Slots and root.Stats are left untouched, so solving the
// same root twice gives the same answer.
//
// It returns the probability of reaching the goal and the expected cost
// under that strategy. A root with no slots has no child; its probability is
// 1 when its stats already meet the goal and 0 otherwise.
func (s *Solver) Solve(root *Exists) (pGoal, expCost float64, err error) {
	if root == nil {
		return 0, 0, fmt.Errorf("nil root state")
	}
	if root.Stats.Len() != s.goal.Len() {
		return 0, 0, fmt.Errorf("root: %w: got %d stats, goal has %d",
			ErrLengthMismatch, root.Stats.Len(), s.goal.Len())
	}
	before := s.counters
	pGoal, expCost = s.evaluate(root)
	s.log.Debug("solve finished",
		"slots", root.Slots,
		"stats", root.Stats.String(),
		"goal", s.goal.String(),
		"p_goal", pGoal,
		"exp_cost", expCost,
		"evaluations", s.counters.Evaluations-before.Evaluations,
		"cache_hits", s.counters.CacheHits-before.CacheHits,
		"pruned", s.counters.Pruned-before.Pruned,
		"cache_size", s.cache.Len(),
	)
	return pGoal, expCost, nil
}

// Solve is the one-shot form: it builds a Solver for scrolls and goal and
// solves root with it.
func Solve(root *Exists, scrolls []Scroll, goal Stats, opts ...Option) error {
	s, err := NewSolver(scrolls, goal, opts...)
	if err != nil {
		return err
	}
	_, _, err = s.Solve(root)
	return err
}

// ── DFS expectation evaluator ───────────────────────────────────────

// evaluate returns the probability of reaching the goal from state and the
// expected residual cost, both under optimal play, and records the optimal
// scroll in state.Child.
//
// Products are wrapped in float64() so no platform fuses them into the
// accumulation; exact PGoal ties depend on identical rounding.
func (s *Solver) evaluate(state ItemState) (float64, float64) {
	st, ok := state.(*Exists)
	if !ok {
		return 0, 0
	}
	st.Child = nil
	s.counters.Evaluations++

	if st.Slots == 0 {
		if st.Stats.AtLeast(s.goal) {
			return 1, 0
		}
		return 0, 0
	}

	if use, ok := s.cache.Get(st.Slots, st.Stats); ok {
		s.counters.CacheHits++
		st.Child = use
		return use.PGoal, use.ExpCost
	}
	s.counters.CacheMisses++

	slotsM1 := st.Slots - 1

	// reach bounds what the remaining slotsM1 slots could add if every one
	// of them used the master scroll and succeeded.
	var reach Stats
	failAlive := true
	if s.prune {
		reach = s.master.Stats.Times(uint16(slotsM1))
		failAlive = st.Stats.Plus(reach).AtLeast(s.goal)
	}

	for i := range s.scrolls {
		sc := &s.scrolls[i]
		use := newScrollUse(sc)

		if sc.PSuc > 0 {
			sucStats := st.Stats.Plus(sc.Stats)
			if s.prune && !sucStats.Plus(reach).AtLeast(s.goal) {
				// The failure branch is dead too: sc.Stats is non-negative.
				s.counters.Pruned++
				continue
			}
			next := NewExists(slotsM1, sucStats)
			use.pushOutcome(BranchSuccess, sc.PSuc, next)
			p, c := s.evaluate(next)
			use.PGoal += float64(sc.PSuc * p)
			use.ExpCost += float64(sc.PSuc * c)
		}

		if sc.PSuc < 1 {
			if failAlive {
				pFail := sc.PFail()
				next := NewExists(slotsM1, st.Stats.Clone())
				use.pushOutcome(BranchFailure, pFail, next)
				p, c := s.evaluate(next)
				use.PGoal += float64(pFail * p)
				use.ExpCost += float64(pFail * c)

				if sc.Dark {
					boom := Boomed{}
					use.pushOutcome(BranchBoom, sc.PBoom(), boom)
					// Always (0, 0); nothing to accumulate.
					s.evaluate(boom)
				}
			} else {
				s.counters.Pruned++
			}
		}

		if use.beats(st.Child) {
			st.Child = use
		}
	}

	if st.Child == nil {
		s.counters.DeadStates++
		return 0, 0
	}
	s.cache.Put(st.Slots, st.Stats, st.Child)
	return st.Child.PGoal, st.Child.ExpCost
}
