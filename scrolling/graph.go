package scrolling

// ── Strategy tree ───────────────────────────────────────────────────

// ItemState is a node of the strategy tree: either *Exists or Boomed.
type ItemState interface {
	isItemState()
}

// Exists is an item that still exists, with Slots scroll slots left.
// Child is the optimal scroll to apply next; it stays nil when no slot is
// left or when no scroll could reach the goal.
type Exists struct {
	Slots uint8
	Stats Stats
	Child *ScrollUse
}

// Boomed is an item destroyed by a dark scroll. It is terminal.
type Boomed struct{}

func (*Exists) isItemState() {}
func (Boomed) isItemState()  {}

// NewExists seeds an item state with no child.
func NewExists(slots uint8, stats Stats) *Exists {
	return &Exists{Slots: slots, Stats: stats}
}

// Branch identifies which probabilistic outcome of a scroll an Outcome is.
type Branch uint8

const (
	BranchSuccess Branch = iota
	BranchFailure
	BranchBoom
)

func (b Branch) String() string {
	switch b {
	case BranchSuccess:
		return "success"
	case BranchFailure:
		return "failure"
	case BranchBoom:
		return "boom"
	default:
		return "unknown"
	}
}

// Outcome is one child of a ScrollUse: the branch taken, its probability
// and the resulting state.
type Outcome struct {
	Branch Branch
	P      float64
	State  ItemState
}

// ScrollUse is the application of one scroll at one item state.
//
// PGoal is the probability of reaching the goal given this scroll is used
// now and play is optimal afterwards. ExpCost is the expected cost from this
// point on: the scroll's own cost plus every outcome's weighted cost.
//
// Outcomes are ordered success, failure, boom. A branch whose bound cannot
// reach the goal is left out.
//
// A ScrollUse held by a solver cache is shared by every Exists with the same
// (slots, stats) and must not be modified.
type ScrollUse struct {
	Scroll   *Scroll
	PGoal    float64
	ExpCost  float64
	Outcomes []Outcome
}

func newScrollUse(c *Scroll) *ScrollUse {
	return &ScrollUse{Scroll: c, ExpCost: c.Cost}
}

func (u *ScrollUse) pushOutcome(b Branch, p float64, st ItemState) {
	u.Outcomes = append(u.Outcomes, Outcome{Branch: b, P: p, State: st})
}

// beats reports whether u should replace best: higher PGoal, then lower
// ExpCost. No further tiebreak, so the earlier scroll in catalog order wins
// exact ties.
func (u *ScrollUse) beats(best *ScrollUse) bool {
	if best == nil {
		return true
	}
	return u.PGoal > best.PGoal || (u.PGoal == best.PGoal && u.ExpCost < best.ExpCost)
}

// Walk calls fn for every Exists reachable from root in depth-first order.
// A ScrollUse shared through the cache is descended into only once, so the
// walk is linear in the number of distinct nodes. Returning false from fn
// skips that node's subtree.
func Walk(root *Exists, fn func(*Exists) bool) {
	seen := make(map[*ScrollUse]bool)
	var visit func(e *Exists)
	visit = func(e *Exists) {
		if !fn(e) || e.Child == nil || seen[e.Child] {
			return
		}
		seen[e.Child] = true
		for _, o := range e.Child.Outcomes {
			if next, ok := o.State.(*Exists); ok {
				visit(next)
			}
		}
	}
	visit(root)
}
