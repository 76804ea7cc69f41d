package main

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"scroll-optimizer/scrolling"
)

// ── Text rendering ──────────────────────────────────────────────────

// FormatReport renders a header and the strategy tree down to depth scroll
// levels below the first move. Subtrees shared through the solver cache
// are printed at every place they occur.
func FormatReport(r Report, depth int) string {
	var b strings.Builder

	name := r.Name
	if name == "" {
		name = "problem"
	}
	if r.Root == nil {
		fmt.Fprintf(&b, "%s: nothing solved\n", name)
		return b.String()
	}
	fmt.Fprintf(&b, "%s: %d slots %s, goal %s\n",
		name, r.Root.Slots, formatStats(r.Root.Stats, r.StatNames), formatStats(r.Goal, r.StatNames))
	fmt.Fprintf(&b, "P(goal) %s, expected cost %s (%d evaluations, %d cache hits, %d pruned, %.1fms)\n",
		formatPct(r.PGoal), formatCost(r.ExpCost),
		r.Counters.Evaluations, r.Counters.CacheHits, r.Counters.Pruned,
		float64(r.Elapsed.Microseconds())/1000)

	writeNode(&b, r.Root, r.Goal, r.StatNames, "", depth)
	return b.String()
}

func writeNode(b *strings.Builder, e *scrolling.Exists, goal scrolling.Stats, names []string, indent string, depth int) {
	fmt.Fprintf(b, "%d slots %s", e.Slots, formatStats(e.Stats, names))
	u := e.Child
	switch {
	case u == nil && e.Slots == 0 && e.Stats.AtLeast(goal):
		b.WriteString(": goal met\n")
		return
	case u == nil && e.Slots == 0:
		b.WriteString(": goal missed\n")
		return
	case u == nil:
		b.WriteString(": goal out of reach\n")
		return
	}
	fmt.Fprintf(b, ": use %s -> %s, cost %s\n", u.Scroll, formatPct(u.PGoal), formatCost(u.ExpCost))
	if depth <= 0 {
		return
	}
	inner := indent + "  "
	for _, o := range u.Outcomes {
		fmt.Fprintf(b, "%s%s %.2f%%: ", inner, o.Branch, o.P*100)
		next, ok := o.State.(*scrolling.Exists)
		if !ok {
			b.WriteString("destroyed\n")
			continue
		}
		writeNode(b, next, goal, names, inner, depth-1)
	}
}

func formatStats(s scrolling.Stats, names []string) string {
	if len(names) != s.Len() || s.Len() == 0 {
		return s.String()
	}
	parts := make([]string, s.Len())
	for i := range parts {
		parts[i] = fmt.Sprintf("%s=%d", names[i], s.At(i))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatPct(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 4, 64) + "%"
}

func formatCost(c float64) string {
	if math.IsInf(c, 1) {
		return "inf"
	}
	return strconv.FormatFloat(c, 'f', 2, 64)
}

// ── JSON view ───────────────────────────────────────────────────────

// Cost marshals +Inf as the string "inf", the spelling problem documents
// accept for an unbuyable scroll.
type Cost float64

func (c Cost) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(c), 1) {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(c))
}

func (c *Cost) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*c = Cost(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("cost: %w", err)
	}
	*c = Cost(f)
	return nil
}

// ScrollView is the JSON form of a catalog entry.
type ScrollView struct {
	Name  string          `json:"name,omitempty"`
	PSuc  float64         `json:"pSuc"`
	Dark  bool            `json:"dark"`
	Cost  Cost            `json:"cost"`
	Stats scrolling.Stats `json:"stats"`
}

// NodeView is the JSON form of an Exists state and the move chosen there.
type NodeView struct {
	Slots    uint8           `json:"slots"`
	Stats    scrolling.Stats `json:"stats"`
	Scroll   *ScrollView     `json:"scroll,omitempty"`
	PGoal    float64         `json:"pGoal"`
	ExpCost  Cost            `json:"expCost"`
	Outcomes []OutcomeView   `json:"outcomes,omitempty"`
	// Truncated is set when the node has a move but its outcomes were
	// cut by the depth limit.
	Truncated bool `json:"truncated,omitempty"`
}

// OutcomeView is one branch of a move. Node is nil for a boomed item.
type OutcomeView struct {
	Branch string    `json:"branch"`
	P      float64   `json:"p"`
	Node   *NodeView `json:"node,omitempty"`
}

// ReportView is the JSON form of a Report.
type ReportView struct {
	Name        string          `json:"name"`
	StatNames   []string        `json:"statNames,omitempty"`
	Goal        scrolling.Stats `json:"goal"`
	PGoal       float64         `json:"pGoal"`
	ExpCost     Cost            `json:"expCost"`
	Scroll      string          `json:"scroll,omitempty"`
	Pruning     bool            `json:"pruning"`
	Evaluations int             `json:"evaluations"`
	CacheHits   int             `json:"cacheHits"`
	Pruned      int             `json:"pruned"`
	TimeMs      int64           `json:"timeMs"`
	Tree        *NodeView       `json:"tree"`
}

// NewReportView builds the JSON view of r with the tree cut at depth.
func NewReportView(r Report, depth int) ReportView {
	v := ReportView{
		Name:        r.Name,
		StatNames:   r.StatNames,
		Goal:        r.Goal,
		PGoal:       r.PGoal,
		ExpCost:     Cost(r.ExpCost),
		Pruning:     r.Pruning,
		Evaluations: r.Counters.Evaluations,
		CacheHits:   r.Counters.CacheHits,
		Pruned:      r.Counters.Pruned,
		TimeMs:      r.Elapsed.Milliseconds(),
	}
	if sc := r.Scroll(); sc != nil {
		v.Scroll = sc.String()
	}
	if r.Root != nil {
		v.Tree = BuildTreeView(r.Root, r.Goal, depth)
	}
	return v
}

// BuildTreeView converts the strategy tree under root, expanding outcomes
// for depth scroll levels below the first move.
func BuildTreeView(root *scrolling.Exists, goal scrolling.Stats, depth int) *NodeView {
	n := &NodeView{Slots: root.Slots, Stats: root.Stats}
	u := root.Child
	if u == nil {
		if root.Slots == 0 && root.Stats.AtLeast(goal) {
			n.PGoal = 1
		}
		return n
	}
	n.Scroll = &ScrollView{
		Name:  u.Scroll.Name,
		PSuc:  u.Scroll.PSuc,
		Dark:  u.Scroll.Dark,
		Cost:  Cost(u.Scroll.Cost),
		Stats: u.Scroll.Stats,
	}
	n.PGoal = u.PGoal
	n.ExpCost = Cost(u.ExpCost)
	if depth <= 0 {
		n.Truncated = len(u.Outcomes) > 0
		return n
	}
	for _, o := range u.Outcomes {
		ov := OutcomeView{Branch: o.Branch.String(), P: o.P}
		if next, ok := o.State.(*scrolling.Exists); ok {
			ov.Node = BuildTreeView(next, goal, depth-1)
		}
		n.Outcomes = append(n.Outcomes, ov)
	}
	return n
}
