package main

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scroll-optimizer/scrolling"
)

func solvedReport(t *testing.T, doc string) Report {
	t.Helper()
	p, err := ParseProblem(doc)
	require.NoError(t, err)
	r, err := runProblem(p, DefaultConfig(), nil)
	require.NoError(t, err)
	return r
}

const twoSlotDoc = `{
	"name": "two slots",
	"slots": 2,
	"stats": [0],
	"goal": [3],
	"statNames": ["ATK"],
	"scrolls": [
		{"name": "half", "pSuc": 0.5, "cost": 10, "stats": [3]},
		{"name": "sure", "pSuc": 1, "cost": 50, "stats": [3]},
		{"name": "dark", "pSuc": 0.9, "dark": true, "cost": 5, "stats": [3]}
	]
}`

func TestFormatReportTree(t *testing.T) {
	r := solvedReport(t, twoSlotDoc)

	out := FormatReport(r, 1)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5, out)
	assert.Equal(t, "two slots: 2 slots [ATK=0], goal [ATK=3]", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "P(goal) 100.0000%, expected cost 40.00 ("), lines[1])
	assert.Equal(t, "2 slots [ATK=0]: use half (p=0.5 clean cost=10 stats=[3]) -> 100.0000%, cost 40.00", lines[2])
	assert.Equal(t, "  success 50.00%: 1 slots [ATK=3]: use half (p=0.5 clean cost=10 stats=[3]) -> 100.0000%, cost 10.00", lines[3])
	assert.Equal(t, "  failure 50.00%: 1 slots [ATK=0]: use sure (p=1 clean cost=50 stats=[3]) -> 100.0000%, cost 50.00", lines[4])
}

func TestFormatReportDepth(t *testing.T) {
	r := solvedReport(t, twoSlotDoc)

	shallow := FormatReport(r, 0)
	assert.Len(t, strings.Split(strings.TrimRight(shallow, "\n"), "\n"), 3)

	// Terminal states appear one level deeper.
	deep := FormatReport(r, 5)
	assert.Contains(t, deep, "0 slots [ATK=6]: goal met")
	assert.Contains(t, deep, "0 slots [ATK=3]: goal met")
}

func TestFormatReportBoomAndDeadStates(t *testing.T) {
	r := solvedReport(t, `{"slots":2,"stats":[0],"goal":[1],
		"scrolls":[{"pSuc":0,"dark":true,"cost":10,"stats":[1]}]}`)

	out := FormatReport(r, 3)
	assert.Contains(t, out, "problem: 2 slots [0], goal [1]")
	assert.Contains(t, out, "  boom 50.00%: destroyed")
	assert.Contains(t, out, "  failure 50.00%: 1 slots [0]: use 0% (p=0 dark cost=10 stats=[1]) -> 0.0000%, cost 10.00")

	dead := solvedReport(t, `{"slots":1,"stats":[0],"goal":[9],"scrolls":[{"pSuc":1,"stats":[1]}]}`)
	assert.Contains(t, FormatReport(dead, 2), "1 slots [0]: goal out of reach")

	none := solvedReport(t, `{"slots":0,"stats":[0],"goal":[9],"scrolls":[{"pSuc":1,"stats":[1]}]}`)
	assert.Contains(t, FormatReport(none, 2), "0 slots [0]: goal missed")
}

func TestBuildTreeView(t *testing.T) {
	r := solvedReport(t, twoSlotDoc)

	v := BuildTreeView(r.Root, r.Goal, 1)
	require.NotNil(t, v.Scroll)
	assert.Equal(t, "half", v.Scroll.Name)
	assert.Equal(t, 1.0, v.PGoal)
	assert.Equal(t, Cost(40), v.ExpCost)
	require.Len(t, v.Outcomes, 2)
	assert.Equal(t, "success", v.Outcomes[0].Branch)
	assert.Equal(t, "failure", v.Outcomes[1].Branch)

	fail := v.Outcomes[1].Node
	require.NotNil(t, fail)
	assert.Equal(t, "sure", fail.Scroll.Name)
	assert.True(t, fail.Truncated, "depth limit reached")
	assert.Empty(t, fail.Outcomes)

	terminal := BuildTreeView(scrolling.NewExists(0, scrolling.Of(3)), r.Goal, 3)
	assert.Equal(t, 1.0, terminal.PGoal)
	assert.Nil(t, terminal.Scroll)
}

func TestReportViewJSON(t *testing.T) {
	r := solvedReport(t, `{"name":"inf","slots":1,"stats":[0],"goal":[1],
		"scrolls":[{"pSuc":1,"cost":"inf","stats":[1]}]}`)

	data, err := json.Marshal(NewReportView(r, 2))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "inf", raw["expCost"])
	assert.Equal(t, 1.0, raw["pGoal"])

	var back ReportView
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsInf(float64(back.ExpCost), 1))
	require.NotNil(t, back.Tree)
	require.Len(t, back.Tree.Outcomes, 1)
	assert.Equal(t, []uint16{1}, back.Tree.Outcomes[0].Node.Stats.Values())
}

func TestBoomOutcomeHasNoNode(t *testing.T) {
	r := solvedReport(t, `{"slots":1,"stats":[1],"goal":[1],
		"scrolls":[{"pSuc":0,"dark":true,"cost":10,"stats":[1]}]}`)

	v := BuildTreeView(r.Root, r.Goal, 1)
	require.Len(t, v.Outcomes, 2)
	assert.Equal(t, "boom", v.Outcomes[1].Branch)
	assert.Nil(t, v.Outcomes[1].Node)
	assert.Equal(t, 0.5, v.PGoal)
}
