package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"scroll-optimizer/scrolling"
)

// ErrInvalidProblem marks structural problems in a problem document.
var ErrInvalidProblem = errors.New("invalid problem")

// Problem is one scrolling question: an item with Slots slots and Stats,
// a Goal to reach, and the catalog of Scrolls to choose from.
type Problem struct {
	Name      string
	Slots     uint8
	Stats     scrolling.Stats
	Goal      scrolling.Stats
	StatNames []string
	Scrolls   []scrolling.Scroll
}

// LoadProblem reads and parses a problem document from disk.
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	p, err := ParseProblem(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseProblem parses a JSON problem document. Every stat vector is checked
// against the goal's length, so a returned Problem is safe to solve.
func ParseProblem(doc string) (*Problem, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidProblem)
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: document must be an object", ErrInvalidProblem)
	}

	p := &Problem{Name: root.Get("name").String()}

	slots, err := readInt(root.Get("slots"), "slots", math.MaxUint8)
	if err != nil {
		return nil, err
	}
	p.Slots = uint8(slots)

	if p.Stats, err = readStats(root.Get("stats"), "stats"); err != nil {
		return nil, err
	}
	if p.Goal, err = readStats(root.Get("goal"), "goal"); err != nil {
		return nil, err
	}
	if p.Stats.Len() != p.Goal.Len() {
		return nil, fmt.Errorf("stats: %w: got %d, goal has %d",
			scrolling.ErrLengthMismatch, p.Stats.Len(), p.Goal.Len())
	}

	if names := root.Get("statNames"); names.Exists() {
		if !names.IsArray() {
			return nil, fmt.Errorf("%w: statNames must be an array", ErrInvalidProblem)
		}
		names.ForEach(func(_, v gjson.Result) bool {
			p.StatNames = append(p.StatNames, v.String())
			return true
		})
		if len(p.StatNames) != p.Goal.Len() {
			return nil, fmt.Errorf("statNames: %w: got %d names, goal has %d stats",
				scrolling.ErrLengthMismatch, len(p.StatNames), p.Goal.Len())
		}
	}

	scrolls := root.Get("scrolls")
	if scrolls.Exists() && !scrolls.IsArray() {
		return nil, fmt.Errorf("%w: scrolls must be an array", ErrInvalidProblem)
	}
	for i, v := range scrolls.Array() {
		sc, err := parseScroll(v, p.Goal.Len())
		if err != nil {
			return nil, fmt.Errorf("scroll %d: %w", i, err)
		}
		p.Scrolls = append(p.Scrolls, sc)
	}
	if len(p.Scrolls) == 0 {
		return nil, scrolling.ErrEmptyCatalog
	}
	if err := checkHeadroom(p); err != nil {
		return nil, err
	}
	return p, nil
}

// checkHeadroom rejects problems where using every slot on the largest
// bonus can push a stat past math.MaxUint16. Stat vectors saturate there,
// which is fine for the reachability bound but would misreport real items.
func checkHeadroom(p *Problem) error {
	for i := 0; i < p.Stats.Len(); i++ {
		var best uint64
		for _, sc := range p.Scrolls {
			best = max(best, uint64(sc.Stats.At(i)))
		}
		if top := uint64(p.Stats.At(i)) + uint64(p.Slots)*best; top > math.MaxUint16 {
			return fmt.Errorf("%w: stat %d can reach %d, above %d",
				ErrInvalidProblem, i, top, math.MaxUint16)
		}
	}
	return nil
}

func parseScroll(v gjson.Result, n int) (scrolling.Scroll, error) {
	if !v.IsObject() {
		return scrolling.Scroll{}, fmt.Errorf("%w: scroll must be an object", ErrInvalidProblem)
	}

	var pSuc float64
	if ps := v.Get("pSuc"); ps.Exists() {
		if ps.Type != gjson.Number {
			return scrolling.Scroll{}, fmt.Errorf("%w: pSuc must be a number", ErrInvalidProblem)
		}
		pSuc = ps.Float()
	} else if pct := v.Get("percent"); pct.Exists() {
		if pct.Type != gjson.Number {
			return scrolling.Scroll{}, fmt.Errorf("%w: percent must be a number", ErrInvalidProblem)
		}
		pSuc = pct.Float() / 100
	} else {
		return scrolling.Scroll{}, fmt.Errorf("%w: missing pSuc or percent", ErrInvalidProblem)
	}

	cost, err := readCost(v.Get("cost"))
	if err != nil {
		return scrolling.Scroll{}, err
	}

	stats, err := readStats(v.Get("stats"), "stats")
	if err != nil {
		return scrolling.Scroll{}, err
	}
	if stats.Len() != n {
		return scrolling.Scroll{}, fmt.Errorf("%w: got %d stats, goal has %d",
			scrolling.ErrLengthMismatch, stats.Len(), n)
	}

	return scrolling.NewScroll(v.Get("name").String(), pSuc, toBool(v.Get("dark")), cost, stats)
}

// readCost accepts a number or the string "inf" for a scroll that cannot be
// bought. A missing cost is 0.
func readCost(v gjson.Result) (float64, error) {
	switch v.Type {
	case gjson.Null:
		return 0, nil
	case gjson.Number:
		return v.Float(), nil
	case gjson.String:
		switch strings.ToLower(v.Str) {
		case "inf", "+inf", "infinity":
			return math.Inf(1), nil
		}
	}
	return 0, fmt.Errorf("%w: cost must be a number or \"inf\", got %s", ErrInvalidProblem, v.Raw)
}

func readInt(v gjson.Result, field string, limit int64) (int64, error) {
	if !v.Exists() {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidProblem, field)
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidProblem, field)
	}
	f := v.Float()
	if f != math.Trunc(f) || f < 0 || f > float64(limit) {
		return 0, fmt.Errorf("%w: %s must be an integer in 0..%d, got %s", ErrInvalidProblem, field, limit, v.Raw)
	}
	return int64(f), nil
}

func readStats(v gjson.Result, field string) (scrolling.Stats, error) {
	if !v.Exists() {
		return scrolling.Stats{}, fmt.Errorf("%w: missing %s", ErrInvalidProblem, field)
	}
	if !v.IsArray() {
		return scrolling.Stats{}, fmt.Errorf("%w: %s must be an array", ErrInvalidProblem, field)
	}
	arr := v.Array()
	if len(arr) == 0 {
		return scrolling.Stats{}, fmt.Errorf("%w: %s must not be empty", ErrInvalidProblem, field)
	}
	out := make([]uint16, len(arr))
	for i, item := range arr {
		n, err := readInt(item, fmt.Sprintf("%s[%d]", field, i), math.MaxUint16)
		if err != nil {
			return scrolling.Stats{}, err
		}
		out[i] = uint16(n)
	}
	return scrolling.FromSlice(out), nil
}

func toBool(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Float() != 0
	}
	return false
}
