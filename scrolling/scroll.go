package scrolling

import (
	"fmt"
	"math"
)

// Scroll is one probabilistic upgrade action. A non-dark scroll either
// succeeds (PSuc) or fails leaving the item unchanged. A dark scroll splits
// its failure mass evenly between "unchanged" and "boomed".
//
// Scrolls are created once per run and referenced by pointer from every
// ScrollUse that applies them.
type Scroll struct {
	// Name is a display label. It plays no part in the search.
	Name  string
	PSuc  float64
	Dark  bool
	Cost  float64
	Stats Stats
}

// NewScroll builds a validated scroll.
func NewScroll(name string, pSuc float64, dark bool, cost float64, stats Stats) (Scroll, error) {
	c := Scroll{Name: name, PSuc: pSuc, Dark: dark, Cost: cost, Stats: stats}
	if err := c.Validate(); err != nil {
		return Scroll{}, err
	}
	return c, nil
}

// Validate checks the probability and cost preconditions.
func (c *Scroll) Validate() error {
	if math.IsNaN(c.PSuc) || math.IsInf(c.PSuc, 0) || c.PSuc < 0 || c.PSuc > 1 {
		return fmt.Errorf("scroll %q: %w: %v", c.Name, ErrProbabilityOutOfRange, c.PSuc)
	}
	if math.IsNaN(c.Cost) || c.Cost < 0 {
		return fmt.Errorf("scroll %q: %w: %v", c.Name, ErrInvalidCost, c.Cost)
	}
	return nil
}

// PFail is the probability that the scroll fails and the item survives.
func (c *Scroll) PFail() float64 {
	if c.Dark {
		return (1 - c.PSuc) / 2
	}
	return 1 - c.PSuc
}

// PBoom is the probability that the scroll destroys the item.
func (c *Scroll) PBoom() float64 {
	if c.Dark {
		return (1 - c.PSuc) / 2
	}
	return 0
}

// Equal compares every field including the label.
func (c *Scroll) Equal(o *Scroll) bool {
	return c.Name == o.Name && c.PSuc == o.PSuc && c.Dark == o.Dark &&
		c.Cost == o.Cost && c.Stats.Equal(o.Stats)
}

func (c *Scroll) String() string {
	kind := "clean"
	if c.Dark {
		kind = "dark"
	}
	label := c.Name
	if label == "" {
		label = fmt.Sprintf("%g%%", c.PSuc*100)
	}
	return fmt.Sprintf("%s (p=%g %s cost=%g stats=%s)", label, c.PSuc, kind, c.Cost, c.Stats)
}

// MasterScroll returns a synthetic scroll whose bonus is the componentwise
// maximum of every scroll's bonus. Only its Stats are ever used: they bound
// what one more slot could possibly add.
func MasterScroll(scrolls []Scroll) (Scroll, error) {
	if len(scrolls) == 0 {
		return Scroll{}, ErrEmptyCatalog
	}
	master := Scroll{
		Name:  "master",
		PSuc:  1,
		Cost:  math.Inf(1),
		Stats: scrolls[0].Stats.Clone(),
	}
	for i := 1; i < len(scrolls); i++ {
		master.Stats.MaxInPlace(scrolls[i].Stats)
	}
	return master, nil
}
