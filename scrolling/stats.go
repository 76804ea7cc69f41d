package scrolling

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Stats is an ordered stat array, either the stats an item currently has or
// the bonus a scroll grants on success. Stats are positional: index i is
// stat i, there are no names.
//
// All vectors of one run share one length. Binary operations panic on
// unequal lengths; NewSolver checks lengths once so that a panic here means
// a programming error rather than bad input.
type Stats struct {
	vals []uint16
}

// FromSlice copies vals into a new Stats.
func FromSlice(vals []uint16) Stats {
	return Stats{vals: append([]uint16(nil), vals...)}
}

// Of is shorthand for FromSlice(vals).
func Of(vals ...uint16) Stats {
	return FromSlice(vals)
}

// Len is the length of the stat array.
func (s Stats) Len() int { return len(s.vals) }

// At returns stat i.
func (s Stats) At(i int) uint16 { return s.vals[i] }

// Values returns a copy of the stat array.
func (s Stats) Values() []uint16 {
	return append([]uint16(nil), s.vals...)
}

// Clone returns a deep copy.
func (s Stats) Clone() Stats {
	return FromSlice(s.vals)
}

func mustSameLen(a, b Stats) {
	if len(a.vals) != len(b.vals) {
		panic(fmt.Sprintf("scrolling: %v: %d != %d", ErrLengthMismatch, len(a.vals), len(b.vals)))
	}
}

// Plus returns the componentwise sum as a freshly allocated vector.
// Components saturate at math.MaxUint16.
func (s Stats) Plus(t Stats) Stats {
	mustSameLen(s, t)
	out := make([]uint16, len(s.vals))
	for i, v := range s.vals {
		sum := uint32(v) + uint32(t.vals[i])
		if sum > math.MaxUint16 {
			sum = math.MaxUint16
		}
		out[i] = uint16(sum)
	}
	return Stats{vals: out}
}

// Times returns the componentwise scalar product s * k, saturating.
func (s Stats) Times(k uint16) Stats {
	out := make([]uint16, len(s.vals))
	for i, v := range s.vals {
		p := uint32(v) * uint32(k)
		if p > math.MaxUint16 {
			p = math.MaxUint16
		}
		out[i] = uint16(p)
	}
	return Stats{vals: out}
}

// MaxInPlace sets every component of s to max(s[i], t[i]).
func (s *Stats) MaxInPlace(t Stats) {
	mustSameLen(*s, t)
	for i, v := range t.vals {
		if v > s.vals[i] {
			s.vals[i] = v
		}
	}
}

// Equal reports componentwise equality. Vectors of different lengths are
// never equal.
func (s Stats) Equal(t Stats) bool {
	if len(s.vals) != len(t.vals) {
		return false
	}
	for i, v := range s.vals {
		if v != t.vals[i] {
			return false
		}
	}
	return true
}

// Ordering is the result of comparing two vectors in the product order.
type Ordering int8

const (
	OrderLess    Ordering = -1
	OrderEqual   Ordering = 0
	OrderGreater Ordering = 1
	// Incomparable: some stat is larger in one vector and another stat is
	// larger in the other, or the lengths differ.
	Incomparable Ordering = 2
)

func (o Ordering) String() string {
	switch o {
	case OrderLess:
		return "less"
	case OrderEqual:
		return "equal"
	case OrderGreater:
		return "greater"
	default:
		return "incomparable"
	}
}

// Compare orders s against t in the product order. Ties are allowed on
// individual stats: [1 2] is less than [1 3]. Zero-length vectors are
// incomparable, matching an empty fold with no direction.
func (s Stats) Compare(t Stats) Ordering {
	if len(s.vals) != len(t.vals) || len(s.vals) == 0 {
		return Incomparable
	}
	ord := OrderEqual
	for i, v := range s.vals {
		w := t.vals[i]
		switch {
		case v < w:
			if ord == OrderGreater {
				return Incomparable
			}
			ord = OrderLess
		case v > w:
			if ord == OrderLess {
				return Incomparable
			}
			ord = OrderGreater
		}
	}
	return ord
}

// Less reports s < t in the product order.
func (s Stats) Less(t Stats) bool { return s.Compare(t) == OrderLess }

// AtLeast reports s >= t in the product order, i.e. every stat of s is at
// least the matching stat of t.
func (s Stats) AtLeast(t Stats) bool {
	ord := s.Compare(t)
	return ord == OrderEqual || ord == OrderGreater
}

// appendKey appends the little-endian encoding of s to b.
func (s Stats) appendKey(b []byte) []byte {
	for _, v := range s.vals {
		b = binary.LittleEndian.AppendUint16(b, v)
	}
	return b
}

// Hash is consistent with Equal.
func (s Stats) Hash() uint64 {
	var buf [64]byte
	return xxhash.Sum64(s.appendKey(buf[:0]))
}

func (s Stats) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range s.vals {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	b.WriteByte(']')
	return b.String()
}

// MarshalJSON encodes the vector as a number array.
func (s Stats) MarshalJSON() ([]byte, error) {
	vals := s.vals
	if vals == nil {
		vals = []uint16{}
	}
	return json.Marshal(vals)
}

// UnmarshalJSON decodes a number array.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var vals []uint16
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	s.vals = vals
	return nil
}
