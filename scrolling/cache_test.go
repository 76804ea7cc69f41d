package scrolling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetPut(t *testing.T) {
	c := NewCache()
	sc := &Scroll{PSuc: 0.5, Cost: 10, Stats: Of(1, 0)}
	use := newScrollUse(sc)

	_, ok := c.Get(3, Of(1, 2))
	assert.False(t, ok)

	key := Of(1, 2)
	c.Put(3, key, use)
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get(3, Of(1, 2))
	require.True(t, ok)
	assert.Same(t, use, got)

	_, ok = c.Get(2, Of(1, 2))
	assert.False(t, ok, "slots are part of the key")
	_, ok = c.Get(3, Of(2, 1))
	assert.False(t, ok)
}

func TestCachePutClonesKey(t *testing.T) {
	c := NewCache()
	use := newScrollUse(&Scroll{Stats: Of(0, 0)})

	key := Of(4, 4)
	c.Put(1, key, use)
	key.MaxInPlace(Of(9, 9))

	_, ok := c.Get(1, Of(9, 9))
	assert.False(t, ok)
	got, ok := c.Get(1, Of(4, 4))
	require.True(t, ok)
	assert.Same(t, use, got)
}

func TestCachePutReplaces(t *testing.T) {
	c := NewCache()
	first := newScrollUse(&Scroll{Cost: 1, Stats: Of(0)})
	second := newScrollUse(&Scroll{Cost: 2, Stats: Of(0)})

	c.Put(2, Of(5), first)
	c.Put(2, Of(5), second)

	assert.Equal(t, 1, c.Len())
	got, ok := c.Get(2, Of(5))
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestCacheManyKeys(t *testing.T) {
	c := NewCache()
	uses := make(map[[2]uint16]*ScrollUse)
	for a := uint16(0); a < 40; a++ {
		for b := uint16(0); b < 40; b++ {
			u := newScrollUse(&Scroll{Stats: Of(0, 0)})
			uses[[2]uint16{a, b}] = u
			c.Put(uint8(a%7), Of(a, b), u)
		}
	}
	assert.Equal(t, 1600, c.Len())
	for k, u := range uses {
		got, ok := c.Get(uint8(k[0]%7), Of(k[0], k[1]))
		require.True(t, ok)
		assert.Same(t, u, got)
	}
}
