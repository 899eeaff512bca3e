package balloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuddyMapParity(t *testing.T) {
	const base uintptr = 0x2000
	const order uint = 4 // 16-byte blocks, region covers 4 pairs

	bm, err := newBuddyMap(128, order)
	assert.NoError(t, err)
	defer bm.destroy()

	lower := base
	upper := base + sizeOfOrder(order)

	assert.False(t, bm.test(base, lower, order))
	assert.False(t, bm.test(base, upper, order))

	bm.set(base, lower, order)
	assert.True(t, bm.test(base, lower, order))
	assert.True(t, bm.test(base, upper, order), "the bit is per-pair, visible from either buddy's address")

	bm.clear(base, upper, order)
	assert.False(t, bm.test(base, lower, order))
}

func TestBuddyMapDistinctPairs(t *testing.T) {
	const base uintptr = 0
	const order uint = 4

	bm, err := newBuddyMap(64, order)
	assert.NoError(t, err)
	defer bm.destroy()

	bm.set(base, base, order) // pair 0 only
	assert.True(t, bm.test(base, base, order))
	assert.True(t, bm.test(base, base+16, order))  // same pair, other half
	assert.False(t, bm.test(base, base+32, order)) // pair 1, untouched
}
