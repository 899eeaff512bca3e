package deq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGetSymmetric(t *testing.T) {
	q := New[string]()
	q.HeadPut("first")
	q.TailPut("last")
	q.HeadPut("newhead")

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "newhead", q.HeadGet())
	assert.Equal(t, "last", q.TailGet())
	assert.Equal(t, 1, q.Len())
}

func TestIth(t *testing.T) {
	q := New[int]()
	for i := 0; i < 5; i++ {
		q.TailPut(i)
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, q.HeadIth(i))
		assert.Equal(t, 4-i, q.TailIth(i))
	}
}

func TestRem(t *testing.T) {
	q := New[int]()
	q.TailPut(1)
	q.TailPut(2)
	q.TailPut(3)

	v, ok := q.HeadRem(2, func(a, b int) bool { return a == b })
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 1, q.HeadIth(0))
	assert.Equal(t, 3, q.HeadIth(1))

	_, ok = q.HeadRem(99, func(a, b int) bool { return a == b })
	assert.False(t, ok)
}

func TestRemEndpoints(t *testing.T) {
	q := New[int]()
	q.TailPut(1)
	q.TailPut(2)
	q.TailPut(3)

	v, ok := q.HeadRem(1, func(a, b int) bool { return a == b })
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, q.HeadIth(0))

	v, ok = q.TailRem(3, func(a, b int) bool { return a == b })
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, q.Len())
}

func TestMapAndStr(t *testing.T) {
	q := New[int]()
	q.TailPut(1)
	q.TailPut(2)
	q.TailPut(3)

	var sum int
	q.Map(func(v int) { sum += v })
	assert.Equal(t, 6, sum)

	s := q.Str(func(v int) string {
		if v == 1 {
			return "one"
		}
		return "n"
	})
	assert.Equal(t, "one n n", s)
}

func TestEmptyLen(t *testing.T) {
	q := New[string]()
	assert.Equal(t, 0, q.Len())
}
