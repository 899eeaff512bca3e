// Package deq is a generic, symmetric doubly-linked deque. It is a
// collaborator named alongside balloc (see cmd/balloctest), not part of
// the allocator's own invariants — its nodes live on the ordinary Go
// heap and it has no opinion on where balloc's blocks come from.
package deq

import (
	"strings"

	"github.com/chasti/buddyalloc/src/errs"
)

// end names one of the two sides of the deque. np[e] always points
// "outward" toward end e; np[1-e] always points "inward". Writing put,
// get, ith and rem once against a generic end — instead of once per
// side — is the same trick original_source/deq.c uses with its own
// Head/Tail enum.
type end int

const (
	head end = iota
	tail
	ends
)

func other(e end) end { return 1 - e }

type node[T any] struct {
	np   [ends]*node[T]
	data T
}

// Deq is a doubly-linked deque supporting symmetric head/tail
// operations and a forward map.
type Deq[T any] struct {
	ht  [ends]*node[T]
	len int
}

// New returns an empty deque.
func New[T any]() *Deq[T] {
	return &Deq[T]{}
}

// Len returns the number of elements currently stored.
func (q *Deq[T]) Len() int {
	return q.len
}

func (q *Deq[T]) put(e end, d T) {
	n := &node[T]{data: d}
	n.np[e] = nil
	n.np[other(e)] = q.ht[e]

	if q.len == 0 {
		q.ht[head] = n
		q.ht[tail] = n
	} else {
		q.ht[e].np[e] = n
		q.ht[e] = n
	}
	q.len++
}

func (q *Deq[T]) get(e end) T {
	if q.len == 0 {
		errs.Fatalf("get from empty deque")
	}
	n := q.ht[e]
	d := n.data

	if q.len == 1 {
		q.ht[head] = nil
		q.ht[tail] = nil
	} else {
		q.ht[e] = n.np[other(e)]
		q.ht[e].np[e] = nil
	}
	q.len--
	return d
}

func (q *Deq[T]) ith(e end, i int) T {
	if i < 0 || i >= q.len {
		errs.Fatalf("index out of bounds: %d (len %d)", i, q.len)
	}
	curr := q.ht[e]
	for i > 0 {
		curr = curr.np[other(e)]
		i--
	}
	return curr.data
}

// rem removes and returns the first element equal to d when walked from
// end e, using cmp for equality (pointer identity isn't meaningful for
// arbitrary T, unlike the original's Data-as-void* comparison). ok is
// false if no such element was found.
func (q *Deq[T]) rem(e end, d T, cmp func(a, b T) bool) (T, bool) {
	for curr := q.ht[e]; curr != nil; curr = curr.np[other(e)] {
		if !cmp(curr.data, d) {
			continue
		}
		prev := curr.np[e]
		next := curr.np[other(e)]

		if prev != nil {
			prev.np[other(e)] = next
		} else {
			q.ht[e] = next
		}
		if next != nil {
			next.np[e] = prev
		} else {
			q.ht[other(e)] = prev
		}

		q.len--
		return curr.data, true
	}
	var zero T
	return zero, false
}

func (q *Deq[T]) HeadPut(d T) { q.put(head, d) }
func (q *Deq[T]) HeadGet() T  { return q.get(head) }
func (q *Deq[T]) HeadIth(i int) T { return q.ith(head, i) }
func (q *Deq[T]) HeadRem(d T, cmp func(a, b T) bool) (T, bool) { return q.rem(head, d, cmp) }

func (q *Deq[T]) TailPut(d T) { q.put(tail, d) }
func (q *Deq[T]) TailGet() T  { return q.get(tail) }
func (q *Deq[T]) TailIth(i int) T { return q.ith(tail, i) }
func (q *Deq[T]) TailRem(d T, cmp func(a, b T) bool) (T, bool) { return q.rem(tail, d, cmp) }

// Map applies f to every element from head to tail.
func (q *Deq[T]) Map(f func(T)) {
	for n := q.ht[head]; n != nil; n = n.np[tail] {
		f(n.data)
	}
}

// Str renders the deque head to tail using f for each element,
// space-separated.
func (q *Deq[T]) Str(f func(T) string) string {
	var b strings.Builder
	for n := q.ht[head]; n != nil; n = n.np[tail] {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f(n.data))
	}
	return b.String()
}
