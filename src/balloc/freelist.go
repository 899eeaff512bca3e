package balloc

import (
	"fmt"
	"io"
	"unsafe"
)

// freeList owns, per order in [l, u], a singly-linked list of free
// blocks threaded through the blocks' own first machine word, a
// buddyMap recording pair parity, and an allocMap recording which slots
// are currently live at that order. Free blocks are never wrapped in a
// Go container node — the memory backing the node IS the free block, so
// the only safe operation on a live block's first word is to leave it
// alone until it comes back through free.
type freeList struct {
	l, u      uint
	heads     []uintptr   // heads[e], indexed directly by order; unused below l
	buddyMaps []*buddyMap // buddyMaps[e]
	allocMaps []*bitVec   // allocMaps[e]
}

func newFreeList(regionSize uintptr, l, u uint) (*freeList, error) {
	fl := &freeList{
		l:         l,
		u:         u,
		heads:     make([]uintptr, u+1),
		buddyMaps: make([]*buddyMap, u+1),
		allocMaps: make([]*bitVec, u+1),
	}
	for e := l; e <= u; e++ {
		bm, err := newBuddyMap(regionSize, e)
		if err != nil {
			fl.destroy()
			return nil, err
		}
		fl.buddyMaps[e] = bm

		av, err := newBitVec(divUp(regionSize, sizeOfOrder(e)))
		if err != nil {
			fl.destroy()
			return nil, err
		}
		fl.allocMaps[e] = av
	}
	return fl, nil
}

func (fl *freeList) destroy() {
	for e := fl.l; e <= fl.u; e++ {
		fl.buddyMaps[e].destroy()
		fl.allocMaps[e].destroy()
	}
}

func readNext(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

func writeNext(addr, next uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = next
}

// nextSlot returns the address of addr's own next-pointer word, so that
// unlink can walk the list the same way whether the predecessor is a
// heads[] entry or a block already in the chain.
func nextSlot(addr uintptr) *uintptr {
	return (*uintptr)(unsafe.Pointer(addr))
}

// unlink removes target from heads[k]'s list by linear scan, reporting
// whether it was found.
func (fl *freeList) unlink(k uint, target uintptr) bool {
	slot := &fl.heads[k]
	for *slot != 0 {
		if *slot == target {
			*slot = readNext(target)
			return true
		}
		slot = nextSlot(*slot)
	}
	return false
}

// alloc finds the smallest free block of order >= e, splitting it down
// to exactly order e, and marks the result live. It reports false if no
// block of any sufficient order is available.
func (fl *freeList) alloc(base uintptr, e uint) (uintptr, bool) {
	k := e
	for k <= fl.u && fl.heads[k] == 0 {
		k++
	}
	if k > fl.u {
		return 0, false
	}

	block := fl.heads[k]
	fl.heads[k] = readNext(block)

	// Taking block off heads[k] flips its pair's parity at order k. Order
	// u has no pair bits in use (free never merges past u).
	if k < fl.u {
		if fl.buddyMaps[k].test(base, block, k) {
			fl.buddyMaps[k].clear(base, block, k)
		} else {
			fl.buddyMaps[k].set(base, block, k)
		}
	}

	for k > e {
		k--
		buddy := block + sizeOfOrder(k)
		writeNext(buddy, fl.heads[k])
		fl.heads[k] = buddy

		if fl.buddyMaps[k].test(base, block, k) {
			fl.buddyMaps[k].clear(base, block, k)
		} else {
			fl.buddyMaps[k].set(base, block, k)
		}
	}

	fl.allocMaps[e].set((block - base) >> e)
	return block, true
}

// free returns a block of order e to the free lists, coalescing with its
// buddy chain up to (but not past) order u.
func (fl *freeList) free(base, p uintptr, e uint) {
	fl.allocMaps[e].clear((p - base) >> e)

	curr := p
	k := e
	for k < fl.u {
		if !fl.buddyMaps[k].test(base, curr, k) {
			// Buddy not mergeable (allocated or split); curr becomes the
			// lone free half of the pair.
			fl.buddyMaps[k].set(base, curr, k)
			break
		}

		// Buddy is free: clear the parity bit, pull it out of heads[k],
		// and continue merging at the next order up.
		fl.buddyMaps[k].clear(base, curr, k)
		buddy := buddyOf(base, curr, k)
		if !fl.unlink(k, buddy) {
			// The bit said one half of the pair was free, but the buddy
			// isn't actually on heads[k]. alloc and free flip the bit
			// on every take and insert below u, so this guard is not
			// reached in normal use. Restore the bit and stop here
			// instead of merging into a block that isn't there; curr
			// still gets inserted at its current order k below.
			fl.buddyMaps[k].set(base, curr, k)
			break
		}

		if buddy < curr {
			curr = buddy
		}
		k++
	}

	writeNext(curr, fl.heads[k])
	fl.heads[k] = curr
}

// sizeof scans orders l..u and returns the order whose allocMap marks p
// live, or false if p is not a live pointer of this pool. p may be an
// address this pool never handed out at all (an unknown pointer, one
// inside a live block but not at its start, or one from outside the
// mapped region entirely) — the alignment check and inRange keep that
// case a plain "not found" rather than a bitmap-bounds fatal error.
func (fl *freeList) sizeof(base, p uintptr) (uint, bool) {
	for e := fl.l; e <= fl.u; e++ {
		if (p-base)&(sizeOfOrder(e)-1) != 0 {
			continue
		}
		idx := (p - base) >> e
		if !fl.allocMaps[e].inRange(idx) {
			continue
		}
		if fl.allocMaps[e].test(idx) {
			return e, true
		}
	}
	return 0, false
}

func (fl *freeList) print(w io.Writer) {
	for e := fl.l; e <= fl.u; e++ {
		fmt.Fprintf(w, "order %2d: ", e)
		for curr := fl.heads[e]; curr != 0; curr = readNext(curr) {
			fmt.Fprintf(w, "[0x%x] ", curr)
		}
		fmt.Fprintln(w)
	}
}
