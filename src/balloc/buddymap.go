package balloc

// buddyMap is a BitVec specialized over (base, addr, order) keys, with
// one bit per buddy pair at a given order. Following the classic buddy
// parity encoding: the bit is set iff exactly one of the two halves in
// the pair is currently free; clear iff both are free or both are in
// use/split.
type buddyMap struct {
	bits *bitVec
}

func newBuddyMap(regionSize uintptr, e uint) (*buddyMap, error) {
	blocks := divUp(regionSize, sizeOfOrder(e))
	pairs := divUp(blocks, 2)
	bv, err := newBitVec(pairs)
	if err != nil {
		return nil, err
	}
	return &buddyMap{bits: bv}, nil
}

func (m *buddyMap) destroy() error {
	if m == nil {
		return nil
	}
	return m.bits.destroy()
}

func pairIndex(base, addr uintptr, e uint) uintptr {
	start := pairStart(base, addr, e)
	return (start - base) >> (e + 1)
}

func (m *buddyMap) set(base, addr uintptr, e uint) {
	m.bits.set(pairIndex(base, addr, e))
}

func (m *buddyMap) clear(base, addr uintptr, e uint) {
	m.bits.clear(pairIndex(base, addr, e))
}

func (m *buddyMap) test(base, addr uintptr, e uint) bool {
	return m.bits.test(pairIndex(base, addr, e))
}
