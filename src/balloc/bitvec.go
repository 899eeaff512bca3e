package balloc

import (
	"unsafe"

	"github.com/chasti/buddyalloc/src/errs"
)

const bitsPerByte = 8

// bitVec is a fixed-length bit array. Its bit storage is a single OS
// mapping: the first machine word holds the bit count (so destroy can
// recover the mapping's byte length without a side table), and the bits
// themselves follow immediately after.
type bitVec struct {
	mapAddr  uintptr // base of the OS mapping (header word + bit data)
	mapLen   uintptr // byte length of the OS mapping
	nbits    uintptr
	dataAddr uintptr // mapAddr + header size
}

func bitsToBytes(nbits uintptr) uintptr {
	return divUp(nbits, bitsPerByte)
}

func newBitVec(nbits uintptr) (*bitVec, error) {
	header := unsafe.Sizeof(uintptr(0))
	mapLen := header + bitsToBytes(nbits)
	addr, err := osAcquire(mapLen)
	if err != nil {
		return nil, err
	}
	*(*uintptr)(unsafe.Pointer(addr)) = nbits
	return &bitVec{
		mapAddr:  addr,
		mapLen:   mapLen,
		nbits:    nbits,
		dataAddr: addr + header,
	}, nil
}

func (b *bitVec) destroy() error {
	if b == nil || b.mapAddr == 0 {
		return nil
	}
	err := osRelease(b.mapAddr, b.mapLen)
	*b = bitVec{}
	return err
}

// inRange reports whether i addresses a real bit in this vector,
// without the fatal behavior of checkRange. Callers that may be handed
// an address outside the pool entirely (sizeof/release on an unknown
// pointer) must use this instead of set/clear/test, which treat an
// out-of-range index as a contract violation rather than "not found".
func (b *bitVec) inRange(i uintptr) bool {
	return i < b.nbits
}

func (b *bitVec) checkRange(i uintptr) {
	if i >= b.nbits {
		errs.Fatalf("bitmap index out of range: %d (len %d)", i, b.nbits)
	}
}

func (b *bitVec) set(i uintptr) {
	b.checkRange(i)
	p := (*byte)(unsafe.Pointer(b.dataAddr + i/bitsPerByte))
	*p |= 1 << (i % bitsPerByte)
}

func (b *bitVec) clear(i uintptr) {
	b.checkRange(i)
	p := (*byte)(unsafe.Pointer(b.dataAddr + i/bitsPerByte))
	*p &^= 1 << (i % bitsPerByte)
}

func (b *bitVec) test(i uintptr) bool {
	b.checkRange(i)
	p := (*byte)(unsafe.Pointer(b.dataAddr + i/bitsPerByte))
	return (*p>>(i%bitsPerByte))&1 != 0
}
