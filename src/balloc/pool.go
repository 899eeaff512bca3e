package balloc

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/chasti/buddyalloc/src/errs"
)

// Pool owns one contiguous OS-mapped region of memory and a freeList
// over it. It is an opaque handle: every field is unexported, and the
// only ways to obtain or retire one are Create and (*Pool).Destroy.
type Pool struct {
	base uintptr
	size uintptr
	l, u uint
	fl   *freeList

	destroyed bool
}

// Create maps size bytes and seeds free lists over it with blocks of
// order l..u inclusive. l and u must satisfy 0 <= l <= u, and size must
// be at least 2^l. Create returns an error (never panics) if the OS
// mapping cannot be obtained or any internal bitmap allocation fails;
// any resources already acquired are released before returning.
func Create(size uintptr, l, u uint) (*Pool, error) {
	if l > u {
		return nil, fmt.Errorf("balloc: l (%d) must be <= u (%d)", l, u)
	}
	if size < sizeOfOrder(l) {
		return nil, fmt.Errorf("balloc: size (%d) must be >= 2^l (%d)", size, sizeOfOrder(l))
	}

	base, err := osAcquire(size)
	if err != nil {
		return nil, fmt.Errorf("balloc: mapping pool region: %w", err)
	}

	fl, err := newFreeList(size, l, u)
	if err != nil {
		osRelease(base, size)
		return nil, fmt.Errorf("balloc: building free lists: %w", err)
	}

	p := &Pool{base: base, size: size, l: l, u: u, fl: fl}

	// Tile the region greedily, largest order first. Each freed seed
	// block's buddy bit starts clear, so the coalesce loop inside free
	// stops naturally at seed boundaries instead of merging across them.
	curr := base
	remaining := size
	for e := int(u); e >= int(l); e-- {
		blockSize := sizeOfOrder(uint(e))
		for remaining >= blockSize {
			fl.free(base, curr, uint(e))
			curr += blockSize
			remaining -= blockSize
		}
	}

	return p, nil
}

// Destroy releases the pool's region and every bitmap it owns.
// Destroying an already-destroyed pool is a fatal error.
func (p *Pool) Destroy() {
	if p == nil {
		return
	}
	if p.destroyed {
		errs.Fatalf("double destroy of pool %p", p)
	}
	p.fl.destroy()
	osRelease(p.base, p.size)
	p.destroyed = true
}

// Allocate returns a pointer to a block able to hold n bytes, or nil if
// n exceeds the pool's largest order or the pool is exhausted at every
// sufficient order. Allocate(0) is treated as Allocate(1), returning a
// block of the smallest order l.
func (p *Pool) Allocate(n uintptr) unsafe.Pointer {
	if n == 0 {
		n = 1
	}
	e := orderOfSize(n)
	if e < p.l {
		e = p.l
	}
	if e > p.u {
		return nil
	}
	block, ok := p.fl.alloc(p.base, e)
	if !ok {
		return nil
	}
	return unsafe.Pointer(block)
}

// Release returns a pointer previously obtained from Allocate. It is a
// no-op for nil or for any pointer not currently live in this pool.
func (p *Pool) Release(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	addr := uintptr(ptr)
	e, ok := p.fl.sizeof(p.base, addr)
	if !ok {
		return
	}
	p.fl.free(p.base, addr, e)
}

// Sizeof returns the number of bytes usable at ptr, or 0 if ptr is not
// currently live in this pool.
func (p *Pool) Sizeof(ptr unsafe.Pointer) uintptr {
	if ptr == nil {
		return 0
	}
	e, ok := p.fl.sizeof(p.base, uintptr(ptr))
	if !ok {
		return 0
	}
	return sizeOfOrder(e)
}

// Print writes a diagnostic dump of every order's free list to w.
func (p *Pool) Print(w io.Writer) {
	fmt.Fprintf(w, "pool base=0x%x size=%d range=[2^%d, 2^%d]\n", p.base, p.size, p.l, p.u)
	p.fl.print(w)
}
