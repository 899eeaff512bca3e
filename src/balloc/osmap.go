package balloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// osAcquire obtains a private, anonymous, read/write, zero-filled region
// of n bytes directly from the OS. It is the only path through which this
// package acquires bulk memory: the pool's user region and every
// bitVec's bit storage come from here rather than a general-purpose Go
// allocation.
func osAcquire(n uintptr) (uintptr, error) {
	if n == 0 {
		return 0, unix.EINVAL
	}
	data, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return 0, err
	}
	return uintptr(unsafe.Pointer(&data[0])), nil
}

// osRelease returns a region obtained from osAcquire back to the kernel.
func osRelease(addr uintptr, n uintptr) error {
	if addr == 0 || n == 0 {
		return nil
	}
	data := (*[1 << 30]byte)(unsafe.Pointer(addr))[:n:n]
	return unix.Munmap(data)
}
