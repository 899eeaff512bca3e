// Command balloctest is a small harness exercising the buddy allocator
// and its deque collaborator side by side: create a pool, run through
// the allocate/size/free/reuse sequence, then build a deque to show the
// collaborator working alongside it.
package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/chasti/buddyalloc/src/balloc"
	"github.com/chasti/buddyalloc/src/deq"
)

func main() {
	fmt.Println("Starting buddy allocator harness...")

	pool, err := balloc.Create(65536, 4, 12) // 64KiB region, 16B..4KiB blocks
	if err != nil {
		fmt.Fprintln(os.Stderr, "create pool:", err)
		os.Exit(1)
	}
	defer pool.Destroy()

	p1 := pool.Allocate(10)
	mustSize(pool, p1, 16)

	p2 := pool.Allocate(4000)
	mustSize(pool, p2, 4096)

	if p3 := pool.Allocate(5000); p3 != nil {
		fmt.Fprintln(os.Stderr, "expected oversized allocation to fail")
		os.Exit(1)
	}

	pool.Release(p1)
	p4 := pool.Allocate(16)
	if p4 != p1 {
		fmt.Fprintln(os.Stderr, "expected reallocation to reuse the freed block")
		os.Exit(1)
	}

	pool.Print(os.Stdout)

	fmt.Println("Building a deque alongside the pool...")
	q := deq.New[string]()
	q.HeadPut("first")
	q.TailPut("last")
	q.HeadPut("newhead")
	fmt.Printf("deque length: %d, head: %s, contents: %s\n", q.Len(), q.HeadIth(0), q.Str(func(s string) string { return s }))

	pool.Release(p2)
	pool.Release(p4)

	fmt.Println("All checks passed.")
}

func mustSize(pool *balloc.Pool, p unsafe.Pointer, want uintptr) {
	if got := pool.Sizeof(p); got != want {
		fmt.Fprintf(os.Stderr, "sizeof mismatch: got %d want %d\n", got, want)
		os.Exit(1)
	}
}
