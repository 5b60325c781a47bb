// Package relock provides a reentrant mutex keyed on goroutine identity.
//
// The hub holds its lock across the synchronous invocation of every slot,
// and slots are allowed to call back into the hub (emit, connect,
// disconnect) from the same call chain. A plain sync.Mutex would deadlock
// on that recursion, so the hub's lock tracks its owning goroutine and
// treats nested Lock calls from the owner as depth increments.
package relock

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Mutex is a reentrant mutual-exclusion lock. The zero value is unlocked.
//
// Unlock must be called once per Lock, from the owning goroutine.
type Mutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock acquires the mutex. If the calling goroutine already holds it, the
// hold depth is incremented instead of blocking.
func (m *Mutex) Lock() {
	id := gid()
	if m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// Unlock releases one hold. The mutex is released to other goroutines when
// the depth returns to zero.
func (m *Mutex) Unlock() {
	if m.owner.Load() != gid() {
		panic("relock: unlock by non-owner goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}

// Held reports whether the calling goroutine currently owns the mutex.
func (m *Mutex) Held() bool {
	return m.owner.Load() == gid()
}

// gid returns the calling goroutine's id. goid's fast path reads the
// runtime g directly; on a toolchain it carries no offsets for it reports
// zero, so that value falls back to parsing the stack header. The result
// is always positive and can never collide with the unowned sentinel.
func gid() int64 {
	if id := goid.Get(); id > 0 {
		return id
	}
	return gidFromStack()
}

var stackPrefix = []byte("goroutine ")

// gidFromStack recovers the goroutine id from the first line of a stack
// trace, "goroutine N [running]: ...". Slow, but correct on any toolchain.
func gidFromStack() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], stackPrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || id <= 0 {
		panic("relock: cannot determine goroutine id")
	}
	return id
}
