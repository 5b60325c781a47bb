package relock

import (
	"sync"
	"testing"
	"time"
)

func TestGoroutineID_NonZero(t *testing.T) {
	// The unowned sentinel is 0; an id of 0 would make every goroutine
	// look like the owner of an unlocked mutex.
	if id := gid(); id <= 0 {
		t.Fatalf("gid() = %d, want positive", id)
	}
	if a, b := gid(), gid(); a != b {
		t.Errorf("gid() unstable within one goroutine: %d, %d", a, b)
	}

	ids := make(chan int64, 2)
	for i := 0; i < 2; i++ {
		go func() {
			ids <- gid()
		}()
	}
	a, b := <-ids, <-ids
	if a <= 0 || b <= 0 {
		t.Errorf("goroutine ids = %d, %d, want positive", a, b)
	}
	if a == b {
		t.Errorf("two goroutines share id %d", a)
	}
}

func TestGoroutineID_StackFallback(t *testing.T) {
	id := gidFromStack()
	if id <= 0 {
		t.Fatalf("gidFromStack() = %d, want positive", id)
	}
	// The stack header carries the same id the fast path reads.
	if got := gid(); got != id {
		t.Errorf("gid() = %d, stack header says %d", got, id)
	}
}

func TestMutex_Reentrant(t *testing.T) {
	var m Mutex

	m.Lock()
	m.Lock()
	m.Lock()

	if !m.Held() {
		t.Error("Held = false while owner")
	}

	m.Unlock()
	m.Unlock()
	if !m.Held() {
		t.Error("Held = false before final unlock")
	}
	m.Unlock()
	if m.Held() {
		t.Error("Held = true after final unlock")
	}
}

func TestMutex_ExcludesOtherGoroutines(t *testing.T) {
	var m Mutex
	m.Lock()

	acquired := make(chan struct{})
	go func() {
		m.Lock()
		close(acquired)
		m.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second goroutine acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}

	m.Unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second goroutine never acquired the released lock")
	}
}

func TestMutex_CriticalSection(t *testing.T) {
	var m Mutex
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 8000 {
		t.Errorf("counter = %d, want 8000", counter)
	}
}

func TestMutex_UnlockByNonOwnerPanics(t *testing.T) {
	var m Mutex
	m.Lock()
	defer m.Unlock()

	done := make(chan bool, 1)
	go func() {
		defer func() {
			done <- recover() != nil
		}()
		m.Unlock()
	}()

	if !<-done {
		t.Error("unlock by non-owner did not panic")
	}
}
