package dedup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testSnapshot() *Snapshot {
	return NewSnapshot([][]string{
		{"a", "b"},
		{"c"},
		{"a", "b"},
	})
}

func TestNewPool_InvalidSize(t *testing.T) {
	// Size <= 0 should default to 1
	for _, size := range []int{0, -5} {
		pool := NewPool(testSnapshot(), size)
		if pool.Size() != 1 {
			t.Errorf("NewPool(%d): expected size 1, got %d", size, pool.Size())
		}
		pool.Close()
	}
}

func TestPool_AcquireRelease(t *testing.T) {
	pool := NewPool(testSnapshot(), 2)
	defer pool.Close()

	ctx := context.Background()

	w1, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 1 failed: %v", err)
	}
	w2, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 2 failed: %v", err)
	}

	// Third acquire should block - test with timeout
	ctx3, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	_, err = pool.Acquire(ctx3)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}

	pool.Release(w1)

	w3, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 3 failed: %v", err)
	}

	pool.Release(w2)
	pool.Release(w3)
}

func TestPool_ReleaseNil(t *testing.T) {
	pool := NewPool(testSnapshot(), 1)
	defer pool.Close()

	// Should not panic when releasing nil
	pool.Release(nil)
}

func TestPool_CloseIdempotent(t *testing.T) {
	pool := NewPool(testSnapshot(), 2)
	pool.Close()
	pool.Close()

	_, err := pool.Acquire(context.Background())
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}

func TestPool_ReleaseAfterClose(t *testing.T) {
	pool := NewPool(testSnapshot(), 1)

	w, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	pool.Close()

	// Must not send on the closed channel
	pool.Release(w)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	pool := NewPool(testSnapshot(), 3)
	defer pool.Close()

	var wg sync.WaitGroup
	var discarded int64
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				w, err := pool.Acquire(context.Background())
				if err != nil {
					t.Errorf("Acquire failed: %v", err)
					return
				}
				if !w.Keep(0) {
					atomic.AddInt64(&discarded, 1)
				}
				pool.Release(w)
			}
		}()
	}
	wg.Wait()

	if discarded != 50 {
		t.Errorf("position 0 discarded %d times, want 50", discarded)
	}
	if pool.Compared() != 50 {
		t.Errorf("Compared() = %d, want 50", pool.Compared())
	}
}

func TestWorker_Keep(t *testing.T) {
	w := &Worker{snap: testSnapshot()}

	want := []bool{false, true, true}
	for i, k := range want {
		if got := w.Keep(i); got != k {
			t.Errorf("Keep(%d) = %v, want %v", i, got, k)
		}
	}
}

func TestNewSnapshot_Buckets(t *testing.T) {
	snap := testSnapshot()
	if snap.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", snap.Len())
	}
	if len(snap.buckets) != 2 {
		t.Errorf("got %d buckets, want 2", len(snap.buckets))
	}
	if snap.hashes[0] != snap.hashes[2] {
		t.Error("identical sequences hashed differently")
	}
}
