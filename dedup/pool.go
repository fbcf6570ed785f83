package dedup

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("dedup: pool closed")

// Snapshot is the read-only sample collection every worker compares against.
// It must not be modified once built.
type Snapshot struct {
	seqs    [][]string
	hashes  []uint64
	buckets map[uint64][]int // content hash -> ascending positions
}

// NewSnapshot indexes seqs by content hash.
func NewSnapshot(seqs [][]string) *Snapshot {
	s := &Snapshot{
		seqs:    seqs,
		hashes:  make([]uint64, len(seqs)),
		buckets: make(map[uint64][]int, len(seqs)),
	}
	for i, seq := range seqs {
		h := hashSeq(seq)
		s.hashes[i] = h
		s.buckets[h] = append(s.buckets[h], i)
	}
	return s
}

// Len returns the number of sequences in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.seqs)
}

func hashSeq(seq []string) uint64 {
	d := xxhash.New()
	for _, tok := range seq {
		_, _ = d.WriteString(tok)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Worker answers keep/discard questions for positions of one snapshot.
type Worker struct {
	snap     *Snapshot
	compared atomic.Int64
}

// Keep reports whether position i survives deduplication, i.e. no later
// position holds an identical sequence.
func (w *Worker) Keep(i int) bool {
	for _, j := range w.snap.buckets[w.snap.hashes[i]] {
		if j <= i {
			continue
		}
		w.compared.Add(1)
		if slices.Equal(w.snap.seqs[i], w.snap.seqs[j]) {
			return false
		}
	}
	return true
}

// Compared returns the number of exact sequence comparisons made so far.
func (w *Worker) Compared() int64 {
	return w.compared.Load()
}

// Pool manages a fixed set of workers bound to the same snapshot.
type Pool struct {
	workers chan *Worker
	all     []*Worker
	size    int
	mu      sync.Mutex
	closed  bool
}

// NewPool creates a pool of n workers. Each worker is bound to snap once,
// here; tasks only carry positions.
func NewPool(snap *Snapshot, size int) *Pool {
	if size <= 0 {
		size = 1
	}

	pool := &Pool{
		workers: make(chan *Worker, size),
		all:     make([]*Worker, 0, size),
		size:    size,
	}
	for i := 0; i < size; i++ {
		w := &Worker{snap: snap}
		pool.all = append(pool.all, w)
		pool.workers <- w
	}
	return pool
}

// Acquire gets a worker from the pool, blocking if none available.
// Respects context cancellation. Returns error if pool is closed.
func (p *Pool) Acquire(ctx context.Context) (*Worker, error) {
	select {
	case w, ok := <-p.workers:
		if !ok {
			return nil, ErrPoolClosed
		}
		return w, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a worker to the pool.
func (p *Pool) Release(w *Worker) {
	if w == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.workers <- w:
	default:
	}
}

// Close stops handing out workers. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.workers)
}

// Size returns the pool size.
func (p *Pool) Size() int {
	return p.size
}

// Compared returns the total number of exact comparisons across workers.
func (p *Pool) Compared() int64 {
	var n int64
	for _, w := range p.all {
		n += w.Compared()
	}
	return n
}
