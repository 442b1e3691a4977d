package argpool

import (
	"reflect"
	"sync"

	"github.com/jdziat/simple-eca/pkg/security"
)

// Pool holds idle buffers grouped by length.
type Pool struct {
	mu      sync.Mutex
	buckets [][][]reflect.Value
	perSize int
}

// New creates a Pool prepared for buffers up to size-1 values long.
// Larger sizes grow the pool on demand. perSize bounds how many idle
// buffers are kept for each length.
func New(size, perSize int) *Pool {
	return &Pool{
		buckets: make([][][]reflect.Value, security.ClampPoolSize(size)),
		perSize: security.ClampPerSize(perSize),
	}
}

// Get returns a zeroed buffer of exactly n values.
func (p *Pool) Get(n int) []reflect.Value {
	if n <= 0 {
		return nil
	}

	p.mu.Lock()
	if n >= len(p.buckets) {
		p.grow(n)
	}
	bucket := p.buckets[n]
	if len(bucket) == 0 {
		p.mu.Unlock()
		return make([]reflect.Value, n)
	}
	buf := bucket[len(bucket)-1]
	p.buckets[n] = bucket[:len(bucket)-1]
	p.mu.Unlock()
	return buf
}

// Put returns buf to the pool. The buffer is cleared so that pooled
// buffers do not keep arguments alive.
func (p *Pool) Put(buf []reflect.Value) {
	n := len(buf)
	if n == 0 {
		return
	}
	clear(buf)

	p.mu.Lock()
	defer p.mu.Unlock()
	if n >= len(p.buckets) {
		p.grow(n)
	}
	if len(p.buckets[n]) < p.perSize {
		p.buckets[n] = append(p.buckets[n], buf)
	}
}

// Size reports how many buffer lengths the pool currently indexes.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets)
}

// Idle reports how many buffers of length n are waiting for reuse.
func (p *Pool) Idle(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n <= 0 || n >= len(p.buckets) {
		return 0
	}
	return len(p.buckets[n])
}

// grow makes room for length n. Callers hold p.mu.
func (p *Pool) grow(n int) {
	size := max(n+1, security.DefaultPoolSize)
	grown := make([][][]reflect.Value, size)
	copy(grown, p.buckets)
	p.buckets = grown
}
