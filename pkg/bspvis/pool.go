package bspvis

// Pool is a fixed-granularity block allocator. It hands out pointer-stable,
// zeroed object slots and recycles freed ones without touching the heap per
// object. Blocks are never released individually; Drain resets the whole
// pool and invalidates every object still alive.
type Pool[T any] struct {
	granularity int
	blocks      [][]T
	free        []*T
	allocCount  int
	liveCount   int
}

// NewPool creates an empty pool. No memory is allocated until the first
// object is requested. granularity is the number of objects per block.
func NewPool[T any](granularity int) *Pool[T] {
	if granularity <= 0 {
		panic("bspvis: pool granularity must be positive")
	}
	return &Pool[T]{granularity: granularity}
}

// Allocate returns a zeroed object. Grows the pool by one block when the
// free list is exhausted; only process-wide out-of-memory can fail, as an
// allocation panic.
func (p *Pool[T]) Allocate() *T {
	if len(p.free) == 0 {
		block := make([]T, p.granularity)
		p.blocks = append(p.blocks, block)

		for i := range block {
			p.free = append(p.free, &block[i])
		}
	}

	obj := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	var zero T
	*obj = zero

	p.allocCount++
	p.liveCount++

	return obj
}

// Free returns an object to the pool for recycling. nil is a no-op.
func (p *Pool[T]) Free(obj *T) {
	if obj == nil {
		return
	}
	if p.liveCount == 0 {
		panic("bspvis: pool free with no objects alive")
	}

	p.free = append(p.free, obj)
	p.liveCount--
}

// Drain releases every block, resetting the pool to its initial state.
// Any object still alive becomes invalid.
func (p *Pool[T]) Drain() {
	p.blocks = nil
	p.free = nil
	p.allocCount = 0
	p.liveCount = 0
}

// TotalAllocs returns the number of calls to Allocate since the last Drain.
func (p *Pool[T]) TotalAllocs() int { return p.allocCount }

// TotalFrees returns the number of objects returned since the last Drain.
func (p *Pool[T]) TotalFrees() int { return p.allocCount - p.liveCount }

// Live returns the number of objects currently alive.
func (p *Pool[T]) Live() int { return p.liveCount }

// Blocks returns the number of blocks backing the pool.
func (p *Pool[T]) Blocks() int { return len(p.blocks) }
