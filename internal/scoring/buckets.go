package scoring

// denseMaxLength is the longest word whose 3^n pattern space is kept in a
// flat slice; longer words fall back to a map.
const denseMaxLength = 8

// buckets accumulates candidate mass per pattern code for one guess at a
// time. Owned by a single worker.
type buckets struct {
	dense   []float64
	seen    []bool
	touched []uint32
	sparse  map[uint32]float64
	out     []float64
}

func newBuckets(n int) *buckets {
	if n > denseMaxLength {
		return &buckets{sparse: make(map[uint32]float64)}
	}
	size := 1
	for i := 0; i < n; i++ {
		size *= 3
	}
	return &buckets{dense: make([]float64, size), seen: make([]bool, size)}
}

func (b *buckets) add(code uint32, w float64) {
	if b.sparse != nil {
		b.sparse[code] += w
		return
	}
	if !b.seen[code] {
		b.seen[code] = true
		b.touched = append(b.touched, code)
	}
	b.dense[code] += w
}

// drain returns the non-empty bucket masses and resets for the next guess.
// The returned slice is reused by the next call.
func (b *buckets) drain() []float64 {
	b.out = b.out[:0]
	if b.sparse != nil {
		for code, m := range b.sparse {
			b.out = append(b.out, m)
			delete(b.sparse, code)
		}
		return b.out
	}
	for _, code := range b.touched {
		b.out = append(b.out, b.dense[code])
		b.dense[code] = 0
		b.seen[code] = false
	}
	b.touched = b.touched[:0]
	return b.out
}
