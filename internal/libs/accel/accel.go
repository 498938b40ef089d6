// Package accel provides utilities for accelerated batch processing.
package accel

// DefaultBatchSize is used when a non-positive size is requested
const DefaultBatchSize = 100

// Range is a half-open interval [Start, End) over an indexed collection
type Range struct {
	Start int
	End   int
}

// Len returns the number of items covered by the range
func (r Range) Len() int {
	return r.End - r.Start
}

// Batch represents a batch processing helper
type Batch struct {
	size int
}

// NewBatch creates a new batch processor with the given size
func NewBatch(size int) *Batch {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &Batch{size: size}
}

// Size returns the batch size
func (b *Batch) Size() int {
	return b.size
}

// Split partitions n items into consecutive ranges of at most Size items.
// Ranges are returned in order; n <= 0 yields no ranges.
func (b *Batch) Split(n int) []Range {
	if n <= 0 {
		return nil
	}

	ranges := make([]Range, 0, (n+b.size-1)/b.size)
	for start := 0; start < n; start += b.size {
		end := start + b.size
		if end > n {
			end = n
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}
