// Package pool provides bucketed sync.Pool instances for the scratch buffers
// of the loop filter workers. Buffers are organized by size class to
// minimize waste.
package pool

import "sync"

// Size classes (in elements) for bucketed pools.
const (
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
	Size1M   = 1048576
)

var sizes = [5]int{Size4K, Size16K, Size64K, Size256K, Size1M}

// bucketIndex returns the pool index for a given size.
func bucketIndex(size int) int {
	switch {
	case size <= Size4K:
		return 0
	case size <= Size16K:
		return 1
	case size <= Size64K:
		return 2
	case size <= Size256K:
		return 3
	default:
		return 4
	}
}

// bucketed is a set of size-class pools for slices of T.
type bucketed[T any] struct {
	pools [len(sizes)]sync.Pool
}

func newBucketed[T any]() *bucketed[T] {
	b := &bucketed[T]{}
	for i := range b.pools {
		sz := sizes[i]
		b.pools[i].New = func() any {
			s := make([]T, sz)
			return &s
		}
	}
	return b
}

func (b *bucketed[T]) get(size int) []T {
	idx := bucketIndex(size)
	sp := b.pools[idx].Get().(*[]T)
	s := *sp
	if cap(s) < size {
		s = make([]T, size)
		*sp = s
		return s
	}
	s = s[:size]
	clear(s)
	return s
}

func (b *bucketed[T]) put(s []T) {
	c := cap(s)
	if c < Size4K {
		return
	}
	// A slice is filed under the largest class it can fully serve.
	idx := bucketIndex(c)
	if sizes[idx] > c {
		idx--
	}
	s = s[:c]
	b.pools[idx].Put(&s)
}

var (
	pels = newBucketed[int16]()
	ints = newBucketed[int32]()
)

// GetPels returns a zeroed int16 sample slice of the requested length.
// The caller must call PutPels when done.
func GetPels(size int) []int16 { return pels.get(size) }

// PutPels returns a slice obtained from GetPels. Slices smaller than Size4K
// are not pooled.
func PutPels(s []int16) { pels.put(s) }

// GetInt32 returns a zeroed int32 slice of the requested length.
func GetInt32(size int) []int32 { return ints.get(size) }

// PutInt32 returns a slice obtained from GetInt32.
func PutInt32(s []int32) { ints.put(s) }
