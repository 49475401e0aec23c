package dsp

import (
	"github.com/deepteams/alf/internal/pool"
	"github.com/deepteams/alf/internal/tables"
)

// Directions of the Laplacian accumulators.
const (
	dirHor = iota
	dirVer
	dirDiag0
	dirDiag1
	numDirections
)

// lapStride is the row length of a Laplacian accumulator: one
// classification tile plus the filter halo.
const lapStride = tables.ClassifyBlockSize + 5

const lapSize = lapStride * lapStride

// Laplacian is the per-worker scratch for classification. It must not be
// shared between goroutines.
type Laplacian struct {
	buf []int32
}

// NewLaplacian takes a scratch buffer from the pool.
func NewLaplacian() *Laplacian {
	return &Laplacian{buf: pool.GetInt32(numDirections * lapSize)}
}

// Release returns the scratch buffer to the pool.
func (l *Laplacian) Release() {
	pool.PutInt32(l.buf)
	l.buf = nil
}

// row returns row i of direction d.
func (l *Laplacian) row(d, i int) []int32 {
	off := d*lapSize + i*lapStride
	return l.buf[off : off+lapStride]
}
