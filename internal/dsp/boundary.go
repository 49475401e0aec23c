package dsp

import "github.com/deepteams/alf/internal/tables"

// Boundary lists the hard edges around a filtering region, in luma sample
// coordinates. An edge set to tables.NoBoundary does not restrict filtering.
// Samples across a set edge are never read: the kernels pad symmetrically
// instead.
type Boundary struct {
	Top, Bottom, Left, Right int
}

// NoBoundaries returns a Boundary with every edge open.
func NoBoundaries() Boundary {
	return Boundary{
		Top:    tables.NoBoundary,
		Bottom: tables.NoBoundary,
		Left:   tables.NoBoundary,
		Right:  tables.NoBoundary,
	}
}

// Any reports whether at least one edge is set.
func (b Boundary) Any() bool {
	return b.Top != tables.NoBoundary || b.Bottom != tables.NoBoundary ||
		b.Left != tables.NoBoundary || b.Right != tables.NoBoundary
}

// Scaled maps the edge positions onto a subsampled component.
func (b Boundary) Scaled(sx, sy int) Boundary {
	return Boundary{
		Top:    scaleEdge(b.Top, sy),
		Bottom: scaleEdge(b.Bottom, sy),
		Left:   scaleEdge(b.Left, sx),
		Right:  scaleEdge(b.Right, sx),
	}
}

func scaleEdge(pos, shift int) int {
	if pos == tables.NoBoundary {
		return pos
	}
	return pos >> shift
}

// VirtualRow describes the ALF virtual boundary that repeats inside every
// CTU row: rows are compared modulo CTUHeight against Pos. CTUHeight must be
// a power of two.
type VirtualRow struct {
	CTUHeight int
	Pos       int
}

// mod returns y modulo the CTU height.
func (v VirtualRow) mod(y int) int {
	return y & (v.CTUHeight - 1)
}

func (v VirtualRow) check() {
	if v.CTUHeight <= 0 || v.CTUHeight&(v.CTUHeight-1) != 0 {
		panic("dsp: virtual boundary CTU height must be a power of two")
	}
}
