package filter

import (
	"fmt"
	"sort"

	"github.com/deepteams/alf/internal/dsp"
	"github.com/deepteams/alf/internal/tables"
)

// Partition answers slice and brick membership of CTUs, addressed by CTU
// column and row. Bricks subdivide tiles, so two CTUs in different tiles
// are always in different bricks.
type Partition interface {
	SliceIndex(ctuX, ctuY int) int
	BrickIndex(ctuX, ctuY int) int
}

// GridPartition is a uniform tile grid with raster-scan slices. Every tile
// is one brick.
type GridPartition struct {
	// Columns is the number of CTU columns of the picture.
	Columns int `json:"columns"`
	// TileColumns and TileRows list the CTU column and row at which each
	// tile after the first starts, in increasing order.
	TileColumns []int `json:"tile_columns,omitempty"`
	TileRows    []int `json:"tile_rows,omitempty"`
	// SliceStarts lists the raster CTU address of the first CTU of each
	// slice after the first, in increasing order.
	SliceStarts []int `json:"slice_starts,omitempty"`
}

// SliceIndex implements Partition.
func (g *GridPartition) SliceIndex(ctuX, ctuY int) int {
	return sort.SearchInts(g.SliceStarts, ctuY*g.Columns+ctuX+1)
}

// BrickIndex implements Partition.
func (g *GridPartition) BrickIndex(ctuX, ctuY int) int {
	col := sort.SearchInts(g.TileColumns, ctuX+1)
	row := sort.SearchInts(g.TileRows, ctuY+1)
	return row*(len(g.TileColumns)+1) + col
}

// BoundaryParams are the picture-level filtering restrictions.
type BoundaryParams struct {
	// CrossSlices allows filtering across slice edges.
	CrossSlices bool `json:"cross_slices"`
	// CrossBricks allows filtering across tile and brick edges.
	CrossBricks bool `json:"cross_bricks"`
	// VirtualBoundariesDisabled forbids filtering across the virtual
	// boundaries listed in VirtualX (columns) and VirtualY (rows).
	VirtualBoundariesDisabled bool  `json:"virtual_boundaries_disabled"`
	VirtualX                  []int `json:"virtual_x,omitempty"`
	VirtualY                  []int `json:"virtual_y,omitempty"`
}

func (b *BoundaryParams) validate(c *Config) error {
	if len(b.VirtualX) > tables.MaxVirtualBounds || len(b.VirtualY) > tables.MaxVirtualBounds {
		return fmt.Errorf("%w: at most %d virtual boundaries per direction", ErrParams, tables.MaxVirtualBounds)
	}
	for _, x := range b.VirtualX {
		if x <= 0 || x >= c.Width || x%8 != 0 {
			return fmt.Errorf("%w: vertical virtual boundary at %d", ErrParams, x)
		}
	}
	for _, y := range b.VirtualY {
		if y <= 0 || y >= c.Height || y%8 != 0 {
			return fmt.Errorf("%w: horizontal virtual boundary at %d", ErrParams, y)
		}
	}
	return nil
}

// region is the boundary descriptor of one CTU.
type region struct {
	bound dsp.Boundary
	// horVB and verVB hold the virtual boundary rows and columns strictly
	// inside the CTU, in increasing order.
	horVB  [tables.MaxVirtualBounds]int
	verVB  [tables.MaxVirtualBounds]int
	numHor int
	numVer int
}

// crossed reports whether the CTU must be split or padded.
func (r region) crossed() bool {
	return r.numHor > 0 || r.numVer > 0 || r.bound.Any()
}

// resolver derives the boundary descriptors of CTUs.
type resolver struct {
	ctuSize int
	width   int
	height  int
	part    Partition
	params  BoundaryParams
}

func newResolver(c *Config, part Partition, params BoundaryParams) *resolver {
	r := &resolver{
		ctuSize: c.CTUSize,
		width:   c.Width,
		height:  c.Height,
		part:    part,
		params:  params,
	}
	r.params.VirtualX = append([]int(nil), params.VirtualX...)
	r.params.VirtualY = append([]int(nil), params.VirtualY...)
	sort.Ints(r.params.VirtualX)
	sort.Ints(r.params.VirtualY)
	return r
}

// separated reports whether filtering between the CTUs at luma positions
// (x0, y0) and (x1, y1) is forbidden by the slice or brick layout.
func (r *resolver) separated(x0, y0, x1, y1 int) bool {
	if r.part == nil {
		return false
	}
	cx0, cy0 := x0/r.ctuSize, y0/r.ctuSize
	cx1, cy1 := x1/r.ctuSize, y1/r.ctuSize
	if !r.params.CrossSlices && r.part.SliceIndex(cx0, cy0) != r.part.SliceIndex(cx1, cy1) {
		return true
	}
	if !r.params.CrossBricks && r.part.BrickIndex(cx0, cy0) != r.part.BrickIndex(cx1, cy1) {
		return true
	}
	return false
}

// resolve returns the descriptor of the w x h CTU at (x, y). Edges are
// placed on the CTU border; picture edges are left open because the
// working copy is padded there.
func (r *resolver) resolve(x, y, w, h int) region {
	rg := region{bound: dsp.NoBoundaries()}
	size := r.ctuSize

	if y > 0 && r.separated(x, y, x, y-size) {
		rg.bound.Top = y
	}
	if y+size < r.height && r.separated(x, y, x, y+size) {
		rg.bound.Bottom = y + size
	}
	if x > 0 && r.separated(x, y, x-size, y) {
		rg.bound.Left = x
	}
	if x+size < r.width && r.separated(x, y, x+size, y) {
		rg.bound.Right = x + size
	}

	if !r.params.VirtualBoundariesDisabled {
		return rg
	}
	for _, vy := range r.params.VirtualY {
		switch {
		case vy == y:
			rg.bound.Top = y
		case vy == y+size:
			rg.bound.Bottom = y + size
		}
		if y < vy && vy < y+h {
			rg.horVB[rg.numHor] = vy
			rg.numHor++
		}
	}
	for _, vx := range r.params.VirtualX {
		switch {
		case vx == x:
			rg.bound.Left = x
		case vx == x+size:
			rg.bound.Right = x + size
		}
		if x < vx && vx < x+w {
			rg.verVB[rg.numVer] = vx
			rg.numVer++
		}
	}
	return rg
}
