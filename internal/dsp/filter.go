package dsp

import (
	"github.com/deepteams/alf/internal/plane"
	"github.com/deepteams/alf/internal/tables"
)

// FilterArgs describes one filtering call on a single component.
//
// Src is read around (SrcX, SrcY) and must never alias Dst: Dst receives
// Area, given in component picture coordinates, which are also the
// coordinates used for the virtual boundary, the boundary edges and the
// classification map.
//
// For luma, Coeff and Clip hold NumClasses rows of 13 taps. For chroma they
// hold a single row of 7 taps.
type FilterArgs struct {
	Dst      *plane.Plane
	Area     plane.Area
	Src      *plane.Plane
	SrcX     int
	SrcY     int
	Chroma   bool
	ScaleX   int
	ScaleY   int
	Classes  *ClassMap
	Coeff    []int16
	Clip     []int16
	BitDepth int
	VB       VirtualRow
	Bound    Boundary // luma coordinates
}

const (
	filterShift  = tables.CoeffBits - 1
	filterOffset = 1 << (filterShift - 1)
)

func (a *FilterArgs) check(luma bool) {
	a.VB.check()
	if a.Chroma == luma {
		if luma {
			panic("dsp: 7x7 filter applied to a chroma component")
		}
		panic("dsp: 5x5 filter applied to luma")
	}
	if a.Area.X%4 != 0 || a.Area.Y%4 != 0 || a.Area.W%4 != 0 || a.Area.H%4 != 0 {
		panic("dsp: filter area must be aligned to 4")
	}
	if luma && a.Classes == nil {
		panic("dsp: luma filtering needs a class map")
	}
}

// rowTaps holds the source offsets of the rows at vertical distance
// 0, +1, -1, +2, -2, +3, -3 from the centre row.
type rowTaps [7]int

// padRows replaces the rows that lie across the virtual boundary or a
// horizontal edge with the mirrored nearest legal rows. y is the component
// row being filtered.
func padRows(p *rowTaps, y int, vb VirtualRow, vbPos int, b Boundary, chroma bool, botLines int) {
	yVb := vb.mod(y)
	aboveLines, topLines, belowLines := 4, 2, 3
	if chroma {
		aboveLines, topLines, belowLines = 2, 1, 1
		botLines >>= 1
	}
	switch {
	case yVb < vbPos && yVb >= vbPos-aboveLines:
		clampBelow(p, yVb-vbPos)
	case b.Bottom != tables.NoBoundary && y < b.Bottom && y >= b.Bottom-botLines:
		clampBelow(p, y-b.Bottom)
	case b.Top != tables.NoBoundary && y >= b.Top && y <= b.Top+topLines:
		clampAbove(p, y-b.Top)
	case yVb >= vbPos && yVb <= vbPos+belowLines:
		clampAbove(p, yVb-vbPos)
	}
}

// clampBelow pads the rows below an edge; d is the (negative) distance of
// the current row from the first row across it.
func clampBelow(p *rowTaps, d int) {
	if d == -1 {
		p[1], p[2] = p[0], p[0]
	}
	if d >= -2 {
		p[3], p[4] = p[1], p[2]
	}
	if d >= -3 {
		p[5], p[6] = p[3], p[4]
	}
}

// clampAbove pads the rows above an edge; d is the distance of the current
// row from the first row on the legal side.
func clampAbove(p *rowTaps, d int) {
	if d == 0 {
		p[1], p[2] = p[0], p[0]
	}
	if d <= 1 {
		p[3], p[4] = p[1], p[2]
	}
	if d <= 2 {
		p[5], p[6] = p[3], p[4]
	}
}

// colTaps returns the horizontal distances of the three arms at column x,
// shortened next to a vertical edge.
func colTaps(x int, b Boundary, chroma bool) (i1, i2, i3 int) {
	i1, i2, i3 = 1, 2, 3
	leftCols, rightCols := 2, 4
	if chroma {
		leftCols, rightCols = 1, 2
	}
	switch {
	case b.Left != tables.NoBoundary && x >= b.Left && x <= b.Left+leftCols:
		if x == b.Left {
			i1 = 0
		}
		if x <= b.Left+1 {
			i2 = i1
		}
		if x <= b.Left+2 {
			i3 = i2
		}
	case b.Right != tables.NoBoundary && x < b.Right && x >= b.Right-rightCols:
		if x == b.Right-1 {
			i1 = 0
		}
		if x >= b.Right-2 {
			i2 = i1
		}
		if x >= b.Right-3 {
			i3 = i2
		}
	}
	return i1, i2, i3
}

// filterGeometry is the per-call state shared by both filter shapes.
type filterGeometry struct {
	bound    Boundary // component coordinates
	vbPos    int
	botLines int
	maxVal   int
}

func newGeometry(a *FilterArgs) filterGeometry {
	g := filterGeometry{
		bound:  a.Bound.Scaled(a.ScaleX, a.ScaleY),
		vbPos:  a.VB.Pos,
		maxVal: (1 << a.BitDepth) - 1,
	}
	g.botLines = 4
	if g.bound.Bottom != tables.NoBoundary &&
		(g.bound.Bottom-(4>>a.ScaleY))%a.VB.CTUHeight == g.vbPos {
		g.botLines = 2
	}
	return g
}

// blockRows fills the row offsets for component row y, with the centre at
// src offset base.
func (g *filterGeometry) blockRows(p *rowTaps, base, stride, y int, vb VirtualRow, chroma bool) {
	p[0] = base
	p[1] = base + stride
	p[2] = base - stride
	p[3] = base + 2*stride
	p[4] = base - 2*stride
	p[5] = base + 3*stride
	p[6] = base - 3*stride
	padRows(p, y, vb, g.vbPos, g.bound, chroma, g.botLines)
}

func filter7x7Reference(a *FilterArgs) {
	a.check(true)
	g := newGeometry(a)
	src := a.Src.Pix
	stride := a.Src.Stride
	var coef, clip [tables.NumLumaCoeff]int16
	var p rowTaps

	for i := 0; i < a.Area.H; i += 4 {
		for j := 0; j < a.Area.W; j += 4 {
			cl := a.Classes.At(a.Area.X+j, a.Area.Y+i)
			row := int(cl.Class) * tables.NumLumaCoeff
			Transpose(coef[:], a.Coeff[row:row+tables.NumLumaCoeff], int(cl.Transpose))
			Transpose(clip[:], a.Clip[row:row+tables.NumLumaCoeff], int(cl.Transpose))

			for ii := 0; ii < 4; ii++ {
				y := a.Area.Y + i + ii
				g.blockRows(&p, a.Src.Offset(a.SrcX+j, a.SrcY+i+ii), stride, y, a.VB, false)
				dst := a.Dst.Offset(a.Area.X+j, y)
				for jj := 0; jj < 4; jj++ {
					i1, i2, i3 := colTaps(a.Area.X+j+jj, g.bound, false)
					p0, p1, p2, p3, p4, p5, p6 := p[0]+jj, p[1]+jj, p[2]+jj, p[3]+jj, p[4]+jj, p[5]+jj, p[6]+jj
					cur := int(src[p0])
					sum := int(coef[0]) * clipALF(int(clip[0]), cur, int(src[p5]), int(src[p6]))
					sum += int(coef[1]) * clipALF(int(clip[1]), cur, int(src[p3+i1]), int(src[p4-i1]))
					sum += int(coef[2]) * clipALF(int(clip[2]), cur, int(src[p3]), int(src[p4]))
					sum += int(coef[3]) * clipALF(int(clip[3]), cur, int(src[p3-i1]), int(src[p4+i1]))
					sum += int(coef[4]) * clipALF(int(clip[4]), cur, int(src[p1+i2]), int(src[p2-i2]))
					sum += int(coef[5]) * clipALF(int(clip[5]), cur, int(src[p1+i1]), int(src[p2-i1]))
					sum += int(coef[6]) * clipALF(int(clip[6]), cur, int(src[p1]), int(src[p2]))
					sum += int(coef[7]) * clipALF(int(clip[7]), cur, int(src[p1-i1]), int(src[p2+i1]))
					sum += int(coef[8]) * clipALF(int(clip[8]), cur, int(src[p1-i2]), int(src[p2+i2]))
					sum += int(coef[9]) * clipALF(int(clip[9]), cur, int(src[p0+i3]), int(src[p0-i3]))
					sum += int(coef[10]) * clipALF(int(clip[10]), cur, int(src[p0+i2]), int(src[p0-i2]))
					sum += int(coef[11]) * clipALF(int(clip[11]), cur, int(src[p0+i1]), int(src[p0-i1]))
					a.Dst.Pix[dst+jj] = plane.Pel(clip3(0, g.maxVal, (sum+filterOffset)>>filterShift + cur))
				}
			}
		}
	}
}

func filter5x5Reference(a *FilterArgs) {
	a.check(false)
	g := newGeometry(a)
	src := a.Src.Pix
	stride := a.Src.Stride
	coef := a.Coeff[:tables.NumChromaCoeff]
	clip := a.Clip[:tables.NumChromaCoeff]
	var p rowTaps

	for i := 0; i < a.Area.H; i++ {
		y := a.Area.Y + i
		g.blockRows(&p, a.Src.Offset(a.SrcX, a.SrcY+i), stride, y, a.VB, true)
		dst := a.Dst.Offset(a.Area.X, y)
		for j := 0; j < a.Area.W; j++ {
			i1, i2, _ := colTaps(a.Area.X+j, g.bound, true)
			p0, p1, p2, p3, p4 := p[0]+j, p[1]+j, p[2]+j, p[3]+j, p[4]+j
			cur := int(src[p0])
			sum := int(coef[0]) * clipALF(int(clip[0]), cur, int(src[p3]), int(src[p4]))
			sum += int(coef[1]) * clipALF(int(clip[1]), cur, int(src[p1+i1]), int(src[p2-i1]))
			sum += int(coef[2]) * clipALF(int(clip[2]), cur, int(src[p1]), int(src[p2]))
			sum += int(coef[3]) * clipALF(int(clip[3]), cur, int(src[p1-i1]), int(src[p2+i1]))
			sum += int(coef[4]) * clipALF(int(clip[4]), cur, int(src[p0+i2]), int(src[p0-i2]))
			sum += int(coef[5]) * clipALF(int(clip[5]), cur, int(src[p0+i1]), int(src[p0-i1]))
			a.Dst.Pix[dst+j] = plane.Pel(clip3(0, g.maxVal, (sum+filterOffset)>>filterShift + cur))
		}
	}
}
