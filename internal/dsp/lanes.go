package dsp

import (
	"github.com/deepteams/alf/internal/plane"
	"github.com/deepteams/alf/internal/tables"
)

// The lane kernels compute the same results as the reference kernels. They
// walk each 4x4 block tap by tap, with the four columns of a row in
// lockstep, and split the Laplacian pass into a gradient sweep over a row
// slice followed by a separate column fold.

// tapShape locates the sample pair of one filter tap: rows ra and rb of a
// rowTaps, displaced horizontally by sign*arm and -sign*arm, where arm
// selects one of the column distances 0, i1, i2, i3.
type tapShape struct {
	ra, rb uint8
	arm    uint8
	sign   int8
}

var taps7x7 = [tables.NumLumaCoeff - 1]tapShape{
	{5, 6, 0, 0},
	{3, 4, 1, 1},
	{3, 4, 0, 0},
	{3, 4, 1, -1},
	{1, 2, 2, 1},
	{1, 2, 1, 1},
	{1, 2, 0, 0},
	{1, 2, 1, -1},
	{1, 2, 2, -1},
	{0, 0, 3, 1},
	{0, 0, 2, 1},
	{0, 0, 1, 1},
}

var taps5x5 = [tables.NumChromaCoeff - 1]tapShape{
	{3, 4, 0, 0},
	{1, 2, 1, 1},
	{1, 2, 0, 0},
	{1, 2, 1, -1},
	{0, 0, 2, 1},
	{0, 0, 1, 1},
}

func filterLanes(a *FilterArgs, taps []tapShape, luma bool) {
	a.check(luma)
	g := newGeometry(a)
	src := a.Src.Pix
	stride := a.Src.Stride
	n := len(taps) + 1
	var coef, clip [tables.NumLumaCoeff]int16
	if !luma {
		copy(coef[:n], a.Coeff)
		copy(clip[:n], a.Clip)
	}
	var (
		arms [4][4]int
		acc  [4]int
		cur  [4]int
		p    rowTaps
	)

	for i := 0; i < a.Area.H; i += 4 {
		for j := 0; j < a.Area.W; j += 4 {
			if luma {
				cl := a.Classes.At(a.Area.X+j, a.Area.Y+i)
				row := int(cl.Class) * n
				Transpose(coef[:n], a.Coeff[row:row+n], int(cl.Transpose))
				Transpose(clip[:n], a.Clip[row:row+n], int(cl.Transpose))
			}
			for l := range arms {
				i1, i2, i3 := colTaps(a.Area.X+j+l, g.bound, !luma)
				arms[l] = [4]int{0, i1, i2, i3}
			}

			for ii := 0; ii < 4; ii++ {
				y := a.Area.Y + i + ii
				g.blockRows(&p, a.Src.Offset(a.SrcX+j, a.SrcY+i+ii), stride, y, a.VB, !luma)
				for l := range cur {
					cur[l] = int(src[p[0]+l])
					acc[l] = 0
				}
				for k, t := range taps {
					c := int(coef[k])
					lim := int(clip[k])
					ra, rb := p[t.ra], p[t.rb]
					for l := 0; l < 4; l++ {
						d := int(t.sign) * arms[l][t.arm]
						acc[l] += c * clipALF(lim, cur[l], int(src[ra+l+d]), int(src[rb+l-d]))
					}
				}
				dst := a.Dst.Offset(a.Area.X+j, y)
				out := a.Dst.Pix[dst : dst+4 : dst+4]
				for l := range out {
					out[l] = plane.Pel(clip3(0, g.maxVal, (acc[l]+filterOffset)>>filterShift + cur[l]))
				}
			}
		}
	}
}

func classifyTileLanes(a *ClassifyArgs, t tile) {
	src := a.Src.Pix
	lap := a.Lap
	height := t.blk.H + 4
	width := t.blk.W + 4
	for i := 0; i < height; i += 2 {
		row0, row1, row2, row3 := gradientRows(a, t, i)
		// Each slice starts one sample left of the first gradient column.
		r0 := src[row0-1 : row0+width+2]
		r1 := src[row1-1 : row1+width+2]
		r2 := src[row2-1 : row2+width+2]
		r3 := src[row3-1 : row3+width+2]
		ver := lap.row(dirVer, i)[:width]
		hor := lap.row(dirHor, i)[:width]
		dg0 := lap.row(dirDiag0, i)[:width]
		dg1 := lap.row(dirDiag1, i)[:width]
		for j := 0; j < width; j += 2 {
			k := j + 1
			y0 := int(r1[k]) << 1
			yup1 := int(r2[k+1]) << 1
			ver[j] = int32(abs(y0-int(r0[k])-int(r2[k])) + abs(yup1-int(r1[k+1])-int(r3[k+1])))
			hor[j] = int32(abs(y0-int(r1[k+1])-int(r1[k-1])) + abs(yup1-int(r2[k+2])-int(r2[k])))
			dg0[j] = int32(abs(y0-int(r0[k-1])-int(r2[k+1])) + abs(yup1-int(r1[k])-int(r3[k+2])))
			dg1[j] = int32(abs(y0-int(r2[k-1])-int(r0[k+1])) + abs(yup1-int(r3[k])-int(r1[k+2])))
		}
		for j := 6; j < width; j += 4 {
			foldColumns(lap, i, j, t, a.Bound)
		}
	}
	deriveTileClasses(a, t)
}
