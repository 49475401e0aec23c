package dsp

import (
	"github.com/deepteams/alf/internal/plane"
	"github.com/deepteams/alf/internal/tables"
)

// ClassifyArgs describes one classification call. Blk is expressed in Src
// coordinates; (DstX, DstY) is the picture position of Blk's top-left sample
// and the position written in Map. Src must carry at least three valid
// samples around Blk, either real neighbours or a replicated border.
type ClassifyArgs struct {
	Map       *ClassMap
	Src       *plane.Plane
	Blk       plane.Area
	DstX      int
	DstY      int
	PicHeight int
	BitDepth  int
	VB        VirtualRow
	Bound     Boundary
	Lap       *Laplacian
}

// tile is one classification tile of at most ClassifyBlockSize square.
type tile struct {
	blk   plane.Area
	dstX  int
	dstY  int
	vbPos int
}

// activityClass maps the clipped activity to the base class.
var activityClass = [16]uint8{0, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3, 4}

// transposeTable is indexed by mainDirection*2 + secondaryDirection>>1.
var transposeTable = [8]uint8{0, 1, 0, 2, 2, 3, 1, 3}

const maxActivity = 15

// forEachTile splits a.Blk into classification tiles. The virtual boundary
// of a tile that reaches the bottom of the picture moves to the picture
// height, so that the last CTU row is classified without one.
func forEachTile(a *ClassifyArgs, fn func(a *ClassifyArgs, t tile)) {
	a.VB.check()
	if a.Blk.W%4 != 0 || a.Blk.H%4 != 0 {
		panic("dsp: classification area must be a multiple of 4")
	}
	const size = tables.ClassifyBlockSize
	for i := 0; i < a.Blk.H; i += size {
		h := min(size, a.Blk.H-i)
		for j := 0; j < a.Blk.W; j += size {
			w := min(size, a.Blk.W-j)
			t := tile{
				blk:   plane.Area{X: a.Blk.X + j, Y: a.Blk.Y + i, W: w, H: h},
				dstX:  a.DstX + j,
				dstY:  a.DstY + i,
				vbPos: a.VB.Pos,
			}
			if t.dstY+h >= a.PicHeight {
				t.vbPos = a.PicHeight
			}
			fn(a, t)
		}
	}
}

// gradientRows returns the four source rows used by Laplacian row i of a
// tile, with the rows beyond the virtual boundary replaced by the nearest
// row on the tile's side.
func gradientRows(a *ClassifyArgs, t tile, i int) (row0, row1, row2, row3 int) {
	stride := a.Src.Stride
	row1 = a.Src.Offset(t.blk.X-2, t.blk.Y-2+i)
	row0 = row1 - stride
	row2 = row1 + stride
	row3 = row2 + stride
	y := t.dstY - 2 + i
	if y > 0 {
		switch a.VB.mod(y) {
		case t.vbPos - 2:
			row3 = row2
		case t.vbPos:
			row0 = row1
		}
	}
	return row0, row1, row2, row3
}

// foldColumns sums four neighbouring column gradients into column j-6.
// Columns adjacent to a left or right boundary drop the sample that lies
// across it.
func foldColumns(lap *Laplacian, i, j int, t tile, b Boundary) {
	jm6, jm4, jm2 := j-6, j-4, j-2
	x := t.dstX
	for d := 0; d < numDirections; d++ {
		r := lap.row(d, i)
		switch {
		case x+jm2 > 0 && x+jm2 == b.Right:
			r[jm6] += r[jm4] + r[jm2]
		case x+jm6 > 0 && x+jm6 == b.Left:
			r[jm6] = r[jm4] + r[jm2] + r[j]
		default:
			r[jm6] += r[jm4] + r[jm2] + r[j]
		}
	}
}

func classifyTileReference(a *ClassifyArgs, t tile) {
	src := a.Src.Pix
	lap := a.Lap
	height := t.blk.H + 4
	width := t.blk.W + 4
	for i := 0; i < height; i += 2 {
		row0, row1, row2, row3 := gradientRows(a, t, i)
		ver := lap.row(dirVer, i)
		hor := lap.row(dirHor, i)
		dg0 := lap.row(dirDiag0, i)
		dg1 := lap.row(dirDiag1, i)
		for j := 0; j < width; j += 2 {
			c := row1 + j
			dn := row0 + j
			up := row2 + j
			up2 := row3 + j
			y0 := int(src[c]) << 1
			yup1 := int(src[up+1]) << 1
			ver[j] = int32(abs(y0-int(src[dn])-int(src[up])) + abs(yup1-int(src[c+1])-int(src[up2+1])))
			hor[j] = int32(abs(y0-int(src[c+1])-int(src[c-1])) + abs(yup1-int(src[up+2])-int(src[up])))
			dg0[j] = int32(abs(y0-int(src[dn-1])-int(src[up+1])) + abs(yup1-int(src[c])-int(src[up2+2])))
			dg1[j] = int32(abs(y0-int(src[up-1])-int(src[dn+1])) + abs(yup1-int(src[up2])-int(src[c+2])))
			if j > 4 && (j-6)%4 == 0 {
				foldColumns(lap, i, j, t, a.Bound)
			}
		}
	}
	deriveTileClasses(a, t)
}

// blockSums returns the four directional sums of the 4x4 block at tile
// offset (i, j) and the dimensions of the window they cover.
func blockSums(a *ClassifyArgs, t tile, i, j int) (sums [numDirections]int, hStride, vStride int) {
	b := a.Bound
	x := j + t.dstX
	y := i + t.dstY
	hStride, vStride = 8, 8
	if (b.Left != tables.NoBoundary && x == b.Left) ||
		(b.Right != tables.NoBoundary && x == b.Right-4) {
		hStride = 6
	}

	first, last := i, i+6
	switch {
	case b.Top != tables.NoBoundary && y == b.Top:
		first, vStride = i+2, 6
	case b.Bottom != tables.NoBoundary && y == b.Bottom-4:
		if (b.Bottom-4)%a.VB.CTUHeight == t.vbPos {
			first, last, vStride = i+2, i+4, 4
		} else {
			last, vStride = i+4, 6
		}
	case y%a.VB.CTUHeight == t.vbPos-4:
		last, vStride = i+4, 6
	case y%a.VB.CTUHeight == t.vbPos:
		first, vStride = i+2, 6
	}

	for d := 0; d < numDirections; d++ {
		s := 0
		for r := first; r <= last; r += 2 {
			s += int(a.Lap.row(d, r)[j])
		}
		sums[d] = s
	}
	return sums, hStride, vStride
}

// activityScale maps the window area to the activity multiplier.
func activityScale(area int) int {
	switch area {
	case 64:
		return 64
	case 48:
		return 96
	case 36:
		return 112
	case 32:
		return 128
	case 24:
		return 192
	}
	return 0
}

// deriveClass turns the directional sums of one block into its class and
// transpose index.
func deriveClass(sumV, sumH, sumD0, sumD1, scale, shift int) Class {
	activity := clip3(0, maxActivity, ((sumV+sumH)*scale)>>shift)
	class := int(activityClass[activity])

	var hv1, hv0, dirHV int
	if sumV > sumH {
		hv1, hv0, dirHV = sumV, sumH, 1
	} else {
		hv1, hv0, dirHV = sumH, sumV, 3
	}
	var d1, d0, dirD int
	if sumD0 > sumD1 {
		d1, d0, dirD = sumD0, sumD1, 0
	} else {
		d1, d0, dirD = sumD1, sumD0, 2
	}

	var mainDir, secDir, hvd1, hvd0 int
	if uint32(d1)*uint32(hv0) > uint32(hv1)*uint32(d0) {
		hvd1, hvd0, mainDir, secDir = d1, d0, dirD, dirHV
	} else {
		hvd1, hvd0, mainDir, secDir = hv1, hv0, dirHV, dirD
	}

	strength := 0
	if hvd1 > 2*hvd0 {
		strength = 1
	}
	if hvd1*2 > 9*hvd0 {
		strength = 2
	}
	if strength > 0 {
		class += (((mainDir & 1) << 1) + strength) * 5
	}
	return Class{
		Class:     uint8(class),
		Transpose: transposeTable[mainDir*2+(secDir>>1)],
	}
}

func deriveTileClasses(a *ClassifyArgs, t tile) {
	shift := a.BitDepth + 4
	for i := 0; i < t.blk.H; i += 4 {
		for j := 0; j < t.blk.W; j += 4 {
			sums, hs, vs := blockSums(a, t, i, j)
			c := deriveClass(sums[dirVer], sums[dirHor], sums[dirDiag0], sums[dirDiag1],
				activityScale(hs*vs), shift)
			a.Map.SetBlock(t.dstX+j, t.dstY+i, c)
		}
	}
}
