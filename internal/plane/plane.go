// Package plane provides strided sample planes with a replicated border.
//
// A Plane addresses samples through an origin offset into its backing slice,
// so that coordinates inside the margin (x < 0, y < 0, x >= Width, ...) map
// to valid non-negative indices. Sub-views share the backing slice of their
// parent and may read the parent's samples outside their own area.
package plane

// Pel is a single sample value. Bit depths up to 14 fit without overflow in
// the ALF arithmetic.
type Pel = int16

// Area is a rectangle in sample coordinates.
type Area struct {
	X, Y int
	W, H int
}

// Plane is a 2D grid of samples.
type Plane struct {
	Width  int
	Height int
	Stride int
	Pix    []Pel
	Origin int // index of sample (0, 0) within Pix
}

// New allocates a w x h plane surrounded by margin samples on every side.
func New(w, h, margin int) *Plane {
	stride := w + 2*margin
	rows := h + 2*margin
	return &Plane{
		Width:  w,
		Height: h,
		Stride: stride,
		Pix:    make([]Pel, stride*rows),
		Origin: margin*stride + margin,
	}
}

// Wrap builds a plane over an existing slice with no margin.
func Wrap(pix []Pel, w, h, stride int) *Plane {
	return &Plane{Width: w, Height: h, Stride: stride, Pix: pix}
}

// Offset returns the index of sample (x, y) in Pix.
func (p *Plane) Offset(x, y int) int {
	return p.Origin + y*p.Stride + x
}

// At returns the sample at (x, y).
func (p *Plane) At(x, y int) Pel {
	return p.Pix[p.Origin+y*p.Stride+x]
}

// Set stores v at (x, y).
func (p *Plane) Set(x, y int, v Pel) {
	p.Pix[p.Origin+y*p.Stride+x] = v
}

// Row returns the Width samples of row y.
func (p *Plane) Row(y int) []Pel {
	off := p.Origin + y*p.Stride
	return p.Pix[off : off+p.Width]
}

// Sub returns a view of area a. The view's (0, 0) is (a.X, a.Y) of p.
func (p *Plane) Sub(a Area) Plane {
	return Plane{
		Width:  a.W,
		Height: a.H,
		Stride: p.Stride,
		Pix:    p.Pix,
		Origin: p.Origin + a.Y*p.Stride + a.X,
	}
}

// Fill sets every sample of the plane area to v.
func (p *Plane) Fill(v Pel) {
	for y := 0; y < p.Height; y++ {
		row := p.Row(y)
		for x := range row {
			row[x] = v
		}
	}
}

// CopyFrom copies the min(Width) x min(Height) area of src into p.
func (p *Plane) CopyFrom(src *Plane) {
	w := min(p.Width, src.Width)
	h := min(p.Height, src.Height)
	for y := 0; y < h; y++ {
		copy(p.Row(y)[:w], src.Row(y)[:w])
	}
}

// CopyArea copies area a of src into p at (dx, dy).
func (p *Plane) CopyArea(dx, dy int, src *Plane, a Area) {
	for y := 0; y < a.H; y++ {
		so := src.Offset(a.X, a.Y+y)
		do := p.Offset(dx, dy+y)
		copy(p.Pix[do:do+a.W], src.Pix[so:so+a.W])
	}
}

// ExtendBorder replicates the outermost samples n positions outward on all
// four sides, corners included. The caller guarantees the backing slice has
// room for the border.
func (p *Plane) ExtendBorder(n int) {
	if n <= 0 || p.Width == 0 || p.Height == 0 {
		return
	}
	w := p.Width
	for y := 0; y < p.Height; y++ {
		off := p.Offset(0, y)
		left := p.Pix[off]
		right := p.Pix[off+w-1]
		for x := 1; x <= n; x++ {
			p.Pix[off-x] = left
			p.Pix[off+w-1+x] = right
		}
	}
	// Rows above and below include the freshly extended columns.
	first := p.Offset(-n, 0)
	last := p.Offset(-n, p.Height-1)
	span := w + 2*n
	for y := 1; y <= n; y++ {
		copy(p.Pix[first-y*p.Stride:first-y*p.Stride+span], p.Pix[first:first+span])
		copy(p.Pix[last+y*p.Stride:last+y*p.Stride+span], p.Pix[last:last+span])
	}
}

// Equal reports whether the visible areas of p and q hold the same samples.
func (p *Plane) Equal(q *Plane) bool {
	if p.Width != q.Width || p.Height != q.Height {
		return false
	}
	for y := 0; y < p.Height; y++ {
		a, b := p.Row(y), q.Row(y)
		for x := range a {
			if a[x] != b[x] {
				return false
			}
		}
	}
	return true
}
