package plane

import "fmt"

// ChromaFormat is the chroma subsampling of a picture.
type ChromaFormat int

// Chroma formats.
const (
	Chroma400 ChromaFormat = iota
	Chroma420
	Chroma422
	Chroma444
)

// Component indices.
const (
	Y  = 0
	Cb = 1
	Cr = 2
)

// MaxComponents is the number of colour components of a picture.
const MaxComponents = 3

func (f ChromaFormat) String() string {
	switch f {
	case Chroma400:
		return "4:0:0"
	case Chroma420:
		return "4:2:0"
	case Chroma422:
		return "4:2:2"
	case Chroma444:
		return "4:4:4"
	}
	return fmt.Sprintf("ChromaFormat(%d)", int(f))
}

// NumComponents returns 1 for monochrome and 3 otherwise.
func (f ChromaFormat) NumComponents() int {
	if f == Chroma400 {
		return 1
	}
	return MaxComponents
}

// ScaleX returns the horizontal subsampling shift of component comp.
func (f ChromaFormat) ScaleX(comp int) int {
	if comp == Y {
		return 0
	}
	if f == Chroma420 || f == Chroma422 {
		return 1
	}
	return 0
}

// ScaleY returns the vertical subsampling shift of component comp.
func (f ChromaFormat) ScaleY(comp int) int {
	if comp == Y {
		return 0
	}
	if f == Chroma420 {
		return 1
	}
	return 0
}

// ScaleArea maps a luma area onto component comp.
func (f ChromaFormat) ScaleArea(comp int, a Area) Area {
	sx, sy := f.ScaleX(comp), f.ScaleY(comp)
	return Area{X: a.X >> sx, Y: a.Y >> sy, W: a.W >> sx, H: a.H >> sy}
}

// Picture groups the component planes of one coded picture.
type Picture struct {
	Format ChromaFormat
	Planes [MaxComponents]*Plane
}

// NewPicture allocates a width x height picture. Every plane, chroma
// included, receives a border of margin samples.
func NewPicture(width, height int, format ChromaFormat, margin int) *Picture {
	pic := &Picture{Format: format}
	for c := 0; c < format.NumComponents(); c++ {
		pic.Planes[c] = New(width>>format.ScaleX(c), height>>format.ScaleY(c), margin)
	}
	return pic
}

// Width returns the luma width.
func (pic *Picture) Width() int { return pic.Planes[Y].Width }

// Height returns the luma height.
func (pic *Picture) Height() int { return pic.Planes[Y].Height }

// CopyFrom copies the samples of every component of src into pic.
func (pic *Picture) CopyFrom(src *Picture) {
	for c := 0; c < pic.Format.NumComponents(); c++ {
		pic.Planes[c].CopyFrom(src.Planes[c])
	}
}

// Clone returns a deep copy of pic with the given margin.
func (pic *Picture) Clone(margin int) *Picture {
	out := NewPicture(pic.Width(), pic.Height(), pic.Format, margin)
	out.CopyFrom(pic)
	return out
}
