package dsp

// Class is the classification of one 4x4 luma block: a filter class in
// [0, 24] and a transpose index in [0, 3].
type Class struct {
	Class     uint8
	Transpose uint8
}

// Unused marks map entries that have not been classified.
var Unused = Class{Class: 255, Transpose: 255}

// ClassMap holds one Class per luma sample, row-major. All 16 samples of a
// 4x4 block carry the same entry.
type ClassMap struct {
	Width  int
	Height int
	Stride int
	cells  []Class
}

// NewClassMap allocates a map for a width x height luma plane.
func NewClassMap(width, height int) *ClassMap {
	m := &ClassMap{Width: width, Height: height, Stride: width}
	m.cells = make([]Class, width*height)
	m.Reset()
	return m
}

// Fits reports whether the map covers a width x height plane.
func (m *ClassMap) Fits(width, height int) bool {
	return m != nil && m.Width == width && m.Height == height
}

// Reset marks every entry as unused.
func (m *ClassMap) Reset() {
	for i := range m.cells {
		m.cells[i] = Unused
	}
}

// At returns the entry of sample (x, y). It panics when (x, y) lies
// outside the map.
func (m *ClassMap) At(x, y int) Class {
	if uint(x) >= uint(m.Width) || uint(y) >= uint(m.Height) {
		panic("dsp: class map access out of range")
	}
	return m.cells[y*m.Stride+x]
}

// SetBlock assigns c to the 4x4 block whose top-left sample is (x, y).
// Rows or columns beyond the map edge are skipped.
func (m *ClassMap) SetBlock(x, y int, c Class) {
	for r := y; r < y+4 && r < m.Height; r++ {
		row := m.cells[r*m.Stride : r*m.Stride+m.Width]
		for col := x; col < x+4 && col < m.Width; col++ {
			row[col] = c
		}
	}
}

// Histogram counts classified 4x4 blocks per class and per transpose index.
// Unused blocks are ignored.
func (m *ClassMap) Histogram() (classes [25]int, transposes [4]int) {
	for y := 0; y < m.Height; y += 4 {
		for x := 0; x < m.Width; x += 4 {
			c := m.cells[y*m.Stride+x]
			if c == Unused {
				continue
			}
			classes[c.Class]++
			transposes[c.Transpose]++
		}
	}
	return classes, transposes
}
