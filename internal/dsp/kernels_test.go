package dsp

import (
	"math/rand"
	"testing"

	"github.com/deepteams/alf/internal/plane"
	"github.com/deepteams/alf/internal/tables"
)

// Strategy conformance tests: every registered strategy must produce the
// same class maps and samples as the reference kernels.

const testMargin = 8

// makeRandPlane returns a plane whose samples, margin included, are drawn
// from [0, 1<<bitDepth).
func makeRandPlane(rng *rand.Rand, w, h, bitDepth int) *plane.Plane {
	p := plane.New(w, h, testMargin)
	for i := range p.Pix {
		p.Pix[i] = plane.Pel(rng.Intn(1 << bitDepth))
	}
	return p
}

// makeSmoothPlane returns a plane with small local variation, which gives
// a wider spread of classes than white noise.
func makeSmoothPlane(rng *rand.Rand, w, h, bitDepth int) *plane.Plane {
	p := plane.New(w, h, testMargin)
	base := 1 << (bitDepth - 1)
	fx := rng.Intn(7) + 1
	fy := rng.Intn(7) + 1
	for y := -testMargin; y < h+testMargin; y++ {
		for x := -testMargin; x < w+testMargin; x++ {
			v := base + ((x*fx+y*fy)%32)*(rng.Intn(3)+1) + rng.Intn(4)
			p.Set(x, y, plane.Pel(v))
		}
	}
	return p
}

// randEdge returns NoBoundary or a 4-aligned position inside [lo, hi).
func randEdge(rng *rand.Rand, lo, hi int) int {
	if rng.Intn(3) == 0 || hi-lo < 8 {
		return tables.NoBoundary
	}
	return lo + 4*(1+rng.Intn((hi-lo)/4-1))
}

func randBoundary(rng *rand.Rand, a plane.Area) Boundary {
	return Boundary{
		Top:    randEdge(rng, a.Y, a.Y+a.H),
		Bottom: randEdge(rng, a.Y, a.Y+a.H),
		Left:   randEdge(rng, a.X, a.X+a.W),
		Right:  randEdge(rng, a.X, a.X+a.W),
	}
}

func randCoeffs(rng *rand.Rand, n, bitDepth int) (coeff, clip []int16) {
	coeff = make([]int16, n)
	clip = make([]int16, n)
	for i := range coeff {
		coeff[i] = int16(rng.Intn(128) - 64)
		clip[i] = int16(rng.Intn(1<<bitDepth) + 1)
	}
	return coeff, clip
}

func randArea(rng *rand.Rand, w, h int) plane.Area {
	aw := 4 * (1 + rng.Intn(w/4))
	ah := 4 * (1 + rng.Intn(h/4))
	return plane.Area{
		X: 4 * rng.Intn((w-aw)/4+1),
		Y: 4 * rng.Intn((h-ah)/4+1),
		W: aw,
		H: ah,
	}
}

func mapsEqual(a, b *ClassMap) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return false
		}
	}
	return true
}

func TestClassifyConformance(t *testing.T) {
	const w, h = 128, 128
	for _, k := range []Kernels{lanes{}} {
		rng := rand.New(rand.NewSource(42))
		for iter := 0; iter < 300; iter++ {
			bitDepth := 8 + 2*rng.Intn(2)
			var src *plane.Plane
			if iter%2 == 0 {
				src = makeRandPlane(rng, w, h, bitDepth)
			} else {
				src = makeSmoothPlane(rng, w, h, bitDepth)
			}
			blk := randArea(rng, w, h)
			args := ClassifyArgs{
				Src:       src,
				Blk:       blk,
				DstX:      blk.X,
				DstY:      blk.Y,
				PicHeight: h,
				BitDepth:  bitDepth,
				VB:        VirtualRow{CTUHeight: 64, Pos: 60},
				Bound:     randBoundary(rng, blk),
			}

			refArgs := args
			refArgs.Map = NewClassMap(w, h)
			refArgs.Lap = NewLaplacian()
			reference{}.Classify(&refArgs)
			refArgs.Lap.Release()

			gotArgs := args
			gotArgs.Map = NewClassMap(w, h)
			gotArgs.Lap = NewLaplacian()
			k.Classify(&gotArgs)
			gotArgs.Lap.Release()

			if !mapsEqual(refArgs.Map, gotArgs.Map) {
				t.Fatalf("%s iter %d: class map differs from reference (area %+v bound %+v)",
					k.Name(), iter, blk, args.Bound)
			}
		}
	}
}

func TestFilter7x7Conformance(t *testing.T) {
	const w, h = 128, 128
	for _, k := range []Kernels{lanes{}} {
		rng := rand.New(rand.NewSource(43))
		for iter := 0; iter < 300; iter++ {
			bitDepth := 8 + 2*rng.Intn(2)
			src := makeRandPlane(rng, w, h, bitDepth)
			classes := NewClassMap(w, h)
			for y := 0; y < h; y += 4 {
				for x := 0; x < w; x += 4 {
					classes.SetBlock(x, y, Class{
						Class:     uint8(rng.Intn(tables.NumClasses)),
						Transpose: uint8(rng.Intn(4)),
					})
				}
			}
			coeff, clip := randCoeffs(rng, tables.NumClasses*tables.NumLumaCoeff, bitDepth)
			area := randArea(rng, w, h)
			args := FilterArgs{
				Area:     area,
				Src:      src,
				SrcX:     area.X,
				SrcY:     area.Y,
				Classes:  classes,
				Coeff:    coeff,
				Clip:     clip,
				BitDepth: bitDepth,
				VB:       VirtualRow{CTUHeight: 64, Pos: 60},
				Bound:    randBoundary(rng, area),
			}

			refArgs := args
			refArgs.Dst = plane.New(w, h, 0)
			reference{}.Filter7x7(&refArgs)

			gotArgs := args
			gotArgs.Dst = plane.New(w, h, 0)
			k.Filter7x7(&gotArgs)

			for y := area.Y; y < area.Y+area.H; y++ {
				for x := area.X; x < area.X+area.W; x++ {
					if r, g := refArgs.Dst.At(x, y), gotArgs.Dst.At(x, y); r != g {
						t.Fatalf("%s iter %d (%d,%d): Go=%d dispatch=%d", k.Name(), iter, x, y, r, g)
					}
				}
			}
		}
	}
}

func TestFilter5x5Conformance(t *testing.T) {
	const w, h = 64, 64
	for _, k := range []Kernels{lanes{}} {
		rng := rand.New(rand.NewSource(44))
		for iter := 0; iter < 300; iter++ {
			bitDepth := 8 + 2*rng.Intn(2)
			src := makeRandPlane(rng, w, h, bitDepth)
			coeff, clip := randCoeffs(rng, tables.NumChromaCoeff, bitDepth)
			area := randArea(rng, w, h)
			args := FilterArgs{
				Area:     area,
				Src:      src,
				SrcX:     area.X,
				SrcY:     area.Y,
				Chroma:   true,
				ScaleX:   1,
				ScaleY:   1,
				Coeff:    coeff,
				Clip:     clip,
				BitDepth: bitDepth,
				VB:       VirtualRow{CTUHeight: 32, Pos: 30},
				Bound:    randBoundary(rng, plane.Area{X: 2 * area.X, Y: 2 * area.Y, W: 2 * area.W, H: 2 * area.H}),
			}

			refArgs := args
			refArgs.Dst = plane.New(w, h, 0)
			reference{}.Filter5x5(&refArgs)

			gotArgs := args
			gotArgs.Dst = plane.New(w, h, 0)
			k.Filter5x5(&gotArgs)

			if !refArgs.Dst.Equal(gotArgs.Dst) {
				t.Fatalf("%s iter %d: chroma output differs from reference (area %+v)", k.Name(), iter, area)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		k, ok := Lookup(name)
		if !ok || k.Name() != name {
			t.Errorf("Lookup(%q) = %v, %v", name, k, ok)
		}
	}
	if k, ok := Lookup(""); !ok || k != Default {
		t.Errorf("Lookup(\"\") = %v, want Default", k)
	}
	if _, ok := Lookup("avx512"); ok {
		t.Error("Lookup accepted an unknown strategy")
	}
}

func TestFilterShapeMismatchPanics(t *testing.T) {
	src := plane.New(16, 16, testMargin)
	luma := FilterArgs{
		Dst:      plane.New(16, 16, 0),
		Area:     plane.Area{W: 16, H: 16},
		Src:      src,
		Classes:  NewClassMap(16, 16),
		Coeff:    make([]int16, tables.NumClasses*tables.NumLumaCoeff),
		Clip:     make([]int16, tables.NumClasses*tables.NumLumaCoeff),
		BitDepth: 10,
		VB:       VirtualRow{CTUHeight: 16, Pos: 12},
		Bound:    NoBoundaries(),
	}
	mustPanic(t, "5x5 on luma", func() { reference{}.Filter5x5(&luma) })

	chroma := luma
	chroma.Chroma = true
	mustPanic(t, "7x7 on chroma", func() { lanes{}.Filter7x7(&chroma) })

	unaligned := luma
	unaligned.Area = plane.Area{X: 2, W: 8, H: 8}
	mustPanic(t, "unaligned area", func() { reference{}.Filter7x7(&unaligned) })

	badVB := luma
	badVB.VB = VirtualRow{CTUHeight: 48, Pos: 44}
	mustPanic(t, "non power of two CTU height", func() { reference{}.Filter7x7(&badVB) })
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func BenchmarkFilter7x7(b *testing.B) {
	const w, h = 128, 128
	rng := rand.New(rand.NewSource(1))
	src := makeSmoothPlane(rng, w, h, 10)
	classes := NewClassMap(w, h)
	coeff, clip := randCoeffs(rng, tables.NumClasses*tables.NumLumaCoeff, 10)
	lap := NewLaplacian()
	defer lap.Release()
	reference{}.Classify(&ClassifyArgs{
		Map: classes, Src: src, Blk: plane.Area{W: w, H: h}, PicHeight: h,
		BitDepth: 10, VB: VirtualRow{CTUHeight: 128, Pos: 124}, Bound: NoBoundaries(), Lap: lap,
	})
	for _, k := range []Kernels{reference{}, lanes{}} {
		b.Run(k.Name(), func(b *testing.B) {
			args := FilterArgs{
				Dst: plane.New(w, h, 0), Area: plane.Area{W: w, H: h}, Src: src,
				Classes: classes, Coeff: coeff, Clip: clip, BitDepth: 10,
				VB: VirtualRow{CTUHeight: 128, Pos: 124}, Bound: NoBoundaries(),
			}
			for i := 0; i < b.N; i++ {
				k.Filter7x7(&args)
			}
		})
	}
}
