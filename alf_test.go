package alf

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisyPicture(rng *rand.Rand, w, h int, format ChromaFormat) *Picture {
	pic := NewPicture(w, h, format)
	for c := 0; c < format.NumComponents(); c++ {
		p := pic.Planes[c]
		for y := 0; y < p.Height; y++ {
			row := p.Row(y)
			for x := range row {
				row[x] = int16(400 + (x+y)%64 + rng.Intn(32))
			}
		}
	}
	return pic
}

func testAPS(id int) *APS {
	a := &APS{ID: id, NonLinearLuma: true}
	a.LumaCoeff = make([][13]int16, 2)
	a.LumaClipIdx = make([][13]uint8, 2)
	for k := 0; k < 12; k++ {
		a.LumaCoeff[0][k] = int16(k%5 - 2)
		a.LumaCoeff[1][k] = int16(6 - k)
		a.LumaClipIdx[1][k] = uint8(k % 4)
	}
	for c := range a.FilterCoeffDeltaIdx {
		a.FilterCoeffDeltaIdx[c] = uint8(c % 2)
	}
	a.ChromaCoeff = [][7]int16{{4, -3, 2, 1, -1, 5}}
	a.ChromaClipIdx = [][7]uint8{{0, 1, 2, 3, 0, 1}}
	a.NonLinearChroma = []bool{true}
	return a
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig(128, 128)
	cfg.CTUSize = 48
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestProcessAPSFilters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := DefaultConfig(256, 128)
	cfg.CTUSize = 64
	f, err := New(cfg)
	require.NoError(t, err)

	pic := noisyPicture(rng, 256, 128, Chroma420)
	orig := pic.Clone(0)

	ctu := NewCTUParams(cfg.NumCTUs())
	for i := range ctu.FilterSetIndex {
		ctu.FilterSetIndex[i] = uint8(16 + i%2)
	}
	ctu.Enabled[Cr][3] = false
	p := &PictureParams{
		Slice: SliceParams{Enabled: [3]bool{true, true, true}, LumaAPS: []int{2, 5}, ChromaAPS: 5},
		CTU:   ctu,
		APS:   []*APS{testAPS(2), testAPS(5)},
	}
	require.NoError(t, f.Process(pic, p))
	assert.False(t, pic.Planes[Y].Equal(orig.Planes[Y]))
	assert.False(t, pic.Planes[Cb].Equal(orig.Planes[Cb]))

	// CTU 3 covers chroma columns 96..127 of the first chroma CTU row.
	cr, want := pic.Planes[Cr], orig.Planes[Cr]
	for y := 0; y < 32; y++ {
		for x := 96; x < 128; x++ {
			require.Equal(t, want.At(x, y), cr.At(x, y))
		}
	}
}

func TestProcessReportsMissingAPS(t *testing.T) {
	cfg := DefaultConfig(64, 64)
	f, err := New(cfg)
	require.NoError(t, err)
	p := &PictureParams{
		Slice: SliceParams{Enabled: [3]bool{true, false, false}, LumaAPS: []int{3}},
		CTU:   NewCTUParams(cfg.NumCTUs()),
	}
	err = f.Process(NewPicture(64, 64, Chroma420), p)
	assert.ErrorIs(t, err, ErrMissingAPS)
}

func TestKernelNames(t *testing.T) {
	names := KernelNames()
	assert.Contains(t, names, "reference")
	assert.Contains(t, names, "lanes")
	for _, name := range names {
		cfg := DefaultConfig(64, 64)
		cfg.Kernels = name
		f, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, name, f.Kernels().Name())
	}
}
