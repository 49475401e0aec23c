package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/alf"
)

func randomPicture(rng *rand.Rand, w, h int, format alf.ChromaFormat, bitDepth int) *alf.Picture {
	pic := alf.NewPicture(w, h, format)
	for c := 0; c < format.NumComponents(); c++ {
		p := pic.Planes[c]
		for y := 0; y < p.Height; y++ {
			row := p.Row(y)
			for x := range row {
				row[x] = int16(rng.Intn(1 << bitDepth))
			}
		}
	}
	return pic
}

func picturesEqual(t *testing.T, want, got *alf.Picture) {
	t.Helper()
	require.Equal(t, want.Format, got.Format)
	for c := 0; c < want.Format.NumComponents(); c++ {
		require.True(t, want.Planes[c].Equal(got.Planes[c]), "component %d differs", c)
	}
}

// writePNG stores a w x h image whose pixels come from fn.
func writePNG(t *testing.T, path string, w, h int, fn func(x, y int) color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fn(x, y))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRawRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dir := t.TempDir()
	tests := []struct {
		name     string
		format   alf.ChromaFormat
		bitDepth int
	}{
		{"a.yuv", alf.Chroma420, 8},
		{"b.yuv", alf.Chroma422, 10},
		{"c.yuv.zst", alf.Chroma444, 12},
		{"d.yuv.zst", alf.Chroma400, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pic := randomPicture(rng, 32, 16, tc.format, tc.bitDepth)
			path := filepath.Join(dir, tc.name)
			require.NoError(t, writeRaw(path, pic, tc.bitDepth))
			got, err := readRaw(path, 32, 16, tc.format, tc.bitDepth)
			require.NoError(t, err)
			picturesEqual(t, pic, got)
		})
	}
}

func TestReadRawShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.yuv")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))
	_, err := readRaw(path, 16, 16, alf.Chroma420, 8)
	assert.Error(t, err)
}

func TestReadRawRejectsOutOfRangeSamples(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		word uint16
		ok   bool
	}{
		{"max", 0x03FF, true},
		{"one over", 0x0400, false},
		{"sign bit", 0x9000, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yuv")
			buf := make([]byte, 2*(8*8+2*4*4))
			for i := 0; i < len(buf); i += 2 {
				binary.LittleEndian.PutUint16(buf[i:], tc.word)
			}
			require.NoError(t, os.WriteFile(path, buf, 0o644))

			pic, err := readRaw(path, 8, 8, alf.Chroma420, 10)
			if !tc.ok {
				assert.ErrorContains(t, err, "exceeds 10-bit range")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int16(0x03FF), pic.Planes[alf.Cr].At(3, 3))
		})
	}
}

func TestReadImageCropsAndConverts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, path, 21, 19, func(x, y int) color.Color {
		return color.Gray{Y: uint8(x * 10)}
	})

	pic, err := readImage(path, 10)
	require.NoError(t, err)
	assert.Equal(t, 16, pic.Width())
	assert.Equal(t, 16, pic.Height())
	assert.Equal(t, alf.Chroma420, pic.Format)
	assert.Equal(t, int16(70<<2), pic.Planes[alf.Y].At(7, 3))
	assert.Equal(t, int16(128<<2), pic.Planes[alf.Cb].At(2, 2))
	assert.Equal(t, int16(128<<2), pic.Planes[alf.Cr].At(5, 7))
}

func TestReadImageTooSmall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.png")
	writePNG(t, path, 7, 30, func(x, y int) color.Color { return color.White })
	_, err := readImage(path, 8)
	assert.Error(t, err)
}

func TestToImageRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	pic := randomPicture(rng, 16, 16, alf.Chroma420, 8)
	img := toImage(pic, 8)
	yc, ok := img.(*image.YCbCr)
	require.True(t, ok)
	assert.Equal(t, uint8(pic.Planes[alf.Y].At(3, 9)), yc.Y[yc.YOffset(3, 9)])
	assert.Equal(t, uint8(pic.Planes[alf.Cr].At(4, 1)), yc.Cr[yc.COffset(8, 2)])

	gray := toImage(alf.NewPicture(16, 16, alf.Chroma400), 10)
	_, ok = gray.(*image.Gray)
	assert.True(t, ok)
}

func TestParseParams(t *testing.T) {
	cfg := alf.DefaultConfig(256, 128)
	cfg.CTUSize = 64
	data := []byte(`{
		"slice": {"enabled": [true, true, false], "luma_aps": [3], "chroma_aps": 3},
		"aps": [{"id": 3, "luma_coeff": [[1,2,3,4,5,6,7,8,9,10,11,12,0]],
		         "filter_coeff_delta_idx": [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0],
		         "fixed_filter_used": [false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false,false],
		         "chroma_coeff": [[1,1,1,1,1,1,0]]}],
		"ctu": {"enabled": [[true], [true,false,true,false,true,false,true,false]],
		        "filter_set_index": [16]},
		"partition": {"slice_starts": [4]},
		"boundaries": {"cross_slices": false}
	}`)
	p, err := parseParams(data, &cfg)
	require.NoError(t, err)
	require.Len(t, p.APS, 1)
	assert.Equal(t, 3, p.APS[0].ID)
	assert.Equal(t, int16(12), p.APS[0].LumaCoeff[0][11])
	assert.Len(t, p.CTU.Enabled[0], 8)
	assert.True(t, p.CTU.Enabled[0][7])
	assert.False(t, p.CTU.Enabled[1][1])
	assert.Equal(t, []uint8{16, 16, 16, 16, 16, 16, 16, 16}, p.CTU.FilterSetIndex)
	gp, ok := p.Partition.(*alf.GridPartition)
	require.True(t, ok)
	assert.Equal(t, 4, gp.Columns)
	assert.Equal(t, 1, gp.SliceIndex(0, 1))

	f, err := alf.New(cfg)
	require.NoError(t, err)
	pic := randomPicture(rand.New(rand.NewSource(3)), 256, 128, alf.Chroma420, 10)
	assert.NoError(t, f.Process(pic, p))
}

func TestParseParamsErrors(t *testing.T) {
	cfg := alf.DefaultConfig(128, 128)
	cfg.CTUSize = 64
	_, err := parseParams([]byte(`{"ctu": {"filter_set_index": [1, 2]}}`), &cfg)
	assert.ErrorContains(t, err, "2 values for 4 CTUs")
	_, err = parseParams([]byte(`{"ctu": {"alternative": [[300], null]}}`), &cfg)
	assert.ErrorContains(t, err, "out of range")
	_, err = parseParams([]byte(`{"slice": `), &cfg)
	assert.Error(t, err)
}

func TestRunApplyRaw(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yuv.zst")
	out := filepath.Join(dir, "out.yuv")
	rng := rand.New(rand.NewSource(4))
	pic := randomPicture(rng, 64, 64, alf.Chroma420, 10)
	require.NoError(t, writeRaw(in, pic, 10))

	require.NoError(t, runApply([]string{"-size", "64x64", "-bitdepth", "10", "-ctu", "32", "-set", "7", "-v", "-o", out, in}))

	cfg := alf.DefaultConfig(64, 64)
	cfg.CTUSize = 32
	f, err := alf.New(cfg)
	require.NoError(t, err)
	want := pic.Clone(0)
	require.NoError(t, f.Process(want, defaultParams(&cfg, 7)))

	got, err := readRaw(out, 64, 64, alf.Chroma420, 10)
	require.NoError(t, err)
	picturesEqual(t, want, got)
}

func TestRunApplyErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yuv")
	require.NoError(t, writeRaw(in, alf.NewPicture(32, 32, alf.Chroma420), 8))

	assert.Error(t, runApply(nil))
	assert.Error(t, runApply([]string{in}), "raw input without -size")
	assert.Error(t, runApply([]string{"-size", "32x32", "-ctu", "24", in}))
	assert.Error(t, runApply([]string{"-size", "32x32", "-set", "16", in}))
	assert.Error(t, runApply([]string{"-size", "32x32", "-set", "261", in}), "set must not wrap")
	assert.Error(t, runApply([]string{"-size", "32x32", "-set", "-1", in}))
	assert.Error(t, runApply([]string{"-size", "32x32", "-fmt", "411", in}))
}

func TestRunClassify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat.png")
	writePNG(t, path, 64, 64, func(x, y int) color.Color { return color.Gray{Y: 90} })

	var buf bytes.Buffer
	require.NoError(t, runClassify([]string{"-ctu", "32", path}, &buf))
	out := buf.String()
	assert.Contains(t, out, "Blocks:     256")
	assert.Contains(t, out, "    0    0   0       256  100.0%")
}

func TestRunKernels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runKernels(&buf))
	assert.Contains(t, buf.String(), "reference")
	assert.Contains(t, buf.String(), "(default)")
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "photo.alf.png", defaultOutput("photo.jpg"))
	assert.Equal(t, "dir/seq.alf.yuv", defaultOutput("dir/seq.yuv"))
	assert.Equal(t, "seq.alf.yuv.zst", defaultOutput("seq.yuv.zst"))
}
