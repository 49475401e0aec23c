package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/deepteams/alf"
)

// isRaw reports whether path names a raw planar YUV file.
func isRaw(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".yuv") || strings.HasSuffix(p, ".yuv.zst")
}

func isZstd(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned (caller should not close).
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// --- images ---

// readImage decodes an image into an 8-bit 4:2:0 picture scaled to
// bitDepth. The picture is cropped to a multiple of 8 in both directions.
func readImage(path string, bitDepth int) (*alf.Picture, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	b := img.Bounds()
	w, h := b.Dx()&^7, b.Dy()&^7
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image %dx%d is smaller than 8x8", b.Dx(), b.Dy())
	}

	shift := bitDepth - 8
	pic := alf.NewPicture(w, h, alf.Chroma420)
	py, pcb, pcr := pic.Planes[alf.Y], pic.Planes[alf.Cb], pic.Planes[alf.Cr]

	var yc *image.YCbCr
	switch m := img.(type) {
	case *image.YCbCr:
		yc = m
	case *image.NYCbCrA:
		yc = &m.YCbCr
	}
	if yc != nil {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				py.Set(x, y, int16(yc.Y[yc.YOffset(b.Min.X+x, b.Min.Y+y)])<<shift)
			}
		}
		for y := 0; y < h/2; y++ {
			for x := 0; x < w/2; x++ {
				o := yc.COffset(b.Min.X+2*x, b.Min.Y+2*y)
				pcb.Set(x, y, int16(yc.Cb[o])<<shift)
				pcr.Set(x, y, int16(yc.Cr[o])<<shift)
			}
		}
		return pic, nil
	}

	// RGB sources: convert every sample, then average 2x2 chroma.
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x += 2 {
			var sumCb, sumCr int
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					r, g, bl, _ := img.At(b.Min.X+x+dx, b.Min.Y+y+dy).RGBA()
					yy, cb, cr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
					py.Set(x+dx, y+dy, int16(yy)<<shift)
					sumCb += int(cb)
					sumCr += int(cr)
				}
			}
			pcb.Set(x/2, y/2, int16((sumCb+2)>>2)<<shift)
			pcr.Set(x/2, y/2, int16((sumCr+2)>>2)<<shift)
		}
	}
	return pic, nil
}

// toImage converts pic back to an 8-bit image.
func toImage(pic *alf.Picture, bitDepth int) image.Image {
	shift := bitDepth - 8
	to8 := func(v int16) uint8 {
		if shift > 0 {
			v = (v + 1<<(shift-1)) >> shift
		}
		return uint8(min(max(v, 0), 255))
	}
	w, h := pic.Width(), pic.Height()
	r := image.Rect(0, 0, w, h)

	if pic.Format == alf.Chroma400 {
		g := image.NewGray(r)
		py := pic.Planes[alf.Y]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.Pix[y*g.Stride+x] = to8(py.At(x, y))
			}
		}
		return g
	}

	ratio := map[alf.ChromaFormat]image.YCbCrSubsampleRatio{
		alf.Chroma420: image.YCbCrSubsampleRatio420,
		alf.Chroma422: image.YCbCrSubsampleRatio422,
		alf.Chroma444: image.YCbCrSubsampleRatio444,
	}[pic.Format]
	img := image.NewYCbCr(r, ratio)
	py := pic.Planes[alf.Y]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Y[img.YOffset(x, y)] = to8(py.At(x, y))
		}
	}
	pcb, pcr := pic.Planes[alf.Cb], pic.Planes[alf.Cr]
	for y := 0; y < pcb.Height; y++ {
		for x := 0; x < pcb.Width; x++ {
			o := y*img.CStride + x
			img.Cb[o] = to8(pcb.At(x, y))
			img.Cr[o] = to8(pcr.At(x, y))
		}
	}
	return img
}

// writeImage encodes pic in the format implied by the extension of path,
// PNG by default. "-" writes PNG to stdout.
func writeImage(path string, pic *alf.Picture, bitDepth int) error {
	img := toImage(pic, bitDepth)
	if path == "-" {
		return png.Encode(os.Stdout, img)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		err = bmp.Encode(out, toRGBA(img))
	case ".tif", ".tiff":
		err = tiff.Encode(out, toRGBA(img), &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(out, img)
	}
	if err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok {
		return m
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// --- raw planar YUV ---

func planeBytes(p *alf.Plane, bitDepth int) int {
	if bitDepth > 8 {
		return 2 * p.Width * p.Height
	}
	return p.Width * p.Height
}

// readRaw reads a raw planar picture, zstd-compressed when path ends in
// ".zst".
func readRaw(path string, w, h int, format alf.ChromaFormat, bitDepth int) (*alf.Picture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid raw size %dx%d", w, h)
	}
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var r io.Reader = in
	if isZstd(path) {
		dec, err := zstd.NewReader(in)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}
	br := bufio.NewReader(r)

	pic := alf.NewPicture(w, h, format)
	maxVal := uint16(1<<bitDepth - 1)
	for c := 0; c < format.NumComponents(); c++ {
		p := pic.Planes[c]
		buf := make([]byte, planeBytes(p, bitDepth))
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("reading component %d: %w", c, err)
		}
		for y := 0; y < p.Height; y++ {
			row := p.Row(y)
			for x := range row {
				i := y*p.Width + x
				if bitDepth > 8 {
					v := binary.LittleEndian.Uint16(buf[2*i:])
					if v > maxVal {
						return nil, fmt.Errorf("component %d sample (%d,%d) = %d exceeds %d-bit range", c, x, y, v, bitDepth)
					}
					row[x] = int16(v)
				} else {
					row[x] = int16(buf[i])
				}
			}
		}
	}
	return pic, nil
}

// writeRaw writes pic as raw planar samples, zstd-compressed when path ends
// in ".zst".
func writeRaw(path string, pic *alf.Picture, bitDepth int) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	err = encodeRaw(out, pic, bitDepth, isZstd(path))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

func encodeRaw(w io.Writer, pic *alf.Picture, bitDepth int, compress bool) error {
	var enc *zstd.Encoder
	if compress {
		var err error
		enc, err = zstd.NewWriter(w)
		if err != nil {
			return err
		}
		w = enc
	}
	bw := bufio.NewWriter(w)
	for c := 0; c < pic.Format.NumComponents(); c++ {
		p := pic.Planes[c]
		buf := make([]byte, 0, planeBytes(p, bitDepth))
		for y := 0; y < p.Height; y++ {
			for _, v := range p.Row(y) {
				if bitDepth > 8 {
					buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
				} else {
					buf = append(buf, uint8(v))
				}
			}
		}
		if _, err := bw.Write(buf); err != nil {
			if enc != nil {
				_ = enc.Close()
			}
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		if enc != nil {
			_ = enc.Close()
		}
		return err
	}
	if enc != nil {
		return enc.Close()
	}
	return nil
}
