// Package quality measures the distortion between two pictures with PSNR
// and SSIM at any sample bit depth.
package quality

import (
	"math"

	"github.com/deepteams/alf/internal/plane"
)

// ssimKernel is the radius of the hat-shaped SSIM window.
const ssimKernel = 3

var ssimWeight = [2*ssimKernel + 1]float64{1, 2, 3, 4, 3, 2, 1}

// perfectPSNR is reported for identical planes.
const perfectPSNR = 99.0

// distoStats accumulates weighted first and second moments of a window.
type distoStats struct {
	w             float64
	xm, ym        float64
	xxm, xym, yym float64
}

func (s *distoStats) add(x, y plane.Pel, w float64) {
	fx, fy := float64(x), float64(y)
	s.w += w
	s.xm += w * fx
	s.ym += w * fy
	s.xxm += w * fx * fx
	s.xym += w * fx * fy
	s.yym += w * fy * fy
}

// ssim evaluates the window statistics. The stabilising constants are the
// 8-bit ones scaled to the sample range.
func (s *distoStats) ssim(bitDepth int) float64 {
	if s.w == 0 {
		return 0
	}
	scale := float64(int(1)<<(2*(bitDepth-8))) * s.w * s.w
	c1 := 20 * scale
	c2 := 60 * scale
	dark := 64 * scale

	xmxm := s.xm * s.xm
	ymym := s.ym * s.ym
	if xmxm+ymym < dark {
		return 1
	}
	xmym := s.xm * s.ym
	sxy := max(s.xym*s.w-xmym, 0)
	sxx := s.xxm*s.w - xmxm
	syy := s.yym*s.w - ymym

	num := (2*xmym + c1) * (2*sxy + c2)
	den := (xmxm + ymym + c1) * (sxx + syy + c2)
	if den == 0 {
		return 1
	}
	return num / den
}

// window returns the SSIM of the hat window centred on (xo, yo), clipped to
// the plane.
func window(a, b *plane.Plane, xo, yo, bitDepth int) float64 {
	var s distoStats
	ymin, ymax := max(yo-ssimKernel, 0), min(yo+ssimKernel, a.Height-1)
	xmin, xmax := max(xo-ssimKernel, 0), min(xo+ssimKernel, a.Width-1)
	for y := ymin; y <= ymax; y++ {
		wy := ssimWeight[ssimKernel+y-yo]
		ra, rb := a.Row(y), b.Row(y)
		for x := xmin; x <= xmax; x++ {
			s.add(ra[x], rb[x], wy*ssimWeight[ssimKernel+x-xo])
		}
	}
	return s.ssim(bitDepth)
}

// SSIM returns the mean SSIM over every sample position of a and b, which
// must have the same size.
func SSIM(a, b *plane.Plane, bitDepth int) float64 {
	if a.Width == 0 || a.Height == 0 {
		return 1
	}
	var sum float64
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			sum += window(a, b, x, y, bitDepth)
		}
	}
	return sum / float64(a.Width*a.Height)
}

// SSE returns the sum of squared differences of a and b.
func SSE(a, b *plane.Plane) uint64 {
	var sse uint64
	for y := 0; y < a.Height; y++ {
		ra, rb := a.Row(y), b.Row(y)
		for x := range ra {
			d := int64(ra[x]) - int64(rb[x])
			sse += uint64(d * d)
		}
	}
	return sse
}

// PSNRFromSSE converts a sum of squared errors over count samples to PSNR
// for the given bit depth.
func PSNRFromSSE(sse uint64, count, bitDepth int) float64 {
	if sse == 0 || count == 0 {
		return perfectPSNR
	}
	peak := float64(int(1)<<bitDepth - 1)
	mse := float64(sse) / float64(count)
	return 10 * math.Log10(peak*peak/mse)
}

// PSNR returns the PSNR between a and b.
func PSNR(a, b *plane.Plane, bitDepth int) float64 {
	return PSNRFromSSE(SSE(a, b), a.Width*a.Height, bitDepth)
}

// Result holds per-component measurements of two pictures.
type Result struct {
	PSNR [plane.MaxComponents]float64
	SSIM [plane.MaxComponents]float64
	// N is the number of measured components.
	N int
}

// Compare measures every component of b against a.
func Compare(a, b *plane.Picture, bitDepth int) Result {
	r := Result{N: a.Format.NumComponents()}
	for c := 0; c < r.N; c++ {
		r.PSNR[c] = PSNR(a.Planes[c], b.Planes[c], bitDepth)
		r.SSIM[c] = SSIM(a.Planes[c], b.Planes[c], bitDepth)
	}
	return r
}
