package quality

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepteams/alf/internal/plane"
)

func noisePlane(rng *rand.Rand, w, h, amp int) *plane.Plane {
	p := plane.New(w, h, 0)
	for y := 0; y < h; y++ {
		row := p.Row(y)
		for x := range row {
			row[x] = plane.Pel(500 + (x*7+y*3)%200 + rng.Intn(2*amp+1) - amp)
		}
	}
	return p
}

func TestIdenticalPlanes(t *testing.T) {
	p := noisePlane(rand.New(rand.NewSource(1)), 24, 16, 10)
	assert.Equal(t, uint64(0), SSE(p, p))
	assert.Equal(t, perfectPSNR, PSNR(p, p, 10))
	assert.InDelta(t, 1.0, SSIM(p, p, 10), 1e-12)
}

func TestPSNRFromSSE(t *testing.T) {
	// An error of one step on every 8-bit sample.
	assert.InDelta(t, 20*math.Log10(255), PSNRFromSSE(64, 64, 8), 1e-9)
	assert.InDelta(t, 20*math.Log10(1023), PSNRFromSSE(10, 10, 10), 1e-9)
	assert.Equal(t, perfectPSNR, PSNRFromSSE(0, 10, 8))
}

func TestMoreNoiseScoresLower(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	ref := noisePlane(rng, 32, 32, 0)
	small := plane.New(32, 32, 0)
	large := plane.New(32, 32, 0)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := ref.At(x, y)
			small.Set(x, y, v+plane.Pel(rng.Intn(5)-2))
			large.Set(x, y, v+plane.Pel(rng.Intn(81)-40))
		}
	}
	assert.Greater(t, PSNR(ref, small, 10), PSNR(ref, large, 10))
	assert.Greater(t, SSIM(ref, small, 10), SSIM(ref, large, 10))
	assert.Less(t, SSIM(ref, large, 10), 1.0)
}

func TestCompare(t *testing.T) {
	a := plane.NewPicture(16, 16, plane.Chroma420, 0)
	b := a.Clone(0)
	b.Planes[plane.Cr].Set(3, 3, 40)
	r := Compare(a, b, 8)
	assert.Equal(t, 3, r.N)
	assert.Equal(t, perfectPSNR, r.PSNR[plane.Y])
	assert.Equal(t, perfectPSNR, r.PSNR[plane.Cb])
	assert.InDelta(t, 10*math.Log10(255*255*64/1600.0), r.PSNR[plane.Cr], 1e-9)
}
