package filter

import (
	"math"

	"github.com/deepteams/alf/internal/tables"
)

// Mode selects what the coefficient reconstructor stores.
type Mode int

const (
	// ModeFilter produces tables for filtering: the centre tap carries the
	// normalisation constant and clip entries hold clipping magnitudes.
	ModeFilter Mode = iota
	// ModeEstimation produces tables for encoder-side estimation: the
	// centre tap is 0 and clip entries hold clipping indices.
	ModeEstimation
)

const lumaTableSize = tables.NumClasses * tables.NumLumaCoeff

// LumaTable is the per-class filter of one luma filter set, 13 taps per
// class row.
type LumaTable struct {
	Coeff [lumaTableSize]int16
	Clip  [lumaTableSize]int16
}

// ChromaTable holds one 7-tap filter per chroma alternative.
type ChromaTable struct {
	Coeff [tables.MaxAlternatives][tables.NumChromaCoeff]int16
	Clip  [tables.MaxAlternatives][tables.NumChromaCoeff]int16
	// N is the number of alternatives in use.
	N int
}

// ClipValues returns the clipping magnitudes selected by clip indices
// 0..3 for a channel. Luma values are spaced geometrically over the full
// range; chroma values start at the full range and then span 2^(B-8) to
// 2^B in thirds.
func ClipValues(bitDepth int, chroma bool) [tables.NumClipValues]int16 {
	const n = tables.NumClipValues
	var v [n]int16
	if !chroma {
		for i := 0; i < n; i++ {
			v[i] = int16(math.Round(math.Pow(2, float64(bitDepth*(n-i))/n)))
		}
		return v
	}
	v[0] = int16(1 << bitDepth)
	for i := 1; i < n; i++ {
		v[i] = int16(math.Round(math.Pow(2, float64(bitDepth-8)+8*float64(n-i-1)/float64(n-1))))
	}
	return v
}

// Reconstructor turns APS payloads into dense filter tables. The fixed
// filter sets are expanded once, at construction.
type Reconstructor struct {
	lumaClip   [tables.NumClipValues]int16
	chromaClip [tables.NumClipValues]int16
	fixed      [tables.NumFixedSets]LumaTable
}

// NewReconstructor builds a reconstructor for the given bit depths.
func NewReconstructor(lumaBitDepth, chromaBitDepth int) *Reconstructor {
	r := &Reconstructor{
		lumaClip:   ClipValues(lumaBitDepth, false),
		chromaClip: ClipValues(chromaBitDepth, true),
	}
	const last = tables.NumLumaCoeff - 1
	for set := range r.fixed {
		t := &r.fixed[set]
		for class := 0; class < tables.NumClasses; class++ {
			f := &tables.FixedFilterCoeff[tables.ClassToFilter[set][class]]
			row := t.Coeff[class*tables.NumLumaCoeff : (class+1)*tables.NumLumaCoeff]
			copy(row[:last], f[:last])
			row[last] = 1 << (tables.CoeffBits - 1)
		}
		for i := range t.Clip {
			t.Clip[i] = r.lumaClip[0]
		}
	}
	return r
}

// Fixed returns the pre-expanded table of fixed filter set set.
func (r *Reconstructor) Fixed(set int) *LumaTable {
	return &r.fixed[set]
}

// LumaClipValues returns the luma clipping magnitudes.
func (r *Reconstructor) LumaClipValues() [tables.NumClipValues]int16 { return r.lumaClip }

// ChromaClipValues returns the chroma clipping magnitudes.
func (r *Reconstructor) ChromaClipValues() [tables.NumClipValues]int16 { return r.chromaClip }

func centreTap(mode Mode) int16 {
	if mode == ModeEstimation {
		return 0
	}
	return 1 << (tables.CoeffBits - 1)
}

// Luma fills dst with the per-class luma filters of aps. aps is not
// modified.
func (r *Reconstructor) Luma(aps *APS, mode Mode, dst *LumaTable) {
	const last = tables.NumLumaCoeff - 1
	filters := make([][tables.NumLumaCoeff]int16, len(aps.LumaCoeff))
	copy(filters, aps.LumaCoeff)
	if aps.CoeffDeltaPrediction {
		for i := 1; i < len(filters); i++ {
			for k := 0; k < last; k++ {
				filters[i][k] += filters[i-1][k]
			}
		}
	}

	factor := centreTap(mode)
	for class := 0; class < tables.NumClasses; class++ {
		idx := int(aps.FilterCoeffDeltaIdx[class])
		coef := dst.Coeff[class*tables.NumLumaCoeff : (class+1)*tables.NumLumaCoeff]
		clip := dst.Clip[class*tables.NumLumaCoeff : (class+1)*tables.NumLumaCoeff]

		fixed := -1
		if aps.FixedFilterSetIndex > 0 && aps.FixedFilterUsed[class] {
			fixed = int(tables.ClassToFilter[aps.FixedFilterSetIndex-1][class])
		}
		for k := 0; k < last; k++ {
			var c int16
			if idx < len(filters) {
				c = filters[idx][k]
			}
			if fixed >= 0 {
				c += tables.FixedFilterCoeff[fixed][k]
			}
			coef[k] = c
		}
		coef[last] = factor

		for k := 0; k < last; k++ {
			ci := 0
			if aps.NonLinearLuma && idx < len(aps.LumaClipIdx) {
				ci = int(aps.LumaClipIdx[idx][k])
			}
			if mode == ModeEstimation {
				clip[k] = int16(ci)
			} else {
				clip[k] = r.lumaClip[ci]
			}
		}
		if mode == ModeEstimation {
			clip[last] = 0
		} else {
			clip[last] = r.lumaClip[0]
		}
	}
}

// Chroma fills dst with the chroma alternatives of aps. aps is not
// modified.
func (r *Reconstructor) Chroma(aps *APS, mode Mode, dst *ChromaTable) {
	const last = tables.NumChromaCoeff - 1
	factor := centreTap(mode)
	dst.N = len(aps.ChromaCoeff)
	for alt := 0; alt < dst.N; alt++ {
		nonLinear := aps.chromaNonLinear(alt)
		for k := 0; k < last; k++ {
			dst.Coeff[alt][k] = aps.ChromaCoeff[alt][k]
			ci := 0
			if nonLinear {
				ci = int(aps.ChromaClipIdx[alt][k])
			}
			if mode == ModeEstimation {
				dst.Clip[alt][k] = int16(ci)
			} else {
				dst.Clip[alt][k] = r.chromaClip[ci]
			}
		}
		dst.Coeff[alt][last] = factor
		if mode == ModeEstimation {
			dst.Clip[alt][last] = 0
		} else {
			dst.Clip[alt][last] = r.chromaClip[0]
		}
	}
}
