package filter

import (
	"fmt"

	"github.com/deepteams/alf/internal/tables"
)

// APS is the ALF payload of one adaptation parameter set, as delivered by
// the bitstream parser. Coefficient rows hold the 12 signaled taps; the
// centre tap is implied and ignored on input.
type APS struct {
	ID int `json:"id"`

	// LumaCoeff holds one row per signaled luma filter.
	LumaCoeff [][tables.NumLumaCoeff]int16 `json:"luma_coeff,omitempty"`
	// LumaClipIdx holds the clipping index of every luma tap.
	LumaClipIdx [][tables.NumLumaCoeff]uint8 `json:"luma_clip_idx,omitempty"`
	// FilterCoeffDeltaIdx maps each class to a signaled luma filter.
	FilterCoeffDeltaIdx [tables.NumClasses]uint8 `json:"filter_coeff_delta_idx"`
	NonLinearLuma       bool                     `json:"non_linear_luma,omitempty"`

	// ChromaCoeff holds one row per chroma alternative.
	ChromaCoeff     [][tables.NumChromaCoeff]int16 `json:"chroma_coeff,omitempty"`
	ChromaClipIdx   [][tables.NumChromaCoeff]uint8 `json:"chroma_clip_idx,omitempty"`
	NonLinearChroma []bool                         `json:"non_linear_chroma,omitempty"`

	// CoeffDeltaPrediction codes every luma filter after the first as a
	// delta to the previous one.
	CoeffDeltaPrediction bool `json:"coeff_delta_prediction,omitempty"`
	// FixedFilterSetIndex, when positive, selects fixed set index-1 whose
	// filters are added to the signaled ones for classes flagged in
	// FixedFilterUsed.
	FixedFilterSetIndex int                     `json:"fixed_filter_set_index,omitempty"`
	FixedFilterUsed     [tables.NumClasses]bool `json:"fixed_filter_used"`
}

// NumLumaFilters returns the number of signaled luma filters.
func (a *APS) NumLumaFilters() int { return len(a.LumaCoeff) }

// NumAlternativesChroma returns the number of chroma alternatives.
func (a *APS) NumAlternativesChroma() int { return len(a.ChromaCoeff) }

// Validate checks the internal consistency of the payload.
func (a *APS) Validate() error {
	n := len(a.LumaCoeff)
	if n > tables.NumClasses {
		return fmt.Errorf("%w: APS %d signals %d luma filters", ErrParams, a.ID, n)
	}
	if a.NonLinearLuma && len(a.LumaClipIdx) != n {
		return fmt.Errorf("%w: APS %d has %d luma clip rows for %d filters", ErrParams, a.ID, len(a.LumaClipIdx), n)
	}
	if n > 0 {
		for c, f := range a.FilterCoeffDeltaIdx {
			if int(f) >= n {
				return fmt.Errorf("%w: APS %d class %d uses filter %d of %d", ErrParams, a.ID, c, f, n)
			}
		}
	}
	for _, row := range a.LumaClipIdx {
		if err := checkClipRow(row[:tables.NumLumaCoeff-1]); err != nil {
			return fmt.Errorf("%w: APS %d luma: %v", ErrParams, a.ID, err)
		}
	}
	if a.FixedFilterSetIndex < 0 || a.FixedFilterSetIndex > tables.NumFixedSets {
		return fmt.Errorf("%w: APS %d fixed filter set %d", ErrParams, a.ID, a.FixedFilterSetIndex)
	}

	alts := len(a.ChromaCoeff)
	if alts > tables.MaxAlternatives {
		return fmt.Errorf("%w: APS %d signals %d chroma alternatives", ErrParams, a.ID, alts)
	}
	if len(a.NonLinearChroma) != 0 && len(a.NonLinearChroma) != alts {
		return fmt.Errorf("%w: APS %d has %d chroma non-linear flags for %d alternatives", ErrParams, a.ID, len(a.NonLinearChroma), alts)
	}
	for alt := 0; alt < alts; alt++ {
		if a.chromaNonLinear(alt) && alt >= len(a.ChromaClipIdx) {
			return fmt.Errorf("%w: APS %d chroma alternative %d has no clip row", ErrParams, a.ID, alt)
		}
	}
	for _, row := range a.ChromaClipIdx {
		if err := checkClipRow(row[:tables.NumChromaCoeff-1]); err != nil {
			return fmt.Errorf("%w: APS %d chroma: %v", ErrParams, a.ID, err)
		}
	}
	return nil
}

func (a *APS) chromaNonLinear(alt int) bool {
	return alt < len(a.NonLinearChroma) && a.NonLinearChroma[alt]
}

func checkClipRow(row []uint8) error {
	for k, v := range row {
		if int(v) >= tables.NumClipValues {
			return fmt.Errorf("tap %d clip index %d", k, v)
		}
	}
	return nil
}

// SliceParams carries the ALF selections of the slice header.
type SliceParams struct {
	// Enabled switches ALF on per component (Y, Cb, Cr).
	Enabled [3]bool `json:"enabled"`
	// LumaAPS lists the APS ids usable by luma CTUs, at most MaxNumAPS.
	// Per-CTU filter-set index 16+k selects LumaAPS[k].
	LumaAPS []int `json:"luma_aps,omitempty"`
	// ChromaAPS is the APS id of the chroma filters.
	ChromaAPS int `json:"chroma_aps"`
}

// AnyEnabled reports whether at least one component is filtered.
func (s *SliceParams) AnyEnabled() bool {
	return s.Enabled[0] || s.Enabled[1] || s.Enabled[2]
}

// ChromaEnabled reports whether at least one chroma component is filtered.
func (s *SliceParams) ChromaEnabled() bool {
	return s.Enabled[1] || s.Enabled[2]
}

// CTUParams carries the per-CTU ALF syntax of a picture, in raster order.
type CTUParams struct {
	// Enabled holds one flag per CTU and component.
	Enabled [3][]bool `json:"enabled"`
	// FilterSetIndex selects the luma filter set of each CTU: values below
	// 16 pick a fixed set, 16+k picks the k-th slice APS.
	FilterSetIndex []uint8 `json:"filter_set_index"`
	// Alternative selects the chroma alternative per CTU for Cb and Cr.
	Alternative [2][]uint8 `json:"alternative"`
}

// NewCTUParams returns parameters for n CTUs with every component enabled,
// fixed set 0 and chroma alternative 0.
func NewCTUParams(n int) *CTUParams {
	p := &CTUParams{FilterSetIndex: make([]uint8, n)}
	for c := range p.Enabled {
		p.Enabled[c] = make([]bool, n)
		for i := range p.Enabled[c] {
			p.Enabled[c][i] = true
		}
	}
	for c := range p.Alternative {
		p.Alternative[c] = make([]uint8, n)
	}
	return p
}

func (p *CTUParams) enabled(comp, ctu int) bool {
	e := p.Enabled[comp]
	return ctu < len(e) && e[ctu]
}

func (p *CTUParams) alternative(comp, ctu int) int {
	a := p.Alternative[comp-1]
	if ctu < len(a) {
		return int(a[ctu])
	}
	return 0
}

func (p *CTUParams) filterSet(ctu int) int {
	if ctu < len(p.FilterSetIndex) {
		return int(p.FilterSetIndex[ctu])
	}
	return 0
}
