package dsp

import "github.com/deepteams/alf/internal/tables"

// Tap permutations applied to a coefficient row for each transpose index.
// Entry k of a permutation names the source tap of output tap k.
var (
	perm7x7 = [4][tables.NumLumaCoeff]uint8{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		{9, 4, 10, 8, 1, 5, 11, 7, 3, 0, 2, 6, 12},
		{0, 3, 2, 1, 8, 7, 6, 5, 4, 9, 10, 11, 12},
		{9, 8, 10, 4, 3, 7, 11, 5, 1, 0, 2, 6, 12},
	}
	perm5x5 = [4][tables.NumChromaCoeff]uint8{
		{0, 1, 2, 3, 4, 5, 6},
		{4, 1, 5, 3, 0, 2, 6},
		{0, 3, 2, 1, 4, 5, 6},
		{4, 3, 5, 1, 0, 2, 6},
	}
)

// Transpose reorders a 13-tap (7x7 diamond) or 7-tap (5x5 diamond) row
// for transpose index t and writes it to dst.
func Transpose(dst, src []int16, t int) {
	switch len(src) {
	case tables.NumLumaCoeff:
		p := &perm7x7[t]
		for k := range p {
			dst[k] = src[p[k]]
		}
	case tables.NumChromaCoeff:
		p := &perm5x5[t]
		for k := range p {
			dst[k] = src[p[k]]
		}
	default:
		panic("dsp: coefficient row must have 7 or 13 taps")
	}
}
