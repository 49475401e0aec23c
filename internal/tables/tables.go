// Package tables holds the constant data shared by the ALF classifier,
// filter kernels and coefficient reconstruction.
package tables

// Filter geometry and class counts.
const (
	NumClasses       = 25 // luma classes produced by the classifier
	NumLumaCoeff     = 13 // 7x7 diamond taps, centre tap last
	NumChromaCoeff   = 7  // 5x5 diamond taps, centre tap last
	NumFixedSets     = 16 // built-in luma filter sets
	NumFixedFilters  = 64 // distinct fixed filters referenced by the sets
	MaxNumAPS        = 8  // luma APS references per slice
	MaxAlternatives  = 8  // chroma filter alternatives per APS
	NumClipValues    = 4  // clip index range per channel
	MaxVirtualBounds = 3  // signalled virtual boundaries per axis
)

// CoeffBits is the fixed-point precision of filter coefficients; the centre
// tap of a reconstructed filter is 1<<(CoeffBits-1).
const CoeffBits = 8

// Buffer geometry.
const (
	MaxFilterLength     = 7  // luma diamond size
	ShadowMargin        = MaxFilterLength >> 1
	PaddingSize         = 4  // halo around locally padded sub-rectangles
	ClassifyBlockSize   = 32 // classification tile, bounds Laplacian scratch
	VBAboveCTURowLuma   = 4  // ALF virtual boundary rows above the CTU bottom
	VBAboveCTURowChroma = 2
)

// NoBoundary marks an edge that does not restrict filtering.
const NoBoundary = -1

// FixedFilterCoeff is the bank of fixed luma filters. The centre tap is
// implicit and left at zero.
var FixedFilterCoeff = [NumFixedFilters][NumLumaCoeff]int16{
	{0, 0, 2, -3, 1, -4, 1, 7, -1, 1, -1, 5, 0},
	{0, 0, 0, 0, 0, -1, 0, 1, 0, 0, -1, 2, 0},
	{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, -1, 1, 0},
	{2, 2, -7, -3, 0, -5, 13, 22, 12, -3, -3, 17, 0},
	{-1, 0, 6, -8, 1, -5, 1, 23, 0, 2, -5, 10, 0},
	{0, 0, -1, -1, 0, -1, 2, 1, 0, 0, -1, 4, 0},
	{0, 0, 3, -11, 1, 0, -1, 35, 5, 2, -9, 9, 0},
	{0, 0, 8, -8, -2, -7, 4, 4, 2, 1, -1, 25, 0},
	{0, 0, 1, -1, 0, -3, 1, 3, -1, 1, -1, 3, 0},
	{0, 0, 3, -3, 0, -6, 5, -1, 2, 1, -4, 21, 0},
	{-7, 1, 5, 4, -3, 5, 11, 13, 12, -8, 11, 12, 0},
	{-5, -3, 6, -2, -3, 8, 14, 15, 2, -7, 11, 16, 0},
	{2, -1, -6, -5, -2, -2, 20, 14, -4, 0, -3, 25, 0},
	{3, 1, -8, -4, 0, -8, 22, 5, -3, 2, -10, 29, 0},
	{2, 1, -7, -1, 2, -11, 23, -5, 0, 2, -10, 29, 0},
	{-6, -3, 8, 9, -4, 8, 9, 7, 14, -2, 8, 9, 0},
	{2, 1, -4, -7, 0, -8, 17, 22, 1, -1, -4, 23, 0},
	{3, 0, -5, -7, 0, -7, 15, 18, -5, 0, -5, 27, 0},
	{2, 0, 0, -7, 1, -10, 13, 13, -4, 2, -7, 24, 0},
	{3, 3, -13, 4, -2, -5, 9, 21, 25, -2, -3, 12, 0},
	{-5, -2, 7, -3, -7, 9, 8, 9, 16, -2, 15, 12, 0},
	{0, -1, 0, -7, -5, 4, 11, 11, 8, -6, 12, 21, 0},
	{3, -2, -3, -8, -4, -1, 16, 15, -2, -3, 3, 26, 0},
	{2, 1, -5, -4, -1, -8, 16, 4, -2, 1, -7, 33, 0},
	{2, 1, -4, -2, 1, -10, 17, -2, 0, 2, -11, 33, 0},
	{1, -2, 7, -15, -16, 10, 8, 8, 20, 11, 14, 11, 0},
	{2, 2, 3, -13, -13, 4, 8, 12, 2, -3, 16, 24, 0},
	{1, 4, 0, -7, -8, -4, 9, 9, -2, -2, 8, 29, 0},
	{1, 1, 2, -4, -1, -6, 6, 3, -1, -1, -3, 30, 0},
	{-7, 3, 2, 10, -2, 3, 7, 11, 19, -7, 8, 10, 0},
	{0, -2, -5, -3, -2, 4, 20, 15, -1, -3, -1, 22, 0},
	{3, -1, -8, -4, -1, -4, 22, 8, -4, 2, -8, 28, 0},
	{0, 3, -14, 3, 0, 1, 19, 17, 8, -3, -7, 20, 0},
	{0, 2, -1, -8, 3, -6, 5, 21, 1, 1, -9, 13, 0},
	{-4, -2, 8, 20, -2, 2, 3, 5, 21, 4, 6, 1, 0},
	{2, -2, -3, -9, -4, 2, 14, 16, 3, -6, 8, 24, 0},
	{2, 1, 5, -16, -7, 2, 3, 11, 15, -3, 11, 22, 0},
	{1, 2, 3, -11, -2, -5, 4, 8, 9, -3, -2, 26, 0},
	{0, -1, 10, -9, -1, -8, 2, 3, 4, 0, 0, 29, 0},
	{1, 2, 0, -5, 1, -9, 9, 3, 0, 1, -7, 20, 0},
	{-2, 8, -6, -4, 3, -9, -8, 45, 14, 2, -13, 7, 0},
	{1, -1, 16, -19, -8, -4, -3, 2, 19, 0, 4, 30, 0},
	{1, 1, -3, 0, 2, -11, 15, -5, 1, 2, -9, 24, 0},
	{0, 1, -2, 0, 1, -4, 4, 0, 0, 1, -4, 7, 0},
	{0, 1, 2, -5, 1, -6, 4, 10, -2, 1, -4, 10, 0},
	{3, 0, -3, -6, -2, -6, 14, 8, -1, -1, -3, 31, 0},
	{0, 1, 0, -2, 1, -6, 5, 1, 0, 1, -5, 13, 0},
	{3, 1, 9, -19, -21, 9, 7, 6, 13, 5, 15, 21, 0},
	{2, 4, 3, -12, -13, 1, 7, 8, 3, 0, 12, 26, 0},
	{3, 1, -8, -2, 0, -6, 18, 2, -2, 3, -10, 23, 0},
	{1, 1, -4, -1, 1, -5, 8, 1, -1, 2, -5, 10, 0},
	{0, 1, -1, 0, 0, -2, 2, 0, 0, 1, -2, 3, 0},
	{1, 1, -2, -7, 1, -7, 14, 18, 0, 0, -7, 21, 0},
	{0, 1, 0, -2, 0, -7, 8, 1, -2, 0, -3, 24, 0},
	{0, 1, 1, -2, 2, -10, 10, 0, -2, 1, -7, 23, 0},
	{0, 2, 2, -11, 2, -4, -3, 39, 7, 1, -10, 9, 0},
	{1, 0, 13, -16, -5, -6, -1, 8, 6, 0, 6, 29, 0},
	{1, 3, 1, -6, -4, -7, 9, 6, -3, -2, 3, 33, 0},
	{4, 0, -17, -1, -1, 5, 26, 8, -2, 3, -15, 30, 0},
	{0, 1, -2, 0, 2, -8, 12, -6, 1, 1, -6, 16, 0},
	{0, 0, 0, -1, 1, -4, 4, 0, 0, 0, -3, 11, 0},
	{0, 1, 2, -8, 2, -6, 5, 15, 0, 2, -7, 9, 0},
	{1, -1, 12, -15, -7, -2, 3, 6, 6, -1, 7, 30, 0},
}

// ClassToFilter maps (fixed set, class) to a row of FixedFilterCoeff.
var ClassToFilter = [NumFixedSets][NumClasses]uint8{
	{8, 2, 2, 2, 3, 4, 53, 9, 9, 52, 4, 4, 5, 9, 2, 8, 10, 9, 1, 3, 39, 39, 10, 9, 52},
	{11, 12, 13, 14, 15, 30, 11, 17, 18, 19, 16, 20, 20, 4, 53, 21, 22, 23, 14, 25, 26, 26, 27, 28, 10},
	{16, 12, 31, 32, 14, 16, 30, 33, 53, 34, 35, 16, 20, 4, 7, 16, 21, 36, 18, 19, 21, 26, 37, 38, 39},
	{35, 11, 13, 14, 43, 35, 16, 4, 34, 62, 35, 35, 30, 56, 7, 35, 21, 38, 24, 40, 16, 21, 48, 57, 39},
	{11, 31, 32, 43, 44, 16, 4, 17, 34, 45, 30, 20, 20, 7, 5, 21, 22, 46, 40, 47, 26, 48, 63, 58, 10},
	{12, 13, 50, 51, 52, 11, 17, 53, 45, 9, 30, 4, 53, 19, 0, 22, 23, 25, 43, 44, 37, 27, 28, 10, 55},
	{30, 33, 62, 51, 44, 20, 41, 56, 34, 45, 20, 41, 41, 56, 5, 30, 56, 38, 40, 47, 11, 37, 42, 57, 8},
	{35, 11, 23, 32, 14, 35, 20, 4, 17, 18, 21, 20, 20, 20, 4, 16, 21, 36, 46, 25, 41, 26, 48, 49, 58},
	{12, 31, 59, 59, 3, 33, 33, 59, 59, 52, 4, 33, 17, 59, 55, 22, 36, 59, 59, 60, 22, 36, 59, 25, 55},
	{31, 25, 15, 60, 60, 22, 17, 19, 55, 55, 20, 20, 53, 19, 55, 22, 46, 25, 43, 60, 37, 28, 10, 55, 52},
	{12, 31, 32, 50, 51, 11, 33, 53, 19, 45, 16, 4, 4, 53, 5, 22, 36, 18, 25, 43, 26, 27, 27, 28, 10},
	{5, 2, 44, 52, 3, 4, 53, 45, 9, 3, 4, 56, 5, 0, 2, 5, 10, 47, 52, 3, 63, 39, 10, 9, 52},
	{12, 34, 44, 44, 3, 56, 56, 62, 45, 9, 56, 56, 7, 5, 0, 22, 38, 40, 47, 52, 48, 57, 39, 10, 9},
	{35, 11, 23, 14, 51, 35, 20, 41, 56, 62, 16, 20, 41, 56, 7, 16, 21, 38, 24, 40, 26, 26, 42, 57, 39},
	{33, 34, 51, 51, 52, 41, 41, 34, 62, 0, 41, 41, 56, 7, 5, 56, 38, 38, 40, 44, 37, 42, 57, 39, 10},
	{16, 31, 32, 15, 60, 30, 4, 17, 19, 25, 22, 20, 4, 53, 19, 21, 22, 46, 25, 55, 26, 48, 63, 58, 55},
}
