package alf

import (
	"github.com/deepteams/alf/internal/dsp"
	"github.com/deepteams/alf/internal/filter"
	"github.com/deepteams/alf/internal/plane"
	"github.com/deepteams/alf/internal/tables"
)

// Filter applies ALF to pictures of one geometry. A Filter keeps its
// working buffers between pictures and is not safe for concurrent use.
type Filter = filter.Engine

// Config describes the picture geometry of a Filter.
type Config = filter.Config

// Picture groups the component planes of a reconstructed picture.
type Picture = plane.Picture

// Plane is a strided int16 sample plane with a border.
type Plane = plane.Plane

// ChromaFormat is the chroma subsampling of a picture.
type ChromaFormat = plane.ChromaFormat

// Chroma formats.
const (
	Chroma400 = plane.Chroma400
	Chroma420 = plane.Chroma420
	Chroma422 = plane.Chroma422
	Chroma444 = plane.Chroma444
)

// NumFixedSets is the number of built-in luma filter sets. Per-CTU filter
// set indices from NumFixedSets on select the slice's APSs.
const NumFixedSets = tables.NumFixedSets

// Component indices.
const (
	Y  = plane.Y
	Cb = plane.Cb
	Cr = plane.Cr
)

// Parameters supplied by the surrounding codec.
type (
	APS            = filter.APS
	SliceParams    = filter.SliceParams
	CTUParams      = filter.CTUParams
	PictureParams  = filter.PictureParams
	BoundaryParams = filter.BoundaryParams
	Partition      = filter.Partition
	GridPartition  = filter.GridPartition
)

// ClassMap holds the class and transpose index of every 4x4 luma block.
type ClassMap = dsp.ClassMap

// Class is the classification result of one 4x4 block.
type Class = dsp.Class

// New returns a Filter for cfg.
func New(cfg Config) (*Filter, error) {
	return filter.New(cfg)
}

// DefaultConfig returns a 4:2:0, 10-bit configuration with 128x128 CTUs.
func DefaultConfig(width, height int) Config {
	return filter.DefaultConfig(width, height)
}

// NewPicture allocates a zeroed picture without border.
func NewPicture(width, height int, format ChromaFormat) *Picture {
	return plane.NewPicture(width, height, format, 0)
}

// NewCTUParams returns per-CTU parameters for n CTUs with every component
// enabled, fixed filter set 0 and chroma alternative 0.
func NewCTUParams(n int) *CTUParams {
	return filter.NewCTUParams(n)
}

// KernelNames lists the kernel strategies accepted by Config.Kernels.
func KernelNames() []string {
	return dsp.Names()
}

// ClipValues returns the four clipping magnitudes used at bitDepth for the
// luma or chroma filter.
func ClipValues(bitDepth int, chroma bool) [4]int16 {
	return filter.ClipValues(bitDepth, chroma)
}
