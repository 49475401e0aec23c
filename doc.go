// Package alf implements the Adaptive Loop Filter of a block-based video
// codec: the in-loop stage that classifies every 4x4 luma block by its
// local gradients and applies one of 25 diamond-shaped, clipped FIR filters
// to it, plus a per-CTU 5x5 filter on chroma.
//
// The package works on reconstructed pictures held as strided int16 planes.
// It does not parse bitstreams: the surrounding codec supplies the APS
// payloads, the slice selections and the per-CTU flags as plain values.
//
// The filter supports:
//   - 4:0:0, 4:2:0, 4:2:2 and 4:4:4 pictures, 8 to 14 bit samples
//   - the 16 fixed luma filter sets and up to 8 APS filter sets per slice
//   - up to 8 chroma alternatives per APS
//   - non-linear (clipped) filtering, coefficient delta prediction
//   - slice, brick and explicit virtual boundaries
//   - parallel CTU processing
//
// Basic usage:
//
//	f, err := alf.New(alf.DefaultConfig(1920, 1080))
//	...
//	err = f.Process(pic, &alf.PictureParams{Slice: slice, CTU: ctu, APS: aps})
package alf
