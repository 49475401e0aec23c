package filter

import (
	"fmt"

	"github.com/deepteams/alf/internal/dsp"
	"github.com/deepteams/alf/internal/plane"
	"github.com/deepteams/alf/internal/tables"
)

// Config describes the picture geometry an Engine filters.
type Config struct {
	// Width and Height are the luma picture dimensions, multiples of 8.
	Width  int
	Height int

	// Format is the chroma subsampling of the picture.
	Format plane.ChromaFormat

	// CTUSize is the luma width and height of a coding tree unit. It must be
	// a power of two between 16 and 256.
	CTUSize int

	// LumaBitDepth and ChromaBitDepth are the sample bit depths, 8 to 14.
	LumaBitDepth   int
	ChromaBitDepth int

	// Workers is the number of goroutines filtering CTUs. 0 uses
	// runtime.GOMAXPROCS.
	Workers int

	// Kernels forces a kernel strategy by name ("reference", "lanes").
	// Empty selects the best one for the running CPU.
	Kernels string
}

// DefaultConfig returns a 4:2:0, 10-bit configuration with 128x128 CTUs.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:          width,
		Height:         height,
		Format:         plane.Chroma420,
		CTUSize:        128,
		LumaBitDepth:   10,
		ChromaBitDepth: 10,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Width%8 != 0 || c.Height%8 != 0 {
		return fmt.Errorf("%w: picture size %dx%d must be a positive multiple of 8", ErrConfig, c.Width, c.Height)
	}
	if c.CTUSize < 16 || c.CTUSize > 256 || c.CTUSize&(c.CTUSize-1) != 0 {
		return fmt.Errorf("%w: CTU size %d must be a power of two in [16, 256]", ErrConfig, c.CTUSize)
	}
	if c.Format < plane.Chroma400 || c.Format > plane.Chroma444 {
		return fmt.Errorf("%w: chroma format %v", ErrConfig, c.Format)
	}
	if c.LumaBitDepth < 8 || c.LumaBitDepth > 14 {
		return fmt.Errorf("%w: luma bit depth %d", ErrConfig, c.LumaBitDepth)
	}
	if c.Format != plane.Chroma400 && (c.ChromaBitDepth < 8 || c.ChromaBitDepth > 14) {
		return fmt.Errorf("%w: chroma bit depth %d", ErrConfig, c.ChromaBitDepth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d workers", ErrConfig, c.Workers)
	}
	if _, ok := dsp.Lookup(c.Kernels); !ok {
		return fmt.Errorf("%w: unknown kernel strategy %q (have %v)", ErrConfig, c.Kernels, dsp.Names())
	}
	return nil
}

// CTUColumns returns the number of CTUs per row.
func (c *Config) CTUColumns() int { return (c.Width + c.CTUSize - 1) / c.CTUSize }

// CTURows returns the number of CTU rows.
func (c *Config) CTURows() int { return (c.Height + c.CTUSize - 1) / c.CTUSize }

// NumCTUs returns the number of CTUs in the picture.
func (c *Config) NumCTUs() int { return c.CTUColumns() * c.CTURows() }

func (c *Config) bitDepth(comp int) int {
	if comp == plane.Y {
		return c.LumaBitDepth
	}
	return c.ChromaBitDepth
}

// vbLuma is the ALF virtual boundary inside every luma CTU row.
func (c *Config) vbLuma() dsp.VirtualRow {
	return dsp.VirtualRow{CTUHeight: c.CTUSize, Pos: c.CTUSize - tables.VBAboveCTURowLuma}
}

// vbChroma is the ALF virtual boundary inside every chroma CTU row.
func (c *Config) vbChroma() dsp.VirtualRow {
	h := c.CTUSize >> c.Format.ScaleY(plane.Cb)
	return dsp.VirtualRow{CTUHeight: h, Pos: h - tables.VBAboveCTURowChroma}
}
