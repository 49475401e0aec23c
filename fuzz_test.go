package alf

import (
	"testing"
)

// byteSource hands out fuzz input bytes, then zeros.
type byteSource struct {
	data []byte
}

func (s *byteSource) next() int {
	if len(s.data) == 0 {
		return 0
	}
	v := int(s.data[0])
	s.data = s.data[1:]
	return v
}

func (s *byteSource) signed() int16 { return int16(int8(s.next())) }

// fuzzSetup derives a small configuration, picture and parameter set from
// data. Parameters may be invalid; the filter must then return an error.
func fuzzSetup(data []byte) (Config, *Picture, *PictureParams) {
	s := &byteSource{data: data}
	formats := [...]ChromaFormat{Chroma400, Chroma420, Chroma422, Chroma444}
	cfg := DefaultConfig(8*(1+s.next()%8), 8*(1+s.next()%8))
	cfg.Format = formats[s.next()%4]
	cfg.CTUSize = 16 << (s.next() % 3)
	cfg.LumaBitDepth = 8 + s.next()%7
	cfg.ChromaBitDepth = 8 + s.next()%7
	cfg.Workers = 1 + s.next()%3

	pic := NewPicture(cfg.Width, cfg.Height, cfg.Format)
	for c := 0; c < cfg.Format.NumComponents(); c++ {
		bd := cfg.LumaBitDepth
		if c != Y {
			bd = cfg.ChromaBitDepth
		}
		p := pic.Planes[c]
		for y := 0; y < p.Height; y++ {
			row := p.Row(y)
			for x := range row {
				row[x] = int16((s.next()*int(x+1) + y*37) & (1<<bd - 1))
			}
		}
	}

	aps := &APS{ID: s.next() % 4, NonLinearLuma: s.next()%2 == 1}
	nf := 1 + s.next()%4
	aps.LumaCoeff = make([][13]int16, nf)
	aps.LumaClipIdx = make([][13]uint8, nf)
	for f := 0; f < nf; f++ {
		for k := 0; k < 12; k++ {
			aps.LumaCoeff[f][k] = s.signed()
			aps.LumaClipIdx[f][k] = uint8(s.next() % 5)
		}
	}
	for c := range aps.FilterCoeffDeltaIdx {
		aps.FilterCoeffDeltaIdx[c] = uint8(s.next() % (nf + 1))
	}
	aps.CoeffDeltaPrediction = s.next()%2 == 1
	aps.FixedFilterSetIndex = s.next() % 17
	for c := range aps.FixedFilterUsed {
		aps.FixedFilterUsed[c] = s.next()%2 == 1
	}
	na := 1 + s.next()%3
	aps.ChromaCoeff = make([][7]int16, na)
	aps.ChromaClipIdx = make([][7]uint8, na)
	aps.NonLinearChroma = make([]bool, na)
	for a := 0; a < na; a++ {
		for k := 0; k < 6; k++ {
			aps.ChromaCoeff[a][k] = s.signed()
			aps.ChromaClipIdx[a][k] = uint8(s.next() % 4)
		}
		aps.NonLinearChroma[a] = s.next()%2 == 1
	}

	n := cfg.NumCTUs()
	ctu := NewCTUParams(n)
	for i := 0; i < n; i++ {
		for c := range ctu.Enabled {
			ctu.Enabled[c][i] = s.next()%4 != 0
		}
		ctu.FilterSetIndex[i] = uint8(s.next() % 18)
		ctu.Alternative[0][i] = uint8(s.next() % 4)
		ctu.Alternative[1][i] = uint8(s.next() % 4)
	}
	p := &PictureParams{
		Slice: SliceParams{
			Enabled:   [3]bool{s.next()%2 == 1, s.next()%2 == 1, s.next()%2 == 1},
			LumaAPS:   []int{s.next() % 4},
			ChromaAPS: s.next() % 4,
		},
		CTU: ctu,
		APS: []*APS{aps},
	}
	if s.next()%2 == 1 {
		cols := cfg.CTUColumns()
		p.Partition = &GridPartition{Columns: cols, SliceStarts: []int{1 + s.next()%n}, TileColumns: []int{1 + s.next()%cols}}
		p.Boundaries.CrossBricks = s.next()%2 == 1
	}
	if s.next()%2 == 1 {
		p.Boundaries.VirtualBoundariesDisabled = true
		p.Boundaries.VirtualX = []int{8 * (s.next() % (cfg.Width / 8))}
		p.Boundaries.VirtualY = []int{8 * (s.next() % (cfg.Height / 8))}
	}
	return cfg, pic, p
}

func FuzzProcess(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{7, 7, 1, 1, 2, 2, 0, 9, 200, 13, 1})
	f.Add([]byte{3, 5, 2, 0, 6, 0, 2, 255, 0, 255, 0, 255, 0, 3, 1, 1, 1})
	f.Fuzz(func(t *testing.T, data []byte) {
		cfg, pic, p := fuzzSetup(data)
		flt, err := New(cfg)
		if err != nil {
			t.Fatalf("derived config rejected: %v", err)
		}
		if err := flt.Process(pic, p); err != nil {
			return
		}
		for c := 0; c < cfg.Format.NumComponents(); c++ {
			maxVal := int16(1<<cfg.LumaBitDepth - 1)
			if c != Y {
				maxVal = int16(1<<cfg.ChromaBitDepth - 1)
			}
			pl := pic.Planes[c]
			for y := 0; y < pl.Height; y++ {
				for x, v := range pl.Row(y) {
					if v < 0 || v > maxVal {
						t.Fatalf("component %d sample (%d,%d) = %d outside [0,%d]", c, x, y, v, maxVal)
					}
				}
			}
		}
	})
}
