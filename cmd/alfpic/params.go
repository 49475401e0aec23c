package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/deepteams/alf"
)

// paramsFile is the JSON layout of the -params file. Per-CTU arrays use
// plain integers so they read naturally in JSON.
type paramsFile struct {
	Slice      alf.SliceParams    `json:"slice"`
	APS        []*alf.APS         `json:"aps"`
	CTU        *ctuFile           `json:"ctu,omitempty"`
	Partition  *alf.GridPartition `json:"partition,omitempty"`
	Boundaries alf.BoundaryParams `json:"boundaries"`
}

// ctuFile holds per-CTU syntax in raster order. Missing arrays default to
// every CTU enabled, filter set 0 and alternative 0; a single value applies
// to every CTU.
type ctuFile struct {
	Enabled        [3][]bool `json:"enabled"`
	FilterSetIndex []int     `json:"filter_set_index"`
	Alternative    [2][]int  `json:"alternative"`
}

func readParams(path string, cfg *alf.Config) (*alf.PictureParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseParams(data, cfg)
}

func parseParams(data []byte, cfg *alf.Config) (*alf.PictureParams, error) {
	var pf paramsFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	n := cfg.NumCTUs()
	p := &alf.PictureParams{
		Slice:      pf.Slice,
		APS:        pf.APS,
		CTU:        alf.NewCTUParams(n),
		Boundaries: pf.Boundaries,
	}
	if pf.Partition != nil {
		if pf.Partition.Columns == 0 {
			pf.Partition.Columns = cfg.CTUColumns()
		}
		p.Partition = pf.Partition
	}
	if pf.CTU == nil {
		return p, nil
	}

	for c, flags := range pf.CTU.Enabled {
		if flags == nil {
			continue
		}
		v, err := expand(flags, n)
		if err != nil {
			return nil, fmt.Errorf("params: ctu.enabled[%d]: %w", c, err)
		}
		p.CTU.Enabled[c] = v
	}
	if pf.CTU.FilterSetIndex != nil {
		v, err := expandBytes(pf.CTU.FilterSetIndex, n)
		if err != nil {
			return nil, fmt.Errorf("params: ctu.filter_set_index: %w", err)
		}
		p.CTU.FilterSetIndex = v
	}
	for c, alts := range pf.CTU.Alternative {
		if alts == nil {
			continue
		}
		v, err := expandBytes(alts, n)
		if err != nil {
			return nil, fmt.Errorf("params: ctu.alternative[%d]: %w", c, err)
		}
		p.CTU.Alternative[c] = v
	}
	return p, nil
}

func expand[T any](v []T, n int) ([]T, error) {
	switch len(v) {
	case n:
		return v, nil
	case 1:
		out := make([]T, n)
		for i := range out {
			out[i] = v[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%d values for %d CTUs", len(v), n)
	}
}

func expandBytes(v []int, n int) ([]uint8, error) {
	e, err := expand(v, n)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, n)
	for i, x := range e {
		if x < 0 || x > 255 {
			return nil, fmt.Errorf("value %d out of range", x)
		}
		out[i] = uint8(x)
	}
	return out, nil
}

// defaultParams filters luma with one fixed set in every CTU.
func defaultParams(cfg *alf.Config, set int) *alf.PictureParams {
	ctu := alf.NewCTUParams(cfg.NumCTUs())
	for i := range ctu.FilterSetIndex {
		ctu.FilterSetIndex[i] = uint8(set)
	}
	return &alf.PictureParams{
		Slice: alf.SliceParams{Enabled: [3]bool{true, false, false}},
		CTU:   ctu,
	}
}
