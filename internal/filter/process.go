package filter

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/deepteams/alf/internal/dsp"
	"github.com/deepteams/alf/internal/plane"
	"github.com/deepteams/alf/internal/pool"
	"github.com/deepteams/alf/internal/tables"
)

// PictureParams gathers everything the surrounding codec supplies for one
// picture's ALF pass.
type PictureParams struct {
	Slice SliceParams
	CTU   *CTUParams
	// APS lists the available payloads; slices reference them by ID.
	APS []*APS
	// Partition describes slices and bricks. Nil means one slice and one
	// brick covering the picture.
	Partition  Partition
	Boundaries BoundaryParams
}

func (p *PictureParams) lookupAPS(id int) (*APS, error) {
	for _, a := range p.APS {
		if a != nil && a.ID == id {
			if err := a.Validate(); err != nil {
				return nil, err
			}
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrMissingAPS, id)
}

// Engine applies the adaptive loop filter to pictures of one geometry.
// An Engine is not safe for concurrent Process calls.
type Engine struct {
	cfg     Config
	kernels dsp.Kernels
	recon   *Reconstructor

	shadow  *plane.Picture
	classes *dsp.ClassMap

	lumaAPS [tables.MaxNumAPS]LumaTable
	chroma  ChromaTable
}

// New returns an Engine for cfg.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k, _ := dsp.Lookup(cfg.Kernels)
	return &Engine{
		cfg:     cfg,
		kernels: k,
		recon:   NewReconstructor(cfg.LumaBitDepth, cfg.ChromaBitDepth),
		classes: dsp.NewClassMap(cfg.Width, cfg.Height),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Kernels returns the kernel strategy in use.
func (e *Engine) Kernels() dsp.Kernels { return e.kernels }

// Reconstructor returns the engine's coefficient reconstructor.
func (e *Engine) Reconstructor() *Reconstructor { return e.recon }

// Classes returns the classification map of the last processed picture.
func (e *Engine) Classes() *dsp.ClassMap { return e.classes }

// job is the read-only state shared by the CTU workers of one picture.
type job struct {
	pic      *plane.Picture
	shadow   *plane.Picture
	params   *PictureParams
	resolver *resolver
	enabled  [plane.MaxComponents]bool
	numComp  int

	// classifyOnly stops after luma classification.
	classifyOnly bool
}

// Process filters pic in place.
func (e *Engine) Process(pic *plane.Picture, p *PictureParams) error {
	if err := e.checkPicture(pic); err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: missing picture parameters", ErrParams)
	}
	if !p.Slice.AnyEnabled() {
		return nil
	}
	j, err := e.prepare(pic, p)
	if err != nil {
		return err
	}
	e.snapshot(pic)
	j.shadow = e.shadow
	e.classes.Reset()
	e.run(j)
	return nil
}

// Classify runs luma classification over every CTU of pic, honouring the
// slice, brick and virtual boundaries of p, and returns the class map. pic
// is not modified. The map is owned by the Engine and valid until the next
// call.
func (e *Engine) Classify(pic *plane.Picture, p *PictureParams) (*dsp.ClassMap, error) {
	if err := e.checkPicture(pic); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: missing picture parameters", ErrParams)
	}
	if err := p.Boundaries.validate(&e.cfg); err != nil {
		return nil, err
	}
	j := &job{
		pic:          pic,
		params:       p,
		resolver:     newResolver(&e.cfg, p.Partition, p.Boundaries),
		numComp:      1,
		classifyOnly: true,
	}
	j.enabled[plane.Y] = true
	e.snapshot(pic)
	j.shadow = e.shadow
	e.classes.Reset()
	e.run(j)
	return e.classes, nil
}

func (e *Engine) checkPicture(pic *plane.Picture) error {
	if pic == nil || pic.Format != e.cfg.Format {
		return fmt.Errorf("%w: chroma format", ErrPicture)
	}
	for c := 0; c < e.cfg.Format.NumComponents(); c++ {
		p := pic.Planes[c]
		w := e.cfg.Width >> e.cfg.Format.ScaleX(c)
		h := e.cfg.Height >> e.cfg.Format.ScaleY(c)
		if p == nil || p.Width != w || p.Height != h {
			return fmt.Errorf("%w: component %d must be %dx%d", ErrPicture, c, w, h)
		}
	}
	return nil
}

// prepare validates the picture parameters and rebuilds the filter tables.
func (e *Engine) prepare(pic *plane.Picture, p *PictureParams) (*job, error) {
	cfg := &e.cfg
	if p.CTU == nil {
		return nil, fmt.Errorf("%w: missing CTU parameters", ErrParams)
	}
	if err := p.Boundaries.validate(cfg); err != nil {
		return nil, err
	}
	if len(p.Slice.LumaAPS) > tables.MaxNumAPS {
		return nil, fmt.Errorf("%w: %d luma APSs", ErrParams, len(p.Slice.LumaAPS))
	}
	n := cfg.NumCTUs()
	j := &job{
		pic:      pic,
		params:   p,
		resolver: newResolver(cfg, p.Partition, p.Boundaries),
		numComp:  cfg.Format.NumComponents(),
	}
	for c := 0; c < j.numComp; c++ {
		j.enabled[c] = p.Slice.Enabled[c]
		if !j.enabled[c] {
			continue
		}
		if l := len(p.CTU.Enabled[c]); l != n {
			return nil, fmt.Errorf("%w: component %d has %d CTU flags for %d CTUs", ErrParams, c, l, n)
		}
	}

	if j.enabled[plane.Y] {
		for k, id := range p.Slice.LumaAPS {
			aps, err := p.lookupAPS(id)
			if err != nil {
				return nil, fmt.Errorf("alf: luma APS slot %d: %w", k, err)
			}
			e.recon.Luma(aps, ModeFilter, &e.lumaAPS[k])
		}
		limit := tables.NumFixedSets + len(p.Slice.LumaAPS)
		for ctu := 0; ctu < n; ctu++ {
			if p.CTU.enabled(plane.Y, ctu) && p.CTU.filterSet(ctu) >= limit {
				return nil, fmt.Errorf("%w: CTU %d uses set %d of %d", ErrFilterSet, ctu, p.CTU.filterSet(ctu), limit)
			}
		}
	}

	if j.enabled[plane.Cb] || j.enabled[plane.Cr] {
		aps, err := p.lookupAPS(p.Slice.ChromaAPS)
		if err != nil {
			return nil, fmt.Errorf("alf: chroma APS: %w", err)
		}
		e.recon.Chroma(aps, ModeFilter, &e.chroma)
		for c := plane.Cb; c <= plane.Cr; c++ {
			if !j.enabled[c] {
				continue
			}
			for ctu := 0; ctu < n; ctu++ {
				if p.CTU.enabled(c, ctu) && p.CTU.alternative(c, ctu) >= e.chroma.N {
					return nil, fmt.Errorf("%w: component %d CTU %d uses alternative %d of %d",
						ErrAlternative, c, ctu, p.CTU.alternative(c, ctu), e.chroma.N)
				}
			}
		}
	}
	return j, nil
}

// snapshot copies the unfiltered reconstruction into the shadow picture and
// pads it by sample repetition. The shadow is kept for the next picture.
func (e *Engine) snapshot(pic *plane.Picture) {
	if e.shadow == nil {
		e.shadow = plane.NewPicture(e.cfg.Width, e.cfg.Height, e.cfg.Format, tables.PaddingSize)
	}
	e.shadow.CopyFrom(pic)
	for c := 0; c < e.cfg.Format.NumComponents(); c++ {
		e.shadow.Planes[c].ExtendBorder(tables.ShadowMargin)
	}
}

// run distributes CTUs over the workers. Workers claim CTU indices from an
// atomic counter; every CTU writes only its own rectangle of the picture
// and of the class map.
func (e *Engine) run(j *job) {
	n := e.cfg.NumCTUs()
	workers := e.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	if workers <= 1 {
		w := getWorker(&e.cfg)
		for ctu := 0; ctu < n; ctu++ {
			e.filterCTU(w, j, ctu)
		}
		putWorker(w)
		return
	}

	var next atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			w := getWorker(&e.cfg)
			defer putWorker(w)
			for {
				ctu := int(next.Add(1)) - 1
				if ctu >= n {
					return
				}
				e.filterCTU(w, j, ctu)
			}
		}()
	}
	wg.Wait()
}

// worker is the private scratch of one CTU goroutine.
type worker struct {
	lap   *dsp.Laplacian
	local [plane.MaxComponents]scratch
}

// scratch backs the locally padded copy of one split sub-rectangle.
type scratch struct {
	pix    []plane.Pel
	stride int
}

var workerPool sync.Pool

func getWorker(cfg *Config) *worker {
	size := cfg.CTUSize + 2*tables.PaddingSize
	if v := workerPool.Get(); v != nil {
		w := v.(*worker)
		if w.local[0].stride == size+2*tables.PaddingSize {
			w.lap = dsp.NewLaplacian()
			return w
		}
		w.release()
	}
	w := &worker{lap: dsp.NewLaplacian()}
	for c := range w.local {
		stride := size + 2*tables.PaddingSize
		w.local[c] = scratch{
			pix:    pool.GetPels(stride * stride),
			stride: stride,
		}
	}
	return w
}

func putWorker(w *worker) {
	w.lap.Release()
	w.lap = nil
	workerPool.Put(w)
}

func (w *worker) release() {
	for c := range w.local {
		pool.PutPels(w.local[c].pix)
		w.local[c] = scratch{}
	}
}

// view returns a w x h plane over the scratch with a PaddingSize margin.
func (s *scratch) view(w, h int) *plane.Plane {
	m := tables.PaddingSize
	return &plane.Plane{
		Width:  w,
		Height: h,
		Stride: s.stride,
		Pix:    s.pix,
		Origin: m*s.stride + m,
	}
}

func (e *Engine) filterCTU(w *worker, j *job, ctu int) {
	cfg := &e.cfg
	cols := cfg.CTUColumns()
	xPos := (ctu % cols) * cfg.CTUSize
	yPos := (ctu / cols) * cfg.CTUSize
	width := min(cfg.CTUSize, cfg.Width-xPos)
	height := min(cfg.CTUSize, cfg.Height-yPos)

	var on [plane.MaxComponents]bool
	active := false
	for c := 0; c < j.numComp; c++ {
		on[c] = j.enabled[c] && (j.classifyOnly || j.params.CTU.enabled(c, ctu))
		active = active || on[c]
	}
	if !active {
		return
	}

	rg := j.resolver.resolve(xPos, yPos, width, height)
	lastRow := yPos+cfg.CTUSize >= cfg.Height
	if !rg.crossed() {
		whole := plane.Area{X: xPos, Y: yPos, W: width, H: height}
		for c := 0; c < j.numComp; c++ {
			if on[c] {
				src := j.shadow.Planes[c]
				e.filterArea(w, j, ctu, c, src, whole, whole, rg.bound, lastRow)
			}
		}
		return
	}

	yStart := yPos
	for i := 0; i <= rg.numHor; i++ {
		yEnd := yPos + height
		if i < rg.numHor {
			yEnd = rg.horVB[i]
		}
		h := yEnd - yStart
		clipT := (i == 0 && rg.bound.Top != tables.NoBoundary) || i > 0 || yStart == 0
		clipB := (i == rg.numHor && rg.bound.Bottom != tables.NoBoundary) || i < rg.numHor || yEnd == cfg.Height

		xStart := xPos
		for k := 0; k <= rg.numVer; k++ {
			xEnd := xPos + width
			if k < rg.numVer {
				xEnd = rg.verVB[k]
			}
			wd := xEnd - xStart
			clipL := (k == 0 && rg.bound.Left != tables.NoBoundary) || k > 0 || xStart == 0
			clipR := (k == rg.numVer && rg.bound.Right != tables.NoBoundary) || k < rg.numVer || xEnd == cfg.Width

			dst := plane.Area{X: xStart, Y: yStart, W: wd, H: h}
			for c := 0; c < j.numComp; c++ {
				if !on[c] {
					continue
				}
				local := e.padLocal(w, j, c, dst, clipL, clipR, clipT, clipB)
				e.filterArea(w, j, ctu, c, local, plane.Area{W: wd, H: h}, dst, rg.bound, lastRow)
			}
			xStart = xEnd
		}
		yStart = yEnd
	}
}

// padLocal copies luma area a of component c from the shadow, with a
// PaddingSize halo on every side not marked as clipped, into the worker's
// scratch and replicates its border. The returned view starts at a.
func (e *Engine) padLocal(w *worker, j *job, c int, a plane.Area, clipL, clipR, clipT, clipB bool) *plane.Plane {
	f := e.cfg.Format
	sx, sy := f.ScaleX(c), f.ScaleY(c)
	pad := tables.PaddingSize
	left, right, top, bottom := pad, pad, pad, pad
	if clipL {
		left = 0
	}
	if clipR {
		right = 0
	}
	if clipT {
		top = 0
	}
	if clipB {
		bottom = 0
	}
	src := plane.Area{
		X: (a.X - left) >> sx,
		Y: (a.Y - top) >> sy,
		W: (a.W + left + right) >> sx,
		H: (a.H + top + bottom) >> sy,
	}
	buf := w.local[c].view(src.W, src.H)
	buf.CopyArea(0, 0, j.shadow.Planes[c], src)
	buf.ExtendBorder(pad)
	v := buf.Sub(plane.Area{X: left >> sx, Y: top >> sy, W: a.W >> sx, H: a.H >> sy})
	return &v
}

// filterArea classifies and filters luma area dst of component c, reading
// area srcArea of src.
func (e *Engine) filterArea(w *worker, j *job, ctu, c int, src *plane.Plane, srcArea, dst plane.Area, b dsp.Boundary, lastRow bool) {
	cfg := &e.cfg
	if c == plane.Y {
		vb := cfg.vbLuma()
		e.kernels.Classify(&dsp.ClassifyArgs{
			Map:       e.classes,
			Src:       src,
			Blk:       srcArea,
			DstX:      dst.X,
			DstY:      dst.Y,
			PicHeight: cfg.Height,
			BitDepth:  cfg.LumaBitDepth,
			VB:        vb,
			Bound:     b,
			Lap:       w.lap,
		})
		if j.classifyOnly {
			return
		}
		if lastRow {
			vb.Pos = cfg.Height
		}
		set := j.params.CTU.filterSet(ctu)
		var t *LumaTable
		if set >= tables.NumFixedSets {
			t = &e.lumaAPS[set-tables.NumFixedSets]
		} else {
			t = e.recon.Fixed(set)
		}
		e.kernels.Filter7x7(&dsp.FilterArgs{
			Dst:      j.pic.Planes[plane.Y],
			Area:     dst,
			Src:      src,
			SrcX:     srcArea.X,
			SrcY:     srcArea.Y,
			Classes:  e.classes,
			Coeff:    t.Coeff[:],
			Clip:     t.Clip[:],
			BitDepth: cfg.LumaBitDepth,
			VB:       vb,
			Bound:    b,
		})
		return
	}

	f := cfg.Format
	vb := cfg.vbChroma()
	if lastRow {
		vb.Pos = cfg.Height
	}
	alt := j.params.CTU.alternative(c, ctu)
	s := f.ScaleArea(c, srcArea)
	e.kernels.Filter5x5(&dsp.FilterArgs{
		Dst:      j.pic.Planes[c],
		Area:     f.ScaleArea(c, dst),
		Src:      src,
		SrcX:     s.X,
		SrcY:     s.Y,
		Chroma:   true,
		ScaleX:   f.ScaleX(c),
		ScaleY:   f.ScaleY(c),
		Coeff:    e.chroma.Coeff[alt][:],
		Clip:     e.chroma.Clip[alt][:],
		BitDepth: cfg.ChromaBitDepth,
		VB:       vb,
		Bound:    b,
	})
}
