// Command alfpic runs the adaptive loop filter over still pictures.
//
// Usage:
//
//	alfpic apply [options] <input>      filter an image or raw planar YUV
//	alfpic classify [options] <input>   print luma class statistics
//	alfpic kernels                      list kernel strategies
//
// Images (PNG, JPEG, GIF, WebP, BMP, TIFF) are converted to 8-bit 4:2:0
// YCbCr. Raw input is planar Y, Cb, Cr with one byte per sample at 8 bits
// and little-endian 16-bit words above; a ".zst" suffix selects zstd
// compression.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/deepteams/alf"
	"github.com/deepteams/alf/internal/quality"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "apply":
		err = runApply(os.Args[2:])
	case "classify":
		err = runClassify(os.Args[2:], os.Stdout)
	case "kernels":
		err = runKernels(os.Stdout)
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "alfpic: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "alfpic: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  alfpic apply [options] <input>      Filter an image or raw .yuv[.zst] picture
  alfpic classify [options] <input>   Print luma class and transpose histograms
  alfpic kernels                      List kernel strategies

Run "alfpic <command> -h" for command-specific options.
`)
}

// pictureFlags are the options shared by apply and classify.
type pictureFlags struct {
	size     *string
	format   *string
	bitDepth *int
	ctu      *int
	workers  *int
	kernels  *string
	params   *string
	set      *int
	verbose  *bool
}

func addPictureFlags(fs *flag.FlagSet) *pictureFlags {
	return &pictureFlags{
		size:     fs.String("size", "", "raw input size WxH (required for .yuv input)"),
		format:   fs.String("fmt", "420", "raw chroma format: 400, 420, 422, 444"),
		bitDepth: fs.Int("bitdepth", 8, "sample bit depth 8-14"),
		ctu:      fs.Int("ctu", 128, "CTU size (power of two, 16-256)"),
		workers:  fs.Int("workers", 0, "CTU worker goroutines (0=GOMAXPROCS)"),
		kernels:  fs.String("kernels", "", "force a kernel strategy (see alfpic kernels)"),
		params:   fs.String("params", "", "JSON file with APS, slice and CTU parameters"),
		set:      fs.Int("set", 0, "fixed luma filter set 0-15 used without -params"),
		verbose:  fs.Bool("v", false, "print timings and the kernel strategy"),
	}
}

// load reads the input picture and builds the filter for it.
func (pf *pictureFlags) load(path string) (*alf.Picture, *alf.Filter, *alf.PictureParams, error) {
	start := time.Now()
	var (
		pic *alf.Picture
		err error
	)
	if isRaw(path) {
		var w, h int
		if _, err := fmt.Sscanf(*pf.size, "%dx%d", &w, &h); err != nil {
			return nil, nil, nil, fmt.Errorf("raw input needs -size WxH: %v", err)
		}
		format, err := parseFormat(*pf.format)
		if err != nil {
			return nil, nil, nil, err
		}
		pic, err = readRaw(path, w, h, format, *pf.bitDepth)
		if err != nil {
			return nil, nil, nil, err
		}
	} else {
		pic, err = readImage(path, *pf.bitDepth)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	loaded := time.Since(start)

	cfg := alf.DefaultConfig(pic.Width(), pic.Height())
	cfg.Format = pic.Format
	cfg.CTUSize = *pf.ctu
	cfg.LumaBitDepth = *pf.bitDepth
	cfg.ChromaBitDepth = *pf.bitDepth
	cfg.Workers = *pf.workers
	cfg.Kernels = *pf.kernels
	f, err := alf.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	var p *alf.PictureParams
	if *pf.params != "" {
		p, err = readParams(*pf.params, &cfg)
	} else if *pf.set < 0 || *pf.set >= alf.NumFixedSets {
		err = fmt.Errorf("-set %d outside 0..%d", *pf.set, alf.NumFixedSets-1)
	} else {
		p = defaultParams(&cfg, *pf.set)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	if *pf.verbose {
		fmt.Fprintf(os.Stderr, "Loaded %s: %dx%d %v, %d-bit, %d CTUs of %d (%v)\n",
			path, cfg.Width, cfg.Height, cfg.Format, cfg.LumaBitDepth, cfg.NumCTUs(), cfg.CTUSize, loaded)
		fmt.Fprintf(os.Stderr, "Kernels: %s\n", f.Kernels().Name())
	}
	return pic, f, p, nil
}

func parseFormat(s string) (alf.ChromaFormat, error) {
	switch strings.TrimPrefix(s, "yuv") {
	case "400":
		return alf.Chroma400, nil
	case "420":
		return alf.Chroma420, nil
	case "422":
		return alf.Chroma422, nil
	case "444":
		return alf.Chroma444, nil
	default:
		return 0, fmt.Errorf("unknown chroma format %q (use 400/420/422/444)", s)
	}
}

// --- apply ---

func runApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	pf := addPictureFlags(fs)
	output := fs.String("o", "", "output path (.png, .jpg, .bmp, .tiff, .yuv or .yuv.zst)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("apply: missing input file\nUsage: alfpic apply [options] <input>")
	}
	inputPath := fs.Arg(0)
	outputPath := *output
	if outputPath == "" {
		outputPath = defaultOutput(inputPath)
	}

	pic, f, p, err := pf.load(inputPath)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	orig := pic.Clone(0)

	start := time.Now()
	if err := f.Process(pic, p); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	elapsed := time.Since(start)

	if isRaw(outputPath) {
		err = writeRaw(outputPath, pic, f.Config().LumaBitDepth)
	} else {
		err = writeImage(outputPath, pic, f.Config().LumaBitDepth)
	}
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Filtered %s → %s (%d luma samples changed)\n",
		inputPath, outputPath, changedSamples(orig, pic, alf.Y))
	if *pf.verbose {
		fmt.Fprintf(os.Stderr, "Process: %v\n", elapsed)
		r := quality.Compare(orig, pic, f.Config().LumaBitDepth)
		for c := 0; c < r.N; c++ {
			fmt.Fprintf(os.Stderr, "%-2s vs input: PSNR %.2f dB, SSIM %.4f\n", componentNames[c], r.PSNR[c], r.SSIM[c])
		}
	}
	return nil
}

var componentNames = [...]string{"Y", "Cb", "Cr"}

func defaultOutput(inputPath string) string {
	base := inputPath
	for _, ext := range []string{".zst", ".yuv", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"} {
		base = strings.TrimSuffix(base, ext)
	}
	if isRaw(inputPath) {
		return base + ".alf" + strings.TrimPrefix(inputPath, base)
	}
	return base + ".alf.png"
}

func changedSamples(a, b *alf.Picture, comp int) int {
	pa, pb := a.Planes[comp], b.Planes[comp]
	n := 0
	for y := 0; y < pa.Height; y++ {
		ra, rb := pa.Row(y), pb.Row(y)
		for x := range ra {
			if ra[x] != rb[x] {
				n++
			}
		}
	}
	return n
}

// --- classify ---

func runClassify(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	pf := addPictureFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("classify: missing input file\nUsage: alfpic classify [options] <input>")
	}
	inputPath := fs.Arg(0)

	pic, f, p, err := pf.load(inputPath)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	start := time.Now()
	m, err := f.Classify(pic, p)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	elapsed := time.Since(start)

	classes, transposes := m.Histogram()
	total := 0
	for _, n := range classes {
		total += n
	}
	fmt.Fprintf(w, "File:       %s\n", inputPath)
	fmt.Fprintf(w, "Blocks:     %d\n", total)
	fmt.Fprintf(w, "Class  Dir Act    Blocks  Share\n")
	for c, n := range classes {
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "%5d  %3d %3d  %8d  %5.1f%%\n", c, c/5, c%5, n, 100*float64(n)/float64(total))
	}
	fmt.Fprintf(w, "Transpose  Blocks\n")
	for t, n := range transposes {
		fmt.Fprintf(w, "%9d  %6d\n", t, n)
	}
	if *pf.verbose {
		fmt.Fprintf(os.Stderr, "Classify: %v\n", elapsed)
	}
	return nil
}

// --- kernels ---

func runKernels(w io.Writer) error {
	cfg := alf.DefaultConfig(16, 16)
	cfg.CTUSize = 16
	f, err := alf.New(cfg)
	if err != nil {
		return err
	}
	def := f.Kernels().Name()
	for _, name := range alf.KernelNames() {
		mark := ""
		if name == def {
			mark = " (default)"
		}
		fmt.Fprintf(w, "%s%s\n", name, mark)
	}
	return nil
}
