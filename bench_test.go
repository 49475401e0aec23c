package alf

import (
	"fmt"
	"math/rand"
	"testing"
)

func benchPicture(w, h int) *Picture {
	return noisyPicture(rand.New(rand.NewSource(1)), w, h, Chroma420)
}

func benchParams(cfg *Config) *PictureParams {
	ctu := NewCTUParams(cfg.NumCTUs())
	for i := range ctu.FilterSetIndex {
		ctu.FilterSetIndex[i] = uint8(i % 17)
	}
	return &PictureParams{
		Slice: SliceParams{Enabled: [3]bool{true, true, true}, LumaAPS: []int{1}, ChromaAPS: 1},
		CTU:   ctu,
		APS:   []*APS{testAPS(1)},
	}
}

func benchmarkProcess(b *testing.B, w, h int, kernels string, workers int) {
	cfg := DefaultConfig(w, h)
	cfg.Kernels = kernels
	cfg.Workers = workers
	f, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	pic := benchPicture(w, h)
	p := benchParams(&cfg)
	b.SetBytes(int64(w * h * 3 / 2 * 2))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := f.Process(pic, p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcess_720p(b *testing.B) {
	for _, k := range KernelNames() {
		b.Run(k, func(b *testing.B) { benchmarkProcess(b, 1280, 720, k, 0) })
	}
}

func BenchmarkProcess_1080p_Workers(b *testing.B) {
	for _, n := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", n), func(b *testing.B) { benchmarkProcess(b, 1920, 1080, "", n) })
	}
}

func BenchmarkClassify_1080p(b *testing.B) {
	cfg := DefaultConfig(1920, 1080)
	f, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	pic := benchPicture(1920, 1080)
	b.SetBytes(1920 * 1080 * 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.Classify(pic, &PictureParams{}); err != nil {
			b.Fatal(err)
		}
	}
}
