package dsp

import (
	"sort"

	"golang.org/x/sys/cpu"
)

// Kernels is a classification and filtering strategy. Implementations are
// stateless and safe for concurrent use; all scratch lives in the args.
type Kernels interface {
	Name() string
	Classify(a *ClassifyArgs)
	Filter5x5(a *FilterArgs)
	Filter7x7(a *FilterArgs)
}

type reference struct{}

func (reference) Name() string { return "reference" }

func (reference) Classify(a *ClassifyArgs) { forEachTile(a, classifyTileReference) }

func (reference) Filter5x5(a *FilterArgs) { filter5x5Reference(a) }

func (reference) Filter7x7(a *FilterArgs) { filter7x7Reference(a) }

type lanes struct{}

func (lanes) Name() string { return "lanes" }

func (lanes) Classify(a *ClassifyArgs) { forEachTile(a, classifyTileLanes) }

func (lanes) Filter5x5(a *FilterArgs) { filterLanes(a, taps5x5[:], false) }

func (lanes) Filter7x7(a *FilterArgs) { filterLanes(a, taps7x7[:], true) }

var registry = map[string]Kernels{
	"reference": reference{},
	"lanes":     lanes{},
}

// Default is the strategy chosen for this CPU at init time.
var Default Kernels

func init() {
	Default = Select()
}

// Select picks a strategy from the detected CPU features.
func Select() Kernels {
	if cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
		return lanes{}
	}
	return reference{}
}

// Lookup returns the strategy registered under name. An empty name yields
// Default.
func Lookup(name string) (Kernels, bool) {
	if name == "" {
		return Default, true
	}
	k, ok := registry[name]
	return k, ok
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
