package scenario

import (
	"sort"

	"github.com/matzehuels/floodprep/pkg/boundary"
)

// Artifact names.
const (
	TerrainFile  = "terrain.asc"
	FrictionFile = "friction.asc"
	RainFile     = boundary.RainFile
	BDYFile      = boundary.BDYFile
	ParamFile    = "run.par"
)

// Artifacts maps file names to contents. It is the sole output of a
// compilation.
type Artifacts map[string][]byte

// Names returns the artifact names in sorted order.
func (a Artifacts) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the total content size in bytes.
func (a Artifacts) Size() int {
	n := 0
	for _, data := range a {
		n += len(data)
	}
	return n
}

// Has reports whether name was produced.
func (a Artifacts) Has(name string) bool {
	_, ok := a[name]
	return ok
}
