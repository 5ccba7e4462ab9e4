package frame

import (
	"path/filepath"
	"strconv"
	"strings"
)

// DepthSuffix ends every water depth grid written by the solver.
const DepthSuffix = ".wd.asc"

// DefaultResRoot is the solver's default result file prefix.
const DefaultResRoot = "res"

// FrameID returns the first run of decimal digits in the base name of path,
// or 0 when there is none.
func FrameID(path string) int {
	name := filepath.Base(path)
	start := strings.IndexAny(name, "0123456789")
	if start < 0 {
		return 0
	}
	end := start
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	id, err := strconv.Atoi(name[start:end])
	if err != nil {
		return 0
	}
	return id
}

// IsDepthFile reports whether path names a depth grid for resroot, i.e. its
// base name looks like <resroot>-*.wd.asc. An empty resroot selects
// DefaultResRoot.
func IsDepthFile(path, resroot string) bool {
	if resroot == "" {
		resroot = DefaultResRoot
	}
	name := filepath.Base(path)
	return strings.HasPrefix(name, resroot+"-") && strings.HasSuffix(name, DepthSuffix)
}
