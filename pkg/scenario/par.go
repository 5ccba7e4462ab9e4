package scenario

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/matzehuels/floodprep/pkg/raster"
)

type parEntry struct {
	key string
	val any
}

// parDefaults returns the solver defaults in emission order.
func parDefaults(fpfric float64) []parEntry {
	return []parEntry{
		{"demfile", TerrainFile},
		{"resroot", "res"},
		{"dirroot", "results"},
		{"sim_time", 3600},
		{"initial_tstep", 1.0},
		{"massint", 60.0},
		{"saveint", 60.0},
		{"FPfric", fpfric},
		{"acceleration", "ON"},
		{"adaptoff", "ON"},
	}
}

// ParFile renders run.par.
//
// Overrides replace defaults in place; keys the defaults do not know are
// appended in sorted order. frictionfile, rainfile and bdyfile follow, each
// only when the matching artifact exists. An empty string value writes the
// bare keyword.
func ParFile(overrides map[string]any, hasFriction, hasRain, hasBoundaries bool) []byte {
	return parFile(overrides, raster.DefaultRoughness, hasFriction, hasRain, hasBoundaries)
}

func parFile(overrides map[string]any, fpfric float64, hasFriction, hasRain, hasBoundaries bool) []byte {
	entries := parDefaults(fpfric)
	known := make(map[string]int, len(entries))
	for i, e := range entries {
		known[e.key] = i
	}

	extra := make([]string, 0, len(overrides))
	for key, val := range overrides {
		if i, ok := known[key]; ok {
			entries[i].val = val
			continue
		}
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		entries = append(entries, parEntry{key, overrides[key]})
	}

	if hasFriction {
		entries = append(entries, parEntry{"frictionfile", FrictionFile})
	}
	if hasRain {
		entries = append(entries, parEntry{"rainfile", RainFile})
	}
	if hasBoundaries {
		entries = append(entries, parEntry{"bdyfile", BDYFile})
	}

	var buf bytes.Buffer
	for _, e := range entries {
		val := formatParValue(e.val)
		if val == "" {
			fmt.Fprintf(&buf, "%s\n", e.key)
			continue
		}
		fmt.Fprintf(&buf, "%-20s %s\n", e.key, val)
	}
	return buf.Bytes()
}

func formatParValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// validParKey reports whether key can be written as a parameter name.
func validParKey(key string) bool {
	if key == "" || len(key) > 64 {
		return false
	}
	for _, r := range key {
		if !(r == '_' || r == '-' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
