package io

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/scenario"
)

// WriteArtifacts writes every artifact into dir, creating it if needed. It
// returns the written paths in name order.
func WriteArtifacts(dir string, a scenario.Artifacts) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	paths := make([]string, 0, len(a))
	for _, name := range a.Names() {
		if err := errors.ValidateArtifactName(name); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, a[name], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
