package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/floodprep/pkg/scenario"
)

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	a := scenario.Artifacts{
		scenario.TerrainFile: []byte("dem"),
		scenario.ParamFile:   []byte("par"),
	}

	paths, err := WriteArtifacts(dir, a)
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != scenario.ParamFile {
		t.Errorf("paths = %v", paths)
	}
	data, err := os.ReadFile(filepath.Join(dir, scenario.TerrainFile))
	if err != nil || string(data) != "dem" {
		t.Errorf("terrain = %q, %v", data, err)
	}
}

func TestWriteArtifactsRejectsBadName(t *testing.T) {
	_, err := WriteArtifacts(t.TempDir(), scenario.Artifacts{"../escape": []byte("x")})
	if err == nil {
		t.Error("expected error for path traversal name")
	}
}
