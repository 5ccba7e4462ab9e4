package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	fperrors "github.com/matzehuels/floodprep/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, exitOK},
		{"Canceled", fmt.Errorf("compile: %w", context.Canceled), exitInterrupted},
		{"InvalidScenario", fperrors.New(fperrors.ErrCodeInvalidScenario, "no terrain"), exitInvalid},
		{"InvalidFrame", fperrors.New(fperrors.ErrCodeInvalidFrame, "2 of 3 frames failed"), exitInvalid},
		{"NotFound", fperrors.New(fperrors.ErrCodeFileNotFound, "missing"), exitFailure},
		{"Plain", errors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewRootVerbose(t *testing.T) {
	root := newRoot()
	if root.PersistentFlags().Lookup("verbose") == nil {
		t.Fatal("--verbose not registered")
	}
	root.SetArgs([]string{"--verbose", "cache", "path"})
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Errorf("execute: %v", err)
	}
}
