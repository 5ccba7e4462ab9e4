// Package store persists compiled runs.
//
// A [Run] is one compilation: its identity, the grid it produced, boundary
// warnings and the artifact files. Backends:
//   - [FileStore]: JSON files in a directory, for the CLI and single-node servers
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// # Usage
//
//	st, err := store.NewFileStore("")  // ~/.local/share/floodprep/runs
//	run := store.NewRun(name, hash, header, artifacts)
//	if err := st.Save(ctx, run); err != nil {
//	    return err
//	}
//	run, err = st.Get(ctx, run.ID)
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/floodprep/pkg/boundary"
	"github.com/matzehuels/floodprep/pkg/geom"
	"github.com/matzehuels/floodprep/pkg/scenario"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit caps List when the caller passes limit <= 0.
const DefaultListLimit = 50

// Run is a persisted compilation.
type Run struct {
	ID        string             `json:"id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Hash      string             `json:"hash" bson:"hash"`
	Header    geom.Header        `json:"header" bson:"header"`
	Warnings  []boundary.Warning `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Artifacts scenario.Artifacts `json:"artifacts" bson:"-"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// NewRun creates a run with a fresh random ID.
func NewRun(name, hash string, header geom.Header, artifacts scenario.Artifacts) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Name:      name,
		Hash:      hash,
		Header:    header,
		Artifacts: artifacts,
		CreatedAt: time.Now().UTC(),
	}
}

// Summary is a Run without artifact contents.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Hash      string    `json:"hash"`
	Artifacts []string  `json:"artifacts"`
	Warnings  int       `json:"warnings"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the listing view of r.
func (r *Run) Summary() Summary {
	return Summary{
		ID:        r.ID,
		Name:      r.Name,
		Hash:      r.Hash,
		Artifacts: r.Artifacts.Names(),
		Warnings:  len(r.Warnings),
		CreatedAt: r.CreatedAt,
	}
}

// Store is the interface for run storage backends.
type Store interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
