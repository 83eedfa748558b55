// Package store keeps a history of rendered diagrams.
//
// A [Record] describes one render: which diagram was drawn (by content hash),
// its size, and the formats produced. The render service saves a record per
// request and serves them back on /renders.
//
// Two backends are provided:
//   - [MemoryStore]: process-local, for the CLI and tests
//   - [MongoStore]: MongoDB-backed, shared across service instances
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record describes a single render.
type Record struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	DiagramHash string    `json:"diagram_hash" bson:"diagram_hash"`
	Formats     []string  `json:"formats" bson:"formats"`
	Nodes       int       `json:"nodes" bson:"nodes"`
	Groups      int       `json:"groups" bson:"groups"`
	Edges       int       `json:"edges" bson:"edges"`
	Width       float64   `json:"width" bson:"width"`
	Height      float64   `json:"height" bson:"height"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord returns a record with a fresh ID and creation time.
func NewRecord(title, diagramHash string) *Record {
	return &Record{
		ID:          uuid.NewString(),
		Title:       title,
		DiagramHash: diagramHash,
		CreatedAt:   time.Now().UTC(),
	}
}

// Store is the interface for render history backends.
type Store interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)

	Close() error
}

// validID reports whether id is a well-formed record identifier.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
