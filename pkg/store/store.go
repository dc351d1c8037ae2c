// Package store archives compiled netlists. Each successful compilation can
// be persisted as a document keyed by a generated ID and by the content hash
// of the manifest that produced it, so a deployment can answer "has this
// exact circuit been compiled before" without recompiling.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is one archived compilation result.
type Document struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Hash    string `json:"hash" bson:"hash"`
	Netlist string `json:"netlist" bson:"netlist"`

	// Nodes maps each output node name to the "<component>.<terminal>"
	// references collapsed into it, in discovery order.
	Nodes map[string][]string `json:"nodes,omitempty" bson:"nodes,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewDocument creates a document with a fresh ID and timestamp.
func NewDocument(name, hash, netlist string, nodes map[string][]string) *Document {
	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Hash:      hash,
		Netlist:   netlist,
		Nodes:     nodes,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists compilation documents.
type Store interface {
	// Save archives a document.
	Save(ctx context.Context, doc *Document) error

	// Get retrieves a document by ID. A missing document is a
	// NETLIST_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Document, error)

	// FindByHash retrieves the most recent document for a manifest content
	// hash. A missing document is a NETLIST_NOT_FOUND error.
	FindByHash(ctx context.Context, hash string) (*Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
