// Package docstore abstracts the remote document database: schemaless
// collections of field bags keyed by generated identifiers. Ordered queries
// may be unserveable when the backing index was never provisioned; callers
// that care distinguish that condition through ErrIndexUnavailable.
package docstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrIndexUnavailable reports an ordered query the store cannot serve
	// because the index behind the sort field is missing. Recoverable by
	// fetching unordered and sorting client-side.
	ErrIndexUnavailable = errors.New("index unavailable")
)

// Document is an opaque field bag. Values are JSON scalars, maps and slices.
type Document map[string]any

func (d Document) Clone() Document {
	out := make(Document, len(d)+2)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Snapshot pairs a document with its generated identifier. The identifier
// lives outside the field bag, the way the remote store keys documents.
type Snapshot struct {
	ID   string
	Data Document
}

type Filter struct {
	Field string
	Value any
}

type Query struct {
	Filter  *Filter
	OrderBy string
	Desc    bool
	Limit   int
}

type Store interface {
	Get(ctx context.Context, collection, id string) (Snapshot, error)
	Query(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	Create(ctx context.Context, collection string, data Document) (string, error)
	Update(ctx context.Context, collection, id string, partial Document) error
	Delete(ctx context.Context, collection, id string) error
}
