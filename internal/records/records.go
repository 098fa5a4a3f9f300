// Package records reads and writes the product, order and user collections.
// Every read goes through the same degradation policy: try the index-backed
// ordered query, retry with the next candidate order field, and only when all
// ordered attempts fail for index-shaped reasons fall back to an unordered
// fetch sorted client-side. Records leave this package with a generated id
// attached and a non-null creation timestamp, so callers and exporters never
// null-check before sorting or formatting.
package records

import (
	"time"

	"github.com/sparshnfc/storefront/internal/docstore"
)

// Kind parameterizes the fetch policy per record collection: which fields can
// order the remote query (in priority order), which fields may carry the
// creation timestamp on legacy documents, and the result cap.
type Kind struct {
	Name        string
	Singular    string
	Collection  string
	OrderFields []string
	// TimeFields are consulted in priority order when normalizing; the first
	// one is also the field the synthesized timestamp is written to.
	TimeFields []string
	// AliasID optionally names a second field the generated id is copied to.
	AliasID string
	Limit   int
}

var (
	Products = Kind{
		Name:        "products",
		Singular:    "product",
		Collection:  "products",
		OrderFields: []string{"createdAt"},
		TimeFields:  []string{"createdAt", "updatedAt"},
	}

	Orders = Kind{
		Name:        "orders",
		Singular:    "order",
		Collection:  "orders",
		OrderFields: []string{"createdAt"},
		TimeFields:  []string{"createdAt", "updatedAt"},
		Limit:       100,
	}

	Users = Kind{
		Name:        "users",
		Singular:    "user",
		Collection:  "users",
		OrderFields: []string{"createdAt", "lastUpdated"},
		TimeFields:  []string{"createdAt", "lastUpdated"},
		AliasID:     "uid",
		Limit:       100,
	}
)

// Result is the structured outcome of a collection read. Success false with
// an empty list means "no data available", never "zero records exist".
type Result struct {
	Success bool                `json:"success"`
	Records []docstore.Document `json:"records"`
	Error   string              `json:"error,omitempty"`
}

// One is the structured outcome of a single-record read.
type One struct {
	Success bool              `json:"success"`
	Record  docstore.Document `json:"record,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Status is the structured outcome of a mutation.
type Status struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Created is the structured outcome of a document insert.
type Created struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Service applies the fetch policy over a document store.
type Service struct {
	Store docstore.Store

	// Now stamps created/updated fields and synthesizes missing timestamps;
	// tests pin it.
	Now func() time.Time
}

func NewService(store docstore.Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
