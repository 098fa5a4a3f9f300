package records

import (
	"context"
	"errors"
	"time"

	"github.com/sparshnfc/storefront/internal/docstore"
)

// Add inserts a document with creation and update timestamps stamped.
func (s *Service) Add(ctx context.Context, kind Kind, data docstore.Document) Created {
	doc := data.Clone()
	now := s.now().UTC().Format(time.RFC3339)
	doc["createdAt"] = now
	doc["updatedAt"] = now

	id, err := s.Store.Create(ctx, kind.Collection, doc)
	if err != nil {
		return Created{Success: false, Error: err.Error()}
	}
	return Created{Success: true, ID: id}
}

// Update merges partial fields into a document and stamps updatedAt.
func (s *Service) Update(ctx context.Context, kind Kind, id string, partial docstore.Document) Status {
	doc := partial.Clone()
	doc["updatedAt"] = s.now().UTC().Format(time.RFC3339)

	if err := s.Store.Update(ctx, kind.Collection, id, doc); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Status{Success: false, Error: kind.Singular + " not found"}
		}
		return Status{Success: false, Error: err.Error()}
	}
	return Status{Success: true}
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, kind Kind, id string) Status {
	if err := s.Store.Delete(ctx, kind.Collection, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Status{Success: false, Error: kind.Singular + " not found"}
		}
		return Status{Success: false, Error: err.Error()}
	}
	return Status{Success: true}
}

// SaveOrder creates an order document owned by a user: status starts at
// pending and the generated id is mirrored into the orderId field.
func (s *Service) SaveOrder(ctx context.Context, userID string, data docstore.Document) Created {
	doc := data.Clone()
	now := s.now().UTC().Format(time.RFC3339)
	doc["userId"] = userID
	doc["status"] = "pending"
	doc["createdAt"] = now
	doc["updatedAt"] = now

	id, err := s.Store.Create(ctx, Orders.Collection, doc)
	if err != nil {
		return Created{Success: false, Error: err.Error()}
	}

	// Best effort; the order exists either way.
	_ = s.Store.Update(ctx, Orders.Collection, id, docstore.Document{"orderId": id})

	return Created{Success: true, ID: id}
}
