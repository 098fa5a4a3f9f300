package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memCollection struct {
	order []string
	docs  map[string]Document
}

// Memory is a map-backed Store. Documents keep insertion order, so unordered
// queries return the same sequence on every call. Ordered queries succeed
// only on fields registered through AllowSort; everything else reports
// ErrIndexUnavailable, mirroring a store whose composite indexes were never
// provisioned.
type Memory struct {
	mu       sync.RWMutex
	colls    map[string]*memCollection
	sortable map[string]map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		colls:    make(map[string]*memCollection),
		sortable: make(map[string]map[string]bool),
	}
}

// AllowSort marks fields of a collection as index-backed.
func (m *Memory) AllowSort(collection string, fields ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sortable[collection]
	if set == nil {
		set = make(map[string]bool)
		m.sortable[collection] = set
	}
	for _, f := range fields {
		set[f] = true
	}
}

func (m *Memory) coll(collection string) *memCollection {
	c := m.colls[collection]
	if c == nil {
		c = &memCollection{docs: make(map[string]Document)}
		m.colls[collection] = c
	}
	return c
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.colls[collection]
	if c == nil {
		return Snapshot{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	doc, ok := c.docs[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return Snapshot{ID: id, Data: doc.Clone()}, nil
}

func (m *Memory) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if q.OrderBy != "" && !m.sortable[collection][q.OrderBy] {
		return nil, fmt.Errorf("%s: no index for order by %q: %w", collection, q.OrderBy, ErrIndexUnavailable)
	}

	c := m.colls[collection]
	if c == nil {
		return []Snapshot{}, nil
	}

	out := make([]Snapshot, 0, len(c.order))
	for _, id := range c.order {
		doc := c.docs[id]
		if q.Filter != nil {
			if v, ok := doc[q.Filter.Field]; !ok || v != q.Filter.Value {
				continue
			}
		}
		out = append(out, Snapshot{ID: id, Data: doc.Clone()})
	}

	if q.OrderBy != "" {
		field := q.OrderBy
		sort.SliceStable(out, func(i, j int) bool {
			a := fmt.Sprint(out[i].Data[field])
			b := fmt.Sprint(out[j].Data[field])
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *Memory) Create(ctx context.Context, collection string, data Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	c := m.coll(collection)
	c.docs[id] = data.Clone()
	c.order = append(c.order, id)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, partial Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.colls[collection]
	if c == nil {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	doc, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	for k, v := range partial {
		doc[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.colls[collection]
	if c == nil {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	delete(c.docs, id)
	for i, got := range c.order {
		if got == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}
