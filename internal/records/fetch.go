package records

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/logging"
)

// Option narrows a collection read.
type Option func(*docstore.Query)

// WithFilter keeps only records whose field equals value.
func WithFilter(field string, value any) Option {
	return func(q *docstore.Query) {
		q.Filter = &docstore.Filter{Field: field, Value: value}
	}
}

// WithLimit overrides the kind's result cap.
func WithLimit(n int) Option {
	return func(q *docstore.Query) {
		q.Limit = n
	}
}

// FetchAll reads a collection newest-first.
//
// The ordered query runs against each candidate order field in turn; a
// candidate is skipped only when the store reports the index as unavailable.
// Any other failure (permission, transport) surfaces as a Success:false
// result immediately rather than masquerading as a missing index. When no
// candidate can be served the same filtered collection is fetched unordered
// and sorted here, which matches the ordered result whenever timestamps are
// well-formed.
func (s *Service) FetchAll(ctx context.Context, kind Kind, opts ...Option) Result {
	base := docstore.Query{Limit: kind.Limit}
	for _, opt := range opts {
		opt(&base)
	}

	log := logging.FromContext(ctx)

	var snaps []docstore.Snapshot
	ordered := false
	for _, field := range kind.OrderFields {
		q := base
		q.OrderBy = field
		q.Desc = true

		got, err := s.Store.Query(ctx, kind.Collection, q)
		if err == nil {
			snaps = got
			ordered = true
			break
		}
		if errors.Is(err, docstore.ErrIndexUnavailable) {
			log.Warn("ordered query unavailable", "kind", kind.Name, "order_by", field, "error", err)
			continue
		}
		log.Error("fetch failed", "kind", kind.Name, "error", err)
		return Result{Success: false, Error: err.Error(), Records: []docstore.Document{}}
	}

	if !ordered {
		// The cap must apply to the newest records, which the store cannot
		// identify without the index. Fetch everything and cut after sorting.
		q := base
		q.Limit = 0
		got, err := s.Store.Query(ctx, kind.Collection, q)
		if err != nil {
			log.Error("fetch failed", "kind", kind.Name, "error", err)
			return Result{Success: false, Error: err.Error(), Records: []docstore.Document{}}
		}
		snaps = got
	}

	type keyed struct {
		doc  docstore.Document
		when time.Time
	}
	items := make([]keyed, 0, len(snaps))
	for _, snap := range snaps {
		doc, when := s.normalize(kind, snap)
		items = append(items, keyed{doc: doc, when: when})
	}

	if !ordered {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].when.After(items[j].when)
		})
		if base.Limit > 0 && len(items) > base.Limit {
			items = items[:base.Limit]
		}
	}

	docs := make([]docstore.Document, 0, len(items))
	for _, it := range items {
		docs = append(docs, it.doc)
	}
	return Result{Success: true, Records: docs}
}

// FetchOne reads a single record by id.
func (s *Service) FetchOne(ctx context.Context, kind Kind, id string) One {
	snap, err := s.Store.Get(ctx, kind.Collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return One{Success: false, Error: kind.Singular + " not found"}
		}
		return One{Success: false, Error: err.Error()}
	}
	doc, _ := s.normalize(kind, snap)
	return One{Success: true, Record: doc}
}

// normalize attaches the generated id and guarantees a parseable creation
// timestamp, synthesized from the current time when every candidate field is
// absent. The returned sort key is taken from the record as stored: missing
// or malformed timestamps key as the epoch so they order after every dated
// record.
func (s *Service) normalize(kind Kind, snap docstore.Snapshot) (docstore.Document, time.Time) {
	doc := snap.Data.Clone()
	doc["id"] = snap.ID
	if kind.AliasID != "" {
		doc[kind.AliasID] = snap.ID
	}

	key := time.Time{}
	found := false
	for _, field := range kind.TimeFields {
		raw, ok := stringField(doc, field)
		if !ok {
			continue
		}
		found = true
		doc[kind.TimeFields[0]] = raw
		key = parseWhen(raw)
		break
	}
	if !found && len(kind.TimeFields) > 0 {
		doc[kind.TimeFields[0]] = s.now().UTC().Format(time.RFC3339)
	}

	return doc, key
}

func stringField(doc docstore.Document, field string) (string, bool) {
	v, ok := doc[field]
	if !ok || v == nil {
		return "", false
	}
	raw, ok := v.(string)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

// parseWhen accepts the timestamp shapes legacy records carry. Anything
// unparseable is the epoch, which sorts last.
func parseWhen(raw string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
