package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/google/uuid"
)

// Without an explicit cap the remote default of 10 hits would silently
// truncate collections, so unbounded queries scan up to this many.
const defaultScanSize = 1000

// Elastic keeps each collection as an index and each document as one source
// body. Generated identifiers are uuids assigned at create time.
type Elastic struct {
	Client *elasticsearch.Client
}

func NewElastic(client *elasticsearch.Client) *Elastic {
	return &Elastic{Client: client}
}

func (e *Elastic) Get(ctx context.Context, collection, id string) (Snapshot, error) {
	res, err := e.Client.Get(collection, id, e.Client.Get.WithContext(ctx))
	if err != nil {
		return Snapshot{}, fmt.Errorf("docstore get %s/%s: %w", collection, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return Snapshot{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if res.IsError() {
		return Snapshot{}, apiError(collection, res)
	}

	var hit struct {
		ID     string   `json:"_id"`
		Source Document `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&hit); err != nil {
		return Snapshot{}, fmt.Errorf("docstore get %s/%s: decode: %w", collection, id, err)
	}
	return Snapshot{ID: hit.ID, Data: hit.Source}, nil
}

func (e *Elastic) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	size := q.Limit
	if size <= 0 {
		size = defaultScanSize
	}

	body := map[string]any{"size": size}
	if q.Filter != nil {
		body["query"] = map[string]any{
			"term": map[string]any{q.Filter.Field: q.Filter.Value},
		}
	} else {
		body["query"] = map[string]any{"match_all": map[string]any{}}
	}
	if q.OrderBy != "" {
		order := "asc"
		if q.Desc {
			order = "desc"
		}
		body["sort"] = []any{map[string]any{q.OrderBy: map[string]any{"order": order}}}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("docstore query %s: encode: %w", collection, err)
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(collection),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("docstore query %s: %w", collection, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apiError(collection, res)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID     string   `json:"_id"`
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("docstore query %s: decode: %w", collection, err)
	}

	out := make([]Snapshot, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		out = append(out, Snapshot{ID: hit.ID, Data: hit.Source})
	}
	return out, nil
}

func (e *Elastic) Create(ctx context.Context, collection string, data Document) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("docstore create %s: encode: %w", collection, err)
	}

	id := uuid.NewString()
	res, err := e.Client.Index(
		collection,
		bytes.NewReader(payload),
		e.Client.Index.WithDocumentID(id),
		e.Client.Index.WithContext(ctx),
		e.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return "", fmt.Errorf("docstore create %s: %w", collection, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", apiError(collection, res)
	}
	return id, nil
}

func (e *Elastic) Update(ctx context.Context, collection, id string, partial Document) error {
	payload, err := json.Marshal(map[string]any{"doc": partial})
	if err != nil {
		return fmt.Errorf("docstore update %s/%s: encode: %w", collection, id, err)
	}

	res, err := e.Client.Update(
		collection,
		id,
		bytes.NewReader(payload),
		e.Client.Update.WithContext(ctx),
		e.Client.Update.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("docstore update %s/%s: %w", collection, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if res.IsError() {
		return apiError(collection, res)
	}
	return nil
}

func (e *Elastic) Delete(ctx context.Context, collection, id string) error {
	res, err := e.Client.Delete(
		collection,
		id,
		e.Client.Delete.WithContext(ctx),
		e.Client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("docstore delete %s/%s: %w", collection, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if res.IsError() {
		return apiError(collection, res)
	}
	return nil
}

// apiError converts an error response body into either ErrIndexUnavailable,
// when the failure is index-shaped (missing index, unmapped or unindexed sort
// field), or a plain error carrying the remote reason.
func apiError(collection string, res *esapi.Response) error {
	raw, _ := io.ReadAll(res.Body)

	var body struct {
		Error struct {
			Type      string `json:"type"`
			Reason    string `json:"reason"`
			RootCause []struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"root_cause"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("docstore %s: %s: %s", collection, res.Status(), string(raw))
	}

	if indexShaped(body.Error.Type, body.Error.Reason) {
		return fmt.Errorf("%s: %s: %w", collection, body.Error.Reason, ErrIndexUnavailable)
	}
	for _, rc := range body.Error.RootCause {
		if indexShaped(rc.Type, rc.Reason) {
			return fmt.Errorf("%s: %s: %w", collection, rc.Reason, ErrIndexUnavailable)
		}
	}
	return fmt.Errorf("docstore %s: %s: %s", collection, body.Error.Type, body.Error.Reason)
}

func indexShaped(errType, reason string) bool {
	if errType == "index_not_found_exception" {
		return true
	}
	return strings.Contains(reason, "No mapping found") ||
		strings.Contains(reason, "Fielddata is disabled")
}
