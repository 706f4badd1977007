package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
)

// Document is one entry of the search index. ID is "<type>-<refId>".
type Document struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	RefID     uint   `json:"refId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Slug      string `json:"slug"`
	Views     int64  `json:"views"`
	CreatedAt int64  `json:"createdAt"`
}

// Query is an engine level search.
type Query struct {
	Keyword string
	Filter  string
	Sort    []string
	Offset  int64
	Limit   int64
}

// Engine is the search backend.
type Engine interface {
	Configure(ctx context.Context) error
	Search(ctx context.Context, q Query) ([]Document, int64, error)
	Upsert(ctx context.Context, docs []Document) error
	Delete(ctx context.Context, ids ...string) error
}

type meiliEngine struct {
	client meilisearch.ServiceManager
	index  string
}

func NewMeiliEngine(client meilisearch.ServiceManager, index string) Engine {
	return &meiliEngine{client: client, index: index}
}

// Configure declares the filterable and sortable attributes of the index.
func (e *meiliEngine) Configure(ctx context.Context) error {
	filterable := []any{"type"}
	if _, err := e.client.Index(e.index).UpdateFilterableAttributesWithContext(ctx, &filterable); err != nil {
		return fmt.Errorf("failed to update filterable attributes: %w", err)
	}

	sortable := []string{"createdAt", "views"}
	if _, err := e.client.Index(e.index).UpdateSortableAttributesWithContext(ctx, &sortable); err != nil {
		return fmt.Errorf("failed to update sortable attributes: %w", err)
	}
	return nil
}

func (e *meiliEngine) Search(ctx context.Context, q Query) ([]Document, int64, error) {
	req := &meilisearch.SearchRequest{
		Offset: q.Offset,
		Limit:  q.Limit,
	}
	if q.Filter != "" {
		req.Filter = q.Filter
	}
	if len(q.Sort) > 0 {
		req.Sort = q.Sort
	}

	resp, err := e.client.Index(e.index).SearchWithContext(ctx, q.Keyword, req)
	if err != nil {
		return nil, 0, err
	}

	// hits arrive as loosely typed maps
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, 0, err
	}
	docs := []Document{}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search hits: %w", err)
	}
	return docs, resp.EstimatedTotalHits, nil
}

func (e *meiliEngine) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := e.client.Index(e.index).AddDocumentsWithContext(ctx, docs, strPtr("id"))
	return err
}

func (e *meiliEngine) Delete(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := e.client.Index(e.index).DeleteDocumentWithContext(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
