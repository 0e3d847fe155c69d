package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// Weaviate implements Store with Weaviate's native hybrid search.
// Fusion of the BM25 and vector legs happens server-side.
type Weaviate struct {
	client *weaviate.Client
}

// NewWeaviate creates a Weaviate store. host is "name:port"; scheme defaults to http.
func NewWeaviate(host, scheme, apiKey string) (*Weaviate, error) {
	if scheme == "" {
		scheme = "http"
	}

	cfg := weaviate.Config{Host: host, Scheme: scheme}
	if apiKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: apiKey}
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	return &Weaviate{client: client}, nil
}

func (w *Weaviate) Ready(ctx context.Context) bool {
	ready, err := w.client.Misc().ReadyChecker().Do(ctx)
	return err == nil && ready
}

func (w *Weaviate) Close() error {
	return nil
}

func (w *Weaviate) Hybrid(ctx context.Context, q types.HybridQuery) ([]types.Record, error) {
	c := q.Collection

	hybrid := w.client.GraphQL().HybridArgumentBuilder().
		WithQuery(q.Text).
		WithAlpha(float32(q.Alpha)).
		WithProperties(c.QueryFields)
	if q.Vector != nil {
		hybrid = hybrid.WithVector(q.Vector)
	}

	fields := make([]graphql.Field, 0, len(c.Fields)+1)
	for _, f := range c.Fields {
		fields = append(fields, graphql.Field{Name: f})
	}
	fields = append(fields, graphql.Field{
		Name:   "_additional",
		Fields: []graphql.Field{{Name: "id"}, {Name: "score"}},
	})

	resp, err := w.client.GraphQL().Get().
		WithClassName(c.Name).
		WithFields(fields...).
		WithHybrid(hybrid).
		WithLimit(q.Limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run hybrid query: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("hybrid query failed: %s", strings.Join(msgs, "; "))
	}

	get, _ := resp.Data["Get"].(map[string]interface{})
	objects, _ := get[c.Name].([]interface{})

	records := make([]types.Record, 0, len(objects))
	for _, o := range objects {
		obj, ok := o.(map[string]interface{})
		if !ok {
			continue
		}
		records = append(records, weaviateRecord(obj, c))
	}
	return records, nil
}

func weaviateRecord(obj map[string]interface{}, c types.Collection) types.Record {
	rec := types.Record{Fields: make(map[string]any, len(c.Fields))}
	for _, f := range c.Fields {
		if v, ok := obj[f]; ok && v != nil {
			rec.Fields[f] = v
		}
	}

	additional, _ := obj["_additional"].(map[string]interface{})
	if id, ok := additional["id"].(string); ok {
		rec.ID = id
	}
	// score comes back as a string
	switch s := additional["score"].(type) {
	case string:
		rec.Score, _ = strconv.ParseFloat(s, 64)
	case float64:
		rec.Score = s
	}
	return rec
}
