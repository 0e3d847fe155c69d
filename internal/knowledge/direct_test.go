package knowledge_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MereWhiplash/portfolio-search/internal/knowledge"
	"github.com/MereWhiplash/portfolio-search/internal/query"
	"github.com/MereWhiplash/portfolio-search/internal/storage"
	"github.com/MereWhiplash/portfolio-search/internal/types"
)

type fakeStore struct {
	mu      sync.Mutex
	ready   bool
	records []types.Record
	err     error
	queries []types.HybridQuery
}

func (f *fakeStore) Ready(ctx context.Context) bool { return f.ready }

func (f *fakeStore) Hybrid(ctx context.Context, q types.HybridQuery) ([]types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.records, f.err
}

func (f *fakeStore) Close() error { return nil }

type upperLemmatizer struct{}

func (upperLemmatizer) Lemmatize(text string) []string {
	return strings.Fields(strings.ToUpper(text))
}

type fixedVectorizer struct{ vec []float32 }

func (v fixedVectorizer) Vector(ctx context.Context, text string) []float32 { return v.vec }

func newDirect(store *fakeStore, vec []float32, opts ...knowledge.Option) *knowledge.Direct {
	return knowledge.NewDirect(store, query.NewPreparer(upperLemmatizer{}, fixedVectorizer{vec: vec}), opts...)
}

func TestDirect_SearchProjects(t *testing.T) {
	store := &fakeStore{
		ready: true,
		records: []types.Record{
			{ID: "1", Fields: map[string]any{"title": "ABC Store", "url": "http://abc.example", "full_text": strings.Repeat("x", 300)}, Score: 0.9},
			{ID: "2", Fields: map[string]any{"full_text": "short"}, Score: 0.4},
		},
	}
	d := newDirect(store, []float32{0.1, 0.2})

	projects, err := d.SearchProjects(context.Background(), "building materials")
	require.NoError(t, err)
	require.Len(t, projects, 2)

	assert.Equal(t, "ABC Store", projects[0].Title)
	assert.Equal(t, strings.Repeat("x", 200)+"...", projects[0].Description)
	assert.Equal(t, "No Title", projects[1].Title)

	require.Len(t, store.queries, 1)
	q := store.queries[0]
	assert.Equal(t, types.Projects.Name, q.Collection.Name)
	assert.Equal(t, "BUILDING MATERIALS", q.Text)
	assert.Equal(t, []float32{0.1, 0.2}, q.Vector)
	assert.Equal(t, 3, q.Limit)
	assert.Equal(t, 0.5, q.Alpha)
}

func TestDirect_SearchServices(t *testing.T) {
	store := &fakeStore{
		ready: true,
		records: []types.Record{
			{ID: "1", Fields: map[string]any{"service": "Hosting", "price": 500.0, "description": "per month"}},
		},
	}
	d := newDirect(store, nil)

	services, err := d.SearchServices(context.Background(), "hosting")
	require.NoError(t, err)
	assert.Equal(t, []types.Service{{Name: "Hosting", Price: 500, Description: "per month"}}, services)

	require.Len(t, store.queries, 1)
	assert.Equal(t, 5, store.queries[0].Limit)
	assert.Nil(t, store.queries[0].Vector)
}

func TestDirect_NotReady(t *testing.T) {
	store := &fakeStore{ready: false}
	d := newDirect(store, nil)

	projects, err := d.SearchProjects(context.Background(), "anything")
	assert.ErrorIs(t, err, types.ErrUnavailable)
	assert.Empty(t, projects)
	assert.Empty(t, store.queries)
}

func TestDirect_StoreErrorIsUnavailable(t *testing.T) {
	store := &fakeStore{ready: true, err: errors.New("connection reset")}
	d := newDirect(store, nil)

	services, err := d.SearchServices(context.Background(), "hosting")
	assert.ErrorIs(t, err, types.ErrUnavailable)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, services)
}

func TestDirect_EmptyResults(t *testing.T) {
	d := newDirect(&fakeStore{ready: true}, nil)

	projects, err := d.SearchProjects(context.Background(), "nothing matches")
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDirect_SnippetLengthOption(t *testing.T) {
	store := &fakeStore{
		ready:   true,
		records: []types.Record{{Fields: map[string]any{"title": "t", "full_text": "abcdefghij"}}},
	}
	d := newDirect(store, nil, knowledge.WithSnippetLength(4))

	projects, err := d.SearchProjects(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "abcd...", projects[0].Description)
}

func TestDirect_Records(t *testing.T) {
	store := &fakeStore{ready: true, records: []types.Record{{ID: "7", Fields: map[string]any{"service": "Audit"}}}}
	d := newDirect(store, nil)

	records, err := d.Records(context.Background(), types.Services, "audit", 2, 0.8)
	require.NoError(t, err)
	assert.Equal(t, "7", records[0].ID)
	assert.Equal(t, 2, store.queries[0].Limit)
	assert.Equal(t, 0.8, store.queries[0].Alpha)
}

// slowReadyStore blocks in Ready until ctx is done
type slowReadyStore struct {
	fakeStore
}

func (s *slowReadyStore) Ready(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(3 * time.Second):
		return true
	}
}

func TestDirect_ReadyBoundedByQueryTimeout(t *testing.T) {
	store := &slowReadyStore{}
	d := knowledge.NewDirect(store, query.NewPreparer(upperLemmatizer{}, fixedVectorizer{}),
		knowledge.WithQueryTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := d.SearchProjects(context.Background(), "shop")
	assert.ErrorIs(t, err, types.ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, store.queries)

	start = time.Now()
	assert.False(t, d.Ready(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestDirect_WeaviateSlowReadyEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/.well-known/ready" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"version":"1.25.0"}`))
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	store, err := storage.NewWeaviate(strings.TrimPrefix(srv.URL, "http://"), "http", "")
	require.NoError(t, err)

	d := knowledge.NewDirect(store, query.NewPreparer(upperLemmatizer{}, fixedVectorizer{}),
		knowledge.WithQueryTimeout(200*time.Millisecond))

	start := time.Now()
	_, err = d.SearchServices(context.Background(), "hosting")
	assert.ErrorIs(t, err, types.ErrUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}
