//go:build cgo

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// SQLite implements Store using a single SQLite file with sqlite-vec for cosine distance.
//
// Expected layout, one plain table per collection holding its fields, the lemmatized
// query fields and a JSON-encoded embedding:
//
//	portfolio_project(id INTEGER PRIMARY KEY, title, url, full_text, cms, lemmatized_title, lemmatized_text, embedding)
//	price_list(id INTEGER PRIMARY KEY, service, price REAL, description, lemmatized_service, lemmatized_description, embedding)
type SQLite struct {
	conn *sql.DB
}

var sqliteTables = map[string]string{
	types.Projects.Name: "portfolio_project",
	types.Services.Name: "price_list",
}

// NewSQLite opens an existing knowledge base file
func NewSQLite(path string) (*SQLite, error) {
	sqlite_vec.Auto()

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) Ready(ctx context.Context) bool {
	return s.conn.PingContext(ctx) == nil
}

func (s *SQLite) Hybrid(ctx context.Context, q types.HybridQuery) ([]types.Record, error) {
	table, ok := sqliteTables[q.Collection.Name]
	if !ok {
		return nil, fmt.Errorf("unknown collection: %s", q.Collection.Name)
	}

	var keyword, vector leg
	if terms := keywordTerms(q.Text); len(terms) > 0 {
		keyword = func(ctx context.Context, limit int) ([]types.Record, error) {
			return s.keywordSearch(ctx, table, q.Collection, terms, limit)
		}
	}
	if q.Vector != nil {
		vector = func(ctx context.Context, limit int) ([]types.Record, error) {
			return s.vectorSearch(ctx, table, q.Collection, q.Vector, limit)
		}
	}

	return emulateHybrid(ctx, q, keyword, vector)
}

// keywordSearch scores a row by the share of query terms found in its lemmatized fields
func (s *SQLite) keywordSearch(ctx context.Context, table string, c types.Collection, terms []string, limit int) ([]types.Record, error) {
	parts := make([]string, len(c.QueryFields))
	for i, f := range c.QueryFields {
		parts[i] = fmt.Sprintf("coalesce(%s, '')", f)
	}
	doc := "lower(" + strings.Join(parts, " || ' ' || ") + ")"

	hits := make([]string, len(terms))
	args := make([]interface{}, 0, len(terms)+1)
	for i, t := range terms {
		hits[i] = fmt.Sprintf("(instr(%s, ?) > 0)", doc)
		args = append(args, t)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT * FROM (
			SELECT %s, CAST(%s AS REAL) / %d AS score
			FROM %s
		)
		WHERE score > 0
		ORDER BY score DESC, id
		LIMIT ?
	`, sqliteColumns(c), strings.Join(hits, " + "), len(terms), table)

	return s.queryRecords(ctx, c, query, args...)
}

func (s *SQLite) vectorSearch(ctx context.Context, table string, c types.Collection, embedding []float32, limit int) ([]types.Record, error) {
	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, 1 - vec_distance_cosine(embedding, ?) AS score
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY score DESC
		LIMIT ?
	`, sqliteColumns(c), table)

	return s.queryRecords(ctx, c, query, string(embeddingJSON), limit)
}

func sqliteColumns(c types.Collection) string {
	return "id, " + strings.Join(c.Fields, ", ")
}

func (s *SQLite) queryRecords(ctx context.Context, c types.Collection, query string, args ...interface{}) ([]types.Record, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var id int64
		values := make([]interface{}, len(c.Fields))
		var score float64

		dest := make([]interface{}, 0, len(values)+2)
		dest = append(dest, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &score)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		rec := types.Record{ID: fmt.Sprint(id), Fields: make(map[string]any, len(values)), Score: score}
		for i, f := range c.Fields {
			switch v := values[i].(type) {
			case nil:
			case []byte:
				rec.Fields[f] = string(v)
			default:
				rec.Fields[f] = v
			}
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
