package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// Postgres implements Store using PostgreSQL full-text search and pgvector.
//
// Expected layout, one table per collection:
//
//	portfolio_project(id, title, url, full_text, cms, lemmatized_title, lemmatized_text, embedding vector)
//	price_list(id, service, price, description, lemmatized_service, lemmatized_description, embedding vector)
type Postgres struct {
	pool *pgxpool.Pool
}

var postgresTables = map[string]string{
	types.Projects.Name: "portfolio_project",
	types.Services.Name: "price_list",
}

// NewPostgres creates a new Postgres store
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) Ready(ctx context.Context) bool {
	return p.pool.Ping(ctx) == nil
}

func (p *Postgres) Hybrid(ctx context.Context, q types.HybridQuery) ([]types.Record, error) {
	table, ok := postgresTables[q.Collection.Name]
	if !ok {
		return nil, fmt.Errorf("unknown collection: %s", q.Collection.Name)
	}

	var keyword, vector leg
	if terms := keywordTerms(q.Text); len(terms) > 0 {
		keyword = func(ctx context.Context, limit int) ([]types.Record, error) {
			return p.keywordSearch(ctx, table, q.Collection, terms, limit)
		}
	}
	if q.Vector != nil {
		vector = func(ctx context.Context, limit int) ([]types.Record, error) {
			return p.vectorSearch(ctx, table, q.Collection, q.Vector, limit)
		}
	}

	return emulateHybrid(ctx, q, keyword, vector)
}

func (p *Postgres) keywordSearch(ctx context.Context, table string, c types.Collection, terms []string, limit int) ([]types.Record, error) {
	parts := make([]string, len(c.QueryFields))
	for i, f := range c.QueryFields {
		parts[i] = fmt.Sprintf("coalesce(%s, '')", pgx.Identifier{f}.Sanitize())
	}
	doc := fmt.Sprintf("to_tsvector('simple', %s)", strings.Join(parts, " || ' ' || "))

	query := fmt.Sprintf(`
		SELECT %s, ts_rank(%s, q)::float8 AS score
		FROM %s, to_tsquery('simple', $1) q
		WHERE %s @@ q
		ORDER BY score DESC
		LIMIT $2
	`, postgresColumns(c), doc, pgx.Identifier{table}.Sanitize(), doc)

	return p.queryRecords(ctx, c, query, strings.Join(terms, " | "), limit)
}

func (p *Postgres) vectorSearch(ctx context.Context, table string, c types.Collection, embedding []float32, limit int) ([]types.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s, (1 - (embedding <=> $1))::float8 AS score
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, postgresColumns(c), pgx.Identifier{table}.Sanitize())

	return p.queryRecords(ctx, c, query, pgvector.NewVector(embedding), limit)
}

// postgresColumns selects the id and every collection field as text, leaving coercion to the mappers
func postgresColumns(c types.Collection) string {
	cols := make([]string, 0, len(c.Fields)+1)
	cols = append(cols, "id::text")
	for _, f := range c.Fields {
		cols = append(cols, pgx.Identifier{f}.Sanitize()+"::text")
	}
	return strings.Join(cols, ", ")
}

func (p *Postgres) queryRecords(ctx context.Context, c types.Collection, query string, args ...interface{}) ([]types.Record, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var id string
		fields := make([]*string, len(c.Fields))
		var score float64

		dest := make([]interface{}, 0, len(fields)+2)
		dest = append(dest, &id)
		for i := range fields {
			dest = append(dest, &fields[i])
		}
		dest = append(dest, &score)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		rec := types.Record{ID: id, Fields: make(map[string]any, len(fields)), Score: score}
		for i, f := range c.Fields {
			if fields[i] != nil {
				rec.Fields[f] = *fields[i]
			}
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
