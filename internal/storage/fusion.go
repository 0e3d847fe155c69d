package storage

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// candidateFactor widens each leg so fusion has more than limit documents to rank
const candidateFactor = 4

// leg fetches up to limit records scored by one modality, best first
type leg func(ctx context.Context, limit int) ([]types.Record, error)

// emulateHybrid runs the keyword and vector legs concurrently and blends them with relative score fusion.
// A nil leg is skipped. When one leg fails the other is used alone; when both fail the keyword error is returned.
func emulateHybrid(ctx context.Context, q types.HybridQuery, keyword, vector leg) ([]types.Record, error) {
	if keyword == nil && vector == nil {
		return nil, nil
	}

	candidates := q.Limit * candidateFactor

	var kwRecs, vecRecs []types.Record
	var kwErr, vecErr error

	var wg sync.WaitGroup
	if keyword != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kwRecs, kwErr = keyword(ctx, candidates)
		}()
	}
	if vector != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vecRecs, vecErr = vector(ctx, candidates)
		}()
	}
	wg.Wait()

	alpha := q.Alpha
	switch {
	case kwErr != nil && vecErr != nil:
		return nil, fmt.Errorf("hybrid search: keyword=%w, vector=%v", kwErr, vecErr)
	case kwErr != nil && vector == nil:
		return nil, fmt.Errorf("keyword search: %w", kwErr)
	case vecErr != nil && keyword == nil:
		return nil, fmt.Errorf("vector search: %w", vecErr)
	case kwErr != nil || keyword == nil:
		alpha = 1
	case vecErr != nil || vector == nil:
		alpha = 0
	}

	return fuse(kwRecs, vecRecs, alpha, q.Limit), nil
}

// fuse min-max normalizes each list and ranks documents by alpha*vector + (1-alpha)*keyword
func fuse(keyword, vector []types.Record, alpha float64, limit int) []types.Record {
	type entry struct {
		rec   types.Record
		score float64
	}

	byID := make(map[string]*entry)
	var order []*entry

	add := func(recs []types.Record, weight float64) {
		norm := normalize(recs)
		for i, r := range recs {
			e, ok := byID[r.ID]
			if !ok {
				e = &entry{rec: r}
				byID[r.ID] = e
				order = append(order, e)
			}
			e.score += weight * norm[i]
		}
	}
	add(keyword, 1-alpha)
	add(vector, alpha)

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	out := make([]types.Record, 0, len(order))
	for _, e := range order {
		rec := e.rec
		rec.Score = e.score
		out = append(out, rec)
	}
	return out
}

func normalize(recs []types.Record) []float64 {
	norm := make([]float64, len(recs))
	if len(recs) == 0 {
		return norm
	}

	lo, hi := recs[0].Score, recs[0].Score
	for _, r := range recs[1:] {
		lo = min(lo, r.Score)
		hi = max(hi, r.Score)
	}

	for i, r := range recs {
		if hi == lo {
			norm[i] = 1
			continue
		}
		norm[i] = (r.Score - lo) / (hi - lo)
	}
	return norm
}

var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// keywordTerms extracts distinct lower-cased word terms safe to embed in full-text query syntax
func keywordTerms(text string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, t := range termPattern.FindAllString(strings.ToLower(text), -1) {
		if seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	return terms
}
