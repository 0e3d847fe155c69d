// Package query prepares free-text queries for hybrid search.
package query

import (
	"context"
	"strings"

	"github.com/MereWhiplash/portfolio-search/internal/lemma"
)

// Vectorizer returns an embedding for text, or nil when none is available
type Vectorizer interface {
	Vector(ctx context.Context, text string) []float32
}

// Prepared is the keyword text and optional vector used for one hybrid search
type Prepared struct {
	Lemmatized string
	Vector     []float32
}

// Preparer combines a lemmatizer and an embedder
type Preparer struct {
	lemmatizer lemma.Lemmatizer
	vectorizer Vectorizer
}

// NewPreparer creates a Preparer. A nil vectorizer disables the vector part of the search.
func NewPreparer(l lemma.Lemmatizer, v Vectorizer) *Preparer {
	return &Preparer{lemmatizer: l, vectorizer: v}
}

// Prepare lemmatizes q while its embedding is fetched.
// Either part may degrade: lemmas fall back to q, the vector to nil.
func (p *Preparer) Prepare(ctx context.Context, q string) Prepared {
	vecCh := make(chan []float32, 1)
	go func() {
		if p.vectorizer == nil {
			vecCh <- nil
			return
		}
		vecCh <- p.vectorizer.Vector(ctx, q)
	}()

	lemmatized := q
	if p.lemmatizer != nil {
		if tokens := p.lemmatizer.Lemmatize(q); len(tokens) > 0 {
			lemmatized = strings.Join(tokens, " ")
		}
	}

	return Prepared{
		Lemmatized: lemmatized,
		Vector:     <-vecCh,
	}
}
