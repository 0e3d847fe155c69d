// internal/types/types.go
// Package types contains shared data types that have no CGO dependencies.
// This allows packages like the gateway client to use the entities without pulling in sqlite-vec.
package types

import (
	"errors"
)

// ErrUnavailable is returned when the knowledge base backend cannot serve a search
var ErrUnavailable = errors.New("knowledge base unavailable")

// Alpha is the hybrid blend weight between vector and keyword scores.
// 0 is pure keyword, 1 is pure vector.
const Alpha = 0.5

// DefaultSnippetLength is the number of runes kept from a project's full text
const DefaultSnippetLength = 200

// Project is a portfolio entry ready for presentation
type Project struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	CMS         string `json:"cms,omitempty"`
	Description string `json:"description"`
}

// Service is a price list entry ready for presentation
type Service struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Record is a raw hit returned by a store
type Record struct {
	ID     string
	Fields map[string]any
	Score  float64
}

// Collection selects one of the two searchable collections
type Collection struct {
	Name        string
	Fields      []string
	QueryFields []string
	Limit       int
}

var (
	Projects = Collection{
		Name:        "PortfolioProject",
		Fields:      []string{"title", "url", "full_text", "cms"},
		QueryFields: []string{"lemmatized_title", "lemmatized_text"},
		Limit:       3,
	}

	Services = Collection{
		Name:        "PriceList",
		Fields:      []string{"service", "price", "description"},
		QueryFields: []string{"lemmatized_service", "lemmatized_description"},
		Limit:       5,
	}
)

// HybridQuery is the store-level search request.
// A nil Vector means the embedding was not available and only keyword scoring applies.
type HybridQuery struct {
	Collection Collection
	Text       string
	Vector     []float32
	Limit      int
	Alpha      float64
}

// CollectionByName returns the collection with the given name
func CollectionByName(name string) (Collection, bool) {
	switch name {
	case Projects.Name:
		return Projects, true
	case Services.Name:
		return Services, true
	}
	return Collection{}, false
}
