// Package lemma turns free text into a sequence of normalized word forms.
package lemma

import (
	"fmt"
	"regexp"
	"strings"
)

// Lemmatizer maps text to lemmas. An empty result means the caller should fall back to the raw text.
type Lemmatizer interface {
	Lemmatize(text string) []string
}

// Config selects and configures a Lemmatizer backend
type Config struct {
	Backend    string // "mystem" (default), "snowball"
	MystemPath string
}

// New creates a Lemmatizer based on config.
// Mystem yields dictionary lemmas matching the lemmatized_* fields of the collections.
// Snowball yields stems and only matches collections indexed with the same stemmer.
// Backends that hold a process implement io.Closer.
func New(cfg Config) (Lemmatizer, error) {
	switch cfg.Backend {
	case "", "mystem":
		return NewMystem(cfg.MystemPath)
	case "snowball":
		return NewSnowball(), nil
	default:
		return nil, fmt.Errorf("unknown lemmatizer backend: %s", cfg.Backend)
	}
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// firstLine strips punctuation, lower-cases and returns the whitespace tokens of the first line
func firstLine(text string) []string {
	cleaned := strings.ToLower(nonWord.ReplaceAllString(text, " "))
	line, _, _ := strings.Cut(cleaned, "\n")
	return strings.Fields(line)
}
