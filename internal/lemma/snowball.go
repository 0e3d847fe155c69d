package lemma

import (
	"unicode"

	"github.com/kljensen/snowball/english"
	"github.com/kljensen/snowball/russian"
)

// Snowball implements Lemmatizer with the Snowball Russian and English stemmers.
// It has no state and is safe for concurrent use.
type Snowball struct{}

// NewSnowball creates a Snowball lemmatizer
func NewSnowball() *Snowball {
	return &Snowball{}
}

func (s *Snowball) Lemmatize(text string) (lemmas []string) {
	defer func() {
		if r := recover(); r != nil {
			lemmas = nil
		}
	}()

	tokens := firstLine(text)
	if len(tokens) == 0 {
		return nil
	}

	lemmas = make([]string, 0, len(tokens))
	for _, tok := range tokens {
		lemmas = append(lemmas, stem(tok))
	}
	return lemmas
}

func stem(word string) string {
	switch script(word) {
	case unicode.Cyrillic:
		return russian.Stem(word, true)
	case unicode.Latin:
		return english.Stem(word, true)
	}
	return word
}

// script reports the first alphabetic script found in word, or nil for digits and underscores
func script(word string) *unicode.RangeTable {
	for _, r := range word {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			return unicode.Cyrillic
		case unicode.Is(unicode.Latin, r):
			return unicode.Latin
		}
	}
	return nil
}
