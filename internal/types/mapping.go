package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	defaultTitle       = "No Title"
	defaultServiceName = "Unknown Service"
	snippetMarker      = "..."
)

// ProjectFromFields builds a Project from raw store fields, substituting defaults for missing values
func ProjectFromFields(fields map[string]any, snippetLen int) Project {
	title := stringField(fields, "title")
	if title == "" {
		title = defaultTitle
	}

	return Project{
		Title:       title,
		URL:         stringField(fields, "url"),
		CMS:         stringField(fields, "cms"),
		Description: Snippet(stringField(fields, "full_text"), snippetLen),
	}
}

// ServiceFromFields builds a Service from raw store fields, substituting defaults for missing values
func ServiceFromFields(fields map[string]any) Service {
	name := stringField(fields, "service")
	if name == "" {
		name = defaultServiceName
	}

	return Service{
		Name:        name,
		Price:       Price(fields["price"]),
		Description: stringField(fields, "description"),
	}
}

// Snippet bounds text to limit runes with line breaks turned into spaces.
// Text longer than limit is cut and gets a trailing "..." marker.
func Snippet(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultSnippetLength
	}

	runes := []rune(text)
	truncated := len(runes) > limit
	if truncated {
		runes = runes[:limit]
	}

	for i, r := range runes {
		if r == '\n' || r == '\r' {
			runes[i] = ' '
		}
	}

	if truncated {
		return string(runes) + snippetMarker
	}
	return string(runes)
}

// Price coerces a numeric-like value into a non-negative float64
func Price(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case fmt.Stringer:
		return Price(n.String())
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
