// Package render turns search results into the plain-text answers returned by the tools.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// Unavailable is the answer given when the knowledge base cannot be reached
const Unavailable = "Error: Knowledge base unavailable."

const (
	noProjects = "No projects found."
	noServices = "No services found."
)

// Projects formats projects found for query
func Projects(projects []types.Project, query string) string {
	if len(projects) == 0 {
		return noProjects
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Projects found for '%s':\n\n", query)
	for _, p := range projects {
		fmt.Fprintf(&b, "- PROJECT: %s\n", p.Title)
		if p.CMS != "" {
			fmt.Fprintf(&b, "  CMS: %s\n", p.CMS)
		}
		if p.URL != "" {
			fmt.Fprintf(&b, "  URL: %s\n", p.URL)
		}
		fmt.Fprintf(&b, "  INFO: %s\n\n", p.Description)
	}
	return b.String()
}

// Services formats price list entries found for query
func Services(services []types.Service, query string) string {
	if len(services) == 0 {
		return noServices
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Services found for '%s':\n\n", query)
	for _, s := range services {
		fmt.Fprintf(&b, "- SERVICE: %s\n  PRICE: %s RUB\n", s.Name, Price(s.Price))
		if s.Description != "" {
			fmt.Fprintf(&b, "  NOTE: %s\n", s.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Price renders p in its shortest decimal form, always with a fractional part (500 -> "500.0")
func Price(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
