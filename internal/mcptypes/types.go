// internal/mcptypes/types.go
// Package mcptypes contains shared MCP tool input/output types.
// These are used by both the direct MCP server and the gateway shim.
package mcptypes

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// SearchProjectsInput defines the input schema for search_projects
type SearchProjectsInput struct {
	Query string `json:"query" jsonschema:"Topic or kind of project, e.g. 'интернет-магазин одежды', 'медицинский центр'"`
}

// SearchProjectsOutput defines the output schema for search_projects
type SearchProjectsOutput struct {
	Projects []types.Project `json:"projects"`
}

// SearchPricesInput defines the input schema for search_prices
type SearchPricesInput struct {
	Query string `json:"query" jsonschema:"Service name, e.g. 'хостинг', 'разработка дизайна', 'интеграция с 1С'"`
}

// SearchPricesOutput defines the output schema for search_prices
type SearchPricesOutput struct {
	Services []types.Service `json:"services"`
}

// TextResult creates a successful MCP result with text content
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// ErrorResult creates an error MCP result
func ErrorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// Tool definitions (shared between server and shim)
var (
	SearchProjectsTool = &mcp.Tool{
		Name: "search_projects",
		Description: "Поиск реализованных проектов и кейсов в портфолио компании. " +
			"Используй это, когда пользователь спрашивает 'покажите примеры', 'есть ли опыт с...', 'делали ли вы сайты для...'.",
	}

	SearchPricesTool = &mcp.Tool{
		Name: "search_prices",
		Description: "Поиск стоимости услуг и работ в прайс-листе. " +
			"Используй этот инструмент для ответов на вопросы о бюджете, тарифах и ценах.",
	}
)
