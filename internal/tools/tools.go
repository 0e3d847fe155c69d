package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MereWhiplash/portfolio-search/internal/mcptypes"
	"github.com/MereWhiplash/portfolio-search/internal/render"
	"github.com/MereWhiplash/portfolio-search/internal/service"
	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// Handler holds dependencies for tool handlers
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewHandler creates tool handlers over svc. A nil logger uses slog.Default().
func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register adds the search tools to the MCP server
func Register(server *mcp.Server, svc *service.Service, logger *slog.Logger) {
	h := NewHandler(svc, logger)

	mcp.AddTool(server, mcptypes.SearchProjectsTool, h.SearchProjects)
	mcp.AddTool(server, mcptypes.SearchPricesTool, h.SearchPrices)
}

func (h *Handler) SearchProjects(ctx context.Context, req *mcp.CallToolRequest, input mcptypes.SearchProjectsInput) (*mcp.CallToolResult, mcptypes.SearchProjectsOutput, error) {
	h.logger.Info("tool call", "tool", mcptypes.SearchProjectsTool.Name, "query", input.Query)

	projects, err := h.svc.SearchProjects(ctx, input.Query)
	if err != nil {
		return h.failure(err), mcptypes.SearchProjectsOutput{Projects: []types.Project{}}, nil
	}
	if projects == nil {
		projects = []types.Project{}
	}

	return mcptypes.TextResult(render.Projects(projects, input.Query)), mcptypes.SearchProjectsOutput{Projects: projects}, nil
}

func (h *Handler) SearchPrices(ctx context.Context, req *mcp.CallToolRequest, input mcptypes.SearchPricesInput) (*mcp.CallToolResult, mcptypes.SearchPricesOutput, error) {
	h.logger.Info("tool call", "tool", mcptypes.SearchPricesTool.Name, "query", input.Query)

	services, err := h.svc.SearchServices(ctx, input.Query)
	if err != nil {
		return h.failure(err), mcptypes.SearchPricesOutput{Services: []types.Service{}}, nil
	}
	if services == nil {
		services = []types.Service{}
	}

	return mcptypes.TextResult(render.Services(services, input.Query)), mcptypes.SearchPricesOutput{Services: services}, nil
}

// failure maps a search error to a tool result. Unavailability is a normal answer, not a tool error.
func (h *Handler) failure(err error) *mcp.CallToolResult {
	if errors.Is(err, types.ErrUnavailable) {
		return mcptypes.TextResult(render.Unavailable)
	}
	h.logger.Error("search failed", "error", err)
	return mcptypes.ErrorResult(fmt.Sprintf("failed to search: %v", err))
}
