// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/evanschultz/lasso/internal/adapters/server/common"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter with selection tools and optional catalog tools.
func NewHandler(cfg Config, selection common.SelectionService, catalog common.CatalogService) (*Handler, error) {
	if selection == nil {
		return nil, fmt.Errorf("selection service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerSelectionTools(mcpSrv, selection)
	registerInputTools(mcpSrv, selection)
	if catalog != nil {
		registerCatalogTools(mcpSrv, catalog)
	}

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "lasso"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// stateResult encodes one selection snapshot or maps its error.
func stateResult(op string, state common.SelectionState, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolResultFromError(err), nil
	}
	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", op, err)
	}
	return result, nil
}

// registerSelectionTools registers state, mode and forced-selection tools.
func registerSelectionTools(srv *mcpserver.MCPServer, selection common.SelectionService) {
	srv.AddTool(
		mcp.NewTool(
			"lasso.get_state",
			mcp.WithDescription("Return the interaction mode, machine state, select box and current selection."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			state, err := selection.State(ctx)
			return stateResult("get_state", state, err)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lasso.set_mode",
			mcp.WithDescription("Switch the interaction mode. Cancels any drag in progress."),
			mcp.WithString("mode", mcp.Required(), mcp.Description("Interaction mode"), mcp.Enum("click", "drag", "select", "shortcut", "disabled")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			mode, err := req.RequireString("mode")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			state, err := selection.SetMode(ctx, mode)
			return stateResult("set_mode", state, err)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lasso.select_all",
			mcp.WithDescription("Select every registered item in registration order. No-op while disabled."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			state, err := selection.SelectAll(ctx)
			return stateResult("select_all", state, err)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lasso.clear_selection",
			mcp.WithDescription("Deselect every item."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			state, err := selection.ClearSelection(ctx)
			return stateResult("clear_selection", state, err)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lasso.apply_query",
			mcp.WithDescription("Select, deselect, toggle or replace the selection by catalog criteria."),
			mcp.WithString("op", mcp.Description("Query operation"), mcp.Enum(common.SupportedQueryOps()...)),
			mcp.WithArray("ids", mcp.Description("Catalog item ids"), mcp.WithStringItems()),
			mcp.WithString("kind", mcp.Description("Match items of this kind")),
			mcp.WithString("label_contains", mcp.Description("Case-insensitive label substring")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			state, err := selection.ApplyQuery(ctx, common.QueryRequest{
				Op:            req.GetString("op", common.QueryOpSelect),
				IDs:           req.GetStringSlice("ids", nil),
				Kind:          req.GetString("kind", ""),
				LabelContains: req.GetString("label_contains", ""),
			})
			return stateResult("apply_query", state, err)
		},
	)
}

// registerInputTools registers raw pointer and key input tools.
func registerInputTools(srv *mcpserver.MCPServer, selection common.SelectionService) {
	srv.AddTool(
		mcp.NewTool(
			"lasso.pointer",
			mcp.WithDescription("Feed one pointer occurrence in container coordinates."),
			mcp.WithString("kind", mcp.Required(), mcp.Description("Pointer occurrence"), mcp.Enum(common.SupportedPointerKinds()...)),
			mcp.WithNumber("x", mcp.Description("Container-relative column")),
			mcp.WithNumber("y", mcp.Description("Container-relative row")),
			mcp.WithString("button", mcp.Description("primary, secondary, middle or none")),
			mcp.WithArray("modifiers", mcp.Description("Held modifiers: ctrl, alt, shift, meta"), mcp.WithStringItems()),
			mcp.WithString("target_id", mcp.Description("Catalog id of the clicked item")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			kind, err := req.RequireString("kind")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			state, err := selection.Pointer(ctx, common.PointerRequest{
				Kind:      kind,
				X:         req.GetInt("x", 0),
				Y:         req.GetInt("y", 0),
				Button:    req.GetString("button", ""),
				Modifiers: req.GetStringSlice("modifiers", nil),
				TargetID:  req.GetString("target_id", ""),
			})
			return stateResult("pointer", state, err)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lasso.key",
			mcp.WithDescription("Feed one key transition to update the held selection modifiers."),
			mcp.WithString("code", mcp.Required(), mcp.Description("Key code, e.g. shift or a")),
			mcp.WithString("type", mcp.Description("down or up"), mcp.Enum("down", "up")),
			mcp.WithArray("modifiers", mcp.Description("Other held modifiers"), mcp.WithStringItems()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			code, err := req.RequireString("code")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			state, err := selection.Key(ctx, common.KeyRequest{
				Code:      code,
				Type:      req.GetString("type", "down"),
				Modifiers: req.GetStringSlice("modifiers", nil),
			})
			return stateResult("key", state, err)
		},
	)
}

// registerCatalogTools registers item list/add/remove tools.
func registerCatalogTools(srv *mcpserver.MCPServer, catalog common.CatalogService) {
	srv.AddTool(
		mcp.NewTool(
			"lasso.list_items",
			mcp.WithDescription("List registered items in layout order with their cell boxes."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			items, err := catalog.ListItems(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"items": items})
			if err != nil {
				return nil, fmt.Errorf("encode list_items result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lasso.add_item",
			mcp.WithDescription("Add one catalog item at the end of the grid."),
			mcp.WithString("label", mcp.Required(), mcp.Description("Item label")),
			mcp.WithString("kind", mcp.Description("Item kind")),
			mcp.WithString("notes", mcp.Description("Markdown notes")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args common.AddItemRequest
			if err := req.BindArguments(&args); err != nil {
				return mcp.NewToolResultError("invalid_request: " + err.Error()), nil
			}
			if strings.TrimSpace(args.Label) == "" {
				return mcp.NewToolResultError(`invalid_request: required argument "label" not found`), nil
			}
			item, err := catalog.AddItem(ctx, args)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(item)
			if err != nil {
				return nil, fmt.Errorf("encode add_item result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lasso.remove_item",
			mcp.WithDescription("Remove one catalog item by id."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Catalog item id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireString("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := catalog.RemoveItem(ctx, id); err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"removed": id})
			if err != nil {
				return nil, fmt.Errorf("encode remove_item result: %w", err)
			}
			return result, nil
		},
	)
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, common.ErrInvalidRequest):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, common.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, common.ErrUnavailable):
		return mcp.NewToolResultError("service_unavailable: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
