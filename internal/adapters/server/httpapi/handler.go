// Package httpapi provides the REST HTTP adapter for the selection engine.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/evanschultz/lasso/internal/adapters/server/common"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	selection common.SelectionService
	catalog   common.CatalogService
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// modeRequest is the body of POST `/mode`.
type modeRequest struct {
	Mode string `json:"mode"`
}

// NewHandler constructs one HTTP API adapter. catalog may be nil.
func NewHandler(selection common.SelectionService, catalog common.CatalogService) *Handler {
	return &Handler{
		selection: selection,
		catalog:   catalog,
	}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch path {
	case "state":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.withSelection(w, func() (common.SelectionState, error) {
			return h.selection.State(r.Context())
		})
	case "mode":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		var req modeRequest
		if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
			writeErrorFrom(w, err)
			return
		}
		h.withSelection(w, func() (common.SelectionState, error) {
			return h.selection.SetMode(r.Context(), req.Mode)
		})
	case "select_all":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.withSelection(w, func() (common.SelectionState, error) {
			return h.selection.SelectAll(r.Context())
		})
	case "clear":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.withSelection(w, func() (common.SelectionState, error) {
			return h.selection.ClearSelection(r.Context())
		})
	case "query":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		var req common.QueryRequest
		if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
			writeErrorFrom(w, err)
			return
		}
		h.withSelection(w, func() (common.SelectionState, error) {
			return h.selection.ApplyQuery(r.Context(), req)
		})
	case "pointer":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		var req common.PointerRequest
		if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
			writeErrorFrom(w, err)
			return
		}
		h.withSelection(w, func() (common.SelectionState, error) {
			return h.selection.Pointer(r.Context(), req)
		})
	case "key":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		var req common.KeyRequest
		if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
			writeErrorFrom(w, err)
			return
		}
		h.withSelection(w, func() (common.SelectionState, error) {
			return h.selection.Key(r.Context(), req)
		})
	case "items":
		switch r.Method {
		case http.MethodGet:
			h.handleListItems(w, r)
		case http.MethodPost:
			h.handleAddItem(w, r)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	default:
		itemID, ok := resolveItemID(path)
		if !ok {
			writeJSONError(w, http.StatusNotFound, APIError{
				Code:    "not_found",
				Message: "endpoint not found",
			})
			return
		}
		if r.Method != http.MethodDelete {
			writeMethodNotAllowed(w, http.MethodDelete)
			return
		}
		h.handleRemoveItem(w, r, itemID)
	}
}

// withSelection runs one selection call and writes its snapshot.
func (h *Handler) withSelection(w http.ResponseWriter, call func() (common.SelectionState, error)) {
	if h.selection == nil {
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: "selection service is not configured",
		})
		return
	}
	state, err := call()
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleListItems serves GET `/items`.
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeNotImplemented(w)
		return
	}
	items, err := h.catalog.ListItems(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

// handleAddItem serves POST `/items`.
func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeNotImplemented(w)
		return
	}
	var req common.AddItemRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	item, err := h.catalog.AddItem(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleRemoveItem serves DELETE `/items/{id}`.
func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request, itemID string) {
	if h.catalog == nil {
		writeNotImplemented(w)
		return
	}
	if err := h.catalog.RemoveItem(r.Context(), itemID); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveItemID parses `/items/{id}` and returns `{id}`.
func resolveItemID(path string) (string, bool) {
	const prefix = "items/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	id := strings.TrimSpace(strings.TrimPrefix(path, prefix))
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
			Hint:    hintFor(err),
		})
	case errors.Is(err, common.ErrUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// hintFor suggests accepted values for common invalid inputs.
func hintFor(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unknown mode"):
		return "Use one of click, drag, select, shortcut, disabled."
	case strings.Contains(msg, "unsupported op"):
		return "Use one of " + strings.Join(common.SupportedQueryOps(), ", ") + "."
	case strings.Contains(msg, "pointer kind"):
		return "Use one of " + strings.Join(common.SupportedPointerKinds(), ", ") + "."
	default:
		return ""
	}
}

// writeNotImplemented reports a missing catalog surface.
func writeNotImplemented(w http.ResponseWriter) {
	writeJSONError(w, http.StatusNotImplemented, APIError{
		Code:    "not_implemented",
		Message: "catalog APIs are not available",
	})
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
