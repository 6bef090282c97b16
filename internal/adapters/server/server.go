// Package server composes HTTP API and MCP transports into one process handler.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/evanschultz/lasso/internal/adapters/server/common"
	"github.com/evanschultz/lasso/internal/adapters/server/httpapi"
	"github.com/evanschultz/lasso/internal/adapters/server/mcpapi"
)

// defaultBindAddress defines the localhost-first serve default.
const defaultBindAddress = "127.0.0.1:5437"

// defaultShutdownTimeout bounds graceful shutdown time once context cancellation starts.
const defaultShutdownTimeout = 5 * time.Second

// Config defines serve-mode endpoint configuration.
type Config struct {
	HTTPBind      string
	APIEndpoint   string
	MCPEndpoint   string
	ServerName    string
	ServerVersion string
}

// Dependencies defines app-facing adapters required by server transports.
type Dependencies struct {
	Selection common.SelectionService
	Catalog   common.CatalogService
}

// NewHandler mounts liveness, readiness, the REST API and MCP on one mux.
func NewHandler(cfg Config, deps Dependencies) (http.Handler, Config, error) {
	if deps.Selection == nil {
		return nil, Config{}, fmt.Errorf("selection dependency is required")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, Config{}, err
	}

	mcpHandler, err := mcpapi.NewHandler(mcpapi.Config{
		ServerName:    cfg.ServerName,
		ServerVersion: cfg.ServerVersion,
		EndpointPath:  cfg.MCPEndpoint,
	}, deps.Selection, deps.Catalog)
	if err != nil {
		return nil, Config{}, fmt.Errorf("configure mcp handler: %w", err)
	}
	api := http.StripPrefix(cfg.APIEndpoint, httpapi.NewHandler(deps.Selection, deps.Catalog))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeProbe(w, http.StatusOK, probeBody{Status: "ok"})
	})
	mux.HandleFunc("GET /readyz", readiness(deps.Selection))
	mux.Handle(cfg.MCPEndpoint, mcpHandler)
	mux.Handle(cfg.APIEndpoint, api)
	mux.Handle(cfg.APIEndpoint+"/", api)
	return mux, cfg, nil
}

// Run listens on cfg.HTTPBind and serves until ctx ends or the listener fails.
// onListen, when set, receives the config with the bound address filled in.
func Run(ctx context.Context, cfg Config, deps Dependencies, onListen func(Config)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	handler, cfg, err := NewHandler(cfg, deps)
	if err != nil {
		return fmt.Errorf("build server handler: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.HTTPBind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPBind, err)
	}
	cfg.HTTPBind = ln.Addr().String()
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	if onListen != nil {
		onListen(cfg)
	}

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(ln)
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)
	if err := <-served; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve after shutdown: %w", err)
	}
	if shutdownErr != nil {
		return fmt.Errorf("shutdown server: %w", shutdownErr)
	}
	return nil
}

// withDefaults fills blank fields and rejects colliding mounts.
func (c Config) withDefaults() (Config, error) {
	c.HTTPBind = strings.TrimSpace(c.HTTPBind)
	if c.HTTPBind == "" {
		c.HTTPBind = defaultBindAddress
	}
	c.APIEndpoint = mountPath(c.APIEndpoint, "/api/v1")
	c.MCPEndpoint = mountPath(c.MCPEndpoint, "/mcp")
	if c.APIEndpoint == c.MCPEndpoint {
		return Config{}, fmt.Errorf("api and mcp endpoints must differ: %s", c.APIEndpoint)
	}
	if c.ServerName = strings.TrimSpace(c.ServerName); c.ServerName == "" {
		c.ServerName = "lasso"
	}
	if c.ServerVersion = strings.TrimSpace(c.ServerVersion); c.ServerVersion == "" {
		c.ServerVersion = "dev"
	}
	return c, nil
}

// mountPath cleans one mount path to a single leading slash and no trailing one.
func mountPath(path, fallback string) string {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	if path == "/" {
		return fallback
	}
	return path
}

// probeBody is the health and readiness payload.
type probeBody struct {
	Status string `json:"status"`
	Mode   string `json:"mode,omitempty"`
	Items  *int   `json:"items,omitempty"`
	Error  string `json:"error,omitempty"`
}

// readiness reports ready once the selection session answers.
func readiness(selection common.SelectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := selection.State(r.Context())
		if err != nil {
			writeProbe(w, http.StatusServiceUnavailable, probeBody{Status: "unavailable", Error: err.Error()})
			return
		}
		writeProbe(w, http.StatusOK, probeBody{Status: "ready", Mode: state.Mode, Items: &state.ItemCount})
	}
}

func writeProbe(w http.ResponseWriter, status int, body probeBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
