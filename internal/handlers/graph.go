// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the request decoding, response formatting, and error mapping
// between the graph service and the extension UI.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/schemalens/core/internal/service"
	"github.com/schemalens/core/internal/transport"
)

// GraphService is the slice of the service layer the handlers need.
type GraphService interface {
	EnsureGraph(ctx context.Context, req service.EnsureRequest) (*service.GraphResult, error)
	ClearGraph(ctx context.Context, instance string) error
}

type GraphHandler struct {
	svc    GraphService
	logger *zap.Logger
}

func NewGraphHandler(svc GraphService, logger *zap.Logger) *GraphHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphHandler{svc: svc, logger: logger}
}

type ensureRequest struct {
	Instance     string `json:"instance"`
	Root         string `json:"root,omitempty"`
	ForceRefresh bool   `json:"forceRefresh,omitempty"`
}

// Ensure handles POST /v1/graph/ensure: it returns the instance's graph,
// expanding it around the requested root when one is given.
func (h *GraphHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req ensureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Instance == "" {
		writeError(w, http.StatusBadRequest, "instance is required")
		return
	}

	result, err := h.svc.EnsureGraph(r.Context(), service.EnsureRequest{
		Instance:     req.Instance,
		Root:         req.Root,
		Token:        token,
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Clear handles DELETE /v1/graph?instance=...: it drops the persisted entry.
func (h *GraphHandler) Clear(w http.ResponseWriter, r *http.Request) {
	instance := r.URL.Query().Get("instance")
	if instance == "" {
		writeError(w, http.StatusBadRequest, "instance is required")
		return
	}

	if err := h.svc.ClearGraph(r.Context(), instance); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GraphHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInstance):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, transport.ErrAuth):
		writeError(w, http.StatusUnauthorized, "session expired or invalid, log in again")
	case errors.Is(err, service.ErrRootUnreachable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error("graph request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
