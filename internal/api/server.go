// Package api exposes the proofstore over a JSON HTTP API.
//
// All routes live under /api. Validation failures return 400 with a JSON
// body of the form {"error": "..."}; missing resources return 404.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	proofstore "github.com/alnah/go-proofstore"
	"github.com/alnah/go-proofstore/internal/logging"
	"github.com/alnah/go-proofstore/internal/store"
)

// Server wires the store and renderer into HTTP handlers.
type Server struct {
	store    *store.Store
	renderer *proofstore.Renderer
}

// NewServer creates a Server backed by the given store. The renderer is
// used by the element render endpoint.
func NewServer(st *store.Store, r *proofstore.Renderer) *Server {
	return &Server{store: st, renderer: r}
}

// Routes returns the handler for all API routes.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/types", s.handleTypes)
	mux.HandleFunc("GET /api/formats", s.handleFormats)
	mux.HandleFunc("GET /api/rels", s.handleRels)

	mux.HandleFunc("POST /api/elements", s.handleElementCreate)
	mux.HandleFunc("GET /api/elements", s.handleElementList)
	mux.HandleFunc("GET /api/elements/{id}", s.handleElementGet)
	mux.HandleFunc("PATCH /api/elements/{id}", s.handleElementUpdate)
	mux.HandleFunc("PUT /api/elements/{id}", s.handleElementUpdate)
	mux.HandleFunc("DELETE /api/elements/{id}", s.handleElementDelete)
	mux.HandleFunc("GET /api/elements/{id}/render", s.handleElementRender)

	mux.HandleFunc("GET /api/elements/{id}/tags", s.handleTagsGet)
	mux.HandleFunc("PUT /api/elements/{id}/tags", s.handleTagsSet)
	mux.HandleFunc("POST /api/elements/{id}/tags", s.handleTagsAdd)
	mux.HandleFunc("DELETE /api/elements/{id}/tags", s.handleTagsDelete)

	mux.HandleFunc("POST /api/links", s.handleLinkCreate)
	mux.HandleFunc("GET /api/links", s.handleLinkList)
	mux.HandleFunc("GET /api/links/{id}", s.handleLinkGet)
	mux.HandleFunc("PATCH /api/links/{id}", s.handleLinkUpdate)
	mux.HandleFunc("PUT /api/links/{id}", s.handleLinkUpdate)
	mux.HandleFunc("DELETE /api/links/{id}", s.handleLinkDelete)
	mux.HandleFunc("GET /api/elements/{id}/links", s.handleElementLinks)

	return logRequests(mux)
}

// ListenAndServe runs the API server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logging.Info("server listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// logRequests wraps a handler with structured request logging.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.HTTPRequest(r, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encoding response", "error", err)
	}
}

// writeError maps a store or rendering error to an HTTP status. Not-found
// is 404, everything else a validation failure at 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
