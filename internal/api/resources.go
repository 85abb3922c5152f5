package api

import (
	"io"
	"net/http"

	"github.com/hashicorp-forge/scribe/internal/auth"
	"github.com/hashicorp-forge/scribe/internal/server"
)

type ResourcesPostResponse struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// ResourcesHandler handles uploading resource files. The response carries the
// resource:// URI to embed in a document body; a resource stays alive for as
// long as at least one stored body references it.
func ResourcesHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		userEmail := auth.MustGetUserEmail(r.Context())

		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if userEmail == "" {
			http.Error(
				w, "No authorization information in request", http.StatusUnauthorized)
			return
		}

		id, err := srv.Resources.Upload(r.Context(), r.Body)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}

		srv.Logger.Info("uploaded resource",
			append([]interface{}{"resource_id", id}, logArgs...)...)
		respondJSON(w, srv.Logger, http.StatusCreated, ResourcesPostResponse{
			ID:  id,
			URI: "resource://" + id,
		})
	})
}

// ResourceHandler serves a single uploaded resource file.
func ResourceHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}

		if r.Method != "GET" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		id, sub, err := parseItemPath(r.URL.Path, "resources")
		if err != nil || sub != "" {
			http.Error(w, "Invalid URL path", http.StatusBadRequest)
			return
		}

		exists, err := srv.Resources.Exists(r.Context(), id)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		if !exists {
			http.Error(w, "Resource not found", http.StatusNotFound)
			return
		}

		rc, err := srv.Resources.Open(r.Context(), id)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := io.Copy(w, rc); err != nil {
			srv.Logger.Error("error writing resource response",
				append([]interface{}{"error", err}, logArgs...)...)
		}
	})
}
