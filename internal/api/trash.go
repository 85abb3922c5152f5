package api

import (
	"net/http"
	"strings"

	"github.com/hashicorp-forge/scribe/internal/auth"
	"github.com/hashicorp-forge/scribe/internal/server"
)

type TrashDeleteResponse struct {
	Purged int `json:"purged"`
}

// TrashHandler handles the requester's trash: listing, purging a single item
// and emptying the whole trash.
func TrashHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		userEmail := auth.MustGetUserEmail(r.Context())

		id := ""
		if rest := strings.TrimPrefix(r.URL.Path, "/api/v1/trash"); rest != "" && rest != "/" {
			var err error
			id, _, err = parseItemPath(r.URL.Path, "trash")
			if err != nil {
				http.Error(w, "Invalid URL path", http.StatusBadRequest)
				return
			}
			logArgs = append(logArgs, "item_id", id)
		}

		switch r.Method {
		case "GET":
			if id != "" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			items, err := srv.Lifecycle.List(r.Context(), userEmail, true)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			resps := []*ItemResponse{}
			for i := range items {
				resp, err := itemResponse(&items[i], userEmail, false)
				if err != nil {
					respondError(w, srv.Logger, err, logArgs...)
					return
				}
				resps = append(resps, resp)
			}
			respondJSON(w, srv.Logger, http.StatusOK, resps)

		case "DELETE":
			if id != "" {
				if err := srv.Lifecycle.PurgeOne(r.Context(), id, userEmail); err != nil {
					respondError(w, srv.Logger, err, logArgs...)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			n, err := srv.Lifecycle.PurgeAll(r.Context(), userEmail)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, TrashDeleteResponse{Purged: n})

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
