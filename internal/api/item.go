package api

import (
	"context"
	"net/http"

	"github.com/hashicorp-forge/scribe/internal/auth"
	"github.com/hashicorp-forge/scribe/internal/lifecycle"
	"github.com/hashicorp-forge/scribe/internal/server"
)

type VisibilityPutRequest struct {
	Public bool `json:"public"`
}

type SharesRequest struct {
	Emails []string `json:"emails"`
}

// ItemHandler handles a single item and its subresources: lock, restore,
// clone, visibility, shares and export.
func ItemHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		userEmail := auth.MustGetUserEmail(r.Context())

		id, sub, err := parseItemPath(r.URL.Path, "items")
		if err != nil {
			http.Error(w, "Invalid URL path", http.StatusBadRequest)
			return
		}
		logArgs = append(logArgs, "item_id", id)

		switch sub {
		case "":
			handleItem(srv, w, r, id, userEmail, logArgs)
		case "lock":
			handleLock(srv, w, r, id, userEmail, logArgs)
		case "restore":
			if r.Method != "POST" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			if err := srv.Lifecycle.Restore(r.Context(), id, userEmail); err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case "clone":
			if r.Method != "POST" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			clone, err := srv.Lifecycle.Clone(r.Context(), id, userEmail)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondItem(r.Context(), srv, w, clone.ID, userEmail,
				http.StatusCreated, logArgs)
		case "visibility":
			if r.Method != "PUT" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			req := VisibilityPutRequest{}
			if err := decodeRequest(r, &req); err != nil {
				srv.Logger.Warn("error decoding request",
					append([]interface{}{"error", err}, logArgs...)...)
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}
			item, err := srv.Lifecycle.SetPublic(r.Context(), id, userEmail, req.Public)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			resp, err := itemResponse(item, userEmail, false)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, resp)
		case "shares":
			handleShares(srv, w, r, id, userEmail, logArgs)
		case "export":
			handleExport(srv, w, r, id, userEmail, logArgs)
		default:
			http.Error(w, "Invalid URL path", http.StatusNotFound)
		}
	})
}

func handleItem(
	srv *server.Server,
	w http.ResponseWriter,
	r *http.Request,
	id, userEmail string,
	logArgs []interface{},
) {
	switch r.Method {
	case "GET":
		respondItem(r.Context(), srv, w, id, userEmail, http.StatusOK, logArgs)

	case "PATCH":
		patch := lifecycle.ItemPatch{}
		if err := decodeRequest(r, &patch); err != nil {
			srv.Logger.Warn("error decoding request",
				append([]interface{}{"error", err}, logArgs...)...)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		item, err := srv.Lifecycle.Update(r.Context(), id, userEmail, patch)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		resp, err := itemResponse(item, userEmail, true)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		respondJSON(w, srv.Logger, http.StatusOK, resp)

	case "DELETE":
		if err := srv.Lifecycle.SoftDelete(r.Context(), id, userEmail); err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleLock(
	srv *server.Server,
	w http.ResponseWriter,
	r *http.Request,
	id, userEmail string,
	logArgs []interface{},
) {
	switch r.Method {
	case "POST":
		if err := srv.Lifecycle.AcquireLock(r.Context(), id, userEmail); err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case "DELETE":
		if err := srv.Lifecycle.ReleaseLock(r.Context(), id, userEmail); err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleShares(
	srv *server.Server,
	w http.ResponseWriter,
	r *http.Request,
	id, userEmail string,
	logArgs []interface{},
) {
	req := SharesRequest{}
	if err := decodeRequest(r, &req); err != nil {
		srv.Logger.Warn("error decoding request",
			append([]interface{}{"error", err}, logArgs...)...)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "POST":
		item, err := srv.Lifecycle.AddEditors(r.Context(), id, userEmail, req.Emails)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}

		// Share links are sent for public items only. Delivery is best
		// effort: the grant is already committed and a delivery failure
		// never rolls it back.
		if item.IsPublic {
			for _, recipient := range req.Emails {
				if !item.HasEditor(recipient) {
					continue
				}
				if err := srv.Notifier.SendShareLink(
					r.Context(), item, recipient,
				); err != nil {
					srv.Logger.Warn("error sending share notification",
						append([]interface{}{
							"error", err,
							"recipient", recipient,
						}, logArgs...)...)
				}
			}
		}

		resp, err := itemResponse(item, userEmail, false)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		respondJSON(w, srv.Logger, http.StatusOK, resp)

	case "DELETE":
		item, err := srv.Lifecycle.RemoveEditors(r.Context(), id, userEmail, req.Emails)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		resp, err := itemResponse(item, userEmail, false)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		respondJSON(w, srv.Logger, http.StatusOK, resp)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleExport(
	srv *server.Server,
	w http.ResponseWriter,
	r *http.Request,
	id, userEmail string,
	logArgs []interface{},
) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	item, err := srv.Lifecycle.Get(r.Context(), id, userEmail)
	if err != nil {
		respondError(w, srv.Logger, err, logArgs...)
		return
	}
	body, err := item.GetBody()
	if err != nil {
		respondError(w, srv.Logger, err, logArgs...)
		return
	}
	rendered, contentType, err := srv.Exporter.Export(item, body)
	if err != nil {
		respondError(w, srv.Logger, err, logArgs...)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(rendered); err != nil {
		srv.Logger.Error("error writing export response",
			append([]interface{}{"error", err}, logArgs...)...)
	}
}

// respondItem loads the item fresh and writes it as the response. Used after
// mutations so the response reflects committed state.
func respondItem(
	ctx context.Context,
	srv *server.Server,
	w http.ResponseWriter,
	id, userEmail string,
	statusCode int,
	logArgs []interface{},
) {
	item, err := srv.Lifecycle.Get(ctx, id, userEmail)
	if err != nil {
		respondError(w, srv.Logger, err, logArgs...)
		return
	}
	resp, err := itemResponse(item, userEmail, true)
	if err != nil {
		respondError(w, srv.Logger, err, logArgs...)
		return
	}
	respondJSON(w, srv.Logger, statusCode, resp)
}
