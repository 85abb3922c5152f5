package api

import (
	"net/http"

	"github.com/hashicorp-forge/scribe/internal/auth"
	"github.com/hashicorp-forge/scribe/internal/server"
	"github.com/hashicorp-forge/scribe/pkg/content"
	"github.com/hashicorp-forge/scribe/pkg/models"
)

type ItemsPostRequest struct {
	ItemType string        `json:"itemType"`
	Title    string        `json:"title"`
	Body     *content.Body `json:"body"`
}

// ItemResponse is the wire shape of an item. The lock holder's identity is
// deliberately not disclosed: collaborators learn only whether the item is
// locked and whether they themselves hold the lock.
type ItemResponse struct {
	ID         string        `json:"id"`
	ItemType   string        `json:"itemType"`
	Title      string        `json:"title"`
	Owner      string        `json:"owner"`
	Editors    []string      `json:"editors"`
	Body       *content.Body `json:"body,omitempty"`
	IsPublic   bool          `json:"isPublic"`
	Locked     bool          `json:"locked"`
	LockedByMe bool          `json:"lockedByMe"`
	Trashed    bool          `json:"trashed"`
	TrashedAt  string        `json:"trashedAt,omitempty"`
	CreatedAt  string        `json:"createdAt"`
	UpdatedAt  string        `json:"updatedAt"`
}

func itemResponse(
	item *models.Item, requester string, withBody bool,
) (*ItemResponse, error) {
	resp := &ItemResponse{
		ID:         item.ID,
		ItemType:   string(item.ItemType),
		Title:      item.Title,
		Owner:      item.OwnerEmail(),
		Editors:    []string{},
		IsPublic:   item.IsPublic,
		Locked:     item.LockHeld,
		LockedByMe: item.LockHeld && item.LockHolder == requester,
		Trashed:    item.Trashed,
		CreatedAt:  item.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:  item.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	for _, e := range item.Editors {
		resp.Editors = append(resp.Editors, e.EmailAddress)
	}
	if item.TrashedAt != nil {
		resp.TrashedAt = item.TrashedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	if withBody {
		body, err := item.GetBody()
		if err != nil {
			return nil, err
		}
		resp.Body = body
	}
	return resp, nil
}

// ItemsHandler handles the item collection: creation and listing.
func ItemsHandler(srv *server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		userEmail := auth.MustGetUserEmail(r.Context())

		switch r.Method {
		case "POST":
			req := ItemsPostRequest{}
			if err := decodeRequest(r, &req); err != nil {
				srv.Logger.Warn("error decoding request",
					append([]interface{}{"error", err}, logArgs...)...)
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}

			item, err := srv.Lifecycle.Create(
				r.Context(),
				userEmail,
				models.ItemType(req.ItemType),
				req.Title,
				req.Body,
			)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}

			resp, err := itemResponse(item, userEmail, true)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusCreated, resp)

		case "GET":
			items, err := srv.Lifecycle.List(r.Context(), userEmail, false)
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

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
