// Package api implements the HTTP surface of the lifecycle core. Handlers
// are thin: they decode the request, resolve the requester from the context,
// call the lifecycle service and translate its typed errors onto HTTP status
// codes. All authorization decisions live in the service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/scribe/internal/lifecycle"
)

// decodeRequest decodes a JSON request body into reqStruct, rejecting unknown
// fields.
func decodeRequest(r *http.Request, reqStruct interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(reqStruct)
}

// respondJSON writes v as the JSON response body.
func respondJSON(
	w http.ResponseWriter, log hclog.Logger, statusCode int, v interface{},
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

// statusForError maps lifecycle errors onto HTTP status codes. Lock errors
// are conflicts: the request was well formed but lost the race for the item.
func statusForError(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrLockConflict),
		errors.Is(err, lifecycle.ErrNotLockHolder):
		return http.StatusConflict
	case errors.Is(err, lifecycle.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lifecycle.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates err onto the wire. Internal errors are logged and
// replaced with a generic message so store details never leak to clients.
func respondError(
	w http.ResponseWriter, log hclog.Logger, err error, logArgs ...interface{},
) {
	statusCode := statusForError(err)
	msg := err.Error()
	if statusCode == http.StatusInternalServerError {
		log.Error("internal error handling request",
			append([]interface{}{"error", err}, logArgs...)...)
		msg = "Internal server error"
	}
	http.Error(w, msg, statusCode)
}

// parseItemPath parses a URL path with the format
// "/api/v1/{apiPath}/{id}[/{subresource}]" and returns the id and the
// optional subresource.
func parseItemPath(url, apiPath string) (string, string, error) {
	url = strings.TrimPrefix(url, fmt.Sprintf("/api/v1/%s", apiPath))

	var parts []string
	for _, v := range strings.Split(url, "/") {
		if v != "" {
			parts = append(parts, v)
		}
	}
	switch len(parts) {
	case 1:
		return parts[0], "", nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("invalid URL path")
	}
}
