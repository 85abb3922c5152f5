package api

import (
	"net/http"

	"github.com/hashicorp-forge/scribe/internal/auth"
	"github.com/hashicorp-forge/scribe/internal/server"
)

// NewRouter returns the full /api/v1 handler tree with bearer-token
// authentication applied to every route.
func NewRouter(srv *server.Server) http.Handler {
	mux := http.NewServeMux()
	secret := []byte(srv.Config.Auth.JWTSecret)

	for path, handler := range map[string]http.Handler{
		"/api/v1/items":      ItemsHandler(srv),
		"/api/v1/items/":     ItemHandler(srv),
		"/api/v1/trash":      TrashHandler(srv),
		"/api/v1/trash/":     TrashHandler(srv),
		"/api/v1/resources":  ResourcesHandler(srv),
		"/api/v1/resources/": ResourceHandler(srv),
	} {
		mux.Handle(path, auth.Middleware(handler, secret, srv.Logger))
	}
	return mux
}
