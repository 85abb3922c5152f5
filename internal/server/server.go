package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/scribe/internal/config"
	"github.com/hashicorp-forge/scribe/internal/export"
	"github.com/hashicorp-forge/scribe/internal/lifecycle"
	"github.com/hashicorp-forge/scribe/internal/notifications"
	"github.com/hashicorp-forge/scribe/pkg/storage"
)

// Server contains the server configuration and its collaborators.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// DB is the database for the server.
	DB *gorm.DB

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Lifecycle coordinates all item state transitions.
	Lifecycle *lifecycle.Service

	// Resources is the backing store for uploaded resource files.
	Resources storage.Storage

	// Notifier delivers share notifications. Delivery is best effort.
	Notifier notifications.Notifier

	// Exporter renders items for the export endpoint.
	Exporter export.Exporter
}
