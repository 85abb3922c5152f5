// Package server implements the command to run the scribe server.
package server

import (
	"fmt"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/scribe/internal/api"
	"github.com/hashicorp-forge/scribe/internal/cleanup"
	"github.com/hashicorp-forge/scribe/internal/cmd/base"
	"github.com/hashicorp-forge/scribe/internal/config"
	"github.com/hashicorp-forge/scribe/internal/db"
	"github.com/hashicorp-forge/scribe/internal/export"
	"github.com/hashicorp-forge/scribe/internal/lifecycle"
	"github.com/hashicorp-forge/scribe/internal/notifications"
	scribeserver "github.com/hashicorp-forge/scribe/internal/server"
	"github.com/hashicorp-forge/scribe/pkg/storage/local"
)

type Command struct {
	*base.Command

	flagConfig string
	flagAddr   string
}

func (c *Command) Synopsis() string {
	return "Run the server"
}

func (c *Command) Help() string {
	return `Usage: scribe server [options]

  Run the scribe server. Without -config, the server starts in
  zero-configuration mode with an embedded SQLite database and a local
  resources directory.

` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := c.NewFlagSet("server")

	f.StringVar(&c.flagConfig, "config", "",
		"Path to the HCL configuration file")
	f.StringVar(&c.flagAddr, "addr", "",
		"Listen address (overrides the configuration file)")

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	var (
		cfg *config.Config
		err error
	)
	if c.flagConfig != "" {
		cfg, err = config.NewConfig(c.flagConfig)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
			return 1
		}
	} else {
		cfg = config.Default()
	}
	if c.flagAddr != "" {
		cfg.ListenAddr = c.flagAddr
	}

	log := hclog.New(&hclog.LoggerOptions{
		Name:  "scribe",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	gormDB, err := db.NewDB(cfg.Database, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing database: %v", err))
		return 1
	}

	resources, err := local.New(cfg.Resources.Path)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing resource storage: %v", err))
		return 1
	}

	var notifier notifications.Notifier
	if cfg.Mail != nil {
		notifier = &notifications.SMTPNotifier{
			Addr:    cfg.Mail.SMTPAddr,
			From:    cfg.Mail.From,
			BaseURL: cfg.BaseURL,
		}
	} else {
		notifier = &notifications.LogNotifier{
			BaseURL: cfg.BaseURL,
			Log:     log,
		}
	}

	srv := &scribeserver.Server{
		Config: cfg,
		DB:     gormDB,
		Logger: log,
		Lifecycle: lifecycle.NewService(
			gormDB, log, cleanup.NewReconciler(resources, log)),
		Resources: resources,
		Notifier:  notifier,
		Exporter:  export.Markdown{},
	}

	log.Info("starting server", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, api.NewRouter(srv)); err != nil {
		c.UI.Error(fmt.Sprintf("server error: %v", err))
		return 1
	}
	return 0
}
