// Command gracecal serves the congregation calendar API.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/camgitt/grace-crm-sub003/internal/config"
	"github.com/camgitt/grace-crm-sub003/server"
	"github.com/camgitt/grace-crm-sub003/storage"
	"github.com/camgitt/grace-crm-sub003/storage/memory"
	"github.com/camgitt/grace-crm-sub003/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "gracecal.yaml", "path to configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var store storage.Store
	if cfg.DatabasePath != "" {
		store, err = sqlite.Open(cfg.DatabasePath)
		if err != nil {
			logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
			os.Exit(1)
		}
		logger.Info("using sqlite store", "path", cfg.DatabasePath)
	} else {
		store = memory.New()
		logger.Warn("no database_path configured, using in-memory store")
	}
	defer store.Close()

	srv := server.New(server.Config{
		Store:        store,
		Owner:        cfg.OwnerName,
		CalendarName: cfg.CalendarName,
		UpcomingDays: cfg.UpcomingDays,
		Logger:       logger,
	})

	if cfg.DigestCron != "" {
		c, err := srv.StartDigest(cfg.DigestCron)
		if err != nil {
			logger.Error("failed to schedule digest", "error", err)
			os.Exit(1)
		}
		defer c.Stop()
	}

	logger.Info("listening", "addr", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, srv); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
