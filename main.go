package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/draft"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config: ", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open: ", err)
	}
	defer db.Close()

	drafts, err := draft.NewBoltStore(cfg.DraftDBPath)
	if err != nil {
		log.Fatal("main.drafts.open: ", err)
	}
	defer drafts.Close()

	if cfg.AdminUser != "" {
		err = httpx.SaveAuthor(context.Background(), db, cfg.AdminUser, cfg.AdminPassword)
		if err != nil {
			log.Fatal("main.admin: ", err)
		}
		log.WithFields(log.Fields{"author": cfg.AdminUser}).Info("author credentials saved")
	}

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Drafts:       drafts,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Error("main.server: ", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
