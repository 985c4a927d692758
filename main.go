package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/mbolis/museum-survey/app"
	"github.com/mbolis/museum-survey/config"
	"github.com/mbolis/museum-survey/database"
	"github.com/mbolis/museum-survey/httpx"
	"github.com/mbolis/museum-survey/log"
	"github.com/mbolis/museum-survey/routes"
)

func main() {
	config.LoadEnv()

	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal("main.config:", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal("main.config.log_level:", err)
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	if cfg.AdminUser != "" {
		err = database.EnsureAdmin(context.Background(), db, cfg.AdminUser, cfg.AdminPassword)
		if err != nil {
			log.Fatal("main.db.admin:", err)
		}
	}

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
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
