package main

import (
	"log"
	"net/http"
	"time"

	"rfid-access/internal/adapters/hardware/gpo"
	"rfid-access/internal/config"
	"rfid-access/internal/platform/logger"
	"rfid-access/internal/router"
)

func main() {
	cfg := config.FromEnv()
	lg := logger.NewFromEnv()

	r := router.NewRouter(router.Options{
		Config:   cfg,
		Log:      lg,
		Actuador: gpo.New(cfg.Lector),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Puerto,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	lg.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
