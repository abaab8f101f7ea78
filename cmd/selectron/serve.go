package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisuehlinger/selectron/network"
	"github.com/chrisuehlinger/selectron/server"
)

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve(addr string, loader *network.DocumentLoader, timeout time.Duration, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewServer(loader, log, timeout),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting selectron server", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
