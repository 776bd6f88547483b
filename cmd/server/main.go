package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/contoso/university/internal/app"
	"github.com/contoso/university/internal/infra/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Register services, seed the database and assemble the pipeline
	application, cleanup, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	srv := application.Server()

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s (%s)", cfg.Server.Address, cfg.Environment)
		var err error
		if cfg.Server.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil {
			cleanup()
			log.Printf("Failed to start server: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	application.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	cleanup()

	log.Println("Server exited")
}
