package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/colour.transfer/internal/db"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dbPath := fs.String("db", "runs.db", "Run history database")
	listen := fs.String("listen", ":8080", "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := db.OpenDB(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	mux, err := newServeMux(store)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, &http.Server{Addr: *listen, Handler: mux})
}

func newServeMux(store *db.DB) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	// Debug routes are only reachable from loopback or over Tailscale.
	if err := store.AttachAdminRoutes(mux); err != nil {
		return nil, err
	}
	mux.Handle("/runs", store.RunsHandler())
	return mux, nil
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Printf("Graceful shutdown complete")
	return nil
}
