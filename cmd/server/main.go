// Command server runs the clustering engine's HTTP surface: build indices
// from uploaded GeoJSON, then query them by tile, bounding box, or cluster
// id. There is no gRPC split between a runner process and a gateway here —
// the manager and the HTTP surface live in one process, matching the
// teacher's original root main.go rather than its later cmd/api +
// cmd/runners split.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tcabral/clustopher/api"
	"github.com/tcabral/clustopher/runner"
)

func main() {
	addr := flag.String("addr", ":8000", "HTTP listen address")
	maxIndexes := flag.Int("max-indexes", 8, "maximum number of in-memory indices held by the manager")
	flag.Parse()

	manager := runner.NewManager(*maxIndexes)
	srv := &http.Server{
		Addr:    *addr,
		Handler: api.NewServer(manager).Handler(),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Printf("clustopher: listening on %s\n", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("clustopher: server error: %v\n", err)
		}
	}()

	<-quit
	fmt.Println("\nclustopher: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("clustopher: shutdown error: %v\n", err)
	}
}
