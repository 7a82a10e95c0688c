// Command kvnode runs a single cache node: a bounded LRU store behind the
// HTTP wire protocol, with Prometheus metrics at /metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kvcache/cache"
	"kvcache/httpkv"
	"kvcache/metrics/prom"
)

func main() {
	var (
		addr     = flag.String("addr", ":8081", "listen address")
		capacity = flag.Int("capacity", 1024, "cache capacity (entries)")
	)
	flag.Parse()

	m := prom.NewCacheMetrics(nil, "kvcache", "node", nil)
	c, err := cache.New[string, string](*capacity, cache.WithMetrics[string, string](m))
	if err != nil {
		log.Fatalf("cache: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httpkv.NewHandler(c))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Signal-aware context is the root of ownership: SIGINT/SIGTERM
	// cancels it and we initiate a clean shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("kvnode listening on %s (capacity=%d)", *addr, *capacity)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
