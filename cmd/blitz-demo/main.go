// blitz-demo runs a self-contained demo backend: same wire contract as the
// real service, scripted call outcomes. Point blitz-tui at it to try the UI
// without any telephony credentials.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/call-blitz/tui/internal/demo"
)

func main() {
	port := flag.Int("port", 8000, "Port to listen on")
	pacing := flag.Float64("pacing", 1.0, "Delay multiplier for scripted events (1.0 = real-time)")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: demo.NewServer(log, *pacing).Routes(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Info("demo backend listening", zap.Int("port", *port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}
