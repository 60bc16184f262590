package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if isHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if opts.Version {
		fmt.Printf("%s v%s\n", ProjectName, ProjectVersion)
		os.Exit(0)
	}
	if err := opts.validate(); err != nil {
		log.Fatal(err)
	}
	if err := setupLogging(opts.LogLevel); err != nil {
		log.Fatal(err)
	}
	gin.SetMode(gin.ReleaseMode)

	handler, cleanup, err := InitMainHandler(opts)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	err = handler.Handle()
	cleanup()
	if err != nil {
		log.Fatal(err)
	}
}

// Handle serves the API until SIGINT or SIGTERM.
func (h *MainHandler) Handle() error {
	if err := h.Publisher.Announce(); err != nil {
		log.Warnf("mqtt announce: %v", err)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(h.Options.Host, strconv.Itoa(h.Options.Port)),
		Handler:           h.Server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("%s listening on %s", ProjectName, srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
