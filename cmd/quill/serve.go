package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	glog "github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"quill/pkg/queue"
	"quill/pkg/server"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the book API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, done := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer done()

	if addr != "" {
		cfg.Server.Addr = addr
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	q := queue.New(a.coordinator, cfg.Server.Workers, cfg.Server.QueueSize)

	var runs server.RunLister
	if a.journal != nil {
		runs = a.journal
	}
	srv := server.NewServer(ctx, q, runs)
	srv.Echo.Logger.SetLevel(glog.INFO)
	if cfg.Debug {
		srv.Echo.Logger.SetLevel(glog.DEBUG)
	}

	finishedShutDown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		finishedShutDown <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		done()
		<-finishedShutDown
		return err
	}
	if err := <-finishedShutDown; err != nil {
		log.Error("shutdown", "error", err)
		return err
	}
	return nil
}
