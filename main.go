package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"miniplatformer/server"
)

// Platformer room server: websocket relay for client-simulated bodies plus
// admin and metrics endpoints.
func main() {
	var addr, envFile string
	flag.StringVar(&addr, "addr", "", "listen address, overrides "+server.EnvAddr)
	flag.StringVar(&envFile, "env", ".env", "optional .env file")
	flag.Parse()

	cfg, err := server.LoadConfig(envFile)
	if err != nil {
		panic(err)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if err := server.InitLogger(server.LogConfig{File: cfg.LogFile, Level: cfg.LogLevel}); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	rooms := server.NewRoomManager(cfg)
	defer rooms.Close()
	_ = rooms.GetOrCreateRoom(server.DefaultRoom)

	api := &server.API{Rooms: rooms}
	srv := &http.Server{Addr: cfg.Addr, Handler: api.Routes()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		server.Log.Infof("listening on %s (tick %dHz, snapshot every %d ticks)", cfg.Addr, cfg.TickHz, cfg.BroadcastEvery)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		server.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		server.Log.Errorf("server: %v", err)
		server.SyncLogger()
		os.Exit(1)
	}
}
