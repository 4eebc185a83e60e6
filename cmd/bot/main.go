package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"miniplatformer/client"
	"miniplatformer/physics"
)

// walker wanders left and right and jumps now and then.
type walker struct {
	rng   *rand.Rand
	axis  float64
	until int
	tick  int
}

func (w *walker) Intent(p *client.Peer) physics.Intent {
	w.tick++
	if w.tick >= w.until {
		w.axis = float64(w.rng.Intn(3) - 1)
		w.until = w.tick + 10 + w.rng.Intn(50)
	}
	return physics.Intent{
		Axis: w.axis,
		Jump: p.Local().Grounded() && w.rng.Float64() < 0.05,
	}
}

func main() {
	var (
		url      string
		name     string
		duration time.Duration
	)
	flag.StringVar(&url, "url", "ws://localhost:8080/ws?room=room-1", "server websocket url")
	flag.StringVar(&name, "name", "bot", "display name")
	flag.DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	s, err := client.Dial(ctx, client.Config{
		URL:   url,
		Name:  name,
		Input: &walker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))},
		Log:   log,
	})
	if err != nil {
		log.Errorf("connect: %v", err)
		os.Exit(1)
	}
	s.SetReady(true)

	if err := s.Run(ctx); err != nil {
		log.Errorf("session: %v", err)
		os.Exit(1)
	}
	log.Info("bye")
}
