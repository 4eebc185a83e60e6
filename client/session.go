package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"miniplatformer/physics"
	"miniplatformer/protocol"
)

var ErrUnexpectedFrame = errors.New("unexpected frame")

const (
	handshakeWait = 5 * time.Second
	writeWait     = 5 * time.Second
)

// InputSource supplies one intent per tick.
type InputSource interface {
	Intent(p *Peer) physics.Intent
}

// InputFunc adapts a function to InputSource.
type InputFunc func(p *Peer) physics.Intent

func (f InputFunc) Intent(p *Peer) physics.Intent { return f(p) }

type Config struct {
	// URL is the server's websocket endpoint, e.g. ws://localhost:8080/ws?room=room-1.
	URL string
	// Name is the local display name, sent once after joining.
	Name  string
	Input InputSource
	Log   *zap.SugaredLogger
}

// Session connects a Peer to a server. Run owns the Peer: one goroutine reads
// frames and hands them to the tick goroutine, which applies them, steps the
// local body and writes state.
type Session struct {
	ws    *websocket.Conn
	peer  *Peer
	input InputSource
	log   *zap.SugaredLogger
	hz    int

	incoming chan protocol.Envelope
	commands chan protocol.Command
}

// Dial connects, performs the hello/welcome handshake and sends the display name.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	input := cfg.Input
	if input == nil {
		input = InputFunc(func(*Peer) physics.Intent { return physics.Intent{} })
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}
	welcome, err := handshake(ws)
	if err != nil {
		_ = ws.Close()
		return nil, err
	}

	s := &Session{
		ws:       ws,
		peer:     NewPeer(welcome),
		input:    input,
		log:      log.With("player", welcome.PlayerID),
		hz:       welcome.TickHz,
		incoming: make(chan protocol.Envelope, 256),
		commands: make(chan protocol.Command, 16),
	}
	if s.hz <= 0 {
		s.hz = 30
	}
	if err := s.write(protocol.MsgCommand, protocol.Command{Kind: protocol.SetName, Name: cfg.Name}); err != nil {
		_ = ws.Close()
		return nil, err
	}
	s.log.Infof("joined: spawn=%v tickHz=%d", welcome.Spawn, s.hz)
	return s, nil
}

func handshake(ws *websocket.Conn) (protocol.Welcome, error) {
	hello := protocol.MustEncode(protocol.MsgHello, protocol.Hello{Version: protocol.Version})
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteMessage(websocket.BinaryMessage, hello); err != nil {
		return protocol.Welcome{}, fmt.Errorf("send hello: %w", err)
	}
	_ = ws.SetReadDeadline(time.Now().Add(handshakeWait))
	_, frame, err := ws.ReadMessage()
	if err != nil {
		return protocol.Welcome{}, fmt.Errorf("read welcome: %w", err)
	}
	_ = ws.SetReadDeadline(time.Time{})

	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		return protocol.Welcome{}, err
	}
	if env.T != protocol.MsgWelcome {
		return protocol.Welcome{}, fmt.Errorf("%w: %q before welcome", ErrUnexpectedFrame, env.T)
	}
	return protocol.DecodePayload[protocol.Welcome](env)
}

func (s *Session) PlayerID() string { return s.peer.ID }

// SetReady queues a ready command for the next tick.
func (s *Session) SetReady(ready bool) {
	select {
	case s.commands <- protocol.Command{Kind: protocol.SetReady, Ready: ready}:
	default:
		s.log.Warn("command queue full, ready change dropped")
	}
}

// Run blocks until ctx is done or the connection fails.
func (s *Session) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		<-ctx.Done()
		_ = s.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		return s.ws.Close()
	})
	eg.Go(func() error { return s.readLoop(ctx) })
	eg.Go(func() error { return s.tickLoop(ctx) })

	err := eg.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		_, frame, err := s.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		env, err := protocol.DecodeEnvelope(frame)
		if err != nil {
			s.log.Debugf("bad frame: %v", err)
			continue
		}
		select {
		case s.incoming <- env:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Session) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.hz))
	defer ticker.Stop()
	dt := 1 / float64(s.hz)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		s.drainIncoming()
		rep := s.peer.Step(s.input.Intent(s.peer), dt)
		if rep.Skipped > 0 {
			s.log.Debugf("tick: candidates=%d corrections=%d skipped=%d", rep.Candidates, rep.Corrections, rep.Skipped)
		}
		err := s.write(protocol.MsgState, s.peer.NextState())
		if err == nil {
			err = s.flushCommands()
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

func (s *Session) drainIncoming() {
	for {
		select {
		case env := <-s.incoming:
			if err := s.apply(env); err != nil {
				s.log.Debugf("apply %s: %v", env.T, err)
			}
		default:
			return
		}
	}
}

func (s *Session) apply(env protocol.Envelope) error {
	switch env.T {
	case protocol.MsgSnapshot:
		snap, err := protocol.DecodePayload[protocol.Snapshot](env)
		if err != nil {
			return err
		}
		s.peer.ApplySnapshot(snap)
	case protocol.MsgIdentity:
		id, err := protocol.DecodePayload[protocol.IdentityChanged](env)
		if err != nil {
			return err
		}
		s.peer.ApplyIdentity(id)
	case protocol.MsgLeft:
		left, err := protocol.DecodePayload[protocol.Left](env)
		if err != nil {
			return err
		}
		s.peer.RemovePlayer(left.PlayerID)
	case protocol.MsgTunables:
		tc, err := protocol.DecodePayload[protocol.TunablesChanged](env)
		if err != nil {
			return err
		}
		s.peer.SetTunables(tc.Tunables)
		s.log.Infof("tunables changed: %+v", tc.Tunables)
	case protocol.MsgMatch:
		m, err := protocol.DecodePayload[protocol.Match](env)
		if err != nil {
			return err
		}
		s.peer.ApplyMatch(m)
		s.log.Infof("match: started=%t players=%d ready=%d", m.Started, m.Players, m.Ready)
	case protocol.MsgError:
		e, err := protocol.DecodePayload[protocol.Error](env)
		if err != nil {
			return err
		}
		s.log.Warnf("server rejected %s: %s", e.Ref, e.Reason)
	default:
		return fmt.Errorf("%w: %q", ErrUnexpectedFrame, env.T)
	}
	return nil
}

func (s *Session) flushCommands() error {
	for {
		select {
		case cmd := <-s.commands:
			if err := s.write(protocol.MsgCommand, cmd); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// write is only called from Dial and the tick goroutine.
func (s *Session) write(t string, payload any) error {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}
	_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.ws.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return fmt.Errorf("write %s: %w", t, err)
	}
	return nil
}
