package server

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"miniplatformer/physics"
	"miniplatformer/protocol"
)

var (
	ErrUnknownPlayer = errors.New("unknown player")
	ErrRoomStopped   = errors.New("room stopped")
)

// Settings are the room values that may change while it runs.
type Settings struct {
	Tunables       physics.Tunables `json:"tunables"`
	BroadcastEvery int              `json:"broadcastEvery"`
}

func (s Settings) Validate() error {
	if s.BroadcastEvery <= 0 {
		return fmt.Errorf("broadcast every %d ticks: %w", s.BroadcastEvery, ErrInvalidConfig)
	}
	return ValidateTunables(s.Tunables)
}

// Control messages: joins, leaves and settings changes are never dropped.
type joinRequest struct {
	conn  Conn
	reply chan PlayerID
}

type leaveRequest struct {
	id PlayerID
}

type settingsRequest struct {
	patch SettingsPatch
}

// Inbox messages: dropped when the inbox is full.
type stateMessage struct {
	from  PlayerID
	state protocol.BodyState
}

type commandMessage struct {
	from PlayerID
	cmd  protocol.Command
}

// Room relays replicated player state. Each client simulates its own body;
// the room keeps a Remote replica per player, validates what owners send,
// runs identity commands through each player's Gate and broadcasts snapshots.
// All room state is owned by the tick goroutine.
type Room struct {
	ID string

	cfg Config

	mu       sync.RWMutex // guards settings for readers outside the tick goroutine
	settings Settings

	players map[PlayerID]*Player
	byBody  map[*physics.Body]*Player
	bodies  *physics.BodySet

	control chan any
	inbox   chan any
	done    chan struct{}

	stopOnce      sync.Once
	tickerStarted atomic.Bool
	tickSeq       atomic.Uint64

	nextShape physics.ShapeID
	nextSpawn int
	match     protocol.Match

	metrics *RoomMetrics
}

func NewRoom(id string, cfg Config) *Room {
	inbox := cfg.InboxSize
	if inbox <= 0 {
		inbox = 256
	}
	return &Room{
		ID:  id,
		cfg: cfg,
		settings: Settings{
			Tunables:       cfg.Tunables,
			BroadcastEvery: cfg.BroadcastEvery,
		},
		players: make(map[PlayerID]*Player),
		byBody:  make(map[*physics.Body]*Player),
		bodies:  physics.NewBodySet(),
		control: make(chan any, 64),
		inbox:   make(chan any, inbox),
		done:    make(chan struct{}),
		metrics: &RoomMetrics{},
	}
}

func (r *Room) Metrics() *RoomMetrics { return r.metrics }
func (r *Room) Tick() uint64          { return r.tickSeq.Load() }

func (r *Room) Settings() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// RequestJoin queues a join. The reply yields the new player's id once the
// tick goroutine has sent the welcome, and is closed if the room stops first.
func (r *Room) RequestJoin(conn Conn) <-chan PlayerID {
	reply := make(chan PlayerID, 1)
	if r.stopped() {
		close(reply)
		return reply
	}
	select {
	case r.control <- joinRequest{conn: conn, reply: reply}:
	case <-r.done:
		close(reply)
	}
	return reply
}

// RequestLeave queues a leave. It blocks until queued so a disconnect is never lost.
func (r *Room) RequestLeave(id PlayerID) {
	select {
	case r.control <- leaveRequest{id: id}:
	case <-r.done:
	}
}

// UpdateSettings validates patch against the current settings and queues it
// for the next tick boundary.
func (r *Room) UpdateSettings(patch SettingsPatch) error {
	if r.stopped() {
		return ErrRoomStopped
	}
	if err := patch.Apply(r.Settings()).Validate(); err != nil {
		return err
	}
	select {
	case r.control <- settingsRequest{patch: patch}:
		return nil
	case <-r.done:
		return ErrRoomStopped
	}
}

func (r *Room) stopped() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// OnState queues a state update from its owner, dropping it if the inbox is full.
func (r *Room) OnState(from PlayerID, st protocol.BodyState) {
	r.enqueue(stateMessage{from: from, state: st})
}

// OnCommand queues an identity command, dropping it if the inbox is full.
func (r *Room) OnCommand(from PlayerID, cmd protocol.Command) {
	r.enqueue(commandMessage{from: from, cmd: cmd})
}

func (r *Room) enqueue(m any) {
	select {
	case r.inbox <- m:
	default:
		r.metrics.IncInboxDropped()
	}
}

// Step runs one tick: control, inbox, match flow, then a snapshot every
// BroadcastEvery ticks.
func (r *Room) Step() {
	start := time.Now()
	seq := r.tickSeq.Add(1)

	r.drainControl()
	r.drainInbox()
	r.updateMatch()
	if seq%uint64(r.settings.BroadcastEvery) == 0 {
		r.broadcastSnapshot(seq)
	}

	r.metrics.AddTick(time.Since(start).Nanoseconds())
}

func (r *Room) drainControl() {
	for {
		select {
		case m := <-r.control:
			switch m := m.(type) {
			case joinRequest:
				r.handleJoin(m)
			case leaveRequest:
				r.handleLeave(m.id)
			case settingsRequest:
				r.handleSettings(m.patch)
			}
		default:
			return
		}
	}
}

// drainInbox handles at most what was queued when the tick began.
func (r *Room) drainInbox() {
	for n := len(r.inbox); n > 0; n-- {
		switch m := (<-r.inbox).(type) {
		case stateMessage:
			r.handleState(m)
		case commandMessage:
			r.handleCommand(m)
		}
	}
}

func (r *Room) handleJoin(req joinRequest) {
	id := PlayerID(uuid.NewString())
	spawns := r.cfg.Level.Spawns
	spawn := spawns[r.nextSpawn%len(spawns)]
	r.nextSpawn++
	r.nextShape++

	body := physics.NewBody(physics.BodyConfig{
		Shape:     r.nextShape,
		Size:      r.cfg.BodySize,
		Position:  spawn,
		Authority: physics.Remote,
	}, r.bodies)
	p := &Player{ID: id, Body: body, Gate: NewGate(id, r), Conn: req.conn}
	r.players[id] = p
	r.byBody[body] = p
	r.metrics.IncJoin()

	level := make([]protocol.Rect, 0, len(r.cfg.Level.Statics))
	for _, s := range r.cfg.Level.Statics {
		level = append(level, protocol.RectFrom(s))
	}
	p.Conn.Enqueue(protocol.MustEncode(protocol.MsgWelcome, protocol.Welcome{
		PlayerID: string(id),
		TickHz:   r.cfg.TickHz,
		Tunables: r.settings.Tunables,
		BodySize: r.cfg.BodySize,
		Spawn:    spawn,
		Level:    level,
	}))
	req.reply <- id
	Log.Infof("player joined: room=%s player=%s spawn=%v players=%d", r.ID, id, spawn, len(r.players))
}

func (r *Room) handleLeave(id PlayerID) {
	p, ok := r.players[id]
	if !ok {
		return
	}
	p.Body.Destroy()
	delete(r.byBody, p.Body)
	delete(r.players, id)
	if p.Conn != nil {
		p.Conn.Close()
	}
	r.metrics.IncLeave()
	r.broadcast(protocol.MustEncode(protocol.MsgLeft, protocol.Left{PlayerID: string(id)}))
	Log.Infof("player left: room=%s player=%s players=%d", r.ID, id, len(r.players))
}

func (r *Room) handleSettings(patch SettingsPatch) {
	next := patch.Apply(r.settings)
	if err := next.Validate(); err != nil {
		Log.Warnf("settings rejected: room=%s err=%v", r.ID, err)
		return
	}
	r.mu.Lock()
	r.settings = next
	r.mu.Unlock()

	r.broadcast(protocol.MustEncode(protocol.MsgTunables, protocol.TunablesChanged{Tunables: next.Tunables}))
	Log.Infof("settings updated: room=%s speed=%.2f jumpForce=%.2f gravity=%v broadcastEvery=%d",
		r.ID, next.Tunables.Speed, next.Tunables.JumpForce, next.Tunables.Gravity, next.BroadcastEvery)
}

func (r *Room) handleState(m stateMessage) {
	p, ok := r.players[m.from]
	if !ok {
		return
	}
	if m.state.Seq <= p.lastSeq {
		r.metrics.IncStateStale()
		return
	}
	if !finiteVec(m.state.Position) || !finiteVec(m.state.Velocity) {
		r.metrics.IncStateInvalid()
		Log.Debugf("non-finite state: room=%s player=%s seq=%d", r.ID, p.ID, m.state.Seq)
		return
	}
	if err := p.Body.ApplyReplicatedState(m.state.Replicated()); err != nil {
		Log.Errorf("apply state: room=%s player=%s: %v", r.ID, p.ID, err)
		return
	}
	p.lastSeq = m.state.Seq
	r.metrics.IncStateAccepted()
}

func (r *Room) handleCommand(m commandMessage) {
	p, ok := r.players[m.from]
	if !ok {
		return
	}
	target := p
	if m.cmd.Target != "" && PlayerID(m.cmd.Target) != m.from {
		target, ok = r.players[PlayerID(m.cmd.Target)]
		if !ok {
			r.rejectCommand(p, fmt.Errorf("%s: %w", m.cmd.Target, ErrUnknownPlayer))
			return
		}
	}
	if err := target.Gate.Dispatch(m.from, m.cmd); err != nil {
		r.rejectCommand(p, err)
		return
	}
	r.metrics.IncCommandAccepted()
}

func (r *Room) rejectCommand(p *Player, err error) {
	r.metrics.IncCommandRejected()
	Log.Warnf("command rejected: room=%s player=%s: %v", r.ID, p.ID, err)
	p.Conn.Enqueue(protocol.MustEncode(protocol.MsgError, protocol.Error{Ref: protocol.MsgCommand, Reason: err.Error()}))
}

// IdentityChanged implements Broadcaster for every Gate in the room.
func (r *Room) IdentityChanged(owner PlayerID, id Identity) {
	r.broadcast(protocol.MustEncode(protocol.MsgIdentity, protocol.IdentityChanged{
		PlayerID: string(owner),
		Ready:    id.Ready,
		Name:     id.Name,
	}))
}

// updateMatch enumerates the live bodies and broadcasts when the
// all-ready condition flips.
func (r *Room) updateMatch() {
	var n, ready int
	r.bodies.Range(func(b *physics.Body) bool {
		n++
		if p := r.byBody[b]; p != nil && p.Gate.Identity().Ready {
			ready++
		}
		return true
	})
	started := n >= r.cfg.MinPlayers && ready == n
	if started == r.match.Started {
		return
	}
	r.match = protocol.Match{Started: started, Players: n, Ready: ready}
	r.broadcast(protocol.MustEncode(protocol.MsgMatch, r.match))
	Log.Infof("match status: room=%s started=%t players=%d ready=%d", r.ID, started, n, ready)
}

func (r *Room) broadcastSnapshot(seq uint64) {
	snap := protocol.Snapshot{Tick: seq, Players: make([]protocol.PlayerSnapshot, 0, r.bodies.Len())}
	r.bodies.Range(func(b *physics.Body) bool {
		if p := r.byBody[b]; p != nil {
			snap.Players = append(snap.Players, p.snapshot())
		}
		return true
	})
	r.broadcast(protocol.MustEncode(protocol.MsgSnapshot, snap))
	r.metrics.IncSnapshot()
}

func (r *Room) broadcast(b []byte) {
	r.bodies.Range(func(body *physics.Body) bool {
		if p := r.byBody[body]; p != nil && p.Conn != nil {
			p.Conn.Enqueue(b)
		}
		return true
	})
}

// closeAll disconnects every player and fails queued joins. Called once the
// ticker has stopped.
func (r *Room) closeAll() {
pending:
	for {
		select {
		case m := <-r.control:
			if j, ok := m.(joinRequest); ok {
				close(j.reply)
			}
		default:
			break pending
		}
	}
	for id, p := range r.players {
		p.Body.Destroy()
		if p.Conn != nil {
			p.Conn.Close()
		}
		delete(r.players, id)
		delete(r.byBody, p.Body)
	}
}
