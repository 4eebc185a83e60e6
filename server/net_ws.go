package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"miniplatformer/protocol"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	helloWait      = 5 * time.Second
	maxMessageSize = 1 << 16
)

var ErrBadHello = errors.New("first frame is not a valid hello")

// ClientConn is the write side of a websocket connection. Frames are queued
// and written by writePump; a full queue drops the frame. Enqueue and Close
// belong to the room's tick goroutine.
type ClientConn struct {
	ws     *websocket.Conn
	send   chan []byte
	closed bool
}

var _ Conn = (*ClientConn)(nil)

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

func (c *ClientConn) Enqueue(b []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

// Close ends writePump, which closes the socket.
func (c *ClientConn) Close() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump feeds state and command frames into the room and asks the room to
// remove the player when the connection ends.
func (c *ClientConn) readPump(room *Room, id PlayerID) {
	defer func() {
		_ = c.ws.Close()
		room.RequestLeave(id)
	}()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Warnf("read: room=%s player=%s: %v", room.ID, id, err)
			}
			return
		}
		env, err := protocol.DecodeEnvelope(frame)
		if err != nil {
			Log.Debugf("bad frame: player=%s: %v", id, err)
			continue
		}
		switch env.T {
		case protocol.MsgState:
			st, err := protocol.DecodePayload[protocol.BodyState](env)
			if err != nil {
				continue
			}
			room.OnState(id, st)
		case protocol.MsgCommand:
			cmd, err := protocol.DecodePayload[protocol.Command](env)
			if err != nil {
				continue
			}
			room.OnCommand(id, cmd)
		default:
			Log.Debugf("ignored frame type %q from %s", env.T, id)
		}
	}
}

// readHello waits for the handshake frame and checks the protocol version.
func readHello(ws *websocket.Conn) error {
	_ = ws.SetReadDeadline(time.Now().Add(helloWait))
	_, frame, err := ws.ReadMessage()
	if err != nil {
		return err
	}
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil || env.T != protocol.MsgHello {
		return ErrBadHello
	}
	hello, err := protocol.DecodePayload[protocol.Hello](env)
	if err != nil || hello.Version != protocol.Version {
		return ErrBadHello
	}
	return nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWS upgrades /ws?room=room-1, performs the hello handshake and joins
// the room. Player ids are assigned by the room.
func (a *API) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade: %v", err)
		return
	}
	if err := readHello(ws); err != nil {
		Log.Warnf("handshake from %s: %v", r.RemoteAddr, err)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseProtocolError, "expected hello"),
			time.Now().Add(writeWait))
		_ = ws.Close()
		return
	}

	room := a.room(r)
	client := NewClientConn(ws)
	go client.writePump()

	id, ok := <-room.RequestJoin(client)
	if !ok {
		client.Close()
		return
	}
	go client.readPump(room, id)
}
