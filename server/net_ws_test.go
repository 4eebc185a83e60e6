package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"miniplatformer/protocol"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?room=net"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// next reads frames until one of type typ arrives.
func next(t *testing.T, ws *websocket.Conn, typ string) protocol.Envelope {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, b, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		env, err := protocol.DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.T == typ {
			return env
		}
	}
}

func TestWebsocketHandshakeAndCommand(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.Routes())
	defer srv.Close()

	ws := dial(t, srv)
	if err := ws.WriteMessage(websocket.BinaryMessage, protocol.MustEncode(protocol.MsgHello, protocol.Hello{Version: protocol.Version})); err != nil {
		t.Fatalf("hello: %v", err)
	}
	welcome, err := protocol.DecodePayload[protocol.Welcome](next(t, ws, protocol.MsgWelcome))
	if err != nil || welcome.PlayerID == "" {
		t.Fatalf("welcome=%+v err=%v", welcome, err)
	}

	cmd := protocol.MustEncode(protocol.MsgCommand, protocol.Command{Kind: protocol.SetName, Name: "ana"})
	if err := ws.WriteMessage(websocket.BinaryMessage, cmd); err != nil {
		t.Fatalf("cmd: %v", err)
	}
	id, err := protocol.DecodePayload[protocol.IdentityChanged](next(t, ws, protocol.MsgIdentity))
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if id.PlayerID != welcome.PlayerID || id.Name != "ana" {
		t.Fatalf("identity=%+v", id)
	}
}

func TestWebsocketRejectsMissingHello(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.Routes())
	defer srv.Close()

	ws := dial(t, srv)
	if err := ws.WriteMessage(websocket.BinaryMessage, protocol.MustEncode(protocol.MsgState, protocol.BodyState{Seq: 1})); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseProtocolError) {
		t.Fatalf("err=%v want protocol close", err)
	}
}
