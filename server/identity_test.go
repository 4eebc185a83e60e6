package server_test

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"miniplatformer/protocol"
	"miniplatformer/server"
	"miniplatformer/server/mocks"
)

func TestGateDefaults(t *testing.T) {
	g := server.NewGate("p1", nil)
	if g.Identity() != (server.Identity{}) {
		t.Fatalf("identity=%+v, want zero", g.Identity())
	}
	if g.Owner() != "p1" {
		t.Fatalf("owner=%q", g.Owner())
	}
}

func TestGateOwnerMutationsBroadcast(t *testing.T) {
	ctrl := gomock.NewController(t)
	out := mocks.NewMockBroadcaster(ctrl)
	g := server.NewGate("p1", out)

	gomock.InOrder(
		out.EXPECT().IdentityChanged(server.PlayerID("p1"), server.Identity{Ready: true}),
		out.EXPECT().IdentityChanged(server.PlayerID("p1"), server.Identity{Ready: true, Name: "ana"}),
	)

	if err := g.SetReady("p1", true); err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	if err := g.SetName("p1", "ana"); err != nil {
		t.Fatalf("SetName: %v", err)
	}
}

func TestGateRepeatedCommandStillBroadcasts(t *testing.T) {
	ctrl := gomock.NewController(t)
	out := mocks.NewMockBroadcaster(ctrl)
	g := server.NewGate("p1", out)

	out.EXPECT().IdentityChanged(server.PlayerID("p1"), server.Identity{Name: "ana"}).Times(3)
	for i := 0; i < 3; i++ {
		if err := g.Dispatch("p1", protocol.Command{Kind: protocol.SetName, Name: "ana"}); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}
	if g.Identity().Name != "ana" {
		t.Fatalf("name=%q", g.Identity().Name)
	}
}

func TestGateRejectsNonOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	out := mocks.NewMockBroadcaster(ctrl)
	g := server.NewGate("p1", out)

	out.EXPECT().IdentityChanged(gomock.Any(), gomock.Any()).Times(0)

	if err := g.SetReady("p2", true); !errors.Is(err, server.ErrNotOwner) {
		t.Fatalf("err=%v want ErrNotOwner", err)
	}
	if g.Identity().Ready {
		t.Fatalf("non-owner changed ready")
	}
}

func TestGateRejectsUnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	out := mocks.NewMockBroadcaster(ctrl)
	g := server.NewGate("p1", out)

	out.EXPECT().IdentityChanged(gomock.Any(), gomock.Any()).Times(0)

	err := g.Dispatch("p1", protocol.Command{Kind: "kick"})
	if !errors.Is(err, server.ErrUnknownCommand) {
		t.Fatalf("err=%v want ErrUnknownCommand", err)
	}
}
