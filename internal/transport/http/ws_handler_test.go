package http

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/coder/websocket"

	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t, nil)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketUpgradeAlongsideRouter(t *testing.T) {
	ts := startTestServer(t, nil)
	ctx := testContext(t)

	// dial fails fast unless /ws answers 101 and sends connected first.
	conn := dial(t, ctx, ts)

	resp, err := ts.Client().Get(ts.URL + "/api/users")
	if err != nil {
		t.Fatalf("users request failed: %v", err)
	}
	defer resp.Body.Close()
	var users []string
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if !slices.Equal(users, []string{conn.nick}) {
		t.Fatalf("expected %s to be registered, got %v", conn.nick, users)
	}
}

func TestWebSocketChannelLifecycle(t *testing.T) {
	ts := startTestServer(t, nil)
	ctx := testContext(t)

	alice := dial(t, ctx, ts)
	bob := dial(t, ctx, ts)
	if alice.nick != "User0" || bob.nick != "User1" {
		t.Fatalf("unexpected nicknames: %s, %s", alice.nick, bob.nick)
	}

	alice.send(proto.InboundTypeCreate, proto.CreateData{Channel: "room"})
	alice.expectEvent(proto.EventNameCreated, nil)

	bob.send(proto.InboundTypeJoin, proto.ChannelData{Channel: "room"})
	for _, c := range []*testConn{alice, bob} {
		var names proto.EventNames
		c.expectEvent(proto.EventNameNames, &names)
		if names.Owner != "User0" || names.User != "User1" || !slices.Equal(names.Members, []string{"User0", "User1"}) {
			t.Fatalf("unexpected names: %+v", names)
		}
	}

	alice.send(proto.InboundTypeMsg, proto.MsgData{Channel: "room", Text: "hi"})
	for _, c := range []*testConn{alice, bob} {
		var msg proto.EventMessage
		c.expectEvent(proto.EventNameMessage, &msg)
		if msg.User != "User0" || msg.Text != "hi" || msg.Channel != "room" || msg.TS == 0 {
			t.Fatalf("unexpected message: %+v", msg)
		}
	}

	bob.send(proto.InboundTypeLeave, proto.ChannelData{Channel: "room"})
	for _, c := range []*testConn{alice, bob} {
		var left proto.EventLeft
		c.expectEvent(proto.EventNameLeft, &left)
		if left.User != "User1" {
			t.Fatalf("unexpected left: %+v", left)
		}
	}

	bob.send(proto.InboundTypeJoin, proto.ChannelData{Channel: "room"})
	alice.expectEvent(proto.EventNameNames, nil)
	bob.expectEvent(proto.EventNameNames, nil)

	bob.send(proto.InboundTypeKick, proto.MemberData{Channel: "room", User: "User0"})
	protoErr := bob.expectError(core.ErrCodeUserNotOwner)
	if protoErr.Command != "kick" || protoErr.Channel != "room" {
		t.Fatalf("unexpected error context: %+v", protoErr)
	}

	alice.send(proto.InboundTypeInvite, proto.MemberData{Channel: "room", User: "User1"})
	alice.expectError(core.ErrCodeInviteToPublicChannel)

	bob.send(proto.InboundTypeNick, proto.NickData{Nickname: "bob"})
	for _, c := range []*testConn{alice, bob} {
		var nick proto.EventNickname
		c.expectEvent(proto.EventNameNickname, &nick)
		if nick.Old != "User1" || nick.New != "bob" {
			t.Fatalf("unexpected nickname event: %+v", nick)
		}
	}

	alice.send(proto.InboundTypeKick, proto.MemberData{Channel: "room", User: "bob"})
	for _, c := range []*testConn{alice, bob} {
		var kicked proto.EventKicked
		c.expectEvent(proto.EventNameKicked, &kicked)
		if kicked.By != "User0" || kicked.User != "bob" {
			t.Fatalf("unexpected kicked event: %+v", kicked)
		}
	}
}

func TestWebSocketPrivateChannelInvite(t *testing.T) {
	ts := startTestServer(t, nil)
	ctx := testContext(t)

	alice := dial(t, ctx, ts)
	bob := dial(t, ctx, ts)

	alice.send(proto.InboundTypeCreate, proto.CreateData{Channel: "secret", InviteOnly: true})
	var created proto.EventCreated
	alice.expectEvent(proto.EventNameCreated, &created)
	if !created.InviteOnly {
		t.Fatalf("expected invite-only channel: %+v", created)
	}

	bob.send(proto.InboundTypeJoin, proto.ChannelData{Channel: "secret"})
	bob.expectError(core.ErrCodeJoinPrivateChannel)

	alice.send(proto.InboundTypeInvite, proto.MemberData{Channel: "secret", User: bob.nick})
	var names proto.EventNames
	bob.expectEvent(proto.EventNameNames, &names)
	if names.Invited != bob.nick || names.Owner != alice.nick {
		t.Fatalf("unexpected roster: %+v", names)
	}
}

func TestWebSocketDisconnectNotifiesPeers(t *testing.T) {
	ts := startTestServer(t, nil)
	ctx := testContext(t)

	alice := dial(t, ctx, ts)
	bob := dial(t, ctx, ts)

	bob.send(proto.InboundTypeCreate, proto.CreateData{Channel: "room"})
	bob.expectEvent(proto.EventNameCreated, nil)
	alice.send(proto.InboundTypeJoin, proto.ChannelData{Channel: "room"})
	alice.expectEvent(proto.EventNameNames, nil)
	bob.expectEvent(proto.EventNameNames, nil)

	alice.conn.Close(websocket.StatusNormalClosure, "bye")

	var gone proto.EventUser
	bob.expectEvent(proto.EventNameDisconnected, &gone)
	if gone.User != alice.nick {
		t.Fatalf("unexpected disconnected event: %+v", gone)
	}

	// The freed nickname is handed to the next connection.
	carol := dial(t, ctx, ts)
	if carol.nick != alice.nick {
		t.Fatalf("expected nickname %s to be reused, got %s", alice.nick, carol.nick)
	}
}

func TestWebSocketMalformedFramesKeepConnection(t *testing.T) {
	ts := startTestServer(t, nil)
	ctx := testContext(t)

	conn := dial(t, ctx, ts)

	if err := conn.conn.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write raw frame: %v", err)
	}
	conn.expectError(core.ErrCodeBadRequest)

	conn.send("dance", json.RawMessage(`{}`))
	conn.expectError(proto.ErrCodeInvalidMessage)

	conn.send(proto.InboundTypeMsg, json.RawMessage(`{"channel": 5}`))
	conn.expectError(core.ErrCodeBadRequest)

	conn.send(proto.InboundTypeCreate, proto.CreateData{Channel: "bad name"})
	conn.expectError(core.ErrCodeInvalidName)

	conn.send(proto.InboundTypeCreate, proto.CreateData{Channel: "ok"})
	conn.expectEvent(proto.EventNameCreated, nil)
}
