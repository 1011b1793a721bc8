package http

import (
	"testing"

	"github.com/vovakirdan/chanserv/internal/proto"
)

func TestProtocolVersionMismatch(t *testing.T) {
	ts := startTestServer(t, nil)
	ctx := testContext(t)

	conn := dial(t, ctx, ts)
	conn.send(proto.InboundTypeHello, proto.HelloData{User: "alice", Protocol: proto.ProtocolVersion + 1})
	conn.expectError(proto.ErrCodeUnsupportedVersion)
}

func TestHelloAppliesNickname(t *testing.T) {
	ts := startTestServer(t, nil)
	ctx := testContext(t)

	conn := dial(t, ctx, ts)
	conn.send(proto.InboundTypeHello, proto.HelloData{User: "alice", Protocol: proto.ProtocolVersion})
	// No channel shared yet, so the rename itself is silent; creating a
	// channel shows the new nickname as owner.
	conn.send(proto.InboundTypeCreate, proto.CreateData{Channel: "room"})

	var created proto.EventCreated
	conn.expectEvent(proto.EventNameCreated, &created)
	if created.Owner != "alice" || created.Channel != "room" {
		t.Fatalf("unexpected created event: %+v", created)
	}
}
