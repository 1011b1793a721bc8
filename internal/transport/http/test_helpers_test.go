package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chanserv/internal/config"
	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/proto"
	"github.com/vovakirdan/chanserv/internal/store"
)

// startTestServer runs a hub and an HTTP test server around it. journal may be nil.
func startTestServer(t *testing.T, journal store.Journal) *httptest.Server {
	t.Helper()

	hub := core.NewHub(journal, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	disabledLogger := zerolog.Nop()
	cfg := config.Default()
	cfg.Addr = ":0"

	server := NewServer(hub, journal, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

// testConn is a websocket client speaking the chat protocol.
type testConn struct {
	t    *testing.T
	ctx  context.Context
	conn *websocket.Conn
	nick string
}

// dial connects, requires a 101 upgrade and consumes the connected event.
func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *testConn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, resp, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial: %v (status %d)", err, status)
	}
	if resp.StatusCode != stdhttp.StatusSwitchingProtocols {
		t.Fatalf("expected 101 upgrade, got %d", resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	connectedCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	var out rawOutbound
	if err := wsjson.Read(connectedCtx, conn, &out); err != nil {
		t.Fatalf("no connected frame after upgrade: %v", err)
	}
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventNameConnected {
		t.Fatalf("expected connected event first, got %+v", out)
	}
	var user proto.EventUser
	if err := json.Unmarshal(out.Data, &user); err != nil {
		t.Fatalf("unmarshal connected data: %v", err)
	}
	if user.User == "" {
		t.Fatalf("connected event carries no nickname")
	}

	return &testConn{t: t, ctx: ctx, conn: conn, nick: user.User}
}

func (c *testConn) send(typ string, data any) {
	c.t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		c.t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(c.ctx, c.conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		c.t.Fatalf("send %s: %v", typ, err)
	}
}

type rawOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func (c *testConn) read() rawOutbound {
	c.t.Helper()

	var out rawOutbound
	if err := wsjson.Read(c.ctx, c.conn, &out); err != nil {
		c.t.Fatalf("read outbound: %v", err)
	}
	return out
}

// expectEvent reads the next frame, requires it to be the named event and decodes its data.
func (c *testConn) expectEvent(name string, data any) {
	c.t.Helper()

	out := c.read()
	if out.Type != proto.OutboundTypeEvent || out.Event != name {
		c.t.Fatalf("expected event %q, got %+v (error %+v)", name, out, out.Error)
	}
	if data == nil {
		return
	}
	if err := json.Unmarshal(out.Data, data); err != nil {
		c.t.Fatalf("unmarshal %s data: %v", name, err)
	}
}

// expectError reads the next frame and requires it to be an error with code.
func (c *testConn) expectError(code string) *proto.Error {
	c.t.Helper()

	out := c.read()
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != code {
		c.t.Fatalf("expected %s error, got %+v (error %+v)", code, out, out.Error)
	}
	return out.Error
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
