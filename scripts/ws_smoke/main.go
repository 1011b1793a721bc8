package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/chanserv/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "tester", "nickname to announce with hello")
	channel := flag.String("channel", "general", "channel name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", typ, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeHello, proto.HelloData{User: *user, Protocol: proto.ProtocolVersion}); err != nil {
		return err
	}
	// create fails with channel_already_exists on a busy server, so join as well
	if err := send(proto.InboundTypeCreate, proto.CreateData{Channel: *channel}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeJoin, proto.ChannelData{Channel: *channel}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeMsg, proto.MsgData{Channel: *channel, Text: *text}); err != nil {
		return err
	}

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		if outbound.Error != nil {
			fmt.Printf("error: code=%s command=%s msg=%s\n", outbound.Error.Code, outbound.Error.Command, outbound.Error.Msg)
			continue
		}
		fmt.Printf("event=%s data=%s\n", outbound.Event, string(outbound.Data))

		if outbound.Event == proto.EventNameMessage {
			var evt proto.EventMessage
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				return fmt.Errorf("unmarshal message: %w", err)
			}
			fmt.Printf("message: channel=%s user=%s text=%q ts=%d\n", evt.Channel, evt.User, evt.Text, evt.TS)
			return nil
		}
	}
}
