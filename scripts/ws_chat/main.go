package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/chanserv/internal/proto"
)

const usage = `commands:
  /nick <name>            change nickname
  /create <channel> [-p]  create a channel (-p for invite-only)
  /join <channel>         join and switch to a channel
  /leave [channel]        leave a channel
  /invite <user>          invite a user into the current channel
  /kick <user>            kick a user from the current channel
  anything else is sent to the current channel`

type outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "", "nickname (server default when empty)")
	channel := flag.String("channel", "", "channel to join on start")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, conn, proto.InboundTypeHello, proto.HelloData{User: *user, Protocol: proto.ProtocolVersion}); err != nil {
		return err
	}
	current := *channel
	if current != "" {
		if err := send(ctx, conn, proto.InboundTypeJoin, proto.ChannelData{Channel: current}); err != nil {
			return err
		}
	}

	fmt.Printf("Connected to %s\n%s\n", *addr, usage)

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, current)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}
		if out.Error != nil {
			fmt.Printf("! %s: %s\n", out.Error.Code, out.Error.Msg)
			continue
		}
		printEvent(out)
	}
}

func printEvent(out outbound) {
	switch out.Event {
	case proto.EventNameMessage:
		var evt proto.EventMessage
		if err := json.Unmarshal(out.Data, &evt); err == nil {
			fmt.Printf("[%s] %s: %s\n", evt.Channel, evt.User, evt.Text)
			return
		}
	case proto.EventNameNames:
		var evt proto.EventNames
		if err := json.Unmarshal(out.Data, &evt); err == nil {
			fmt.Printf("[%s] owner=%s members=%s\n", evt.Channel, evt.Owner, strings.Join(evt.Members, ", "))
			return
		}
	case proto.EventNameNickname:
		var evt proto.EventNickname
		if err := json.Unmarshal(out.Data, &evt); err == nil {
			fmt.Printf("* %s is now %s\n", evt.Old, evt.New)
			return
		}
	case proto.EventNameLeft:
		var evt proto.EventLeft
		if err := json.Unmarshal(out.Data, &evt); err == nil {
			fmt.Printf("[%s] %s left\n", evt.Channel, evt.User)
			return
		}
	case proto.EventNameKicked:
		var evt proto.EventKicked
		if err := json.Unmarshal(out.Data, &evt); err == nil {
			fmt.Printf("[%s] %s kicked %s\n", evt.Channel, evt.By, evt.User)
			return
		}
	}
	fmt.Printf("event=%s data=%s\n", out.Event, string(out.Data))
}

func writeLoop(ctx context.Context, conn *websocket.Conn, current string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			var err error
			current, err = dispatch(ctx, conn, current, text)
			if err != nil {
				log.Printf("%v", err)
				return
			}
		}
	}
}

// dispatch turns one input line into a protocol frame and returns the current channel.
func dispatch(ctx context.Context, conn *websocket.Conn, current, text string) (string, error) {
	if !strings.HasPrefix(text, "/") {
		if current == "" {
			fmt.Println("join a channel first")
			return current, nil
		}
		return current, send(ctx, conn, proto.InboundTypeMsg, proto.MsgData{Channel: current, Text: text})
	}

	fields := strings.Fields(text)
	arg := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	switch fields[0] {
	case "/nick":
		return current, send(ctx, conn, proto.InboundTypeNick, proto.NickData{Nickname: arg(1)})
	case "/create":
		return current, send(ctx, conn, proto.InboundTypeCreate, proto.CreateData{Channel: arg(1), InviteOnly: arg(2) == "-p"})
	case "/join":
		return arg(1), send(ctx, conn, proto.InboundTypeJoin, proto.ChannelData{Channel: arg(1)})
	case "/leave":
		name := arg(1)
		if name == "" {
			name = current
		}
		if name == current {
			current = ""
		}
		return current, send(ctx, conn, proto.InboundTypeLeave, proto.ChannelData{Channel: name})
	case "/invite":
		return current, send(ctx, conn, proto.InboundTypeInvite, proto.MemberData{Channel: current, User: arg(1)})
	case "/kick":
		return current, send(ctx, conn, proto.InboundTypeKick, proto.MemberData{Channel: current, User: arg(1)})
	default:
		fmt.Println(usage)
		return current, nil
	}
}
