// internal/handlers/ws_channel.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/blanks/internal/game"
	"github.com/sirupsen/logrus"
)

const (
	outBuffer    = 32
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
	pingTimeout  = 15 * time.Second
	readLimit    = 16 << 10
)

// wsChannel adapts one websocket connection to game.ClientChannel. The session
// writes into out without blocking; writePump drains it. readPump is the only writer
// of in and closes it when the connection ends.
type wsChannel struct {
	conn *websocket.Conn
	log  logrus.FieldLogger

	out  chan game.Event
	in   chan game.ClientMessage
	done chan struct{}

	closeOnce sync.Once
	closeCode websocket.StatusCode
	closeMsg  string
	cancel    context.CancelFunc
}

func newWSChannel(conn *websocket.Conn, log logrus.FieldLogger, cancel context.CancelFunc) *wsChannel {
	return &wsChannel{
		conn:      conn,
		log:       log,
		out:       make(chan game.Event, outBuffer),
		in:        make(chan game.ClientMessage),
		done:      make(chan struct{}),
		closeCode: websocket.StatusNormalClosure,
		cancel:    cancel,
	}
}

// Send queues ev for the write pump. A full queue means the client cannot keep up;
// the connection is dropped rather than letting its view of the game drift.
func (ch *wsChannel) Send(ev game.Event) error {
	select {
	case <-ch.done:
		return game.ErrSendFailed
	default:
	}
	select {
	case ch.out <- ev:
		return nil
	default:
		ch.shutdown(SlowConsumerError, "too many pending events")
		return game.ErrSendFailed
	}
}

func (ch *wsChannel) Inbound() <-chan game.ClientMessage {
	return ch.in
}

// shutdown stops both pumps. The first caller picks the close status.
func (ch *wsChannel) shutdown(code websocket.StatusCode, reason string) {
	ch.closeOnce.Do(func() {
		ch.closeCode = code
		ch.closeMsg = reason
		close(ch.done)
		ch.cancel()
	})
}

func (ch *wsChannel) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch.done:
			return
		case ev := <-ch.out:
			data, err := json.Marshal(ev)
			if err != nil {
				ch.log.Warnf("Failed to marshal outgoing %s: %v", ev.Type, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = ch.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				ch.log.Warnf("Failed to write to websocket: %v", err)
				ch.shutdown(websocket.StatusGoingAway, "write failed")
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := ch.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				ch.log.Warnf("Failed to send ping: %v. Assuming disconnect.", err)
				ch.shutdown(websocket.StatusGoingAway, "ping failed")
				return
			}
		}
	}
}

func (ch *wsChannel) readPump(ctx context.Context) {
	defer close(ch.in)

	for {
		typ, data, err := ch.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			switch {
			case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
				ch.log.Info("WebSocket closed normally.")
			case errors.Is(err, context.Canceled):
				ch.log.Debug("WebSocket read cancelled.")
			default:
				ch.log.Warnf("Error reading from WebSocket: %v (Status: %d)", err, status)
			}
			return
		}
		if typ != websocket.MessageText {
			ch.log.Warnf("Received non-text message type %d. Ignoring.", typ)
			continue
		}

		var msg game.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			ch.log.Warnf("Invalid JSON received: %v", err)
			continue
		}
		ch.log.Debugf("Received %s", msg.Type)

		select {
		case ch.in <- msg:
		case <-ctx.Done():
			return
		}
	}
}
