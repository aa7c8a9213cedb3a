package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 32
	maxMessageSize = 64 * 1024
)

// client is one WebSocket connection attached to a room.
type client struct {
	id   string
	room *Room
	conn *websocket.Conn
	log  *slog.Logger

	readTimeout time.Duration

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(room *Room, conn *websocket.Conn, readTimeout time.Duration) *client {
	id := uuid.NewString()
	return &client{
		id:          id,
		room:        room,
		conn:        conn,
		log:         room.log.With("client", id),
		readTimeout: readTimeout,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
	}
}

// enqueue queues a frame without blocking. A client that cannot keep up
// is disconnected.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	case <-c.done:
	default:
		c.log.Warn("send buffer full, closing client")
		c.close()
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readLoop applies client requests until the connection fails.
func (c *client) readLoop() {
	defer func() {
		c.room.detach(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		if c.readTimeout > 0 {
			c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Error("read error", "error", err)
			}
			return
		}

		var req message
		if err := json.Unmarshal(data, &req); err != nil {
			c.sendError(kiterrors.New("G042").WithDetail("invalid JSON frame").Wrap(err))
			continue
		}
		c.handle(req)
	}
}

// writeLoop drains the send queue and keeps the connection alive.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *client) handle(req message) {
	ctx := context.Background()

	var (
		res Result
		err error
	)
	switch group.Op(req.Op) {
	case group.OpToggle:
		res, err = c.room.Toggle(ctx, group.ID(req.ID))
	case group.OpNext:
		res, err = c.room.Next(ctx)
	case group.OpPrev:
		res, err = c.room.Prev(ctx)
	case group.OpStep:
		res, err = c.room.Step(ctx, req.N)
	case group.OpSetModel:
		res, err = c.room.SetSelection(ctx, req.Values, nil)
	case group.OpRegister:
		_, res, err = c.room.AddItem(ctx, req.Value)
	case group.OpUnregister:
		res, err = c.room.RemoveItem(ctx, group.ID(req.ID))
	default:
		ke := kiterrors.New("G042").WithDetailf("unknown op %q", req.Op)
		if s := closest(req.Op, clientOps); s != "" {
			ke.WithSuggestion("did you mean " + s + "?")
		}
		err = ke
	}

	if err != nil {
		c.sendError(err)
		return
	}
	c.enqueue(mustEncode(message{Type: msgResult, Group: c.room.name, Result: &res}))
}

func (c *client) sendError(err error) {
	c.enqueue(mustEncode(message{Type: msgError, Group: c.room.name, Error: kiterrors.FromError(err, "G042")}))
}

var clientOps = []string{
	string(group.OpToggle), string(group.OpNext), string(group.OpPrev),
	string(group.OpStep), string(group.OpSetModel),
	string(group.OpRegister), string(group.OpUnregister),
}
