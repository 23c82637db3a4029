package signaling

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/minhtran24/meethub/internal/domain"
)

// ConnState tracks where a connection is in its lifecycle. Transitions
// only ever move forward except InRoom → Authenticated after the last
// explicit leave; events arriving in the wrong state are no-ops.
type ConnState int32

const (
	StateAuthenticated ConnState = iota
	StateInRoom
	StateClosed
)

const eventQueueSize = 16

// Client is one realtime connection with its authenticated user bound at
// handshake time. Outbound events go through a buffered queue drained by
// a single write pump so handlers never write to the socket directly.
type Client struct {
	id        string
	user      *domain.User
	conn      *websocket.Conn
	events    chan ServerEvent
	done      chan struct{}
	state     atomic.Int32
	closeOnce sync.Once
}

func NewClient(user *domain.User, conn *websocket.Conn) *Client {
	return &Client{
		id:     uuid.New().String(),
		user:   user,
		conn:   conn,
		events: make(chan ServerEvent, eventQueueSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) User() *domain.User {
	return c.user
}

// Enqueue queues an event for delivery. It never blocks: events to a
// closed client are discarded, and a full queue drops the event rather
// than stalling the sender.
func (c *Client) Enqueue(evt ServerEvent) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.events <- evt:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// WritePump drains the event queue onto the socket. Runs as a single
// goroutine per client; returns when the client closes or a write fails.
func (c *Client) WritePump() {
	for {
		select {
		case <-c.done:
			return
		case evt := <-c.events:
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) transition(from, to ConnState) bool {
	return c.state.CompareAndSwap(int32(from), int32(to))
}
