package signaling

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/minhtran24/meethub/internal/auth"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/service"
	"github.com/minhtran24/meethub/lib/logger/sl"
)

// CredentialVerifier authenticates the bearer credential presented at
// connection handshake.
type CredentialVerifier interface {
	Authenticate(ctx context.Context, credential string) (*domain.User, error)
}

// Gateway accepts realtime connections, authenticates them before the
// upgrade, and dispatches inbound events to the presence manager and the
// relays. It owns the registry and the live connection directory.
type Gateway struct {
	verifier CredentialVerifier
	registry *Registry
	presence *Presence
	relay    *Relay
	chat     *Chat
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewGateway(verifier CredentialVerifier, meetings service.MeetingInteractor, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}

	g := &Gateway{
		verifier: verifier,
		registry: NewRegistry(),
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[string]*Client),
	}

	g.presence = NewPresence(g.registry, meetings, g, log)
	g.relay = NewRelay(g.registry, g, log)
	g.chat = NewChat(g.registry, g, log)

	return g
}

// Registry exposes the presence directory for read-side consumers such as
// the REST participants endpoint.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Find implements Directory over the live connection set.
func (g *Gateway) Find(connID string) (Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	client, ok := g.clients[connID]
	return client, ok
}

// Handle authenticates and upgrades one realtime connection, then runs
// its read loop until the transport closes. Authentication failures are
// refused before the upgrade, so a rejected connection never exchanges a
// single event.
func (g *Gateway) Handle(ctx *gin.Context) {
	credential := bearerToken(ctx.Request)

	user, err := g.verifier.Authenticate(ctx.Request.Context(), credential)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, auth.ErrUnauthorized) {
			status = http.StatusForbidden
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	conn, err := g.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		g.log.Error("websocket upgrade failed", sl.Err(err))
		return
	}

	client := NewClient(user, conn)

	g.mu.Lock()
	g.clients[client.ID()] = client
	g.mu.Unlock()

	go client.WritePump()

	g.log.Info("connection established",
		"conn_id", client.ID(),
		"user_id", user.ID.String(),
		"user_name", user.FullName,
	)

	g.readLoop(ctx.Request.Context(), client, conn)
	g.drop(client)
}

func (g *Gateway) readLoop(ctx context.Context, client *Client, conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg domain.SignalMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			client.Enqueue(errorEvent(codeMalformedEvent, "malformed event"))
			continue
		}

		g.dispatch(ctx, client, &msg)
	}
}

func (g *Gateway) dispatch(ctx context.Context, client *Client, msg *domain.SignalMessage) {
	switch msg.Type {
	case EventJoinMeeting:
		if err := g.presence.Join(ctx, client, msg.RoomID, msg.MeetingID); err != nil {
			client.Enqueue(joinError(err))
			return
		}
		client.transition(StateAuthenticated, StateInRoom)
	case EventLeaveMeeting:
		g.presence.Leave(client, msg.RoomID)
	case EventChatMessage:
		g.chat.Send(client, msg)
	case EventTyping:
		g.chat.Typing(client, msg.RoomID, msg.IsTyping)
	case EventMediaToggle:
		g.relay.MediaToggle(client, msg.RoomID, msg.MediaType, msg.Enabled)
	case EventOffer:
		g.relay.Offer(client, msg)
	case EventAnswer:
		g.relay.Answer(client, msg)
	case EventICECandidate:
		g.relay.Candidate(client, msg)
	case EventEndCall:
		g.relay.EndCall(client, msg.RoomID)
	case EventReconnectRequest:
		g.relay.ReconnectRequest(client, msg.RoomID)
	default:
		g.log.Debug("dropping unknown event", "type", msg.Type, "conn_id", client.ID())
	}
}

// drop tears one connection down: out of the directory, out of every
// room, socket closed. Runs exactly the same for explicit closes and
// abrupt transport failures.
func (g *Gateway) drop(client *Client) {
	g.mu.Lock()
	delete(g.clients, client.ID())
	g.mu.Unlock()

	g.presence.Disconnect(client)
	client.Close()

	g.log.Info("connection closed",
		"conn_id", client.ID(),
		"user_id", client.User().ID.String(),
	)
}

func joinError(err error) ServerEvent {
	if errors.Is(err, service.ErrMeetingNotFound) {
		return errorEvent(codeRoomNotFound, "meeting room does not exist")
	}
	return errorEvent(codeJoinFailed, "failed to join meeting")
}

// bearerToken pulls the credential from the Authorization header or, for
// browser websocket clients that cannot set headers, the token query
// parameter.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
