package signaling

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/minhtran24/meethub/internal/auth"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/repository"
	"github.com/minhtran24/meethub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayHarness struct {
	srv      *httptest.Server
	tokens   *auth.TokenManager
	users    *repository.InMemoryUserRepository
	meetings *service.MeetingService
}

func newGatewayHarness(t *testing.T) *gatewayHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := repository.NewInMemoryUserRepository()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	verifier := auth.NewVerifier(tokens, users)
	meetings := service.NewMeetingService(repository.NewInMemoryMeetingRepository(), log)

	gateway := NewGateway(verifier, meetings, log)

	router := gin.New()
	router.GET("/ws", gateway.Handle)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &gatewayHarness{srv: srv, tokens: tokens, users: users, meetings: meetings}
}

func (h *gatewayHarness) newUser(t *testing.T, name string, approved bool) (*domain.User, string) {
	t.Helper()

	user := domain.NewUser(name, strings.ToLower(name)+"@example.com", "irrelevant")
	user.Approved = approved
	require.NoError(t, h.users.Create(context.Background(), user))

	token, err := h.tokens.Issue(user)
	require.NoError(t, err)
	return user, token
}

func (h *gatewayHarness) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/ws"
	header := http.Header{"Authorization": []string{"Bearer " + token}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wireFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readFrame(t *testing.T, conn *websocket.Conn) wireFrame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var frame wireFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestGatewayRefusesMissingCredential(t *testing.T) {
	h := newGatewayHarness(t)

	resp, err := http.Get(h.srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGatewayRefusesUnapprovedUser(t *testing.T) {
	h := newGatewayHarness(t)
	_, token := h.newUser(t, "Pending", false)

	req, err := http.NewRequest(http.MethodGet, h.srv.URL+"/ws", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGatewayJoinFlow(t *testing.T) {
	h := newGatewayHarness(t)

	meeting, err := h.meetings.CreateMeeting(context.Background(), "Standup", "daily", uuid.New(), time.Now().UTC(), time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)

	_, token1 := h.newUser(t, "Alice", true)
	user2, token2 := h.newUser(t, "Bob", true)

	conn1 := h.dial(t, token1)
	require.NoError(t, conn1.WriteJSON(domain.SignalMessage{Type: EventJoinMeeting, RoomID: meeting.RoomID}))

	frame := readFrame(t, conn1)
	require.Equal(t, EventJoinedMeeting, frame.Type)

	var joined JoinedMeetingData
	require.NoError(t, json.Unmarshal(frame.Data, &joined))
	assert.Equal(t, meeting.RoomID, joined.RoomID)
	assert.Equal(t, "Standup", joined.Title)

	frame = readFrame(t, conn1)
	require.Equal(t, EventCurrentParticipants, frame.Type)

	var current ParticipantsData
	require.NoError(t, json.Unmarshal(frame.Data, &current))
	require.Len(t, current.Participants, 1)

	conn2 := h.dial(t, token2)
	require.NoError(t, conn2.WriteJSON(domain.SignalMessage{Type: EventJoinMeeting, RoomID: meeting.RoomID}))

	frame = readFrame(t, conn1)
	require.Equal(t, EventUserJoined, frame.Type)

	var membership MembershipData
	require.NoError(t, json.Unmarshal(frame.Data, &membership))
	assert.Equal(t, user2.ID, membership.User.ID)
	assert.Len(t, membership.Participants, 2)

	// Abrupt close must sweep the second user out and tell the first.
	require.Equal(t, EventJoinedMeeting, readFrame(t, conn2).Type)
	require.Equal(t, EventCurrentParticipants, readFrame(t, conn2).Type)
	conn2.Close()

	frame = readFrame(t, conn1)
	require.Equal(t, EventUserLeft, frame.Type)
	require.NoError(t, json.Unmarshal(frame.Data, &membership))
	assert.Equal(t, user2.ID, membership.User.ID)
	assert.Len(t, membership.Participants, 1)
}

func TestGatewayReportsUnknownRoom(t *testing.T) {
	h := newGatewayHarness(t)
	_, token := h.newUser(t, "Alice", true)

	conn := h.dial(t, token)
	require.NoError(t, conn.WriteJSON(domain.SignalMessage{Type: EventJoinMeeting, RoomID: "no-such-room"}))

	frame := readFrame(t, conn)
	require.Equal(t, EventError, frame.Type)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(frame.Data, &errData))
	assert.Equal(t, codeRoomNotFound, errData.Code)

	// The connection stays usable after a local failure.
	require.NoError(t, conn.WriteJSON(domain.SignalMessage{Type: EventTyping, RoomID: "no-such-room", IsTyping: true}))
}

func TestGatewayTolerantOfMalformedFrames(t *testing.T) {
	h := newGatewayHarness(t)
	_, token := h.newUser(t, "Alice", true)

	conn := h.dial(t, token)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	frame := readFrame(t, conn)
	require.Equal(t, EventError, frame.Type)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(frame.Data, &errData))
	assert.Equal(t, codeMalformedEvent, errData.Code)
}
