package signaling

import (
	"time"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/pion/webrtc/v3"
)

// Inbound event types.
const (
	EventJoinMeeting      = "join-meeting"
	EventLeaveMeeting     = "leave-meeting"
	EventChatMessage      = "chat-message"
	EventTyping           = "typing"
	EventMediaToggle      = "media-toggle"
	EventOffer            = "webrtc-offer"
	EventAnswer           = "webrtc-answer"
	EventICECandidate     = "webrtc-ice-candidate"
	EventEndCall          = "webrtc-end-call"
	EventReconnectRequest = "webrtc-reconnect-request"
)

// Outbound event types.
const (
	EventJoinedMeeting       = "joined-meeting"
	EventCurrentParticipants = "current-participants"
	EventUserJoined          = "user-joined"
	EventUserLeft            = "user-left"
	EventParticipantsList    = "webrtc-participants-list"
	EventError               = "error"
)

// ServerEvent is one outbound realtime frame.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Participant is one user's presence entry within a room, bound to a
// single connection.
type Participant struct {
	UserID       uuid.UUID `json:"userId"`
	UserName     string    `json:"userName"`
	ConnectionID string    `json:"connectionId"`
	JoinedAt     time.Time `json:"joinedAt"`
}

type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type JoinedMeetingData struct {
	MeetingID   string `json:"meetingId"`
	RoomID      string `json:"roomId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ParticipantsData struct {
	Participants []Participant `json:"participants"`
}

type MembershipData struct {
	User         UserRef       `json:"user"`
	Participants []Participant `json:"participants"`
}

type TypingData struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
	IsTyping bool      `json:"isTyping"`
}

type MediaToggleData struct {
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	MediaType string    `json:"mediaType"`
	Enabled   bool      `json:"enabled"`
}

type OfferData struct {
	FromUserID   uuid.UUID                  `json:"fromUserId"`
	FromUserName string                     `json:"fromUserName"`
	Offer        *webrtc.SessionDescription `json:"offer"`
}

type AnswerData struct {
	FromUserID   uuid.UUID                  `json:"fromUserId"`
	FromUserName string                     `json:"fromUserName"`
	Answer       *webrtc.SessionDescription `json:"answer"`
}

type CandidateData struct {
	FromUserID uuid.UUID                `json:"fromUserId"`
	Candidate  *webrtc.ICECandidateInit `json:"candidate"`
}

type EndCallData struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
}

type ErrorData struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

const (
	codeRoomNotFound      = "room-not-found"
	codeTargetUnavailable = "target-unavailable"
	codeTargetOffline     = "target-offline"
	codeMalformedEvent    = "malformed-event"
	codeJoinFailed        = "join-failed"
)

func errorEvent(code, message string) ServerEvent {
	return ServerEvent{Type: EventError, Data: ErrorData{Code: code, Message: message}}
}

// Session is one authenticated realtime connection as seen by the
// presence manager and the relays. Enqueue must never block.
type Session interface {
	ID() string
	User() *domain.User
	Enqueue(evt ServerEvent) bool
}

// Directory resolves a connection id to its live session. Owned by the
// gateway; dead ids simply fail to resolve.
type Directory interface {
	Find(connID string) (Session, bool)
}

// broadcastToRoom fans an event out to every current room member except
// exceptConnID. Delivery is per-recipient fire-and-forget: a full queue or
// vanished connection never blocks the rest of the room.
func broadcastToRoom(registry *Registry, dir Directory, roomID, exceptConnID string, evt ServerEvent) {
	for _, p := range registry.Participants(roomID) {
		if p.ConnectionID == exceptConnID {
			continue
		}
		if sess, ok := dir.Find(p.ConnectionID); ok {
			sess.Enqueue(evt)
		}
	}
}
