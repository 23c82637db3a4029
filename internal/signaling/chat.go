package signaling

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
)

// Chat fans public messages out to a room and delivers private messages
// point-to-point. Every message gets a server-stamped id so clients that
// receive the same logical message on more than one path can discard
// duplicates; the relay itself does not guarantee exactly-once.
type Chat struct {
	registry *Registry
	dir      Directory
	log      *slog.Logger
}

func NewChat(registry *Registry, dir Directory, log *slog.Logger) *Chat {
	if log == nil {
		log = slog.Default()
	}
	return &Chat{registry: registry, dir: dir, log: log}
}

func (c *Chat) Send(sess Session, msg *domain.SignalMessage) {
	body := strings.TrimSpace(msg.Message)
	if msg.RoomID == "" || body == "" {
		sess.Enqueue(errorEvent(codeMalformedEvent, "room id and message body are required"))
		return
	}

	visibility := domain.ChatPublic
	if msg.MessageType == string(domain.ChatPrivate) {
		visibility = domain.ChatPrivate
	}

	chatMsg := domain.NewChatMessage(sess.User(), body, visibility)

	if visibility == domain.ChatPrivate {
		c.sendPrivate(sess, msg.RoomID, msg.TargetUserID, chatMsg)
		return
	}

	c.sendPublic(sess, msg.RoomID, chatMsg)
}

// Typing is relayed to the other room members only; the typist already knows.
func (c *Chat) Typing(sess Session, roomID string, isTyping bool) {
	if roomID == "" {
		return
	}
	user := sess.User()
	broadcastToRoom(c.registry, c.dir, roomID, sess.ID(), ServerEvent{Type: EventTyping, Data: TypingData{
		UserID:   user.ID,
		UserName: user.FullName,
		IsTyping: isTyping,
	}})
}

// sendPublic delivers to everyone in the room including the sender, who
// needs the server-stamped id for its own dedup.
func (c *Chat) sendPublic(sess Session, roomID string, chatMsg *domain.ChatMessage) {
	evt := ServerEvent{Type: EventChatMessage, Data: chatMsg}

	delivered := false
	for _, p := range c.registry.Participants(roomID) {
		if p.ConnectionID == sess.ID() {
			delivered = true
		}
		if target, ok := c.dir.Find(p.ConnectionID); ok {
			target.Enqueue(evt)
		}
	}

	// Echo to a sender chatting into a room it is not registered in.
	if !delivered {
		sess.Enqueue(evt)
	}
}

// sendPrivate delivers to the target and echoes to the sender, or reports
// to the sender alone when the target has no active connection.
func (c *Chat) sendPrivate(sess Session, roomID, targetUserID string, chatMsg *domain.ChatMessage) {
	if targetUserID == "" {
		sess.Enqueue(errorEvent(codeMalformedEvent, "targetUserId is required for private messages"))
		return
	}

	targetID, err := uuid.Parse(targetUserID)
	if err != nil {
		sess.Enqueue(errorEvent(codeMalformedEvent, "invalid target user id"))
		return
	}

	chatMsg.TargetUserID = targetUserID

	connID, ok := c.registry.ConnFor(targetID)
	if !ok {
		sess.Enqueue(errorEvent(codeTargetOffline, "target user is offline"))
		return
	}
	target, ok := c.dir.Find(connID)
	if !ok {
		sess.Enqueue(errorEvent(codeTargetOffline, "target user is offline"))
		return
	}

	evt := ServerEvent{Type: EventChatMessage, Data: chatMsg}
	target.Enqueue(evt)
	if sess.ID() != connID {
		sess.Enqueue(evt)
	}
}
