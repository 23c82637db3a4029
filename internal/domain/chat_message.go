package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChatVisibility string

const (
	ChatPublic  ChatVisibility = "public"
	ChatPrivate ChatVisibility = "private"
)

// ChatMessage is a relayed room message. The server stamps the ID so a
// client receiving the same message on more than one path can discard
// duplicates. Messages are not persisted.
type ChatMessage struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"userId"`
	UserName     string         `json:"userName"`
	Message      string         `json:"message"`
	Timestamp    time.Time      `json:"timestamp"`
	Type         ChatVisibility `json:"type"`
	TargetUserID string         `json:"targetUserId,omitempty"`
}

func NewChatMessage(sender *User, body string, visibility ChatVisibility) *ChatMessage {
	msg := &ChatMessage{
		ID:        uuid.New(),
		Message:   body,
		Timestamp: time.Now().UTC(),
		Type:      visibility,
	}
	if sender != nil {
		msg.UserID = sender.ID
		msg.UserName = sender.FullName
	}
	return msg
}
