package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusOngoing   MeetingStatus = "ongoing"
	MeetingStatusCompleted MeetingStatus = "completed"
)

const roomIDLength = 12

// Meeting is a scheduled video session. RoomID is the short join code
// clients present over the realtime connection; Participants is the
// persisted list of everyone who has ever joined.
type Meeting struct {
	ID           uuid.UUID     `json:"id"`
	RoomID       string        `json:"room_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	CreatedBy    uuid.UUID     `json:"created_by"`
	Participants []uuid.UUID   `json:"participants"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Status       MeetingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewMeeting constructs a meeting with a generated room code.
func NewMeeting(title, description string, createdBy uuid.UUID, startTime, endTime time.Time) *Meeting {
	now := time.Now().UTC()
	return &Meeting{
		ID:          uuid.New(),
		RoomID:      generateRoomID(),
		Title:       title,
		Description: description,
		CreatedBy:   createdBy,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      MeetingStatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasParticipant reports whether the user is already on the persisted list.
func (m *Meeting) HasParticipant(userID uuid.UUID) bool {
	for _, id := range m.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

func ValidMeetingStatus(s string) bool {
	switch MeetingStatus(s) {
	case MeetingStatusScheduled, MeetingStatusOngoing, MeetingStatusCompleted:
		return true
	}
	return false
}

func generateRoomID() string {
	roomID := strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(roomID) <= roomIDLength {
		return roomID
	}
	return roomID[:roomIDLength]
}
