package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
)

type MeetingResponse struct {
	ID           uuid.UUID            `json:"id"`
	RoomID       string               `json:"room_id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	CreatedBy    uuid.UUID            `json:"created_by"`
	Participants []uuid.UUID          `json:"participants"`
	StartTime    time.Time            `json:"start_time"`
	EndTime      time.Time            `json:"end_time"`
	Status       domain.MeetingStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
}

func MeetingToApi(m *domain.Meeting) *MeetingResponse {
	participants := m.Participants
	if participants == nil {
		participants = []uuid.UUID{}
	}

	return &MeetingResponse{
		ID:           m.ID,
		RoomID:       m.RoomID,
		Title:        m.Title,
		Description:  m.Description,
		CreatedBy:    m.CreatedBy,
		Participants: participants,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
	}
}
