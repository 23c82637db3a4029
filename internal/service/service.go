package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
)

type MeetingInteractor interface {
	CreateMeeting(ctx context.Context, title, description string, createdBy uuid.UUID, startTime, endTime time.Time) (*domain.Meeting, error)
	GetMeeting(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)
	GetMeetingByRoomID(ctx context.Context, roomID string) (*domain.Meeting, error)
	ListMeetings(ctx context.Context) ([]*domain.Meeting, error)
	Resolve(ctx context.Context, roomID, meetingID string) (*domain.Meeting, error)
	EnsureParticipant(ctx context.Context, meetingID, userID uuid.UUID) error
	MarkOngoing(ctx context.Context, meetingID uuid.UUID) error
	UpdateStatus(ctx context.Context, meetingID uuid.UUID, status domain.MeetingStatus, requestedBy *domain.User) (*domain.Meeting, error)
}

type UserInteractor interface {
	Register(ctx context.Context, fullName, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ApproveUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
