package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
)

var (
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrRoomIDExists    = errors.New("meeting room id already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserEmailExists = errors.New("user with email already exists")
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)
	GetByRoomID(ctx context.Context, roomID string) (*domain.Meeting, error)
	Update(ctx context.Context, meeting *domain.Meeting) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Meeting, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
