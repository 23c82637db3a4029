package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
)

type InMemoryMeetingRepository struct {
	mu       sync.RWMutex
	meetings map[uuid.UUID]*domain.Meeting
	roomIDs  map[string]uuid.UUID
}

func NewInMemoryMeetingRepository() *InMemoryMeetingRepository {
	return &InMemoryMeetingRepository{
		meetings: make(map[uuid.UUID]*domain.Meeting),
		roomIDs:  make(map[string]uuid.UUID),
	}
}

func (r *InMemoryMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roomIDs[meeting.RoomID]; ok {
		return ErrRoomIDExists
	}

	r.meetings[meeting.ID] = meeting
	r.roomIDs[meeting.RoomID] = meeting.ID
	return nil
}

func (r *InMemoryMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}

	return meeting, nil
}

func (r *InMemoryMeetingRepository) GetByRoomID(ctx context.Context, roomID string) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	meetingID, ok := r.roomIDs[roomID]
	if !ok {
		return nil, ErrMeetingNotFound
	}

	meeting, ok := r.meetings[meetingID]
	if !ok {
		return nil, ErrMeetingNotFound
	}

	return meeting, nil
}

func (r *InMemoryMeetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[meeting.ID]; !ok {
		return ErrMeetingNotFound
	}

	r.meetings[meeting.ID] = meeting
	r.roomIDs[meeting.RoomID] = meeting.ID
	return nil
}

func (r *InMemoryMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return ErrMeetingNotFound
	}

	delete(r.roomIDs, meeting.RoomID)
	delete(r.meetings, id)
	return nil
}

func (r *InMemoryMeetingRepository) List(ctx context.Context) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Meeting, 0, len(r.meetings))
	for _, meeting := range r.meetings {
		result = append(result, meeting)
	}
	return result, nil
}

type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*domain.User
	emails map[string]uuid.UUID
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[uuid.UUID]*domain.User),
		emails: make(map[string]uuid.UUID),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Email != "" {
		if _, ok := r.emails[user.Email]; ok {
			return ErrUserEmailExists
		}
		r.emails[user.Email] = user.ID
	}

	r.users[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	return user, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.emails[email]
	if !ok {
		return nil, ErrUserNotFound
	}

	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	return user, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}

	r.users[user.ID] = user
	if user.Email != "" {
		r.emails[user.Email] = user.ID
	}
	return nil
}
