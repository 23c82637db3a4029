package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeetingService(t *testing.T) *MeetingService {
	t.Helper()
	return NewMeetingService(repository.NewInMemoryMeetingRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createMeeting(t *testing.T, s *MeetingService) *domain.Meeting {
	t.Helper()

	meeting, err := s.CreateMeeting(context.Background(), "Standup", "daily sync", uuid.New(), time.Now().UTC(), time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	return meeting
}

func TestCreateMeetingGeneratesRoomID(t *testing.T) {
	s := newMeetingService(t)
	meeting := createMeeting(t, s)

	assert.Len(t, meeting.RoomID, 12)
	assert.Equal(t, domain.MeetingStatusScheduled, meeting.Status)
	assert.Empty(t, meeting.Participants)
}

func TestCreateMeetingRequiresTitleAndCreator(t *testing.T) {
	s := newMeetingService(t)

	_, err := s.CreateMeeting(context.Background(), "", "", uuid.New(), time.Time{}, time.Time{})
	assert.Error(t, err)

	_, err = s.CreateMeeting(context.Background(), "Standup", "", uuid.Nil, time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestResolvePrefersMeetingID(t *testing.T) {
	s := newMeetingService(t)
	meeting := createMeeting(t, s)

	byMeetingID, err := s.Resolve(context.Background(), "", meeting.ID.String())
	require.NoError(t, err)
	assert.Equal(t, meeting.ID, byMeetingID.ID)

	byRoomID, err := s.Resolve(context.Background(), meeting.RoomID, "")
	require.NoError(t, err)
	assert.Equal(t, meeting.ID, byRoomID.ID)

	_, err = s.Resolve(context.Background(), "missing-room", "")
	assert.ErrorIs(t, err, ErrMeetingNotFound)

	_, err = s.Resolve(context.Background(), "", "not-a-uuid")
	assert.ErrorIs(t, err, ErrMeetingNotFound)

	_, err = s.Resolve(context.Background(), "", "")
	assert.Error(t, err)
}

func TestEnsureParticipantIsIdempotent(t *testing.T) {
	s := newMeetingService(t)
	meeting := createMeeting(t, s)
	userID := uuid.New()

	require.NoError(t, s.EnsureParticipant(context.Background(), meeting.ID, userID))
	require.NoError(t, s.EnsureParticipant(context.Background(), meeting.ID, userID))

	stored, err := s.GetMeeting(context.Background(), meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{userID}, stored.Participants)
}

func TestMarkOngoingOnlyFromScheduled(t *testing.T) {
	s := newMeetingService(t)
	meeting := createMeeting(t, s)

	require.NoError(t, s.MarkOngoing(context.Background(), meeting.ID))
	require.NoError(t, s.MarkOngoing(context.Background(), meeting.ID))

	stored, err := s.GetMeeting(context.Background(), meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingStatusOngoing, stored.Status)

	// A completed meeting is not dragged back to ongoing by a late join.
	stored.Status = domain.MeetingStatusCompleted
	require.NoError(t, s.MarkOngoing(context.Background(), meeting.ID))

	stored, err = s.GetMeeting(context.Background(), meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingStatusCompleted, stored.Status)
}

func TestUpdateStatusChecksOwnership(t *testing.T) {
	s := newMeetingService(t)
	meeting := createMeeting(t, s)

	stranger := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	_, err := s.UpdateStatus(context.Background(), meeting.ID, domain.MeetingStatusCompleted, stranger)
	assert.ErrorIs(t, err, ErrNotMeetingOwner)

	owner := &domain.User{ID: meeting.CreatedBy, Role: domain.RoleUser}
	updated, err := s.UpdateStatus(context.Background(), meeting.ID, domain.MeetingStatusCompleted, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingStatusCompleted, updated.Status)

	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	updated, err = s.UpdateStatus(context.Background(), meeting.ID, domain.MeetingStatusOngoing, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingStatusOngoing, updated.Status)
}
