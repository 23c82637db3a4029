package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/repository"
	"github.com/minhtran24/meethub/lib/logger/sl"
)

var (
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrNotMeetingOwner = errors.New("only the meeting creator or an admin can change status")
)

type MeetingService struct {
	meetings repository.MeetingRepository
	log      *slog.Logger
}

func NewMeetingService(meetings repository.MeetingRepository, log *slog.Logger) *MeetingService {
	if log == nil {
		log = slog.Default()
	}
	return &MeetingService{meetings: meetings, log: log}
}

func (s *MeetingService) CreateMeeting(ctx context.Context, title, description string, createdBy uuid.UUID, startTime, endTime time.Time) (*domain.Meeting, error) {
	if title == "" {
		return nil, errors.New("meeting title is required")
	}
	if createdBy == uuid.Nil {
		return nil, errors.New("creator is required")
	}

	for {
		meeting := domain.NewMeeting(title, description, createdBy, startTime, endTime)
		if err := s.meetings.Create(ctx, meeting); err != nil {
			if errors.Is(err, repository.ErrRoomIDExists) {
				continue
			}
			return nil, err
		}

		s.log.Info("meeting created",
			"meeting_id", meeting.ID.String(),
			"room_id", meeting.RoomID,
		)
		return meeting, nil
	}
}

func (s *MeetingService) GetMeeting(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return meeting, nil
}

func (s *MeetingService) GetMeetingByRoomID(ctx context.Context, roomID string) (*domain.Meeting, error) {
	meeting, err := s.meetings.GetByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return meeting, nil
}

func (s *MeetingService) ListMeetings(ctx context.Context) ([]*domain.Meeting, error) {
	return s.meetings.List(ctx)
}

// Resolve looks a meeting up by meeting id when present, otherwise by room
// id. Joins may carry either.
func (s *MeetingService) Resolve(ctx context.Context, roomID, meetingID string) (*domain.Meeting, error) {
	const op = "service.meeting.resolve"

	if meetingID != "" {
		id, err := uuid.Parse(meetingID)
		if err != nil {
			return nil, ErrMeetingNotFound
		}
		return s.GetMeeting(ctx, id)
	}

	if roomID == "" {
		s.log.Info("resolve called without identifiers", "op", op)
		return nil, errors.New("room id or meeting id is required")
	}

	return s.GetMeetingByRoomID(ctx, roomID)
}

// EnsureParticipant appends the user to the persisted participant list if
// not already present. Safe to call on every join.
func (s *MeetingService) EnsureParticipant(ctx context.Context, meetingID, userID uuid.UUID) error {
	const op = "service.meeting.ensureParticipant"
	log := s.log.With(
		"op", op,
		"meeting_id", meetingID.String(),
		"user_id", userID.String(),
	)

	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}

	if meeting.HasParticipant(userID) {
		return nil
	}

	meeting.Participants = append(meeting.Participants, userID)
	meeting.UpdatedAt = time.Now().UTC()
	if err := s.meetings.Update(ctx, meeting); err != nil {
		log.Error("failed to persist participant", sl.Err(err))
		return err
	}

	log.Info("participant added")
	return nil
}

// MarkOngoing transitions a scheduled meeting to ongoing. Idempotent
// overwrite; meetings already ongoing or completed are left alone.
func (s *MeetingService) MarkOngoing(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}

	if meeting.Status != domain.MeetingStatusScheduled {
		return nil
	}

	meeting.Status = domain.MeetingStatusOngoing
	meeting.UpdatedAt = time.Now().UTC()
	if err := s.meetings.Update(ctx, meeting); err != nil {
		s.log.Error("failed to mark meeting ongoing", sl.Err(err))
		return err
	}

	s.log.Info("meeting marked ongoing", "meeting_id", meetingID.String())
	return nil
}

func (s *MeetingService) UpdateStatus(ctx context.Context, meetingID uuid.UUID, status domain.MeetingStatus, requestedBy *domain.User) (*domain.Meeting, error) {
	if requestedBy == nil {
		return nil, errors.New("requesting user is required")
	}

	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.CreatedBy != requestedBy.ID && requestedBy.Role != domain.RoleAdmin {
		return nil, ErrNotMeetingOwner
	}

	meeting.Status = status
	meeting.UpdatedAt = time.Now().UTC()
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, err
	}

	return meeting, nil
}
