package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/repository/model"
	"gorm.io/gorm"
)

type PostgresMeetingRepository struct {
	db *gorm.DB
}

func NewPostgresMeetingRepository(db *gorm.DB) *PostgresMeetingRepository {
	return &PostgresMeetingRepository{db: db}
}

func (r *PostgresMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil {
		return errors.New("meeting is nil")
	}

	meetingModel := toModelMeeting(meeting)

	if err := r.db.WithContext(ctx).Create(meetingModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRoomIDExists
		}
		return err
	}
	return nil
}

func (r *PostgresMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meeting model.Meeting
	err := r.db.WithContext(ctx).Preload("Participants").First(&meeting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}

	return toDomainMeeting(&meeting), nil
}

func (r *PostgresMeetingRepository) GetByRoomID(ctx context.Context, roomID string) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meeting model.Meeting
	err := r.db.WithContext(ctx).Preload("Participants").First(&meeting, "room_id = ?", roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}

	return toDomainMeeting(&meeting), nil
}

func (r *PostgresMeetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil {
		return errors.New("meeting is nil")
	}

	meetingModel := toModelMeeting(meeting)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"title":       meetingModel.Title,
			"description": meetingModel.Description,
			"status":      meetingModel.Status,
			"updated_at":  meetingModel.UpdatedAt,
		}

		if meetingModel.StartTime == nil {
			updates["start_time"] = gorm.Expr("NULL")
		} else {
			updates["start_time"] = meetingModel.StartTime
		}
		if meetingModel.EndTime == nil {
			updates["end_time"] = gorm.Expr("NULL")
		} else {
			updates["end_time"] = meetingModel.EndTime
		}

		res := tx.Model(&model.Meeting{}).Where("id = ?", meetingModel.ID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMeetingNotFound
		}

		if err := tx.Where("meeting_id = ?", meetingModel.ID).Delete(&model.MeetingParticipant{}).Error; err != nil {
			return err
		}

		if len(meetingModel.Participants) > 0 {
			if err := tx.Create(&meetingModel.Participants).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *PostgresMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Delete(&model.Meeting{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *PostgresMeetingRepository) List(ctx context.Context) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meetings []model.Meeting
	if err := r.db.WithContext(ctx).Preload("Participants").Order("start_time").Find(&meetings).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Meeting, 0, len(meetings))
	for i := range meetings {
		result = append(result, toDomainMeeting(&meetings[i]))
	}

	return result, nil
}

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	userModel := toModelUser(user)

	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserEmailExists
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	userModel := toModelUser(user)

	updateData := map[string]any{
		"full_name":     userModel.FullName,
		"email":         userModel.Email,
		"password_hash": userModel.PasswordHash,
		"role":          userModel.Role,
		"approved":      userModel.Approved,
		"updated_at":    userModel.UpdatedAt,
	}

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userModel.ID).Updates(updateData)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrUserEmailExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func toModelMeeting(meeting *domain.Meeting) *model.Meeting {
	var startTime, endTime *time.Time
	if !meeting.StartTime.IsZero() {
		t := meeting.StartTime.UTC()
		startTime = &t
	}
	if !meeting.EndTime.IsZero() {
		t := meeting.EndTime.UTC()
		endTime = &t
	}

	participants := make([]model.MeetingParticipant, 0, len(meeting.Participants))
	for _, userID := range meeting.Participants {
		participants = append(participants, model.MeetingParticipant{
			MeetingID: meeting.ID,
			UserID:    userID,
		})
	}

	return &model.Meeting{
		ID:           meeting.ID,
		RoomID:       meeting.RoomID,
		Title:        meeting.Title,
		Description:  meeting.Description,
		CreatedBy:    meeting.CreatedBy,
		StartTime:    startTime,
		EndTime:      endTime,
		Status:       string(meeting.Status),
		CreatedAt:    meeting.CreatedAt.UTC(),
		UpdatedAt:    meeting.UpdatedAt.UTC(),
		Participants: participants,
	}
}

func toDomainMeeting(meeting *model.Meeting) *domain.Meeting {
	participants := make([]uuid.UUID, 0, len(meeting.Participants))
	for _, p := range meeting.Participants {
		participants = append(participants, p.UserID)
	}

	var startTime, endTime time.Time
	if meeting.StartTime != nil {
		startTime = meeting.StartTime.UTC()
	}
	if meeting.EndTime != nil {
		endTime = meeting.EndTime.UTC()
	}

	status := domain.MeetingStatus(meeting.Status)
	if status == "" {
		status = domain.MeetingStatusScheduled
	}

	return &domain.Meeting{
		ID:           meeting.ID,
		RoomID:       meeting.RoomID,
		Title:        meeting.Title,
		Description:  meeting.Description,
		CreatedBy:    meeting.CreatedBy,
		Participants: participants,
		StartTime:    startTime,
		EndTime:      endTime,
		Status:       status,
		CreatedAt:    meeting.CreatedAt.UTC(),
		UpdatedAt:    meeting.UpdatedAt.UTC(),
	}
}

func toModelUser(user *domain.User) *model.User {
	return &model.User{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Approved:     user.Approved,
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
	}
}

func toDomainUser(user *model.User) *domain.User {
	return &domain.User{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         domain.UserRole(user.Role),
		Approved:     user.Approved,
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
	}
}
