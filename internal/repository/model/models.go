package model

import (
	"time"

	"github.com/google/uuid"
)

type Meeting struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey"`
	RoomID       string               `gorm:"size:64;uniqueIndex;not null"`
	Title        string               `gorm:"size:255;not null"`
	Description  string               `gorm:"type:text"`
	CreatedBy    uuid.UUID            `gorm:"type:uuid;not null"`
	StartTime    *time.Time           `gorm:"index"`
	EndTime      *time.Time           ``
	Status       string               `gorm:"size:32;not null"`
	CreatedAt    time.Time            `gorm:"not null"`
	UpdatedAt    time.Time            `gorm:"not null"`
	Participants []MeetingParticipant `gorm:"constraint:OnDelete:CASCADE"`
}

type MeetingParticipant struct {
	MeetingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName     string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:32;not null"`
	Approved     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}
