package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AssignmentAssigned  = "assigned"
	AssignmentCompleted = "completed"
	AssignmentCancelled = "cancelled"
)

// Assignment binds one user to one spot for a pending placement.
// At most one assignment per spot may be in the "assigned" state;
// completed and cancelled are terminal.
type Assignment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SpotID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"spotId"`
	Spot        Spot       `gorm:"foreignKey:SpotID" json:"spot,omitempty"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AssignedBy  uuid.UUID  `gorm:"type:uuid;not null" json:"assignedBy"`
	Status      string     `gorm:"size:20;not null;default:assigned;index" json:"status"`
	AssignedAt  time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"assignedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
