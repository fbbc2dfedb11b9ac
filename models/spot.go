package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Spot is a clustered physical location. Two GPS readings within the
// match radius resolve to the same spot; the stored coordinate is the
// first one recorded and is never recalculated.
type Spot struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Latitude      float64    `gorm:"not null" json:"latitude"`
	Longitude     float64    `gorm:"not null" json:"longitude"`
	AddressText   *string    `gorm:"size:500" json:"addressText,omitempty"`
	District      *string    `gorm:"size:100" json:"district,omitempty"`
	LastClaimedAt *time.Time `json:"lastClaimedAt,omitempty"`
	LastClaimedBy *uuid.UUID `gorm:"type:uuid" json:"lastClaimedBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (s *Spot) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
