package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProofImage = "image"
	ProofVideo = "video"
	ProofMixed = "mixed"
)

// Submission is an append-only record of one proof event. Submissions
// and their proof files are never updated or deleted.
type Submission struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID         `gorm:"type:uuid;not null;index" json:"userId"`
	User               User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SpotID             uuid.UUID         `gorm:"type:uuid;not null;index" json:"spotId"`
	Spot               Spot              `gorm:"foreignKey:SpotID" json:"spot,omitempty"`
	AssignmentID       *uuid.UUID        `gorm:"type:uuid;index" json:"assignmentId,omitempty"`
	ProofType          string            `gorm:"size:10;not null" json:"proofType"`
	SubmittedLatitude  float64           `gorm:"not null" json:"submittedLatitude"`
	SubmittedLongitude float64           `gorm:"not null" json:"submittedLongitude"`
	Note               *string           `gorm:"size:1000" json:"note,omitempty"`
	SubmittedAt        time.Time         `gorm:"default:CURRENT_TIMESTAMP;index" json:"submittedAt"`
	Proofs             []SubmissionProof `gorm:"foreignKey:SubmissionID" json:"proofs,omitempty"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// SubmissionProof is one uploaded image or video backing a submission.
type SubmissionProof struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"submissionId"`
	ProofURL     string    `gorm:"size:500;not null" json:"proofUrl"`
	ProofType    string    `gorm:"size:10;not null" json:"proofType"`
	ProofMime    string    `gorm:"size:100;not null" json:"proofMime"`
	ProofSize    int64     `gorm:"not null" json:"proofSize"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p *SubmissionProof) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
