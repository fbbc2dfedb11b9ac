package intake

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/posterspot/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the Postgres-backed Store. Transaction hands callbacks a
// store bound to the transactional *gorm.DB, so every method inside the
// callback runs on the same connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) ListSpots(ctx context.Context) ([]models.Spot, error) {
	var spots []models.Spot
	if err := s.db.WithContext(ctx).Find(&spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

func (s *GormStore) GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	var spot models.Spot
	err := s.db.WithContext(ctx).First(&spot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

func (s *GormStore) GetSpotForUpdate(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	var spot models.Spot
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&spot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

func (s *GormStore) CreateSpot(ctx context.Context, spot *models.Spot) error {
	return s.db.WithContext(ctx).Create(spot).Error
}

func (s *GormStore) UpdateSpotClaim(ctx context.Context, spotID uuid.UUID, claim SpotClaim) error {
	// address_text is overwritten on every claim; district only fills
	// when currently null
	return s.db.WithContext(ctx).Model(&models.Spot{}).
		Where("id = ?", spotID).
		Updates(map[string]interface{}{
			"last_claimed_at": claim.ClaimedAt,
			"last_claimed_by": claim.UserID,
			"address_text":    claim.AddressText,
			"district":        gorm.Expr("COALESCE(district, ?)", claim.District),
		}).Error
}

func (s *GormStore) GetAssignmentForUser(ctx context.Context, id, userID uuid.UUID) (*models.Assignment, error) {
	var a models.Assignment
	err := s.db.WithContext(ctx).
		First(&a, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) HasActiveAssignment(ctx context.Context, spotID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("spot_id = ? AND status = ?", spotID, models.AssignmentAssigned).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *GormStore) CompleteAssignment(ctx context.Context, id, userID uuid.UUID, at time.Time) error {
	// the status guard makes a repeated complete match zero rows
	return s.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.AssignmentAssigned).
		Updates(map[string]interface{}{
			"status":       models.AssignmentCompleted,
			"completed_at": at,
		}).Error
}

func (s *GormStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
