package intake

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/posterspot/backend/models"
)

// SpotClaim is the mutation applied to a spot on a successful
// submission. AddressText overwrites the stored value on every claim;
// District is first-write-wins (only set when currently null).
type SpotClaim struct {
	UserID      uuid.UUID
	ClaimedAt   time.Time
	AddressText *string
	District    *string
}

// Store is the persistence boundary of the intake engine. Lookup
// methods return (nil, nil) when the record is absent; only real
// storage failures surface as errors. Transaction runs fn against a
// transactional view of the store and rolls everything back when fn
// returns an error.
type Store interface {
	Transaction(ctx context.Context, fn func(Store) error) error

	ListSpots(ctx context.Context) ([]models.Spot, error)
	GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error)
	// GetSpotForUpdate locks the spot row for the duration of the
	// enclosing transaction.
	GetSpotForUpdate(ctx context.Context, id uuid.UUID) (*models.Spot, error)
	CreateSpot(ctx context.Context, spot *models.Spot) error
	UpdateSpotClaim(ctx context.Context, spotID uuid.UUID, claim SpotClaim) error

	GetAssignmentForUser(ctx context.Context, id, userID uuid.UUID) (*models.Assignment, error)
	HasActiveAssignment(ctx context.Context, spotID uuid.UUID) (bool, error)
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	// CompleteAssignment transitions assigned -> completed. A second
	// call for the same assignment matches no row and is a no-op.
	CompleteAssignment(ctx context.Context, id, userID uuid.UUID, at time.Time) error

	CreateSubmission(ctx context.Context, s *models.Submission) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}
