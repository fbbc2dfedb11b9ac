package intake

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/posterspot/backend/models"
)

// Ledger owns the assignment lifecycle. Completion is not here: it
// happens inside the engine's submission transaction so that a
// submission and its assignment close atomically.
type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Create issues a work order binding user to spot. It conflicts when
// the spot already has an active assignment, or when the assignee is
// inactive or not a worker.
func (l *Ledger) Create(ctx context.Context, spotID, userID, assignedBy uuid.UUID) (*models.Assignment, error) {
	var created *models.Assignment

	err := l.store.Transaction(ctx, func(tx Store) error {
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return &StorageError{Err: err}
		}
		if user == nil {
			return &NotFoundError{Resource: "user"}
		}
		if !user.IsActive {
			return &ConflictError{Message: "user is not active"}
		}
		if user.Role != models.RoleUser {
			return &ConflictError{Message: "assignee must have the worker role"}
		}

		// lock the spot row so two concurrent creates for the same spot
		// serialize on the active-assignment check below
		spot, err := tx.GetSpotForUpdate(ctx, spotID)
		if err != nil {
			return &StorageError{Err: err}
		}
		if spot == nil {
			return &NotFoundError{Resource: "spot"}
		}

		active, err := tx.HasActiveAssignment(ctx, spotID)
		if err != nil {
			return &StorageError{Err: err}
		}
		if active {
			return &ConflictError{Message: "spot already has an active assignment"}
		}

		a := &models.Assignment{
			SpotID:     spotID,
			UserID:     userID,
			AssignedBy: assignedBy,
			Status:     models.AssignmentAssigned,
			AssignedAt: l.now(),
		}
		if err := tx.CreateAssignment(ctx, a); err != nil {
			return &StorageError{Err: err}
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, coerceStorage(err)
	}
	return created, nil
}
