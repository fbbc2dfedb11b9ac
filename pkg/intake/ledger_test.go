package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/posterspot/backend/models"
)

func newTestLedger(store Store) *Ledger {
	l := NewLedger(store)
	l.now = func() time.Time { return testNow }
	return l
}

func seedWorker(store *fakeStore) uuid.UUID {
	id := uuid.New()
	store.users[id] = &models.User{ID: id, Name: "Worker", Role: models.RoleUser, IsActive: true}
	return id
}

func seedSpot(store *fakeStore) uuid.UUID {
	id := uuid.New()
	store.spots[id] = &models.Spot{ID: id, Latitude: 6.9271, Longitude: 79.8612}
	return id
}

func TestLedgerCreate(t *testing.T) {
	store := newFakeStore()
	l := newTestLedger(store)
	ctx := context.Background()

	userID := seedWorker(store)
	spotID := seedSpot(store)
	adminID := uuid.New()

	a, err := l.Create(ctx, spotID, userID, adminID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != models.AssignmentAssigned || a.SpotID != spotID || a.UserID != userID || a.AssignedBy != adminID {
		t.Errorf("assignment = %+v", a)
	}
	if !a.AssignedAt.Equal(testNow) {
		t.Errorf("assignedAt = %v, want %v", a.AssignedAt, testNow)
	}
}

// Concurrent creates for one spot must serialize on the spot row, so
// the active-assignment check cannot race with another insert.
func TestLedgerCreateLocksSpotRow(t *testing.T) {
	store := newFakeStore()
	l := newTestLedger(store)

	userID := seedWorker(store)
	spotID := seedSpot(store)

	if _, err := l.Create(context.Background(), spotID, userID, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.lockedSpots) != 1 || store.lockedSpots[0] != spotID {
		t.Errorf("spot row locks = %v, want exactly [%v]", store.lockedSpots, spotID)
	}
}

func TestLedgerCreateDuplicateActive(t *testing.T) {
	store := newFakeStore()
	l := newTestLedger(store)
	ctx := context.Background()

	spotID := seedSpot(store)
	first := seedWorker(store)
	second := seedWorker(store)

	if _, err := l.Create(ctx, spotID, first, uuid.New()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := l.Create(ctx, spotID, second, uuid.New())
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConflictError for duplicate active assignment, got %v", err)
	}

	// once the active assignment completes, the spot can be reassigned
	for id, a := range store.assignments {
		if a.SpotID == spotID {
			if err := store.CompleteAssignment(ctx, id, first, testNow); err != nil {
				t.Fatal(err)
			}
		}
	}
	if _, err := l.Create(ctx, spotID, second, uuid.New()); err != nil {
		t.Fatalf("create after completion: %v", err)
	}
}

func TestLedgerCreateRejectsBadAssignee(t *testing.T) {
	store := newFakeStore()
	l := newTestLedger(store)
	ctx := context.Background()
	spotID := seedSpot(store)

	inactive := uuid.New()
	store.users[inactive] = &models.User{ID: inactive, Role: models.RoleUser, IsActive: false}

	admin := uuid.New()
	store.users[admin] = &models.User{ID: admin, Role: models.RoleAdmin, IsActive: true}

	tests := []struct {
		name    string
		userID  uuid.UUID
		wantErr func(error) bool
	}{
		{"unknown user", uuid.New(), func(err error) bool {
			var nf *NotFoundError
			return errors.As(err, &nf)
		}},
		{"inactive user", inactive, func(err error) bool {
			var ce *ConflictError
			return errors.As(err, &ce)
		}},
		{"admin cannot be assignee", admin, func(err error) bool {
			var ce *ConflictError
			return errors.As(err, &ce)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Create(ctx, spotID, tt.userID, uuid.New())
			if !tt.wantErr(err) {
				t.Errorf("got %v", err)
			}
		})
	}
}

func TestLedgerCreateUnknownSpot(t *testing.T) {
	store := newFakeStore()
	l := newTestLedger(store)

	userID := seedWorker(store)
	_, err := l.Create(context.Background(), uuid.New(), userID, uuid.New())
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError for unknown spot, got %v", err)
	}
}

func TestCompleteAssignmentIdempotent(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	userID := uuid.New()
	id := uuid.New()
	store.assignments[id] = &models.Assignment{
		ID: id, SpotID: uuid.New(), UserID: userID, Status: models.AssignmentAssigned,
	}

	first := testNow
	if err := store.CompleteAssignment(ctx, id, userID, first); err != nil {
		t.Fatal(err)
	}
	later := testNow.Add(time.Hour)
	if err := store.CompleteAssignment(ctx, id, userID, later); err != nil {
		t.Fatalf("second complete must be a no-op, got %v", err)
	}

	a := store.assignments[id]
	if a.Status != models.AssignmentCompleted || !a.CompletedAt.Equal(first) {
		t.Errorf("assignment double-transitioned: %+v", a)
	}
}
