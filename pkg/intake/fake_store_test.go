package intake

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/posterspot/backend/models"
)

// fakeStore is an in-memory Store. Transaction snapshots the state and
// restores it when the callback fails, mirroring a database rollback.
type fakeStore struct {
	spots       map[uuid.UUID]*models.Spot
	assignments map[uuid.UUID]*models.Assignment
	submissions map[uuid.UUID]*models.Submission
	users       map[uuid.UUID]*models.User

	failCreateSubmission bool
	lockedSpots          []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		spots:       make(map[uuid.UUID]*models.Spot),
		assignments: make(map[uuid.UUID]*models.Assignment),
		submissions: make(map[uuid.UUID]*models.Submission),
		users:       make(map[uuid.UUID]*models.User),
	}
}

func copyMap[K comparable, V any](in map[K]*V) map[K]*V {
	out := make(map[K]*V, len(in))
	for k, v := range in {
		c := *v
		out[k] = &c
	}
	return out
}

func (f *fakeStore) snapshot() (map[uuid.UUID]*models.Spot, map[uuid.UUID]*models.Assignment, map[uuid.UUID]*models.Submission) {
	return copyMap(f.spots), copyMap(f.assignments), copyMap(f.submissions)
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(Store) error) error {
	spots, assignments, submissions := f.snapshot()
	if err := fn(f); err != nil {
		f.spots, f.assignments, f.submissions = spots, assignments, submissions
		return err
	}
	return nil
}

func (f *fakeStore) ListSpots(ctx context.Context) ([]models.Spot, error) {
	out := make([]models.Spot, 0, len(f.spots))
	for _, s := range f.spots {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	if s, ok := f.spots[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) GetSpotForUpdate(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	f.lockedSpots = append(f.lockedSpots, id)
	return f.GetSpot(ctx, id)
}

func (f *fakeStore) CreateSpot(ctx context.Context, spot *models.Spot) error {
	if spot.ID == uuid.Nil {
		spot.ID = uuid.New()
	}
	c := *spot
	f.spots[spot.ID] = &c
	return nil
}

func (f *fakeStore) UpdateSpotClaim(ctx context.Context, spotID uuid.UUID, claim SpotClaim) error {
	s, ok := f.spots[spotID]
	if !ok {
		return errors.New("spot missing")
	}
	at := claim.ClaimedAt
	uid := claim.UserID
	s.LastClaimedAt = &at
	s.LastClaimedBy = &uid
	s.AddressText = claim.AddressText
	if s.District == nil && claim.District != nil {
		d := *claim.District
		s.District = &d
	}
	return nil
}

func (f *fakeStore) GetAssignmentForUser(ctx context.Context, id, userID uuid.UUID) (*models.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (f *fakeStore) HasActiveAssignment(ctx context.Context, spotID uuid.UUID) (bool, error) {
	for _, a := range f.assignments {
		if a.SpotID == spotID && a.Status == models.AssignmentAssigned {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	c := *a
	f.assignments[a.ID] = &c
	return nil
}

func (f *fakeStore) CompleteAssignment(ctx context.Context, id, userID uuid.UUID, at time.Time) error {
	a, ok := f.assignments[id]
	if !ok || a.UserID != userID || a.Status != models.AssignmentAssigned {
		return nil
	}
	done := at
	a.Status = models.AssignmentCompleted
	a.CompletedAt = &done
	return nil
}

func (f *fakeStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	if f.failCreateSubmission {
		return errors.New("injected submission insert failure")
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	c := *sub
	f.submissions[sub.ID] = &c
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}
