package intake

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ValidationError means the request itself was malformed: non-finite
// coordinates, no proof files, a disallowed MIME type, an oversized
// file. Nothing was written.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError means a referenced assignment, spot or user does not
// exist or is not visible to the requesting user.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// SpotRef identifies a spot in a conflict payload so the client can
// show the worker where they were supposed to be.
type SpotRef struct {
	SpotID      uuid.UUID `json:"spotId"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	AddressText *string   `json:"addressText,omitempty"`
	MapsLink    string    `json:"mapsLink"`
}

// ConflictError is a business-rule rejection: cooldown active,
// assignment not active, too far from the assigned spot, duplicate
// active assignment. The optional fields carry structured context for
// client display.
type ConflictError struct {
	Message          string     `json:"message"`
	AvailableAt      *time.Time `json:"nextAvailableAt,omitempty"`
	DistanceMeters   *float64   `json:"distanceMeters,omitempty"`
	AllowedDistanceM *float64   `json:"allowedDistanceMeters,omitempty"`
	AssignedSpot     *SpotRef   `json:"assignedSpot,omitempty"`
}

func (e *ConflictError) Error() string { return e.Message }

// StorageError wraps a persistence failure. The transaction was rolled
// back, so the caller may safely retry.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage error: %v", e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// coerceStorage passes the package's typed errors through unchanged
// and wraps anything else (driver errors, commit failures) as a
// StorageError.
func coerceStorage(err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		se *StorageError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ce) || errors.As(err, &se) {
		return err
	}
	return &StorageError{Err: err}
}
