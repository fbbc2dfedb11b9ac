package intake

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/posterspot/backend/models"
	"github.com/posterspot/backend/utils"
)

var imageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var videoMimes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// Engine resolves the target spot for a submission, enforces cooldown
// and distance policy, and records everything in one transaction.
type Engine struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewEngine(store Store, cfg Config) *Engine {
	return &Engine{store: store, cfg: cfg, now: time.Now}
}

// ProofFileInput describes a proof file that has already been persisted
// by the upload layer. The engine only sees metadata, never bytes.
type ProofFileInput struct {
	Name      string
	URL       string
	Mime      string
	SizeBytes int64
}

type SubmitInput struct {
	UserID       uuid.UUID
	Location     utils.Coordinate
	Note         string
	AddressText  string
	AssignmentID *uuid.UUID
	Files        []ProofFileInput
}

type SubmitResult struct {
	SubmissionID uuid.UUID  `json:"submissionId"`
	SpotID       uuid.UUID  `json:"spotId"`
	AssignmentID *uuid.UUID `json:"assignmentId,omitempty"`
}

// Availability answers "can this coordinate take a new placement right
// now", used by admin tooling before creating an assignment.
type Availability struct {
	Available       bool       `json:"available"`
	ExistingSpotID  *uuid.UUID `json:"existingSpotId,omitempty"`
	NextAvailableAt *time.Time `json:"nextAvailableAt,omitempty"`
}

type classifiedFile struct {
	url  string
	kind string
	mime string
	size int64
}

// classifyFiles validates every file before anything is written. A
// single bad file rejects the whole batch. Classification depends only
// on MIME type and size, never on the file name.
func (e *Engine) classifyFiles(files []ProofFileInput) ([]classifiedFile, string, error) {
	if len(files) == 0 {
		return nil, "", &ValidationError{Message: "at least one proof file is required"}
	}

	out := make([]classifiedFile, 0, len(files))
	sawImage, sawVideo := false, false

	for _, f := range files {
		mime := strings.ToLower(f.Mime)
		switch {
		case imageMimes[mime]:
			if f.SizeBytes > e.cfg.MaxImageBytes {
				return nil, "", &ValidationError{
					Message: fmt.Sprintf("image %s is too large (max %d bytes)", f.Name, e.cfg.MaxImageBytes),
				}
			}
			sawImage = true
			out = append(out, classifiedFile{url: f.URL, kind: models.ProofImage, mime: mime, size: f.SizeBytes})
		case videoMimes[mime]:
			if f.SizeBytes > e.cfg.MaxVideoBytes {
				return nil, "", &ValidationError{
					Message: fmt.Sprintf("video %s is too large (max %d bytes)", f.Name, e.cfg.MaxVideoBytes),
				}
			}
			sawVideo = true
			out = append(out, classifiedFile{url: f.URL, kind: models.ProofVideo, mime: mime, size: f.SizeBytes})
		default:
			return nil, "", &ValidationError{
				Message: fmt.Sprintf("invalid file type %q for %s", f.Mime, f.Name),
			}
		}
	}

	summary := models.ProofImage
	switch {
	case sawImage && sawVideo:
		summary = models.ProofMixed
	case sawVideo:
		summary = models.ProofVideo
	}
	return out, summary, nil
}

// SubmitProof is the single entry point for both intake modes. With an
// AssignmentID the submission must verify against the assigned spot;
// without one it resolves the nearest spot within the match radius or
// creates a new one.
func (e *Engine) SubmitProof(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if err := utils.ValidateCoordinate(in.Location); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	files, summary, err := e.classifyFiles(in.Files)
	if err != nil {
		return nil, err
	}

	addressText := strings.TrimSpace(in.AddressText)
	var addressPtr *string
	if addressText != "" {
		addressPtr = &addressText
	}
	var districtPtr *string
	if d := utils.ExtractDistrict(addressText); d != "" {
		districtPtr = &d
	}

	now := e.now()
	var result SubmitResult

	err = e.store.Transaction(ctx, func(tx Store) error {
		var spotID uuid.UUID

		if in.AssignmentID != nil {
			id, err := e.verifyAssignment(ctx, tx, in, now, addressPtr, districtPtr)
			if err != nil {
				return err
			}
			spotID = id
		} else {
			id, err := e.resolveFreeRoam(ctx, tx, in, now, addressPtr, districtPtr)
			if err != nil {
				return err
			}
			spotID = id
		}

		sub := &models.Submission{
			UserID:             in.UserID,
			SpotID:             spotID,
			AssignmentID:       in.AssignmentID,
			ProofType:          summary,
			SubmittedLatitude:  in.Location.Lat,
			SubmittedLongitude: in.Location.Lng,
			SubmittedAt:        now,
		}
		if note := strings.TrimSpace(in.Note); note != "" {
			sub.Note = &note
		}
		for _, f := range files {
			sub.Proofs = append(sub.Proofs, models.SubmissionProof{
				ProofURL:  f.url,
				ProofType: f.kind,
				ProofMime: f.mime,
				ProofSize: f.size,
			})
		}
		if err := tx.CreateSubmission(ctx, sub); err != nil {
			return err
		}

		if in.AssignmentID != nil {
			if err := tx.CompleteAssignment(ctx, *in.AssignmentID, in.UserID, now); err != nil {
				return err
			}
		}

		result = SubmitResult{
			SubmissionID: sub.ID,
			SpotID:       spotID,
			AssignmentID: in.AssignmentID,
		}
		return nil
	})
	if err != nil {
		return nil, coerceStorage(err)
	}
	return &result, nil
}

// verifyAssignment handles assignment-bound intake: the assignment must
// belong to the user and be active, and the claimed coordinate must be
// within MaxAssignDistanceMeters of the assigned spot. The spot is
// locked for the rest of the transaction.
func (e *Engine) verifyAssignment(ctx context.Context, tx Store, in SubmitInput, now time.Time, addressPtr, districtPtr *string) (uuid.UUID, error) {
	a, err := tx.GetAssignmentForUser(ctx, *in.AssignmentID, in.UserID)
	if err != nil {
		return uuid.Nil, err
	}
	if a == nil {
		return uuid.Nil, &NotFoundError{Resource: "assignment"}
	}
	if a.Status != models.AssignmentAssigned {
		return uuid.Nil, &ConflictError{Message: "this assignment is not active"}
	}

	spot, err := tx.GetSpotForUpdate(ctx, a.SpotID)
	if err != nil {
		return uuid.Nil, err
	}
	if spot == nil {
		return uuid.Nil, &NotFoundError{Resource: "spot"}
	}

	if e.cfg.EnforceCooldownOnAssignments {
		if cd := SpotCooldown(spot, e.cfg.CooldownMonths, now); cd.InCooldown {
			return uuid.Nil, &ConflictError{
				Message:     "the assigned spot is still in cooldown",
				AvailableAt: cd.AvailableAt,
			}
		}
	}

	distance := utils.HaversineMeters(in.Location, utils.Coordinate{
		Lat: spot.Latitude,
		Lng: spot.Longitude,
	})
	if math.IsNaN(distance) {
		return uuid.Nil, &ConflictError{Message: "unable to verify distance, please try again"}
	}
	if distance > e.cfg.MaxAssignDistanceMeters {
		distance = math.Round(distance)
		allowed := e.cfg.MaxAssignDistanceMeters
		return uuid.Nil, &ConflictError{
			Message:          "you are not at the assigned location",
			DistanceMeters:   &distance,
			AllowedDistanceM: &allowed,
			AssignedSpot: &SpotRef{
				SpotID:      spot.ID,
				Latitude:    spot.Latitude,
				Longitude:   spot.Longitude,
				AddressText: spot.AddressText,
				MapsLink:    utils.MapsLink(spot.Latitude, spot.Longitude),
			},
		}
	}

	claim := SpotClaim{UserID: in.UserID, ClaimedAt: now, AddressText: addressPtr, District: districtPtr}
	if err := tx.UpdateSpotClaim(ctx, spot.ID, claim); err != nil {
		return uuid.Nil, err
	}
	return spot.ID, nil
}

// resolveFreeRoam handles nearest-match intake: reuse the closest spot
// within the match radius when it is out of cooldown, otherwise create
// a fresh spot at the claimed coordinate.
//
// Two requests discovering the same new coordinate at once can each
// create a spot; duplicates are merged out-of-band by an admin.
func (e *Engine) resolveFreeRoam(ctx context.Context, tx Store, in SubmitInput, now time.Time, addressPtr, districtPtr *string) (uuid.UUID, error) {
	spots, err := tx.ListSpots(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	nearest := NearestSpot(spots, in.Location, e.cfg.MatchRadiusMeters)
	if nearest == nil {
		spot := &models.Spot{
			Latitude:      in.Location.Lat,
			Longitude:     in.Location.Lng,
			AddressText:   addressPtr,
			District:      districtPtr,
			LastClaimedAt: &now,
			LastClaimedBy: &in.UserID,
		}
		if err := tx.CreateSpot(ctx, spot); err != nil {
			return uuid.Nil, err
		}
		return spot.ID, nil
	}

	// re-read under lock so the cooldown decision is serialized with
	// any concurrent claim on the same spot
	spot, err := tx.GetSpotForUpdate(ctx, nearest.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if spot == nil {
		return uuid.Nil, &NotFoundError{Resource: "spot"}
	}

	if cd := SpotCooldown(spot, e.cfg.CooldownMonths, now); cd.InCooldown {
		return uuid.Nil, &ConflictError{
			Message:     "this location was already postered recently",
			AvailableAt: cd.AvailableAt,
		}
	}

	claim := SpotClaim{UserID: in.UserID, ClaimedAt: now, AddressText: addressPtr, District: districtPtr}
	if err := tx.UpdateSpotClaim(ctx, spot.ID, claim); err != nil {
		return uuid.Nil, err
	}
	return spot.ID, nil
}

// CheckAvailability reports whether a placement at point would succeed
// right now, without writing anything.
func (e *Engine) CheckAvailability(ctx context.Context, point utils.Coordinate) (*Availability, error) {
	if err := utils.ValidateCoordinate(point); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	spots, err := e.store.ListSpots(ctx)
	if err != nil {
		return nil, coerceStorage(err)
	}

	nearest := NearestSpot(spots, point, e.cfg.MatchRadiusMeters)
	if nearest == nil {
		return &Availability{Available: true}, nil
	}

	cd := SpotCooldown(nearest, e.cfg.CooldownMonths, e.now())
	return &Availability{
		Available:       !cd.InCooldown,
		ExistingSpotID:  &nearest.ID,
		NextAvailableAt: cd.AvailableAt,
	}, nil
}
