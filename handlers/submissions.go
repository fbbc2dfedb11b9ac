package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/posterspot/backend/config"
	"github.com/posterspot/backend/middleware"
	"github.com/posterspot/backend/models"
	"github.com/posterspot/backend/pkg/intake"
	"github.com/posterspot/backend/utils"
)

const maxProofFiles = 10

// SubmitProof accepts a multipart submission: latitude, longitude,
// optional note/address/assignment_id fields and up to ten files under
// "proof". Files are persisted first (like any upload), then the intake
// engine validates and records everything atomically; a rejected
// request leaves no database rows behind.
func SubmitProof(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "invalid user identity", http.StatusUnauthorized)
		return
	}

	// 50 MiB is the largest single file we accept; the engine enforces
	// the per-kind caps
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	lat, errLat := strconv.ParseFloat(r.FormValue("latitude"), 64)
	lng, errLng := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if errLat != nil || errLng != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "valid latitude and longitude required"})
		return
	}

	var assignmentID *uuid.UUID
	if v := r.FormValue("assignment_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid assignment_id"})
			return
		}
		assignmentID = &id
	}

	fileHeaders := r.MultipartForm.File["proof"]
	if len(fileHeaders) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "at least one proof file is required"})
		return
	}
	if len(fileHeaders) > maxProofFiles {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "too many proof files"})
		return
	}

	store := NewProofStorage()
	files := make([]intake.ProofFileInput, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "failed to read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		url, err := store.Save(r.Context(), fh.Filename, f)
		f.Close()
		if err != nil {
			http.Error(w, "failed to store upload: "+err.Error(), http.StatusInternalServerError)
			return
		}
		files = append(files, intake.ProofFileInput{
			Name:      fh.Filename,
			URL:       url,
			Mime:      fh.Header.Get("Content-Type"),
			SizeBytes: fh.Size,
		})
	}

	res, err := intakeEngine().SubmitProof(r.Context(), intake.SubmitInput{
		UserID:       userID,
		Location:     utils.Coordinate{Lat: lat, Lng: lng},
		Note:         r.FormValue("note"),
		AddressText:  r.FormValue("address"),
		AssignmentID: assignmentID,
		Files:        files,
	})
	if err != nil {
		writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type submissionView struct {
	ID                 uuid.UUID                `json:"id"`
	SubmittedAt        time.Time                `json:"submittedAt"`
	ProofType          string                   `json:"proofType"`
	SubmittedLatitude  float64                  `json:"submittedLatitude"`
	SubmittedLongitude float64                  `json:"submittedLongitude"`
	Note               *string                  `json:"note,omitempty"`
	SpotID             uuid.UUID                `json:"spotId"`
	SpotLatitude       float64                  `json:"spotLatitude"`
	SpotLongitude      float64                  `json:"spotLongitude"`
	AddressText        *string                  `json:"addressText,omitempty"`
	District           *string                  `json:"district,omitempty"`
	AssignmentID       *uuid.UUID               `json:"assignmentId,omitempty"`
	Proofs             []models.SubmissionProof `json:"proofs"`
	MapsLink           string                   `json:"mapsLink"`
}

// MySubmissions lists the authenticated worker's submission history
func MySubmissions(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "invalid user identity", http.StatusUnauthorized)
		return
	}

	var subs []models.Submission
	if err := config.DB.
		Preload("Proofs").Preload("Spot").
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&subs).Error; err != nil {
		http.Error(w, "failed to fetch submissions", http.StatusInternalServerError)
		return
	}

	views := make([]submissionView, 0, len(subs))
	for _, s := range subs {
		views = append(views, submissionView{
			ID:                 s.ID,
			SubmittedAt:        s.SubmittedAt,
			ProofType:          s.ProofType,
			SubmittedLatitude:  s.SubmittedLatitude,
			SubmittedLongitude: s.SubmittedLongitude,
			Note:               s.Note,
			SpotID:             s.SpotID,
			SpotLatitude:       s.Spot.Latitude,
			SpotLongitude:      s.Spot.Longitude,
			AddressText:        s.Spot.AddressText,
			District:           s.Spot.District,
			AssignmentID:       s.AssignmentID,
			Proofs:             s.Proofs,
			MapsLink:           utils.MapsLink(s.SubmittedLatitude, s.SubmittedLongitude),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": views})
}

type assignmentView struct {
	AssignmentID uuid.UUID `json:"assignmentId"`
	AssignedAt   time.Time `json:"assignedAt"`
	SpotID       uuid.UUID `json:"spotId"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	AddressText  *string   `json:"addressText,omitempty"`
	District     *string   `json:"district,omitempty"`
	MapsLink     string    `json:"mapsLink"`
}

// MyAssignments lists the worker's open work orders
func MyAssignments(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "invalid user identity", http.StatusUnauthorized)
		return
	}

	var assignments []models.Assignment
	if err := config.DB.
		Preload("Spot").
		Where("user_id = ? AND status = ?", userID, models.AssignmentAssigned).
		Order("assigned_at DESC").
		Find(&assignments).Error; err != nil {
		http.Error(w, "failed to fetch assignments", http.StatusInternalServerError)
		return
	}

	views := make([]assignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, assignmentView{
			AssignmentID: a.ID,
			AssignedAt:   a.AssignedAt,
			SpotID:       a.SpotID,
			Latitude:     a.Spot.Latitude,
			Longitude:    a.Spot.Longitude,
			AddressText:  a.Spot.AddressText,
			District:     a.Spot.District,
			MapsLink:     utils.MapsLink(a.Spot.Latitude, a.Spot.Longitude),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assignments": views})
}
