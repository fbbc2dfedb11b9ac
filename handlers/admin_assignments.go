package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/posterspot/backend/config"
	"github.com/posterspot/backend/middleware"
	"github.com/posterspot/backend/models"
)

type assignSpotReq struct {
	SpotID uuid.UUID `json:"spotId"`
	UserID uuid.UUID `json:"userId"`
}

// AssignSpot issues a work order binding a worker to a spot
func AssignSpot(w http.ResponseWriter, r *http.Request) {
	adminID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "invalid user identity", http.StatusUnauthorized)
		return
	}

	var req assignSpotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	a, err := assignmentLedger().Create(r.Context(), req.SpotID, req.UserID, adminID)
	if err != nil {
		writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ListAssignments returns assignments with spot and assignee, filtered
// by optional status and user_id query parameters
func ListAssignments(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Preload("Spot").Preload("User").Order("assigned_at DESC")

	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if user := r.URL.Query().Get("user_id"); user != "" {
		userID, err := uuid.Parse(user)
		if err != nil {
			http.Error(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		q = q.Where("user_id = ?", userID)
	}

	var assignments []models.Assignment
	if err := q.Find(&assignments).Error; err != nil {
		http.Error(w, "failed to fetch assignments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}
