package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/posterspot/backend/config"
	"github.com/posterspot/backend/models"
	"github.com/posterspot/backend/pkg/intake"
	"github.com/posterspot/backend/utils"
)

type spotListRow struct {
	ID                 uuid.UUID  `json:"id"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	AddressText        *string    `json:"addressText,omitempty"`
	District           *string    `json:"district,omitempty"`
	LastClaimedAt      *time.Time `json:"lastClaimedAt,omitempty"`
	LastClaimedBy      *uuid.UUID `json:"lastClaimedBy,omitempty"`
	LastClaimedByName  *string    `json:"lastClaimedByName,omitempty"`
	LastClaimedByEmail *string    `json:"lastClaimedByEmail,omitempty"`
	SubmissionsCount   int64      `json:"submissionsCount"`
	NextAvailableAt    *time.Time `json:"nextAvailableAt,omitempty"`
	MapsLink           string     `json:"mapsLink"`
}

// ListSpots returns every spot with its last claimer and claim stats
func ListSpots(w http.ResponseWriter, r *http.Request) {
	var rows []spotListRow
	err := config.DB.Table("spots").
		Select(`spots.id, spots.latitude, spots.longitude, spots.address_text, spots.district,
			spots.last_claimed_at, spots.last_claimed_by,
			u.name AS last_claimed_by_name, u.email AS last_claimed_by_email,
			(SELECT COUNT(*) FROM submissions s WHERE s.spot_id = spots.id) AS submissions_count`).
		Joins("LEFT JOIN users u ON u.id = spots.last_claimed_by").
		Order("spots.last_claimed_at DESC NULLS LAST").
		Scan(&rows).Error
	if err != nil {
		http.Error(w, "failed to fetch spots", http.StatusInternalServerError)
		return
	}

	for i := range rows {
		if rows[i].LastClaimedAt != nil {
			next := utils.AddCalendarMonths(*rows[i].LastClaimedAt, intakeCfg().CooldownMonths)
			rows[i].NextAvailableAt = &next
		}
		rows[i].MapsLink = utils.MapsLink(rows[i].Latitude, rows[i].Longitude)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"spots": rows})
}

// GetSpotDetails returns one spot plus its submission history
func GetSpotDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid spot id", http.StatusBadRequest)
		return
	}

	var spot models.Spot
	if err := config.DB.First(&spot, "id = ?", id).Error; err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "spot not found"})
		return
	}

	var subs []models.Submission
	if err := config.DB.
		Preload("Proofs").Preload("User").
		Where("spot_id = ?", id).
		Order("submitted_at DESC").
		Find(&subs).Error; err != nil {
		http.Error(w, "failed to fetch submissions", http.StatusInternalServerError)
		return
	}

	var nextAvailableAt *time.Time
	if spot.LastClaimedAt != nil {
		next := utils.AddCalendarMonths(*spot.LastClaimedAt, intakeCfg().CooldownMonths)
		nextAvailableAt = &next
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"spot": map[string]interface{}{
			"id":              spot.ID,
			"latitude":        spot.Latitude,
			"longitude":       spot.Longitude,
			"addressText":     spot.AddressText,
			"district":        spot.District,
			"lastClaimedAt":   spot.LastClaimedAt,
			"lastClaimedBy":   spot.LastClaimedBy,
			"nextAvailableAt": nextAvailableAt,
			"mapsLink":        utils.MapsLink(spot.Latitude, spot.Longitude),
		},
		"submissions": subs,
	})
}

type createSpotReq struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	AddressText string  `json:"addressText"`
}

// CreateSpot registers a spot ahead of any submission, so admins can
// assign locations that have never been postered. Conflicts when the
// coordinate falls inside an existing cluster.
func CreateSpot(w http.ResponseWriter, r *http.Request) {
	var req createSpotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	point := utils.Coordinate{Lat: req.Latitude, Lng: req.Longitude}
	if err := utils.ValidateCoordinate(point); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	var spots []models.Spot
	if err := config.DB.Find(&spots).Error; err != nil {
		http.Error(w, "failed to fetch spots", http.StatusInternalServerError)
		return
	}
	if existing := intake.NearestSpot(spots, point, intakeCfg().MatchRadiusMeters); existing != nil {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"message":        "a spot already exists within the match radius",
			"existingSpotId": existing.ID,
		})
		return
	}

	spot := models.Spot{Latitude: req.Latitude, Longitude: req.Longitude}
	if req.AddressText != "" {
		spot.AddressText = &req.AddressText
	}
	if d := utils.ExtractDistrict(req.AddressText); d != "" {
		spot.District = &d
	}
	if err := config.DB.Create(&spot).Error; err != nil {
		http.Error(w, "failed to create spot", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, spot)
}

type checkAvailabilityReq struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CheckSpotAvailability answers whether a coordinate can take a new
// placement, used before creating an assignment
func CheckSpotAvailability(w http.ResponseWriter, r *http.Request) {
	var req checkAvailabilityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	av, err := intakeEngine().CheckAvailability(r.Context(), utils.Coordinate{Lat: req.Latitude, Lng: req.Longitude})
	if err != nil {
		writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, av)
}

// ExportSpotsGeoJSON dumps the spot table as a GeoJSON
// FeatureCollection for map tooling
func ExportSpotsGeoJSON(w http.ResponseWriter, r *http.Request) {
	var spots []models.Spot
	if err := config.DB.Find(&spots).Error; err != nil {
		http.Error(w, "failed to fetch spots", http.StatusInternalServerError)
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, s := range spots {
		f := geojson.NewFeature(orb.Point{s.Longitude, s.Latitude})
		f.Properties["id"] = s.ID.String()
		if s.AddressText != nil {
			f.Properties["addressText"] = *s.AddressText
		}
		if s.District != nil {
			f.Properties["district"] = *s.District
		}
		if s.LastClaimedAt != nil {
			f.Properties["lastClaimedAt"] = s.LastClaimedAt.Format(time.RFC3339)
			next := utils.AddCalendarMonths(*s.LastClaimedAt, intakeCfg().CooldownMonths)
			f.Properties["nextAvailableAt"] = next.Format(time.RFC3339)
		}
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		http.Error(w, "failed to encode GeoJSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Content-Disposition", `attachment; filename=spots.geojson`)
	w.Write(data)
}
