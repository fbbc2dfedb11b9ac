package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/posterspot/backend/config"
	"github.com/posterspot/backend/models"
	"github.com/posterspot/backend/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type adminSubmissionRow struct {
	ID                 uuid.UUID  `json:"id"`
	SubmittedAt        time.Time  `json:"submittedAt"`
	ProofType          string     `json:"proofType"`
	SubmittedLatitude  float64    `json:"submittedLatitude"`
	SubmittedLongitude float64    `json:"submittedLongitude"`
	UserName           string     `json:"userName"`
	UserEmail          string     `json:"userEmail"`
	SpotID             uuid.UUID  `json:"spotId"`
	SpotLatitude       float64    `json:"spotLatitude"`
	SpotLongitude      float64    `json:"spotLongitude"`
	AddressText        *string    `json:"addressText,omitempty"`
	District           *string    `json:"district,omitempty"`
	LastClaimedAt      *time.Time `json:"lastClaimedAt,omitempty"`
	ImgCount           int64      `json:"imgCount"`
	VidCount           int64      `json:"vidCount"`
	NextAvailableAt    *time.Time `json:"nextAvailableAt,omitempty"`
	MapsLink           string     `json:"mapsLink"`
}

func adminSubmissionQuery(r *http.Request) *gorm.DB {
	q := config.DB.Table("submissions s").
		Select(`s.id, s.submitted_at, s.proof_type, s.submitted_latitude, s.submitted_longitude,
			u.name AS user_name, u.email AS user_email,
			sp.id AS spot_id, sp.latitude AS spot_latitude, sp.longitude AS spot_longitude,
			sp.address_text, sp.district, sp.last_claimed_at,
			COALESCE(SUM(CASE WHEN pr.proof_type = 'image' THEN 1 ELSE 0 END), 0) AS img_count,
			COALESCE(SUM(CASE WHEN pr.proof_type = 'video' THEN 1 ELSE 0 END), 0) AS vid_count`).
		Joins("JOIN users u ON u.id = s.user_id").
		Joins("JOIN spots sp ON sp.id = s.spot_id").
		Joins("LEFT JOIN submission_proofs pr ON pr.submission_id = s.id").
		Group("s.id, u.id, sp.id").
		Order("s.submitted_at DESC")

	if user := r.URL.Query().Get("user"); user != "" {
		q = q.Where("u.name ILIKE ? OR u.email ILIKE ?", "%"+user+"%", "%"+user+"%")
	}
	if start := r.URL.Query().Get("start"); start != "" {
		q = q.Where("s.submitted_at >= ?", start)
	}
	if end := r.URL.Query().Get("end"); end != "" {
		q = q.Where("s.submitted_at <= ?", end)
	}
	return q
}

func fetchAdminSubmissions(r *http.Request) ([]adminSubmissionRow, error) {
	var rows []adminSubmissionRow
	if err := adminSubmissionQuery(r).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].LastClaimedAt != nil {
			next := utils.AddCalendarMonths(*rows[i].LastClaimedAt, intakeCfg().CooldownMonths)
			rows[i].NextAvailableAt = &next
		}
		rows[i].MapsLink = utils.MapsLink(rows[i].SubmittedLatitude, rows[i].SubmittedLongitude)
	}
	return rows, nil
}

// ListSubmissions returns every submission with user and spot context,
// filtered by ?user= (name/email substring), ?start= and ?end=
func ListSubmissions(w http.ResponseWriter, r *http.Request) {
	rows, err := fetchAdminSubmissions(r)
	if err != nil {
		http.Error(w, "failed to fetch submissions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": rows})
}

// GetSubmissionDetails returns one submission with its proofs, user
// and spot
func GetSubmissionDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	var sub models.Submission
	if err := config.DB.
		Preload("Proofs").Preload("User").Preload("Spot").
		First(&sub, "id = ?", id).Error; err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "submission not found"})
		return
	}

	var nextAvailableAt *time.Time
	if sub.Spot.LastClaimedAt != nil {
		next := utils.AddCalendarMonths(*sub.Spot.LastClaimedAt, intakeCfg().CooldownMonths)
		nextAvailableAt = &next
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"submission":      sub,
		"nextAvailableAt": nextAvailableAt,
		"mapsLink":        utils.MapsLink(sub.SubmittedLatitude, sub.SubmittedLongitude),
	})
}

// ExportSubmissionsExcel writes the filtered submission list as an
// .xlsx download
func ExportSubmissionsExcel(w http.ResponseWriter, r *http.Request) {
	rows, err := fetchAdminSubmissions(r)
	if err != nil {
		http.Error(w, "failed to fetch submissions", http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	const sheet = "Submissions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Submitted At", "User", "Email", "Proof Type", "Images", "Videos",
		"Latitude", "Longitude", "Address", "District", "Next Available"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		values := []interface{}{
			row.SubmittedAt.Format(time.RFC3339),
			row.UserName,
			row.UserEmail,
			row.ProofType,
			row.ImgCount,
			row.VidCount,
			row.SubmittedLatitude,
			row.SubmittedLongitude,
			deref(row.AddressText),
			deref(row.District),
		}
		if row.NextAvailableAt != nil {
			values = append(values, row.NextAvailableAt.Format(time.RFC3339))
		} else {
			values = append(values, "")
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
