package intake

import (
	"time"

	"github.com/posterspot/backend/models"
	"github.com/posterspot/backend/utils"
)

// NearestSpot scans spots linearly and returns the one closest to
// point, provided it lies within radiusM. Returns nil when no spot
// qualifies, which tells the caller to create a new spot. Ties go to
// whichever spot appears first in the slice.
func NearestSpot(spots []models.Spot, point utils.Coordinate, radiusM float64) *models.Spot {
	var nearest *models.Spot
	var nearestDist float64

	for i := range spots {
		d := utils.HaversineMeters(point, utils.Coordinate{
			Lat: spots[i].Latitude,
			Lng: spots[i].Longitude,
		})
		if d > radiusM {
			continue
		}
		if nearest == nil || d < nearestDist {
			nearest = &spots[i]
			nearestDist = d
		}
	}
	return nearest
}

// CooldownState reports whether a spot is inside its waiting period.
type CooldownState struct {
	InCooldown  bool
	AvailableAt *time.Time
}

// SpotCooldown computes the cooldown state of a spot at the given
// instant. A never-claimed spot is always available.
func SpotCooldown(spot *models.Spot, cooldownMonths int, now time.Time) CooldownState {
	if spot.LastClaimedAt == nil {
		return CooldownState{}
	}
	availableAt := utils.AddCalendarMonths(*spot.LastClaimedAt, cooldownMonths)
	return CooldownState{
		InCooldown:  now.Before(availableAt),
		AvailableAt: &availableAt,
	}
}
