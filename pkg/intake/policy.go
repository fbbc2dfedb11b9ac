package intake

// Config holds the placement policy. It is injected into the engine at
// construction so tests can tighten or loosen every knob.
type Config struct {
	// MatchRadiusMeters is the clustering radius: a submission within
	// this distance of an existing spot belongs to that spot.
	MatchRadiusMeters float64

	// MaxAssignDistanceMeters is how far from the assigned spot a
	// worker may stand when submitting assignment-bound proof.
	MaxAssignDistanceMeters float64

	// CooldownMonths is the calendar-month waiting period after a spot
	// is claimed before it may be claimed again.
	CooldownMonths int

	MaxImageBytes int64
	MaxVideoBytes int64

	// EnforceCooldownOnAssignments applies the cooldown check to
	// assignment-bound submissions too. Off by default: an admin who
	// assigns a spot has already decided it should be re-postered.
	EnforceCooldownOnAssignments bool
}

func DefaultConfig() Config {
	return Config{
		MatchRadiusMeters:            20,
		MaxAssignDistanceMeters:      20,
		CooldownMonths:               3,
		MaxImageBytes:                5 << 20,
		MaxVideoBytes:                50 << 20,
		EnforceCooldownOnAssignments: false,
	}
}
