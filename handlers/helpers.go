package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/posterspot/backend/config"
	"github.com/posterspot/backend/pkg/intake"
)

// intakeCfg reads the placement policy from the environment on every
// call. Package-level initialization would run before godotenv loads
// the .env file in config.Connect, silently ignoring flags set there.
func intakeCfg() intake.Config {
	cfg := intake.DefaultConfig()
	if os.Getenv("ENFORCE_ASSIGNMENT_COOLDOWN") == "true" {
		cfg.EnforceCooldownOnAssignments = true
	}
	return cfg
}

func intakeEngine() *intake.Engine {
	return intake.NewEngine(intake.NewGormStore(config.DB), intakeCfg())
}

func assignmentLedger() *intake.Ledger {
	return intake.NewLedger(intake.NewGormStore(config.DB))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeIntakeError translates the engine's typed errors into HTTP
// responses. Conflict payloads keep their structured context so the
// client can render cooldown dates and assigned-spot directions.
func writeIntakeError(w http.ResponseWriter, err error) {
	var (
		ve *intake.ValidationError
		nf *intake.NotFoundError
		ce *intake.ConflictError
		se *intake.StorageError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": ve.Message})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": nf.Error()})
	case errors.As(err, &ce):
		writeJSON(w, http.StatusConflict, ce)
	case errors.As(err, &se):
		log.Printf("storage error: %v", se.Err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "server error"})
	default:
		log.Printf("unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "server error"})
	}
}
