package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/posterspot/backend/handlers"
	"github.com/posterspot/backend/middleware"
	"github.com/posterspot/backend/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	login := middleware.RateLimit(5, 10, 10*time.Minute)(http.HandlerFunc(handlers.Login))
	r.Handle("/auth/login", login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)
	api.HandleFunc("/auth/me", handlers.GetCurrentUser).Methods("GET")

	// Worker endpoints
	user := api.NewRoute().Subrouter()
	user.Use(middleware.RoleMiddleware(models.RoleUser))
	user.HandleFunc("/submissions", handlers.SubmitProof).Methods("POST")
	user.HandleFunc("/submissions", handlers.MySubmissions).Methods("GET")
	user.HandleFunc("/assignments", handlers.MyAssignments).Methods("GET")

	// =====================================================
	// Admin Routes (require admin role)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RoleMiddleware(models.RoleAdmin))

	admin.HandleFunc("/users", handlers.CreateUser).Methods("POST")
	admin.HandleFunc("/users", handlers.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/status", handlers.UpdateUserStatus).Methods("PATCH")

	admin.HandleFunc("/submissions", handlers.ListSubmissions).Methods("GET")
	admin.HandleFunc("/submissions/export", handlers.ExportSubmissionsExcel).Methods("GET")
	admin.HandleFunc("/submissions/{id}", handlers.GetSubmissionDetails).Methods("GET")

	admin.HandleFunc("/spots", handlers.ListSpots).Methods("GET")
	admin.HandleFunc("/spots", handlers.CreateSpot).Methods("POST")
	admin.HandleFunc("/spots/check", handlers.CheckSpotAvailability).Methods("POST")
	admin.HandleFunc("/spots/export.geojson", handlers.ExportSpotsGeoJSON).Methods("GET")
	admin.HandleFunc("/spots/{id}", handlers.GetSpotDetails).Methods("GET")

	admin.HandleFunc("/spot-assignments", handlers.AssignSpot).Methods("POST")
	admin.HandleFunc("/spot-assignments", handlers.ListAssignments).Methods("GET")

	return r
}
