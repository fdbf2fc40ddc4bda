package handler

import (
	"net/http"

	"pdf-annotator/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"pdf-annotator"}`))
	}).Methods("GET")

	// Initialize handlers
	fileHandler := NewFileHandler(
		container.FileRepository,
		container.Fetcher,
		container.Inspector,
		container.ExportService,
		container.Logger,
	)
	annotationHandler := NewAnnotationHandler(container.AnnotationRepository, container.Logger)

	// Auth middleware for protected routes
	authMiddleware := AuthMiddleware(container.SupabaseClient, container.Logger)

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	// File routes (protected)
	protected.HandleFunc("/files/{fileId}", fileHandler.GetFile).Methods("GET")
	protected.HandleFunc("/files/{fileId}/info", fileHandler.GetFileInfo).Methods("GET")
	protected.HandleFunc("/files/{fileId}/export", fileHandler.ExportFile).Methods("POST")

	// Annotation routes (protected)
	protected.HandleFunc("/annotations", annotationHandler.SaveAnnotations).Methods("POST")
	protected.HandleFunc("/annotations/{id}", annotationHandler.DeleteAnnotation).Methods("DELETE")
	protected.HandleFunc("/files/{fileId}/annotations", annotationHandler.ListAnnotations).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:4173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
