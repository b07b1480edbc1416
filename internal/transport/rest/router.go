package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"formdash/internal/service"
	"formdash/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	WidgetService *service.WidgetDataService
	FormService   *service.FormService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	widgetHandler := handler.NewWidgetHandler(c.WidgetService)
	formHandler := handler.NewFormHandler(c.FormService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/widgets", widgetHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/widgets", widgetHandler.List).Methods("GET")
	v1.HandleFunc("/widgets/{widgetId}/data", widgetHandler.GetData).Methods("GET", "OPTIONS")
	v1.HandleFunc("/widgets/data/preview", widgetHandler.Preview).Methods("POST", "OPTIONS")
	v1.HandleFunc("/widgets/invalidate", widgetHandler.Invalidate).Methods("POST", "OPTIONS")

	v1.HandleFunc("/forms", formHandler.CreateForm).Methods("POST", "OPTIONS")
	v1.HandleFunc("/responses", formHandler.SubmitResponse).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
