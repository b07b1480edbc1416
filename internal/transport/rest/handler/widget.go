package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"formdash/internal/model"
	"formdash/internal/repository"
	"formdash/internal/service"
)

// WidgetHandler handles widget data endpoints
type WidgetHandler struct {
	widgetSvc *service.WidgetDataService
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(widgetSvc *service.WidgetDataService) *WidgetHandler {
	return &WidgetHandler{widgetSvc: widgetSvc}
}

// GetData handles GET /v1/widgets/{widgetId}/data
func (h *WidgetHandler) GetData(w http.ResponseWriter, r *http.Request) {
	widgetID := mux.Vars(r)["widgetId"]
	sandbox := r.URL.Query().Get("sandbox") == "1" || r.URL.Query().Get("sandbox") == "true"

	data, err := h.widgetSvc.ComputeWidgetData(r.Context(), widgetID, sandbox)
	if errors.Is(err, repository.ErrWidgetNotFound) {
		writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	if errors.Is(err, service.ErrUnsupportedVisualization) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// Preview handles POST /v1/widgets/data/preview: computes a posted config
// without persisting or caching anything
func (h *WidgetHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var cfg model.WidgetConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid widget config")
		return
	}

	data, err := h.widgetSvc.ComputeFromConfig(r.Context(), cfg)
	if errors.Is(err, service.ErrUnsupportedVisualization) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// Create handles POST /v1/widgets
func (h *WidgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var widget model.Widget
	if err := json.NewDecoder(r.Body).Decode(&widget); err != nil {
		writeError(w, http.StatusBadRequest, "invalid widget")
		return
	}

	err := h.widgetSvc.CreateWidget(r.Context(), &widget)
	if errors.Is(err, service.ErrUnsupportedVisualization) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, widget)
}

// List handles GET /v1/widgets
func (h *WidgetHandler) List(w http.ResponseWriter, r *http.Request) {
	widgets, err := h.widgetSvc.ListWidgets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, widgets)
}

// Invalidate handles POST /v1/widgets/invalidate
func (h *WidgetHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WidgetIDs []string `json:"widgetIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.widgetSvc.Invalidate(r.Context(), req.WidgetIDs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"invalidated": len(req.WidgetIDs)})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
