package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"formdash/internal/model"
	"formdash/internal/repository"
	"formdash/internal/service"
)

// FormHandler handles form and response ingestion endpoints
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// SubmitResponseRequest is the request body for submitting a response;
// answers may arrive in any of the accepted raw shapes
type SubmitResponseRequest struct {
	FormID  string `json:"formId"`
	Answers any    `json:"answers"`
	UserID  string `json:"userId,omitempty"`
}

// CreateForm handles POST /v1/forms
func (h *FormHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	var design model.FormDesign
	if err := json.NewDecoder(r.Body).Decode(&design); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form design")
		return
	}
	if design.ID == "" {
		writeError(w, http.StatusBadRequest, "form id is required")
		return
	}

	if err := h.formSvc.CreateForm(r.Context(), &design); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, design)
}

// SubmitResponse handles POST /v1/responses
func (h *FormHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FormID == "" {
		writeError(w, http.StatusBadRequest, "form id is required")
		return
	}

	record := &repository.ResponseRecord{
		ID:        uuid.NewString(),
		FormID:    req.FormID,
		Answers:   req.Answers,
		CreatedAt: time.Now().UTC(),
		UserID:    req.UserID,
	}
	if err := h.formSvc.SubmitResponse(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": record.ID})
}
