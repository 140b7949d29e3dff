package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/service"
)

type StaffHandler struct {
	staff *service.StaffService
	log   logrus.FieldLogger
}

func NewStaffHandler(staff *service.StaffService, log logrus.FieldLogger) *StaffHandler {
	return &StaffHandler{staff: staff, log: log}
}

// List handles GET /sales-staff
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staff.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

// Create handles POST /sales-staff
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.StaffInput
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := h.staff.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// Delete handles DELETE /sales-staff/{id}
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.staff.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
