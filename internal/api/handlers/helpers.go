package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/service"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors to HTTP responses. Storage failures get a
// generic body; the full error goes to the log.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	var (
		ve *service.ValidationError
		ie *service.InsufficientCreditError
		ne *service.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": ve.Error()})
	case errors.As(err, &ie):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"success":   false,
			"error":     service.ErrInsufficientCredit.Error(),
			"requested": ie.Requested.StringFixed(2),
			"available": ie.Available.StringFixed(2),
		})
	case errors.As(err, &ne):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": ne.Error()})
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "internal_error"})
	}
}
