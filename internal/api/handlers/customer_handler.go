package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/service"
)

type AdjustCreditRequest struct {
	CreditChange *decimal.Decimal `json:"credit_change"`
}

type CustomerHandler struct {
	customers *service.CustomerService
	log       logrus.FieldLogger
}

func NewCustomerHandler(customers *service.CustomerService, log logrus.FieldLogger) *CustomerHandler {
	return &CustomerHandler{customers: customers, log: log}
}

// Register handles POST /customers
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterCustomerInput
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.customers.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "customer": c})
}

// Check handles GET /customers/check?phone=
func (h *CustomerHandler) Check(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Phone number is required"})
		return
	}
	c, err := h.customers.FindByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"exists": false})
			return
		}
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"exists": true, "customer": c})
}

// Get handles GET /customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AdjustCredit handles POST /customers/{id}/credit
func (h *CustomerHandler) AdjustCredit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req AdjustCreditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CreditChange == nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "credit_change is required"})
		return
	}
	c, err := h.customers.AdjustCredit(r.Context(), id, *req.CreditChange)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Customer credit updated successfully",
		"customer": map[string]interface{}{
			"id":           c.ID,
			"total_credit": c.TotalCredit,
		},
	})
}
