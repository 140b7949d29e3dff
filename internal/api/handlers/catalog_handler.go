package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/service"
)

// CatalogHandler serves products and customer roles.
type CatalogHandler struct {
	catalog *service.CatalogService
	log     logrus.FieldLogger
}

func NewCatalogHandler(catalog *service.CatalogService, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.ProductInput
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.catalog.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListRoles handles GET /customer-roles
func (h *CatalogHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.catalog.ListRoles(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

// GetRole handles GET /customer-roles/{id}
func (h *CatalogHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	role, err := h.catalog.GetRoleByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// CreateRole handles POST /customer-roles
func (h *CatalogHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req service.RoleInput
	if !decodeJSON(w, r, &req) {
		return
	}
	role, err := h.catalog.CreateRole(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, role)
}

// UpdateRole handles PUT /customer-roles/{id}
func (h *CatalogHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.RoleInput
	if !decodeJSON(w, r, &req) {
		return
	}
	role, err := h.catalog.UpdateRole(r.Context(), id, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// DeleteRole handles DELETE /customer-roles/{id}
func (h *CatalogHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteRole(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
