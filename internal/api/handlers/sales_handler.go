package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/invoice"
	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
	"github.com/Cheertaboi/loyalty-billing-service/internal/service"
)

// --- Request / Response DTOs ---

type CreateSaleRequest struct {
	service.CartRequest
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	SalesMadeBy   string               `json:"sales_made_by"`
}

type QuoteResponse struct {
	Lines           []service.CartLine `json:"items"`
	Totals          service.Totals     `json:"totals"`
	AvailableCredit decimal.Decimal    `json:"available_credit"`
	CreditWorth     decimal.Decimal    `json:"credit_worth"`
}

type CreditDetails struct {
	Before decimal.Decimal `json:"before"`
	Used   decimal.Decimal `json:"used"`
	Earned decimal.Decimal `json:"earned"`
	After  decimal.Decimal `json:"after"`
}

type CreateSaleResponse struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	Sale          models.Sale   `json:"sale"`
	CreditDetails CreditDetails `json:"creditDetails"`
	Warning       string        `json:"warning,omitempty"`
}

// --- Handler struct & constructor ---

type SalesHandler struct {
	carts      *service.CartService
	settlement *service.SettlementService
	sales      *service.SalesService
	log        logrus.FieldLogger
}

func NewSalesHandler(carts *service.CartService, settlement *service.SettlementService, sales *service.SalesService, log logrus.FieldLogger) *SalesHandler {
	return &SalesHandler{carts: carts, settlement: settlement, sales: sales, log: log}
}

// --- Handlers ---

// Quote handles POST /sales/quote
// prices a cart and reports upsell suggestions without writing anything
func (h *SalesHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req service.CartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cart, err := h.carts.BuildCart(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{
		Lines:           cart.Lines(),
		Totals:          cart.Totals(),
		AvailableCredit: cart.Customer().TotalCredit,
		CreditWorth:     cart.Role().CreditWorth,
	})
}

// CreateSale handles POST /sales
func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	cart, err := h.carts.BuildCart(ctx, req.CartRequest)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	res, err := h.settlement.Settle(ctx, service.SettlementRequest{
		Cart:          cart,
		PaymentMethod: req.PaymentMethod,
		SalesMadeBy:   req.SalesMadeBy,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateSaleResponse{
		Success: true,
		Message: "Sale created and credits updated successfully",
		Sale:    res.Sale,
		CreditDetails: CreditDetails{
			Before: res.CreditBefore,
			Used:   res.Sale.CreditUsed,
			Earned: res.Sale.CreditEarned,
			After:  res.CreditAfter,
		},
		Warning: res.NotifyWarning,
	})
}

// GetSale handles GET /sales/{id}
func (h *SalesHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sale, err := h.sales.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

// ListSales handles GET /sales?phone=
func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// Invoice handles GET /sales/{id}/invoice
// JSON by default, plain text with ?format=text or Accept: text/plain
func (h *SalesHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sale, customer, err := h.sales.WithCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	doc := invoice.Build(*sale, customer)

	if r.URL.Query().Get("format") == "text" || strings.HasPrefix(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := doc.WriteText(w); err != nil {
			h.log.WithError(err).WithField("sale_id", id).Warn("write invoice")
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
