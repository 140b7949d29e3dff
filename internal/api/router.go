package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/api/handlers"
	"github.com/Cheertaboi/loyalty-billing-service/internal/api/middleware"
	"github.com/Cheertaboi/loyalty-billing-service/internal/service"
)

// Services groups everything the HTTP layer calls into.
type Services struct {
	Carts      *service.CartService
	Settlement *service.SettlementService
	Sales      *service.SalesService
	Catalog    *service.CatalogService
	Customers  *service.CustomerService
	Staff      *service.StaffService
}

// NewRouter builds the HTTP router for the billing service
func NewRouter(svc Services, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(log))

	sales := handlers.NewSalesHandler(svc.Carts, svc.Settlement, svc.Sales, log)
	catalog := handlers.NewCatalogHandler(svc.Catalog, log)
	customers := handlers.NewCustomerHandler(svc.Customers, log)
	staff := handlers.NewStaffHandler(svc.Staff, log)

	r.Route("/sales", func(r chi.Router) {
		r.Post("/", sales.CreateSale)
		r.Get("/", sales.ListSales)
		r.Post("/quote", sales.Quote)
		r.Get("/{id}", sales.GetSale)
		r.Get("/{id}/invoice", sales.Invoice)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", customers.Register)
		r.Get("/check", customers.Check)
		r.Get("/{id}", customers.Get)
		r.Post("/{id}/credit", customers.AdjustCredit)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", catalog.ListProducts)
		r.Post("/", catalog.CreateProduct)
		r.Get("/{id}", catalog.GetProduct)
		r.Put("/{id}", catalog.UpdateProduct)
		r.Delete("/{id}", catalog.DeleteProduct)
	})

	r.Route("/customer-roles", func(r chi.Router) {
		r.Get("/", catalog.ListRoles)
		r.Post("/", catalog.CreateRole)
		r.Get("/{id}", catalog.GetRole)
		r.Put("/{id}", catalog.UpdateRole)
		r.Delete("/{id}", catalog.DeleteRole)
	})

	r.Route("/sales-staff", func(r chi.Router) {
		r.Get("/", staff.List)
		r.Post("/", staff.Create)
		r.Delete("/{id}", staff.Delete)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
