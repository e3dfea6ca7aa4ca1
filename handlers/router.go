package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every API route. Kept separate from main so tests can
// exercise the full routing table.
func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(BasicAuth)

		r.Route("/user-payments", func(r chi.Router) {
			r.Post("/", CreateMember)
			r.Get("/", ListMembers)
			r.Get("/aadhar/{aadharNumber}", GetMemberByAadhar)
			r.Get("/{id}", GetMember)
			r.Put("/{id}", UpdateMember)
			r.Delete("/{id}", DeleteMember)
			r.Post("/{id}/pay", RecordPayment)
			r.Post("/{id}/bulk-pay", RecordBulkPayment)
			r.Get("/{id}/payment-history", PaymentHistory)
		})

		r.Get("/dashboard", GetDashboard)
	})

	r.Get("/health", Health)
	r.NotFound(NotFound)

	return r
}
