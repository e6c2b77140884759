package rest

import (
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/go-chi/chi/v5"
)

func (s *RESTServer) orderRoutes(r chi.Router) {
	r.Use(s.requireAuth)

	r.Post("/", s.placeOrder)
	r.Get("/", s.listOrders)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)

		r.Get("/all", s.listAllOrders)
		r.Put("/{id}/status", s.updateOrderStatus)
	})
}

type placeOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

func (s *RESTServer) placeOrder(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	var in placeOrderRequest
	if err := decodeJSON(r, &in, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	o, err := s.orders.PlaceOrder(r.Context(), u.ID, in.ShippingAddress)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, o, "order placed")
}

func (s *RESTServer) listOrders(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	list, err := s.orders.ListOrders(r.Context(), u.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, list, "")
}

func (s *RESTServer) listAllOrders(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.ListAllOrders(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, list, "")
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *RESTServer) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	o, err := s.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, o, "order updated")
}
