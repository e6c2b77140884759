package rest

import (
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *RESTServer) addToCart(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	var in services.AddCartItemInput
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.carts.AddItem(r.Context(), u.ID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, item, "added to cart")
}

func (s *RESTServer) getCart(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	cart, err := s.carts.GetCart(r.Context(), u.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, cart, "")
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *RESTServer) updateCartItem(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	var in quantityRequest
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.carts.UpdateQuantity(r.Context(), u.ID, chi.URLParam(r, "itemID"), in.Quantity); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, nil, "cart updated")
}

func (s *RESTServer) removeCartItem(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	if err := s.carts.RemoveItem(r.Context(), u.ID, chi.URLParam(r, "itemID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, nil, "item removed")
}

func (s *RESTServer) emptyCart(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	if err := s.carts.EmptyCart(r.Context(), u.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, nil, "cart emptied")
}
