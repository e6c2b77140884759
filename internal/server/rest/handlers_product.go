package rest

import (
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *RESTServer) productRoutes(r chi.Router) {
	r.Get("/", s.listProducts)
	r.Get("/{id}", s.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth, s.requireAdmin)

		r.Post("/", s.createProduct)
		r.Put("/{id}", s.updateProduct)
		r.Delete("/{id}", s.deleteProduct)
	})
}

func (s *RESTServer) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.products.List(r.Context(), products.Filter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, list, "")
}

func (s *RESTServer) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, p, "")
}

func (s *RESTServer) createProduct(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.products.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, p, "product created")
}

func (s *RESTServer) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.products.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, p, "product updated")
}

func (s *RESTServer) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, nil, "product deleted")
}
