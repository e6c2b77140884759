package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *RESTServer) userRoutes(r chi.Router) {
	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Post("/admin-login", s.adminLogin)
	r.Get("/refresh", s.refresh)
	r.Post("/refresh", s.refresh)
	r.Get("/logout", s.logout)
	r.Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/me", s.me)
		r.Put("/edit-user", s.updateProfile)
		r.Put("/save-address", s.saveAddress)
		r.Put("/password", s.changePassword)

		r.Post("/cart", s.addToCart)
		r.Get("/cart", s.getCart)
		r.Put("/cart/{itemID}", s.updateCartItem)
		r.Delete("/cart/{itemID}", s.removeCartItem)
		r.Delete("/empty-cart", s.emptyCart)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/all-users", s.listUsers)
			r.Put("/block-user/{id}", s.blockUser)
			r.Put("/unblock-user/{id}", s.unblockUser)
			r.Get("/{id}", s.getUser)
			r.Delete("/{id}", s.deleteUser)
		})
	})
}

// sessionResponse is returned by login and refresh. Tokens are also set as
// cookies; the body copy serves clients that use the Authorization header.
type sessionResponse struct {
	User                  *models.User `json:"user"`
	AccessToken           string       `json:"accessToken"`
	AccessTokenExpiresAt  time.Time    `json:"accessTokenExpiresAt"`
	RefreshToken          string       `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time    `json:"refreshTokenExpiresAt"`
}

func (s *RESTServer) writeSession(w http.ResponseWriter, r *http.Request, sess *services.Session, message string) {
	s.cookies.setSession(w, sess.Tokens)
	s.writeOK(w, r, sessionResponse{
		User:                  sess.User,
		AccessToken:           sess.Tokens.AccessToken,
		AccessTokenExpiresAt:  sess.Tokens.AccessExpiresAt,
		RefreshToken:          sess.Tokens.RefreshToken,
		RefreshTokenExpiresAt: sess.Tokens.RefreshExpiresAt,
	}, message)
}

func (s *RESTServer) register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.sessions.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, u, "user registered")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *RESTServer) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSession(w, r, sess, "logged in")
}

func (s *RESTServer) adminLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.LoginAdmin(r.Context(), in.Email, in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSession(w, r, sess, "logged in")
}

func (s *RESTServer) refresh(w http.ResponseWriter, r *http.Request) {
	token, err := refreshToken(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Refresh(r.Context(), token)
	if err != nil {
		// a token for a deleted account is just an invalid session here
		if errors.Is(err, common.ErrorNotFound) {
			err = common.ErrorUnauthorized
		}
		s.writeError(w, r, err)
		return
	}
	s.writeSession(w, r, sess, "token refreshed")
}

// logout ends the session identified by the access token, falling back to
// the refresh token when the access token is missing or expired. The
// cookies are cleared in every case.
func (s *RESTServer) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := s.sessions.Authenticate(ctx, accessToken(r))
	switch {
	case err == nil:
		err = s.sessions.Logout(ctx, u.ID)
	case errors.Is(err, common.ErrorStoreUnavailable):
	default:
		var token string
		if token, err = refreshToken(r); err == nil {
			err = s.sessions.LogoutByToken(ctx, token)
		}
	}

	s.cookies.clearSession(w)
	if err != nil && !errors.Is(err, common.ErrorValidation) {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, nil, "logged out")
}

func (s *RESTServer) me(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	s.writeOK(w, r, u, "")
}

func (s *RESTServer) updateProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	var in services.ProfileInput
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), u.ID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, updated, "profile updated")
}

type addressRequest struct {
	Address string `json:"address"`
}

func (s *RESTServer) saveAddress(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	var in addressRequest
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.users.SaveAddress(r.Context(), u.ID, in.Address)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, updated, "address saved")
}

type passwordRequest struct {
	Password string `json:"password"`
}

// changePassword also ends the session, so the cookies are cleared.
func (s *RESTServer) changePassword(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	var in passwordRequest
	if err := decodeJSON(r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.sessions.ChangePassword(r.Context(), u.ID, in.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.cookies.clearSession(w)
	s.writeOK(w, r, nil, "password changed")
}

func (s *RESTServer) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, list, "")
}

func (s *RESTServer) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, u, "")
}

func (s *RESTServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, nil, "user deleted")
}

func (s *RESTServer) blockUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Block(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, nil, "user blocked")
}

func (s *RESTServer) unblockUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Unblock(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, r, nil, "user unblocked")
}
