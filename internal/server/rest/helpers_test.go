package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/sqltest"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	handler  http.Handler
	sessions *services.SessionService
	users    *services.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	m := repomanager.NewSQLRepositoryManager(sqltest.Open(t))
	tokens, err := auth.NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 72*time.Hour)
	require.NoError(t, err)

	log := logging.Nop{}
	svc := Services{
		Sessions: services.NewSessionService(m, auth.NewPasswordHasher(bcrypt.MinCost), tokens, log),
		Users:    services.NewUserService(m, log),
		Products: services.NewProductService(m, log),
		Carts:    services.NewCartService(m, log),
		Orders:   services.NewOrderService(m, log),
	}
	srv := NewRESTServer(Options{
		Cookies:         CookieConfig{MaxAge: 72 * time.Hour, Secure: true},
		AllowedOrigins:  []string{"http://localhost:3000"},
		ShutdownTimeout: time.Second,
	}, log, svc)

	return &testServer{handler: srv.Handler(), sessions: svc.Sessions, users: svc.Users}
}

type response struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`

	rec *httptest.ResponseRecorder
}

func (r *response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, dst))
}

func (r *response) cookie(name string) *http.Cookie {
	for _, c := range r.rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(name, value string) requestOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

func (ts *testServer) do(t *testing.T, method, path string, body any, opts ...requestOption) *response {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, o := range opts {
		o(req)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	resp := &response{rec: rec}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp), rec.Body.String())
	require.Equal(t, rec.Code, resp.StatusCode)
	return resp
}

type session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

func (ts *testServer) register(t *testing.T, email, password string) {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/user/register", map[string]string{
		"firstName": "Test", "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Message)
}

func (ts *testServer) login(t *testing.T, path, email, password string) session {
	t.Helper()
	resp := ts.do(t, http.MethodPost, path, map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Message)

	var body sessionResponse
	resp.decode(t, &body)
	return session{UserID: body.User.ID, AccessToken: body.AccessToken, RefreshToken: body.RefreshToken}
}

func (ts *testServer) admin(t *testing.T) session {
	t.Helper()
	_, err := ts.sessions.CreateAdmin(context.Background(), services.RegisterInput{
		FirstName: "Root", Email: "admin@shop.test", Password: "AdminPass1",
	})
	require.NoError(t, err)
	return ts.login(t, "/api/user/admin-login", "admin@shop.test", "AdminPass1")
}
