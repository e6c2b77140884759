// Package rest exposes the storefront services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Services groups the application services the handlers call into.
type Services struct {
	Sessions *services.SessionService
	Users    *services.UserService
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
}

type Options struct {
	Address         string
	Cookies         CookieConfig
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type RESTServer struct {
	address         string
	cookies         CookieConfig
	allowedOrigins  []string
	shutdownTimeout time.Duration
	logger          logging.Logger

	sessions *services.SessionService
	users    *services.UserService
	products *services.ProductService
	carts    *services.CartService
	orders   *services.OrderService
}

func NewRESTServer(opts Options, l logging.Logger, svc Services) *RESTServer {
	return &RESTServer{
		address:         opts.Address,
		cookies:         opts.Cookies,
		allowedOrigins:  opts.AllowedOrigins,
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          l.With("module", "rest_server"),
		sessions:        svc.Sessions,
		users:           svc.Users,
		products:        svc.Products,
		carts:           svc.Carts,
		orders:          svc.Orders,
	}
}

// Handler builds the router with all middleware attached.
func (s *RESTServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeOK(w, r, nil, "ok")
	})

	r.Route("/api/user", s.userRoutes)
	r.Route("/api/product", s.productRoutes)
	r.Route("/api/order", s.orderRoutes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, http.StatusNotFound, nil, "route not found")
	})

	return r
}

func (s *RESTServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled, then drains
// in-flight requests for at most the shutdown timeout. If serving fails
// first, the shutdown watcher exits with it.
func (s *RESTServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveDone := make(chan struct{})
	shutdownDone := make(chan error, 1)

	go func() {
		select {
		case <-ctx.Done():
		case <-serveDone:
			return
		}
		s.logger.Info(ctx, "Stopping REST server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting REST server", "address", listen.Addr().String())

	err := srv.Serve(listen)
	close(serveDone)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown starts; wait for the drain.
	if err := <-shutdownDone; err != nil {
		s.logger.Error(ctx, "REST server shutdown", "error", err)
		return err
	}
	return nil
}
