// Package httpapi exposes the chess game service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/park285/chess-api/internal/msgcat"
	"github.com/park285/chess-api/internal/ratelimit"
	svcchess "github.com/park285/chess-api/internal/service/chess"
	"go.uber.org/zap"
)

const defaultMaxBodyBytes int64 = 1 << 20

type Options struct {
	// Limiter is optional; nil disables rate limiting.
	Limiter ratelimit.Limiter
	// Catalog supplies response texts; nil uses the embedded messages.
	Catalog      *msgcat.Catalog
	Logger       *zap.Logger
	MaxBodyBytes int64
	// TrustForwardedFor keys rate limits on X-Forwarded-For when set.
	TrustForwardedFor bool
}

// Server wires the HTTP layer to the game service.
type Server struct {
	svc     *svcchess.Service
	limiter ratelimit.Limiter
	catalog *msgcat.Catalog
	logger  *zap.Logger
	maxBody int64
	trustXF bool

	srvMu sync.Mutex
	srv   *http.Server
}

func NewServer(svc *svcchess.Service, opts Options) (*Server, error) {
	if svc == nil {
		return nil, errors.New("chess service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = msgcat.New(""); err != nil {
			return nil, err
		}
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Server{
		svc:     svc,
		limiter: opts.Limiter,
		catalog: catalog,
		logger:  logger,
		maxBody: maxBody,
		trustXF: opts.TrustForwardedFor,
	}, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.routes()
	h = s.rateLimit(h)
	h = s.recoverer(h)
	h = s.logRequests(h)
	return h
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chess", s.handleCreate)
	mux.HandleFunc("GET /chess/{id}", s.handleGet)
	mux.HandleFunc("PUT /chess/{id}/move", s.handleMove)
	mux.HandleFunc("DELETE /chess/{id}", s.handleDelete)
	mux.HandleFunc("GET /chess/{id}/status", s.handleStatus)
	mux.HandleFunc("GET /chess/{id}/board.png", s.handleBoardPNG)
	mux.HandleFunc("GET /chess/{id}/watch", s.handleWatch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Listen serves on addr until Close is called.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	// Watch connections are hijacked and outlive Shutdown unless their
	// base context is cancelled.
	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.BaseContext = func(net.Listener) context.Context { return baseCtx }
	srv.RegisterOnShutdown(cancel)

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.logger.Info("http_listen", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
