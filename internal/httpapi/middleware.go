package httpapi

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/park285/chess-api/pkg/chessdto"
	"go.uber.org/zap"
)

// statusRecorder captures the response status for request logging. It
// passes Hijack through so websocket upgrades still work behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.status = http.StatusOK
		r.wrote = true
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	r.wrote = true
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// logRequests logs one line per request: ERROR for 5xx, WARN for 4xx and
// INFO otherwise.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("url", r.URL.RequestURI()),
			zap.Int("status_code", rec.status),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case rec.status >= http.StatusInternalServerError:
			s.logger.Error("http_request", fields...)
		case rec.status >= http.StatusBadRequest:
			s.logger.Warn("http_request", fields...)
		default:
			s.logger.Info("http_request", fields...)
		}
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error("http_panic",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			s.writeError(w, http.StatusInternalServerError, chessdto.CodeInternal, nil)
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimit applies the fixed-window limiter per client IP. Limiter
// backend failures let the request through.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		ip := s.clientIP(r)
		d, err := s.limiter.Allow(r.Context(), ip)
		if err != nil {
			s.logger.Warn("rate_limit_error", zap.String("ip", ip), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if !d.Allowed {
			retry := d.RetryAfterSeconds()
			s.logger.Warn("rate_limit_exceeded",
				zap.String("ip", ip),
				zap.Int("requests", d.Count),
				zap.Int("retry_after", retry),
			)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeJSONStatus(w, http.StatusTooManyRequests, chessdto.ErrorResponse{
				Error:      s.message(chessdto.CodeRateLimited, nil),
				Code:       chessdto.CodeRateLimited,
				RetryAfter: retry,
			})
			return
		}
		s.logger.Debug("rate_limit_status",
			zap.String("ip", ip),
			zap.Int("requests", d.Count),
			zap.Int("remaining", d.Remaining),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) clientIP(r *http.Request) string {
	if s.trustXF {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
