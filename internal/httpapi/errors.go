package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	corechess "github.com/park285/chess-api/internal/chess"
	svcchess "github.com/park285/chess-api/internal/service/chess"
	"github.com/park285/chess-api/pkg/chessdto"
	"go.uber.org/zap"
)

// classify maps service and engine errors to a status and a transport error.
func classify(err error) (int, chessdto.DomainError) {
	switch {
	case errors.Is(err, svcchess.ErrGameNotFound):
		return http.StatusNotFound, chessdto.DomainError{Code: chessdto.CodeGameNotFound}
	case errors.Is(err, svcchess.ErrInvalidMoveFormat):
		return http.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeInvalidMoveFormat}
	case errors.Is(err, corechess.ErrNoPieceAtSource):
		return http.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeNoPieceAtSource}
	case errors.Is(err, corechess.ErrIllegalMove):
		return http.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeIllegalMove}
	case errors.Is(err, svcchess.ErrGameFinished):
		return http.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeGameFinished}
	case errors.Is(err, svcchess.ErrInvalidColor):
		return http.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeInvalidColor}
	case errors.Is(err, svcchess.ErrWatchUnavailable):
		return http.StatusServiceUnavailable, chessdto.DomainError{Code: chessdto.CodeWatchUnavailable}
	default:
		return http.StatusInternalServerError, chessdto.DomainError{Code: chessdto.CodeInternal, Retryable: true}
	}
}

// message renders the catalog text for code; data fills template fields.
func (s *Server) message(code string, data any) string {
	return s.catalog.Text("errors."+code, data, code)
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, derr := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("http_handler_error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.writeError(w, status, derr.Code, nil)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, data any) {
	writeJSONStatus(w, status, chessdto.ErrorResponse{
		Error: s.message(code, data),
		Code:  code,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
