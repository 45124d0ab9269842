package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/park285/chess-api/internal/adapter/chesspresenter"
	corechess "github.com/park285/chess-api/internal/chess"
	"github.com/park285/chess-api/pkg/chessdto"
)

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	game, err := s.svc.CreateGame(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, chesspresenter.ToDTOState(game))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	game, err := s.svc.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, chesspresenter.ToDTOState(game))
}

// handleMove answers 404 for an unknown game before it looks at the body.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.svc.Game(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	defer r.Body.Close()
	var body chessdto.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if isBodyTooLarge(err) {
			s.writeError(w, http.StatusRequestEntityTooLarge, chessdto.CodeBodyTooLarge, nil)
			return
		}
		s.writeError(w, http.StatusBadRequest, chessdto.CodeInvalidMoveFormat, nil)
		return
	}
	if !body.Valid() {
		s.writeError(w, http.StatusBadRequest, chessdto.CodeInvalidMoveFormat, nil)
		return
	}

	from := corechess.Sq(*body.From.Row, *body.From.Col)
	to := corechess.Sq(*body.To.Row, *body.To.Col)
	game, _, err := s.svc.Move(r.Context(), id, from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, chesspresenter.ToDTOState(game))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, chessdto.MessageResponse{
		Message: s.catalog.Text("messages.game_deleted", nil, "Game deleted"),
	})
}

// handleStatus reports for ?color=, defaulting to the side to move.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	color := corechess.NoColor
	if raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("color"))); raw != "" {
		c, err := corechess.ParseColor(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, chessdto.CodeInvalidColor, map[string]any{"Color": raw})
			return
		}
		color = c
	}
	st, err := s.svc.Status(r.Context(), r.PathValue("id"), color)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, chesspresenter.ToDTOStatus(st))
}

func (s *Server) handleBoardPNG(w http.ResponseWriter, r *http.Request) {
	img, err := s.svc.RenderBoard(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.catalog.Text("messages.health_ok", nil, "ok")))
}
