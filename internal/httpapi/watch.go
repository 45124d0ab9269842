package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/park285/chess-api/internal/adapter/chesspresenter"
	"github.com/park285/chess-api/internal/domain"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	watchWriteTimeout = 5 * time.Second
	watchPingInterval = 30 * time.Second
)

// handleWatch upgrades to a websocket, sends the current state and then one
// state per move. The connection closes once the game is over.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates, stop, err := s.svc.Watch(ctx, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer stop()
	current, err := s.svc.Game(ctx, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		s.logger.Warn("chess_watch_accept_error", zap.String("game_id", id), zap.Error(err))
		return
	}
	defer conn.CloseNow()

	// Clients only listen; CloseRead cancels ctx when the peer goes away.
	ctx = conn.CloseRead(ctx)
	s.logger.Debug("chess_watch_open", zap.String("game_id", id))

	if err := s.sendState(ctx, conn, current); err != nil {
		return
	}
	if current.GameOver {
		_ = conn.Close(websocket.StatusNormalClosure, "game over")
		return
	}

	ping := time.NewTicker(watchPingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("chess_watch_closed", zap.String("game_id", id))
			return
		case <-ping.C:
			pctx, pcancel := context.WithTimeout(ctx, 3*time.Second)
			err := conn.Ping(pctx)
			pcancel()
			if err != nil {
				return
			}
		case game, ok := <-updates:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "stream closed")
				return
			}
			if err := s.sendState(ctx, conn, game); err != nil {
				return
			}
			if game.GameOver {
				_ = conn.Close(websocket.StatusNormalClosure, "game over")
				return
			}
		}
	}
}

func (s *Server) sendState(ctx context.Context, conn *websocket.Conn, game *domain.ChessGame) error {
	wctx, cancel := context.WithTimeout(ctx, watchWriteTimeout)
	defer cancel()
	if err := wsjson.Write(wctx, conn, chesspresenter.ToDTOState(game)); err != nil {
		s.logger.Debug("chess_watch_write_error", zap.String("game_id", game.ID), zap.Error(err))
		return err
	}
	return nil
}
