package chess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	corechess "github.com/park285/chess-api/internal/chess"
	"github.com/park285/chess-api/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound      = errors.New("chess game not found")
	ErrGameFinished      = errors.New("chess game already finished")
	ErrInvalidMoveFormat = errors.New("invalid move format")
	ErrInvalidColor      = errors.New("invalid color")
	ErrServiceNotReady   = errors.New("chess service not ready")
	ErrWatchUnavailable  = errors.New("chess game watching not configured")
)

type Service struct {
	repo     Repository
	renderer BoardRenderer
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the uuid v4 game id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService wires a game service. A nil notifier disables watching.
func NewService(repo Repository, renderer BoardRenderer, notifier Notifier, logger *zap.Logger, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("chess repository is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("board renderer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:     repo,
		renderer: renderer,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) ensureReady() error {
	if s == nil || s.repo == nil {
		return ErrServiceNotReady
	}
	return nil
}

// CreateGame stores a new game in the starting position with white to move.
func (s *Service) CreateGame(ctx context.Context) (*domain.ChessGame, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	game := domain.NewChessGame(s.newID(), s.now().UTC())
	if err := s.repo.Insert(ctx, game); err != nil {
		return nil, fmt.Errorf("create chess game: %w", err)
	}
	s.logger.Info("chess_game_create", zap.String("game_id", game.ID))
	return game, nil
}

func (s *Service) Game(ctx context.Context, id string) (*domain.ChessGame, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Move applies from->to for the side to move. Off-board coordinates are
// rejected before the engine sees them; engine errors pass through
// unwrapped so callers can match them with errors.Is.
func (s *Service) Move(ctx context.Context, id string, from, to corechess.Square) (*domain.ChessGame, corechess.MoveResult, error) {
	if err := s.ensureReady(); err != nil {
		return nil, corechess.MoveResult{}, err
	}
	if !from.Valid() || !to.Valid() {
		return nil, corechess.MoveResult{}, fmt.Errorf("%w: %w", ErrInvalidMoveFormat, corechess.ErrInvalidSquare)
	}

	var result corechess.MoveResult
	game, err := s.repo.Update(ctx, id, func(g *domain.ChessGame) error {
		if g.GameOver {
			return ErrGameFinished
		}
		res, err := g.MakeMove(from, to)
		if err != nil {
			return err
		}
		result = res
		g.MoveCount++
		g.LastMove = &corechess.Move{From: from, To: to}
		g.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		s.logger.Debug("chess_move_rejected",
			zap.String("game_id", id),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.Error(err),
		)
		return nil, corechess.MoveResult{}, err
	}

	s.logger.Info("chess_move",
		zap.String("game_id", game.ID),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("move_count", game.MoveCount),
		zap.String("turn", string(game.Turn)),
		zap.Bool("game_over", game.GameOver),
		zap.String("winner", string(game.Winner)),
	)
	s.publish(ctx, game)
	return game, result, nil
}

func (s *Service) DeleteGame(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("chess_game_delete", zap.String("game_id", id))
	return nil
}

// Status reports check and checkmate for color, or for the side to move
// when color is NoColor. A finished game reports only its outcome.
func (s *Service) Status(ctx context.Context, id string, color corechess.Color) (*domain.ChessStatus, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if color != corechess.NoColor && !color.Valid() {
		return nil, ErrInvalidColor
	}
	game, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if color == corechess.NoColor {
		color = game.Turn
	}

	status := &domain.ChessStatus{
		GameID:   game.ID,
		Color:    color,
		Turn:     game.Turn,
		GameOver: game.GameOver,
		Winner:   game.Winner,
	}
	if game.GameOver {
		return status, nil
	}

	check, err := game.InCheck(color)
	if err != nil {
		return nil, fmt.Errorf("chess status: %w", err)
	}
	status.Check = check
	if check {
		mate, err := game.IsCheckmate(color)
		if err != nil {
			return nil, fmt.Errorf("chess status: %w", err)
		}
		status.Checkmate = mate
	}
	return status, nil
}

// RenderBoard draws the current position as a PNG with the last move marked.
func (s *Service) RenderBoard(ctx context.Context, id string) ([]byte, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	game, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	img, err := s.renderer.RenderPNG(ctx, &game.Board, RenderOptions{
		Highlight: game.LastMove,
		HUDHeader: "Game " + shortID(game.ID),
		HUDTurn:   turnLabel(game),
	})
	if err != nil {
		s.logger.Warn("chess_render_error", zap.String("game_id", id), zap.Error(err))
		return nil, fmt.Errorf("render board: %w", err)
	}
	return img, nil
}

// Watch streams the game state after every move until ctx ends or cancel
// is called.
func (s *Service) Watch(ctx context.Context, id string) (<-chan *domain.ChessGame, func(), error) {
	if err := s.ensureReady(); err != nil {
		return nil, nil, err
	}
	if s.notifier == nil {
		return nil, nil, ErrWatchUnavailable
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, nil, err
	}
	raw, cancel, err := s.notifier.Subscribe(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan *domain.ChessGame, subscriberBuffer)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case payload, ok := <-raw:
				if !ok {
					return
				}
				game, err := decodeGame(payload)
				if err != nil {
					s.logger.Warn("chess_watch_decode_error", zap.String("game_id", id), zap.Error(err))
					continue
				}
				select {
				case out <- game:
				case <-ctx.Done():
					cancel()
					return
				}
			}
		}
	}()
	return out, cancel, nil
}

func (s *Service) Close() error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	return s.repo.Close()
}

func (s *Service) publish(ctx context.Context, game *domain.ChessGame) {
	if s.notifier == nil {
		return
	}
	raw, err := json.Marshal(game)
	if err != nil {
		s.logger.Warn("chess_publish_encode_error", zap.String("game_id", game.ID), zap.Error(err))
		return
	}
	if err := s.notifier.Publish(ctx, game.ID, raw); err != nil {
		s.logger.Warn("chess_publish_error", zap.String("game_id", game.ID), zap.Error(err))
	}
}

func turnLabel(game *domain.ChessGame) string {
	switch {
	case game.GameOver && game.Winner != corechess.NoColor:
		return string(game.Winner) + " wins"
	case game.GameOver:
		return "game over"
	default:
		return string(game.Turn) + " to move"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
