package chess

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	corechess "github.com/park285/chess-api/internal/chess"
	"github.com/park285/chess-api/internal/domain"
)

var ErrDuplicateGame = errors.New("chess game already exists")

// Repository stores games. Update is an atomic read-modify-write: fn runs
// against the current record and nothing is written if it returns an error.
type Repository interface {
	Insert(ctx context.Context, game *domain.ChessGame) error
	Get(ctx context.Context, id string) (*domain.ChessGame, error)
	Update(ctx context.Context, id string, fn func(*domain.ChessGame) error) (*domain.ChessGame, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS chess_games (
	id          TEXT PRIMARY KEY,
	board       JSONB       NOT NULL,
	turn        TEXT        NOT NULL,
	game_over   BOOLEAN     NOT NULL DEFAULT FALSE,
	winner      TEXT        NOT NULL DEFAULT '',
	move_count  INTEGER     NOT NULL DEFAULT 0,
	last_move   JSONB,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
)`

const selectGameSQL = `
	SELECT id, board, turn, game_over, winner, move_count, last_move, created_at, updated_at
	FROM chess_games
	WHERE id = $1`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// ServerTime runs SELECT NOW() as a connectivity check.
func ServerTime(ctx context.Context, db *sql.DB) (time.Time, error) {
	var now time.Time
	if err := db.QueryRowContext(ctx, "SELECT NOW()").Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("query server time: %w", err)
	}
	return now, nil
}

// Migrate creates the chess_games table when it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate chess_games: %w", err)
	}
	return nil
}

func (r *repository) Insert(ctx context.Context, game *domain.ChessGame) error {
	if game == nil {
		return fmt.Errorf("nil chess game payload")
	}
	board, lastMove, err := encodeColumns(game)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO chess_games (
			id,
			board,
			turn,
			game_over,
			winner,
			move_count,
			last_move,
			created_at,
			updated_at
		)
		VALUES ($1, $2::jsonb, $3, $4, $5, $6, $7::jsonb, $8, $9)
		ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(
		ctx,
		query,
		game.ID,
		board,
		string(game.Turn),
		game.GameOver,
		string(game.Winner),
		game.MoveCount,
		lastMove,
		game.CreatedAt,
		game.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chess game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDuplicateGame
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*domain.ChessGame, error) {
	return scanGame(r.db.QueryRowContext(ctx, selectGameSQL, id))
}

func (r *repository) Update(ctx context.Context, id string, fn func(*domain.ChessGame) error) (*domain.ChessGame, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin chess game tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	game, err := scanGame(tx.QueryRowContext(ctx, selectGameSQL+" FOR UPDATE", id))
	if err != nil {
		return nil, err
	}
	if err := fn(game); err != nil {
		return nil, err
	}
	board, lastMove, err := encodeColumns(game)
	if err != nil {
		return nil, err
	}

	const query = `
		UPDATE chess_games
		SET board = $2::jsonb,
			turn = $3,
			game_over = $4,
			winner = $5,
			move_count = $6,
			last_move = $7::jsonb,
			updated_at = $8
		WHERE id = $1`

	if _, err := tx.ExecContext(
		ctx,
		query,
		game.ID,
		board,
		string(game.Turn),
		game.GameOver,
		string(game.Winner),
		game.MoveCount,
		lastMove,
		game.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update chess game: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit chess game: %w", err)
	}
	return game, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chess_games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chess game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *repository) Close() error {
	return r.db.Close()
}

func encodeColumns(game *domain.ChessGame) ([]byte, []byte, error) {
	board, err := json.Marshal(game.Board)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal board: %w", err)
	}
	var lastMove []byte
	if game.LastMove != nil {
		lastMove, err = json.Marshal(game.LastMove)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal last_move: %w", err)
		}
	}
	return board, lastMove, nil
}

func scanGame(row *sql.Row) (*domain.ChessGame, error) {
	var (
		game      domain.ChessGame
		board     []byte
		turn      string
		winner    string
		lastMove  []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&game.ID,
		&board,
		&turn,
		&game.GameOver,
		&winner,
		&game.MoveCount,
		&lastMove,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan chess game: %w", err)
	}
	if err := json.Unmarshal(board, &game.Board); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	if len(lastMove) > 0 {
		var mv corechess.Move
		if err := json.Unmarshal(lastMove, &mv); err != nil {
			return nil, fmt.Errorf("unmarshal last_move: %w", err)
		}
		game.LastMove = &mv
	}
	game.Turn = corechess.Color(turn)
	game.Winner = corechess.Color(winner)
	game.CreatedAt = createdAt
	game.UpdatedAt = updatedAt
	return &game, nil
}
