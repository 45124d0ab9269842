package chessclient

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/park285/chess-api/internal/httpapi"
	svcchess "github.com/park285/chess-api/internal/service/chess"
	"github.com/park285/chess-api/pkg/chessdto"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/valyala/fasthttp/fasthttputil"
)

func serve(t *testing.T, handler fasthttp.RequestHandler) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = fasthttp.Serve(ln, handler) }()
	t.Cleanup(func() { _ = ln.Close() })
	return NewClient("http://chess.test/", WithDial(func(string) (net.Conn, error) { return ln.Dial() }))
}

func apiHandler(t *testing.T) fasthttp.RequestHandler {
	t.Helper()
	svc, err := svcchess.NewService(svcchess.NewMemoryRepository(), svcchess.NewSVGBoardRenderer(), nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	srv, err := httpapi.NewServer(svc, httpapi.Options{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return fasthttpadaptor.NewFastHTTPHandler(srv.Handler())
}

func TestClientAgainstServer(t *testing.T) {
	c := serve(t, apiHandler(t))
	ctx := context.Background()

	created, err := c.CreateGame(ctx)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if created.Turn != "white" || len(created.Board) != 8 {
		t.Fatalf("created = %+v", created)
	}

	moved, err := c.Move(ctx, created.GameID, 6, 4, 4, 4)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved.Turn != "black" || moved.MoveCount != 1 {
		t.Fatalf("moved = %+v", moved)
	}

	_, err = c.Move(ctx, created.GameID, 6, 3, 4, 3)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Status != 400 || apiErr.Body.Code != chessdto.CodeIllegalMove {
		t.Fatalf("out of turn move err = %v", err)
	}
	if d := apiErr.Domain(); d.Retryable || d.Message != "Illegal move" {
		t.Fatalf("Domain() = %+v", d)
	}

	got, err := c.Game(ctx, created.GameID)
	if err != nil || got.MoveCount != 1 {
		t.Fatalf("Game = %+v, %v", got, err)
	}

	st, err := c.Status(ctx, created.GameID, "black")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Color != "black" || st.Check {
		t.Fatalf("status = %+v", st)
	}

	img, err := c.BoardPNG(ctx, created.GameID)
	if err != nil || len(img) < 8 || string(img[1:4]) != "PNG" {
		t.Fatalf("BoardPNG len=%d err=%v", len(img), err)
	}

	msg, err := c.DeleteGame(ctx, created.GameID)
	if err != nil || msg != "Game deleted" {
		t.Fatalf("DeleteGame = %q, %v", msg, err)
	}
	if _, err := c.Game(ctx, created.GameID); !IsNotFound(err) {
		t.Fatalf("Game after delete err = %v, want not found", err)
	}
}

func TestClientRetriesReadsOn5xx(t *testing.T) {
	var calls atomic.Int32
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		if calls.Add(1) < 3 {
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"game_id":"g-1","turn":"white","board":[]}`)
	})

	got, err := c.Game(context.Background(), "g-1")
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if got.GameID != "g-1" || calls.Load() != 3 {
		t.Fatalf("game=%+v calls=%d", got, calls.Load())
	}
}

func TestClientDoesNotRetryMoves(t *testing.T) {
	var calls atomic.Int32
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
		ctx.SetBodyString("upstream down")
	})

	_, err := c.Move(context.Background(), "g-1", 6, 4, 4, 4)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Status != fasthttp.StatusBadGateway || apiErr.Body.Error != "upstream down" {
		t.Fatalf("err = %v", err)
	}
	if !apiErr.Domain().Retryable {
		t.Fatalf("502 should be retryable")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestClientHonoursContextDeadline(t *testing.T) {
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(200 * time.Millisecond)
		ctx.SetBodyString(`{}`)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.CreateGame(ctx); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestBackoffDuration(t *testing.T) {
	cases := map[int]time.Duration{0: 100 * time.Millisecond, 1: 100 * time.Millisecond, 3: 400 * time.Millisecond, 9: 3200 * time.Millisecond}
	for attempt, want := range cases {
		if got := backoffDuration(attempt); got != want {
			t.Errorf("backoffDuration(%d) = %v, want %v", attempt, got, want)
		}
	}
}
