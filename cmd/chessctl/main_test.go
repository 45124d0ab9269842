package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/park285/chess-api/internal/adapter/chesspresenter"
	"github.com/park285/chess-api/internal/httpapi"
	svcchess "github.com/park285/chess-api/internal/service/chess"
	"github.com/park285/chess-api/pkg/chessclient"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newCommands(t *testing.T, out *bytes.Buffer) (*commands, *svcchess.Service) {
	t.Helper()
	svc, err := svcchess.NewService(svcchess.NewMemoryRepository(), svcchess.NewSVGBoardRenderer(), nil, nil,
		svcchess.WithIDGenerator(func() string { return "game-1" }))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	srv, err := httpapi.NewServer(svc, httpapi.Options{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = fasthttp.Serve(ln, fasthttpadaptor.NewFastHTTPHandler(srv.Handler())) }()
	t.Cleanup(func() { _ = ln.Close() })

	client := chessclient.NewClient("http://chess.test", chessclient.WithDial(func(string) (net.Conn, error) { return ln.Dial() }))
	return &commands{
		client:    client,
		formatter: chesspresenter.NewFormatter(nil),
		presenter: chesspresenter.NewPresenter(out, func(path string, png []byte) error {
			return os.WriteFile(path, png, 0o600)
		}),
	}, svc
}

func TestRunCommands(t *testing.T) {
	var out bytes.Buffer
	cli, _ := newCommands(t, &out)
	ctx := context.Background()

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"new"}, "Game game-1"},
		{[]string{"move", "game-1", "6", "4", "4", "4"}, "black to move"},
		{[]string{"show", "game-1"}, "Moves played: 1 (last e2-e4)"},
		{[]string{"status", "game-1", "white"}, "white is not in check"},
		{[]string{"delete", "game-1"}, "Deleted game game-1"},
	}
	for _, s := range steps {
		out.Reset()
		if err := cli.run(ctx, s.args); err != nil {
			t.Fatalf("run %v: %v", s.args, err)
		}
		if !strings.Contains(out.String(), s.want) {
			t.Fatalf("run %v output missing %q:\n%s", s.args, s.want, out.String())
		}
	}
}

func TestRunPNG(t *testing.T) {
	var out bytes.Buffer
	cli, _ := newCommands(t, &out)
	ctx := context.Background()
	if err := cli.run(ctx, []string{"new"}); err != nil {
		t.Fatalf("new: %v", err)
	}
	path := filepath.Join(t.TempDir(), "board.png")
	if err := cli.run(ctx, []string{"png", "game-1", path}); err != nil {
		t.Fatalf("png: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Fatalf("png file: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	cli, _ := newCommands(t, &out)
	ctx := context.Background()

	cases := [][]string{
		nil,
		{"show"},
		{"move", "game-1", "6", "4", "4"},
		{"move", "game-1", "6", "x", "4", "4"},
		{"fly"},
	}
	for _, args := range cases {
		if err := cli.run(ctx, args); err == nil {
			t.Errorf("run %v: expected error", args)
		}
	}
	if err := cli.run(ctx, []string{"show", "missing"}); !chessclient.IsNotFound(err) {
		t.Errorf("show missing err = %v, want not found", err)
	}
}
