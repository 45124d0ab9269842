package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/park285/chess-api/internal/adapter/chesspresenter"
	"github.com/park285/chess-api/internal/msgcat"
	"github.com/park285/chess-api/pkg/chessclient"
)

var (
	baseURL     = flag.String("url", envDefault("CHESS_API_URL", "http://localhost:8000"), "Chess API base URL")
	timeout     = flag.Duration("timeout", 8*time.Second, "Request timeout")
	templateDir = flag.String("messages", os.Getenv("MSG_TEMPLATE_DIR"), "Directory with message overrides")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: chessctl [flags] <command> [args]

Commands:
  new                               start a game
  show <id>                         print the board
  move <id> <row> <col> <row> <col> move a piece (rows 0-7 from black's side)
  status <id> [white|black]         check / checkmate report
  png <id> <file>                   save the board image
  delete <id>                       delete a game

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	catalog, err := msgcat.New(*templateDir)
	if err != nil {
		log.Fatalf("messages: %v", err)
	}
	client := chessclient.NewClient(*baseURL, chessclient.WithTimeout(*timeout))
	cli := &commands{
		client:    client,
		formatter: chesspresenter.NewFormatter(catalog),
		presenter: chesspresenter.NewPresenter(os.Stdout, func(path string, png []byte) error {
			return os.WriteFile(path, png, 0o644)
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := cli.run(ctx, flag.Args()); err != nil {
		var apiErr *chessclient.APIError
		if errors.As(err, &apiErr) && apiErr.Body.Error != "" {
			log.Fatalf("%s (status %d)", apiErr.Body.Error, apiErr.Status)
		}
		log.Fatalf("%v", err)
	}
}

type commands struct {
	client    *chessclient.Client
	formatter *chesspresenter.Formatter
	presenter *chesspresenter.Presenter
}

var errUsage = errors.New("invalid arguments; run chessctl -h")

func (c *commands) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "new":
		state, err := c.client.CreateGame(ctx)
		if err != nil {
			return err
		}
		return c.presenter.Text(c.formatter.Game(state))
	case "show":
		if len(rest) != 1 {
			return errUsage
		}
		state, err := c.client.Game(ctx, rest[0])
		if err != nil {
			return err
		}
		return c.presenter.Text(c.formatter.Game(state))
	case "move":
		if len(rest) != 5 {
			return errUsage
		}
		coords, err := parseCoords(rest[1:])
		if err != nil {
			return err
		}
		state, err := c.client.Move(ctx, rest[0], coords[0], coords[1], coords[2], coords[3])
		if err != nil {
			return err
		}
		return c.presenter.Text(c.formatter.Game(state))
	case "status":
		if len(rest) < 1 || len(rest) > 2 {
			return errUsage
		}
		color := ""
		if len(rest) == 2 {
			color = rest[1]
		}
		st, err := c.client.Status(ctx, rest[0], color)
		if err != nil {
			return err
		}
		return c.presenter.Text(c.formatter.Status(st))
	case "png":
		if len(rest) != 2 {
			return errUsage
		}
		img, err := c.client.BoardPNG(ctx, rest[0])
		if err != nil {
			return err
		}
		return c.presenter.Board("", img, rest[1])
	case "delete":
		if len(rest) != 1 {
			return errUsage
		}
		if _, err := c.client.DeleteGame(ctx, rest[0]); err != nil {
			return err
		}
		return c.presenter.Text(c.formatter.Deleted(rest[0]))
	default:
		return fmt.Errorf("unknown command %q; run chessctl -h", cmd)
	}
}

func parseCoords(args []string) ([4]int, error) {
	var out [4]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return out, fmt.Errorf("coordinate %q is not a number", a)
		}
		out[i] = n
	}
	return out, nil
}

func envDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
