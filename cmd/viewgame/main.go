package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/park285/chess-api/internal/adapter/chesspresenter"
	"github.com/park285/chess-api/internal/chessbuilder"
	appcfg "github.com/park285/chess-api/internal/config"
	svcchess "github.com/park285/chess-api/internal/service/chess"
)

var (
	pingOnly = flag.Bool("ping", false, "Only check database connectivity")
	asJSON   = flag.Bool("json", false, "Print the stored game as JSON")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: viewgame [-json] <game-id> | viewgame -ping")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.DatabaseURL == "" {
		log.Printf("Host: %s Database: %s User: %s Port: %d SSL: %t",
			cfg.Postgres.Host, cfg.Postgres.Database, cfg.Postgres.User, cfg.Postgres.Port, cfg.Postgres.SSL)
	}
	db, err := chessbuilder.OpenPostgres(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("connection error: %v", err)
	}
	defer db.Close()

	if *pingOnly {
		now, err := svcchess.ServerTime(ctx, db)
		if err != nil {
			log.Fatalf("connection error: %v", err)
		}
		fmt.Println("Connection successful!")
		fmt.Println("Current time on DB server:", now.Format(time.RFC3339))
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	game, err := svcchess.NewRepository(db).Get(ctx, flag.Arg(0))
	if err != nil {
		log.Fatalf("load game: %v", err)
	}
	state := chesspresenter.ToDTOState(game)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}
	fmt.Println("Created at:", game.CreatedAt.Format(time.RFC3339))
	fmt.Print(chesspresenter.NewFormatter(nil).Game(state))
}
