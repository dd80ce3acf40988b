package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/buildinfo"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/cli"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		stop()
		log.Fatalf("%v", err)
	}

}
