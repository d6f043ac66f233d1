package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/buildinfo"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/cli"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/config"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
