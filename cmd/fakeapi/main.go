// Command fakeapi runs an in-memory translation agency backend for local
// development of the client.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/fakeapi"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/logging"
)

func main() {
	addr := flag.String("a", "127.0.0.1:8000", "listen address")
	staffEmail := flag.String("staff", "office@example.com", "e-mail of the seeded staff account")
	staffPassword := flag.String("staff-password", "office-password", "password of the seeded staff account")
	level := flag.String("l", "info", "log level")
	flag.Parse()

	logger := logging.New(os.Stdout, *level, "json")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := fakeapi.New(fakeapi.WithLogger(logger))
	// The first account is the agency inbox customers write to.
	srv.AddUser(*staffEmail, *staffPassword, "Rosenblum", "Office", true)

	if err := srv.Run(ctx, *addr); err != nil {
		log.Fatalf("%v", err)
	}
}
