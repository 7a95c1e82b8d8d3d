package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/scentora/storefront/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
