package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"postboard/app/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.New().Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, commands.ErrUsage) {
			os.Exit(2)
		}
		log.Fatalf("postboard: %v", err)
	}
}
