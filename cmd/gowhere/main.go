package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/gowhere/cmd/gowhere/commands"
	"sjsage522/gowhere/logger"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	// stdout belongs to the command output
	logger.InitWithWriter(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}
