package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resumematch/internal/cli"
	"resumematch/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; variables may come from the environment
	_ = godotenv.Load()

	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			fmt.Fprintf(os.Stderr, "Error: %s: %s\n", appErr.Kind.Title(), appErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
