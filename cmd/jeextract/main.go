package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dvloznov/journal-extractor/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		log := logger.New()
		log.Fatal().Err(err).Msg("jeextract failed")
	}
}
