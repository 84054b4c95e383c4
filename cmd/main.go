package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"consult-agent/internal/app"
	"consult-agent/internal/config"
	"consult-agent/internal/logger"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	// ---- Handler ----
	h, err := app.NewHandler(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to create handler", zap.Error(err))
	}

	lambda.Start(h.Handle)
}
