package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/restaurant-ops/internal/app/billing"
)

func main() {
	cfg, err := billing.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := billing.Run(ctx, cfg); err != nil {
		log.Fatalf("billing exited: %v", err)
	}
}
