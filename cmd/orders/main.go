package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/restaurant-ops/internal/app/orders"
)

func main() {
	cfg, err := orders.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := orders.Run(ctx, cfg); err != nil {
		log.Fatalf("orders exited: %v", err)
	}
}
