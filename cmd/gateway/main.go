package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/restaurant-ops/internal/app/apigateway"
)

func main() {
	cfg, err := apigateway.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := apigateway.Run(ctx, cfg); err != nil {
		log.Fatalf("gateway exited: %v", err)
	}
}
