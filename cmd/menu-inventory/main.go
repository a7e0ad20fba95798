package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/restaurant-ops/internal/app/menuinventory"
)

func main() {
	cfg, err := menuinventory.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := menuinventory.Run(ctx, cfg); err != nil {
		log.Fatalf("menu-inventory exited: %v", err)
	}
}
