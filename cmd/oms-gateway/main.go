package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"velocimex/internal/adapter/wsadapter"
	"velocimex/internal/config"
	"velocimex/internal/gateway"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	watcher, err := config.NewWatcher()
	if err != nil {
		log.Fatalf("Failed to start config watcher: %v", err)
	}
	watcher.OnChange(func(fresh *config.Config) {
		log.Printf("config reloaded from %s (venue symbols: %v)", *configPath, fresh.Venue.Symbols)
	})
	if err := watcher.Watch(*configPath); err != nil {
		log.Printf("config: hot-reload disabled: %v", err)
	}
	defer watcher.Stop()

	ad := wsadapter.New(wsadapter.Config{
		URL:       cfg.Venue.URL,
		APIKey:    cfg.Venue.APIKey,
		APISecret: cfg.Venue.APISecret,
	})

	gw, err := gateway.New(cfg, ad)
	if err != nil {
		log.Fatalf("Failed to wire gateway: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := gw.Start(ctx); err != nil {
		log.Fatalf("Failed to start gateway: %v", err)
	}

	if err := ad.SubscribeMarket(cfg.Venue.Symbols); err != nil {
		log.Printf("Failed to subscribe to venue symbols: %v", err)
	}

	log.Printf("oms-gateway running, venue=%s symbols=%v", cfg.Venue.Name, cfg.Venue.Symbols)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %v, shutting down...", sig)

	cancel()
	if err := gw.Stop(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Shutdown complete")
}
