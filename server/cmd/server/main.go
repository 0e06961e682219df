package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pawline/tether-mp/server/core"
	"github.com/pawline/tether-mp/shared/protocol"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	port := flag.Uint("port", 0, "Server port (overrides config)")
	tickRate := flag.Int("tickrate", 0, "Server tick rate (overrides config)")
	name := flag.String("name", "", "Server display name (overrides config)")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	flag.Parse()

	cfg := core.DefaultConfig()
	if *configPath != "" {
		loaded, err := core.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *tickRate != 0 {
		cfg.TickRate = *tickRate
	}
	if *name != "" {
		cfg.Name = *name
	}
	if *version != "" {
		cfg.Version = *version
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	server := core.NewServer(cfg)

	if *configPath != "" {
		stop, err := core.WatchConfig(*configPath, server.ApplyConfig)
		if err != nil {
			log.Printf("Config hot reload unavailable: %v", err)
		} else {
			defer stop()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting tether server %q on port %d (tick rate: %d/s, version: %s)",
		cfg.Name, cfg.Port, cfg.TickRate, cfg.Version)
	if err := server.Start(cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
