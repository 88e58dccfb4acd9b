package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ratiofeed/internal/config"
	"ratiofeed/internal/emitter"
	"ratiofeed/internal/sampler"
	"ratiofeed/internal/scheduler"
	"ratiofeed/internal/server"
	"ratiofeed/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ratiofeed starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init latest-value store: sheets if configured, else sqlite, else memory.
	var st store.Store
	switch {
	case cfg.Sheets.SpreadsheetID != "":
		st = store.NewSheetsStore(cfg.Sheets.SpreadsheetID, cfg.Sheets.Worksheet, cfg.Sheets.AccessToken, cfg.Proxy)
		log.Printf("[INFO] store backend: sheets (worksheet %q)", cfg.Sheets.Worksheet)
	case cfg.Database.SQLitePath != "":
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using memory: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
		}
	default:
		log.Println("[WARN] no store backend configured, using memory")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	// Init sampler and emitter
	sm := sampler.New(cfg.Sampler.Seed)
	em := emitter.New(st, sm)
	log.Printf("[INFO] session %s started", em.Session().ID)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First tick generates immediately: last generation starts at zero.
	if err := em.Tick(ctx); err != nil {
		log.Printf("[ERROR] initial generation: %v", err)
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, em)
	if err := sched.Register(); err != nil {
		log.Fatalf("[FATAL] register tick: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Init HTTP server
	srv := server.New(cfg.Server.ListenAddr, st, em)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] ratiofeed is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] ratiofeed stopped")
}
