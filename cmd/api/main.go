package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/product-catalog/config"
	"github.com/GoSim-25-26J-441/product-catalog/internal/bootstrap"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/backup"
	cataloghttp "github.com/GoSim-25-26J-441/product-catalog/internal/catalog/http"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/repository"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slot, err := bootstrap.OpenSlot(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer slot.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := service.NewCatalogService(repository.NewSnapshotRepository(slot), service.NewMetrics(reg))
	if _, err := store.Load(ctx); err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	if bootstrap.WatchSlot(ctx, slot, store) {
		log.Printf("[catalog] following external writes to the %s slot", slot.Driver())
	}

	if cfg.Backup.Schedule != "" {
		scheduler, err := backup.NewScheduler(backup.NewService(store, cfg.Backup.Dir), cfg.Backup.Schedule)
		if err != nil {
			log.Fatalf("backup: %v", err)
		}
		scheduler.Start()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			scheduler.Stop(sctx)
		}()
	}

	r, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		Slot:           slot,
		Catalog:        cataloghttp.New(store),
		Gatherer:       reg,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// open event streams end with the process context
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Printf("listening on :%s (%s, %s slot)", cfg.Server.Port, cfg.App.Environment, slot.Driver())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
