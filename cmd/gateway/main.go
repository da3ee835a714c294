package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/marketplace/gateway"
	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/discovery"
	"github.com/example/marketplace/pkg/grpc"
	"github.com/example/marketplace/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting API Gateway",
		zap.Int("port", cfg.Gateway.Port),
		zap.String("host", cfg.Gateway.Host))

	// Setup service discovery
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd, log.Named("discovery"))
	if err != nil {
		log.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
	}

	clients := grpc.NewClientManager(cfg, log, sd)
	if err := clients.Connect(); err != nil {
		log.Fatal("Failed to connect to backend services", zap.Error(err))
	}

	// Create gateway
	gw := gateway.NewGateway(cfg, log, clients.OrderClient())
	gw.SetupRoutes()

	// Start gateway in goroutine
	gwErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			gwErr <- err
		}
	}()

	log.Info("Gateway started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("Received shutdown signal")
	case err := <-gwErr:
		log.Error("Gateway error", zap.Error(err))
	}

	if err := clients.Close(); err != nil {
		log.Error("Failed to close clients", zap.Error(err))
	}
	if sd != nil {
		sd.Close()
	}

	log.Info("Gateway stopped")
}
