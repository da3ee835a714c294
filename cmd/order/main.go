package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/discovery"
	"github.com/example/marketplace/pkg/events"
	"github.com/example/marketplace/pkg/grpc"
	"github.com/example/marketplace/pkg/logger"
	"github.com/example/marketplace/pkg/repository"
	"github.com/example/marketplace/pkg/service"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.Load("config/order-config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}

	if err := run(cfg, log); err != nil {
		log.Error("Order service failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run owns every resource it opens; closers run on all return paths.
func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting order service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver))

	ctx := context.Background()
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	var mongoRepo *repository.MongoRepository
	if cfg.Storage.Driver == "mongo" || cfg.Audit.Driver == "mongo" {
		var err error
		mongoRepo, err = repository.NewMongoRepository(&cfg.MongoDB)
		if err != nil {
			return fmt.Errorf("connect to MongoDB: %w", err)
		}
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoRepo.Close(ctx); err != nil {
				log.Error("Failed to disconnect MongoDB", zap.Error(err))
			}
		})
		if err := mongoRepo.Ping(ctx); err != nil {
			log.Warn("MongoDB ping failed", zap.Error(err))
		} else {
			log.Info("MongoDB connected successfully")
		}
	}

	// Storage
	store, directory, err := newStorage(cfg.Storage.Driver, mongoRepo)
	if err != nil {
		return err
	}

	if cfg.Redis.Enabled {
		redisRepo := repository.NewRedisRepository(&cfg.Redis)
		closers = append(closers, func() { _ = redisRepo.Close() })
		if err := redisRepo.Ping(ctx); err != nil {
			log.Warn("Redis connection failed", zap.Error(err))
		} else {
			log.Info("Redis connected successfully")
		}
		directory = repository.NewCachedDirectory(directory, redisRepo, cfg.Redis.NameTTL, log.Named("name-cache"))
	}

	// Event sinks
	notifier, err := events.NewActorNotifier(log, nil)
	if err != nil {
		return fmt.Errorf("start notifier: %w", err)
	}
	closers = append(closers, func() { _ = notifier.Close() })
	sinks := events.Multi{notifier}

	if cfg.Kafka.Enabled {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		closers = append(closers, func() { _ = publisher.Close() })
		sinks = append(sinks, publisher)
	}

	audit, closeAudit, err := newAuditSink(cfg, mongoRepo)
	if err != nil {
		return err
	}
	if closeAudit != nil {
		closers = append(closers, closeAudit)
	}
	if audit != nil {
		sinks = append(sinks, audit)
	}

	svc := service.NewOrderService(store, directory, sinks, log.Named("order-service"))

	// Create server
	server := grpc.NewOrderServer(cfg, svc, log)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Connect to etcd for service discovery
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Advertised(),
		Port: cfg.Server.Port,
	}
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd, log.Named("discovery"))
	if err != nil {
		log.Warn("Failed to connect to etcd, continuing without registration", zap.Error(err))
	} else {
		defer sd.Close()
		if err := sd.Register(ctx, instance); err != nil {
			log.Warn("Failed to register service", zap.Error(err))
		} else {
			log.Info("Service registered in etcd",
				zap.String("name", instance.Name),
				zap.String("address", instance.Addr()))
		}
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-sigCh:
		log.Info("Received shutdown signal")
	case runErr = <-serverErr:
		log.Error("Server error", zap.Error(runErr))
	}

	// Deregister service
	if sd != nil {
		if err := sd.Deregister(ctx, instance); err != nil {
			log.Error("Failed to deregister service", zap.Error(err))
		}
	}

	server.Stop()
	log.Info("Service stopped")
	return runErr
}

func newStorage(driver string, mongoRepo *repository.MongoRepository) (service.Store, repository.NameLookup, error) {
	switch driver {
	case "mongo":
		return mongoRepo.Orders(), mongoRepo.Directory(), nil
	case "memory":
		return repository.NewMemoryStore(), repository.NewMemoryDirectory(), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// newAuditSink returns a nil sink when auditing is off.
func newAuditSink(cfg *config.Config, mongoRepo *repository.MongoRepository) (events.Sink, func(), error) {
	switch cfg.Audit.Driver {
	case "mongo":
		return mongoRepo.AuditSink(), nil, nil
	case "mysql":
		audit, err := repository.NewMySQLAuditSink(&cfg.MySQL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to MySQL: %w", err)
		}
		return audit, func() { _ = audit.Close() }, nil
	case "":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown audit driver %q", cfg.Audit.Driver)
	}
}
