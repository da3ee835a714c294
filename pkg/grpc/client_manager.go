package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/discovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ClientManager manages the gateway's connection to the order service
type ClientManager struct {
	config    *config.Config
	discovery *discovery.ServiceDiscovery
	logger    *zap.Logger

	orderClient *OrderClient
	orderConn   *grpc.ClientConn
}

// NewClientManager creates a new gRPC client manager. disc may be nil.
func NewClientManager(cfg *config.Config, logger *zap.Logger, disc *discovery.ServiceDiscovery) *ClientManager {
	return &ClientManager{
		config:    cfg,
		discovery: disc,
		logger:    logger,
	}
}

// Connect establishes the connection to the order service
func (m *ClientManager) Connect() error {
	if err := m.connectOrderService(); err != nil {
		return fmt.Errorf("failed to connect to order service: %w", err)
	}
	return nil
}

func (m *ClientManager) connectOrderService() error {
	target := m.config.Gateway.OrderTarget

	// Try to use service discovery if available
	if m.discovery != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		instances, err := m.discovery.Discover(ctx, m.config.Gateway.OrderService)
		if err == nil && len(instances) > 0 {
			target = instances[0].Addr()
			m.logger.Info("Discovered order service", zap.String("address", target))
		} else {
			m.logger.Info("Using default address for order service", zap.String("address", target))
		}
	}

	m.logger.Info("Connecting to order service", zap.String("target", target))

	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return err
	}

	m.orderConn = conn
	m.orderClient = NewOrderClient(conn)
	return nil
}

// OrderClient returns the order service client
func (m *ClientManager) OrderClient() *OrderClient {
	return m.orderClient
}

// Close closes the gRPC connection
func (m *ClientManager) Close() error {
	if m.orderConn != nil {
		if err := m.orderConn.Close(); err != nil {
			return fmt.Errorf("order connection close error: %w", err)
		}
	}
	return nil
}
