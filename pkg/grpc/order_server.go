package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/models"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// OrderService is the order lifecycle as served over gRPC.
type OrderService interface {
	CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	GetOrders(ctx context.Context) ([]*models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, o *models.Order) (*models.Order, error)
	RequestOrderCancellation(ctx context.Context, id, note string) (*models.Order, error)
	ApproveOrderCancellation(ctx context.Context, id string) (*models.Order, error)
	RejectOrderCancellation(ctx context.Context, id string) (*models.Order, error)
	GetCancelRequests(ctx context.Context) ([]*models.Order, error)
	GetApprovedCancellations(ctx context.Context) ([]*models.Order, error)
	GetOrdersByVendorID(ctx context.Context, vendorID string) ([]*models.Order, error)
	GetOrdersByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error)
	GetLastOrder(ctx context.Context) (*models.Order, error)
}

type OrderServer struct {
	svc    OrderService
	logger *zap.Logger
	config *config.Config
	server *grpc.Server
	health *health.Server
}

func NewOrderServer(cfg *config.Config, svc OrderService, logger *zap.Logger) *OrderServer {
	s := &OrderServer{
		svc:    svc,
		logger: logger,
		config: cfg,
		health: health.NewServer(),
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(s.logUnary))
	srv.RegisterService(&lifecycleServiceDesc, s)
	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)
	s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	s.server = srv

	return s
}

func (s *OrderServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.logger.Info("Order service started", zap.String("address", addr))

	return s.Serve(lis)
}

func (s *OrderServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *OrderServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *OrderServer) logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	fields := []zap.Field{
		zap.String("method", info.FullMethod),
		zap.String("code", code.String()),
		zap.Duration("latency", time.Since(start)),
	}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error("gRPC request", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("gRPC request", fields...)
	}
	return resp, err
}

func (s *OrderServer) createOrder(ctx context.Context, in *CreateOrderRequest) (*OrderReply, error) {
	if in.Order == nil {
		return nil, status.Error(codes.InvalidArgument, "order is required")
	}
	o, err := s.svc.CreateOrder(ctx, in.Order)
	return orderReply(o, err)
}

func (s *OrderServer) getOrders(ctx context.Context, _ *Empty) (*OrdersReply, error) {
	return ordersReply(s.svc.GetOrders(ctx))
}

func (s *OrderServer) getOrderByID(ctx context.Context, in *OrderIDRequest) (*OrderReply, error) {
	return orderReply(s.svc.GetOrderByID(ctx, in.ID))
}

func (s *OrderServer) updateOrder(ctx context.Context, in *UpdateOrderRequest) (*OrderReply, error) {
	if in.Order == nil {
		return nil, status.Error(codes.InvalidArgument, "order is required")
	}
	return orderReply(s.svc.UpdateOrder(ctx, in.ID, in.Order))
}

func (s *OrderServer) requestCancellation(ctx context.Context, in *CancellationRequest) (*OrderReply, error) {
	return orderReply(s.svc.RequestOrderCancellation(ctx, in.ID, in.Note))
}

func (s *OrderServer) approveCancellation(ctx context.Context, in *OrderIDRequest) (*OrderReply, error) {
	return orderReply(s.svc.ApproveOrderCancellation(ctx, in.ID))
}

func (s *OrderServer) rejectCancellation(ctx context.Context, in *OrderIDRequest) (*OrderReply, error) {
	return orderReply(s.svc.RejectOrderCancellation(ctx, in.ID))
}

func (s *OrderServer) getCancelRequests(ctx context.Context, _ *Empty) (*OrdersReply, error) {
	return ordersReply(s.svc.GetCancelRequests(ctx))
}

func (s *OrderServer) getApprovedCancellations(ctx context.Context, _ *Empty) (*OrdersReply, error) {
	return ordersReply(s.svc.GetApprovedCancellations(ctx))
}

func (s *OrderServer) getOrdersByVendorID(ctx context.Context, in *VendorRequest) (*OrdersReply, error) {
	return ordersReply(s.svc.GetOrdersByVendorID(ctx, in.VendorID))
}

func (s *OrderServer) getOrdersByCustomerID(ctx context.Context, in *CustomerRequest) (*OrdersReply, error) {
	return ordersReply(s.svc.GetOrdersByCustomerID(ctx, in.CustomerID))
}

func (s *OrderServer) getLastOrder(ctx context.Context, _ *Empty) (*OrderReply, error) {
	return orderReply(s.svc.GetLastOrder(ctx))
}

func orderReply(o *models.Order, err error) (*OrderReply, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return &OrderReply{Order: o}, nil
}

func ordersReply(orders []*models.Order, err error) (*OrdersReply, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return &OrdersReply{Orders: orders}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// lifecycleServer is the handler type of lifecycleServiceDesc.
type lifecycleServer interface {
	createOrder(context.Context, *CreateOrderRequest) (*OrderReply, error)
}

var lifecycleServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*lifecycleServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateOrder", (*OrderServer).createOrder),
		unary("GetOrders", (*OrderServer).getOrders),
		unary("GetOrderByID", (*OrderServer).getOrderByID),
		unary("UpdateOrder", (*OrderServer).updateOrder),
		unary("RequestOrderCancellation", (*OrderServer).requestCancellation),
		unary("ApproveOrderCancellation", (*OrderServer).approveCancellation),
		unary("RejectOrderCancellation", (*OrderServer).rejectCancellation),
		unary("GetCancelRequests", (*OrderServer).getCancelRequests),
		unary("GetApprovedCancellations", (*OrderServer).getApprovedCancellations),
		unary("GetOrdersByVendorID", (*OrderServer).getOrdersByVendorID),
		unary("GetOrdersByCustomerID", (*OrderServer).getOrdersByCustomerID),
		unary("GetLastOrder", (*OrderServer).getLastOrder),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "marketplace/order/v1/order_lifecycle",
}

func unary[Req, Resp any](name string, call func(*OrderServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*OrderServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + name,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}
