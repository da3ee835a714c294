package grpc

import (
	"context"
	"errors"

	"github.com/example/marketplace/pkg/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// OrderClient calls a remote order service. Its errors carry the same
// models sentinels as the local service.
type OrderClient struct {
	conn grpc.ClientConnInterface
}

func NewOrderClient(conn grpc.ClientConnInterface) *OrderClient {
	return &OrderClient{conn: conn}
}

func (c *OrderClient) invoke(ctx context.Context, method string, in, out interface{}) error {
	err := c.conn.Invoke(ctx, "/"+serviceName+"/"+method, in, out, grpc.CallContentSubtype(codecName))
	return fromStatus(err)
}

func (c *OrderClient) order(ctx context.Context, method string, in interface{}) (*models.Order, error) {
	out := new(OrderReply)
	if err := c.invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *OrderClient) orders(ctx context.Context, method string, in interface{}) ([]*models.Order, error) {
	out := new(OrdersReply)
	if err := c.invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	if out.Orders == nil {
		return []*models.Order{}, nil
	}
	return out.Orders, nil
}

func (c *OrderClient) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	return c.order(ctx, "CreateOrder", &CreateOrderRequest{Order: o})
}

func (c *OrderClient) GetOrders(ctx context.Context) ([]*models.Order, error) {
	return c.orders(ctx, "GetOrders", &Empty{})
}

func (c *OrderClient) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return c.order(ctx, "GetOrderByID", &OrderIDRequest{ID: id})
}

func (c *OrderClient) UpdateOrder(ctx context.Context, id string, o *models.Order) (*models.Order, error) {
	return c.order(ctx, "UpdateOrder", &UpdateOrderRequest{ID: id, Order: o})
}

func (c *OrderClient) RequestOrderCancellation(ctx context.Context, id, note string) (*models.Order, error) {
	return c.order(ctx, "RequestOrderCancellation", &CancellationRequest{ID: id, Note: note})
}

func (c *OrderClient) ApproveOrderCancellation(ctx context.Context, id string) (*models.Order, error) {
	return c.order(ctx, "ApproveOrderCancellation", &OrderIDRequest{ID: id})
}

func (c *OrderClient) RejectOrderCancellation(ctx context.Context, id string) (*models.Order, error) {
	return c.order(ctx, "RejectOrderCancellation", &OrderIDRequest{ID: id})
}

func (c *OrderClient) GetCancelRequests(ctx context.Context) ([]*models.Order, error) {
	return c.orders(ctx, "GetCancelRequests", &Empty{})
}

func (c *OrderClient) GetApprovedCancellations(ctx context.Context) ([]*models.Order, error) {
	return c.orders(ctx, "GetApprovedCancellations", &Empty{})
}

func (c *OrderClient) GetOrdersByVendorID(ctx context.Context, vendorID string) ([]*models.Order, error) {
	return c.orders(ctx, "GetOrdersByVendorID", &VendorRequest{VendorID: vendorID})
}

func (c *OrderClient) GetOrdersByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error) {
	return c.orders(ctx, "GetOrdersByCustomerID", &CustomerRequest{CustomerID: customerID})
}

func (c *OrderClient) GetLastOrder(ctx context.Context) (*models.Order, error) {
	return c.order(ctx, "GetLastOrder", &Empty{})
}

func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return models.ErrNotFound
	case codes.Aborted:
		return models.ErrConflict
	case codes.FailedPrecondition:
		return models.ErrInvalidTransition
	case codes.DeadlineExceeded:
		return errors.Join(context.DeadlineExceeded, err)
	case codes.Canceled:
		return errors.Join(context.Canceled, err)
	}
	return err
}
