package grpc

import "github.com/example/marketplace/pkg/models"

const serviceName = "marketplace.order.v1.OrderLifecycle"

type CreateOrderRequest struct {
	Order *models.Order `json:"order"`
}

type OrderIDRequest struct {
	ID string `json:"id"`
}

type UpdateOrderRequest struct {
	ID    string        `json:"id"`
	Order *models.Order `json:"order"`
}

type CancellationRequest struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}

type VendorRequest struct {
	VendorID string `json:"vendorId"`
}

type CustomerRequest struct {
	CustomerID string `json:"customerId"`
}

type Empty struct{}

type OrderReply struct {
	Order *models.Order `json:"order"`
}

type OrdersReply struct {
	Orders []*models.Order `json:"orders"`
}
