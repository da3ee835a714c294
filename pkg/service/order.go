package service

import (
	"context"
	"errors"

	"github.com/example/marketplace/pkg/events"
	"github.com/example/marketplace/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store is the document store holding orders.
type Store interface {
	// Insert stores a new order, assigning its id when empty
	Insert(ctx context.Context, o *models.Order) error
	// FindOne returns the first match or models.ErrNotFound
	FindOne(ctx context.Context, f models.OrderFilter, opts models.FindOptions) (*models.Order, error)
	// FindMany returns all matches, never nil
	FindMany(ctx context.Context, f models.OrderFilter, opts models.FindOptions) ([]*models.Order, error)
	// FindOneAndUpdate atomically updates one match and returns it after the update,
	// or models.ErrNotFound when nothing matched
	FindOneAndUpdate(ctx context.Context, f models.OrderFilter, u models.OrderUpdate) (*models.Order, error)
	// ReplaceOne replaces one match and reports the number matched
	ReplaceOne(ctx context.Context, f models.OrderFilter, o *models.Order) (int64, error)
}

// Directory resolves display names. Unknown ids are absent from the result.
type Directory interface {
	CustomerNames(ctx context.Context, ids []string) (map[string]models.CustomerName, error)
	ProductNames(ctx context.Context, ids []string) (map[string]string, error)
}

// OrderService owns the order lifecycle:
//
//	Pending --request--> CancellationRequested --approve--> CancellationApproved
//	CancellationRequested --reject--> Pending
//
// Transitions are guarded in the store filter, so a transition applied from
// the wrong state changes nothing and fails with models.ErrInvalidTransition.
type OrderService struct {
	store     Store
	directory Directory
	sink      events.Sink
	logger    *zap.Logger
}

func NewOrderService(store Store, directory Directory, sink events.Sink, logger *zap.Logger) *OrderService {
	if sink == nil {
		sink = events.Discard{}
	}
	return &OrderService{
		store:     store,
		directory: directory,
		sink:      sink,
		logger:    logger,
	}
}

// CreateOrder inserts o as a new order. Calling it twice creates two orders.
func (s *OrderService) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if err := s.store.Insert(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Order created",
		zap.String("order_id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.Int("item_count", len(o.Items)))
	s.publish(ctx, models.EventOrderCreated, o)
	return o, nil
}

func (s *OrderService) GetOrders(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.store.FindMany(ctx, models.OrderFilter{}, models.FindOptions{})
	if err != nil {
		return nil, err
	}
	if err := s.enrichCustomers(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrderByID returns the order with customer and product names joined in.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.store.FindOne(ctx, models.OrderFilter{ID: id}, models.FindOptions{})
	if err != nil {
		return nil, err
	}

	var (
		customers map[string]models.CustomerName
		products  map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = s.directory.CustomerNames(gctx, []string{o.CustomerID})
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.directory.ProductNames(gctx, productIDs(o))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	applyCustomerName(o, customers)
	for i := range o.Items {
		if name, ok := products[o.Items[i].ProductID]; ok {
			o.Items[i].ProductName = name
		}
	}
	return o, nil
}

// UpdateOrder replaces the stored order. o.Version must equal the stored
// version; the stored copy gets the next version.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, o *models.Order) (*models.Order, error) {
	expected := o.Version
	next := o.Clone()
	next.ID = id
	next.Version = expected + 1
	next.ClearEnrichment()

	matched, err := s.store.ReplaceOne(ctx, models.OrderFilter{ID: id, Version: &expected}, next)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		if _, err := s.store.FindOne(ctx, models.OrderFilter{ID: id}, models.FindOptions{}); err != nil {
			return nil, err
		}
		return nil, models.ErrConflict
	}

	s.logger.Info("Order updated", zap.String("order_id", id), zap.Int64("version", next.Version))
	s.publish(ctx, models.EventOrderUpdated, next)
	return next, nil
}

func (s *OrderService) RequestOrderCancellation(ctx context.Context, id, note string) (*models.Order, error) {
	guard := models.OrderFilter{
		Statuses: []models.Status{models.StatusPending, models.StatusCancellationRequested},
	}
	update := models.OrderUpdate{
		Status:                ptr(models.StatusCancellationRequested),
		CancellationRequested: ptr(true),
		Decision:              ptr(models.DecisionPending),
		Note:                  &note,
	}
	return s.transition(ctx, id, guard, update, models.EventCancellationRequested)
}

func (s *OrderService) ApproveOrderCancellation(ctx context.Context, id string) (*models.Order, error) {
	update := models.OrderUpdate{
		Status:   ptr(models.StatusCancellationApproved),
		Decision: ptr(models.DecisionApproved),
	}
	return s.transition(ctx, id, awaitingDecision(), update, models.EventCancellationApproved)
}

func (s *OrderService) RejectOrderCancellation(ctx context.Context, id string) (*models.Order, error) {
	update := models.OrderUpdate{
		Status:   ptr(models.StatusPending),
		Decision: ptr(models.DecisionRejected),
	}
	return s.transition(ctx, id, awaitingDecision(), update, models.EventCancellationRejected)
}

// GetCancelRequests returns orders whose cancellation awaits a decision.
func (s *OrderService) GetCancelRequests(ctx context.Context) ([]*models.Order, error) {
	return s.store.FindMany(ctx, models.OrderFilter{
		CancellationRequested: ptr(true),
		Decision:              ptr(models.DecisionPending),
	}, models.FindOptions{})
}

func (s *OrderService) GetApprovedCancellations(ctx context.Context) ([]*models.Order, error) {
	return s.store.FindMany(ctx, models.OrderFilter{
		CancellationRequested: ptr(true),
		Decision:              ptr(models.DecisionApproved),
	}, models.FindOptions{})
}

// GetOrdersByVendorID returns orders with at least one item from the vendor.
func (s *OrderService) GetOrdersByVendorID(ctx context.Context, vendorID string) ([]*models.Order, error) {
	orders, err := s.store.FindMany(ctx, models.OrderFilter{VendorID: vendorID}, models.FindOptions{})
	if err != nil {
		return nil, err
	}
	if err := s.enrichCustomers(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrdersByCustomerID returns the customer's orders as stored, without names.
func (s *OrderService) GetOrdersByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error) {
	return s.store.FindMany(ctx, models.OrderFilter{CustomerID: customerID}, models.FindOptions{})
}

// GetLastOrder returns the order with the highest order code.
func (s *OrderService) GetLastOrder(ctx context.Context) (*models.Order, error) {
	return s.store.FindOne(ctx, models.OrderFilter{}, models.FindOptions{SortByCodeDesc: true})
}

func (s *OrderService) transition(ctx context.Context, id string, guard models.OrderFilter, u models.OrderUpdate, ev models.EventType) (*models.Order, error) {
	guard.ID = id
	o, err := s.store.FindOneAndUpdate(ctx, guard, u)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		// the guard missed: either no such order or the wrong state
		if _, err := s.store.FindOne(ctx, models.OrderFilter{ID: id}, models.FindOptions{}); err != nil {
			return nil, err
		}
		s.logger.Warn("Rejected order transition",
			zap.String("order_id", id),
			zap.String("event", string(ev)))
		return nil, models.ErrInvalidTransition
	}

	s.logger.Info("Order transitioned",
		zap.String("order_id", id),
		zap.String("event", string(ev)),
		zap.Stringer("status", o.Status))
	s.publish(ctx, ev, o)
	return o, nil
}

func (s *OrderService) publish(ctx context.Context, t models.EventType, o *models.Order) {
	transitionsTotal.WithLabelValues(string(t)).Inc()
	if err := s.sink.Publish(ctx, models.NewOrderEvent(t, o)); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("order_id", o.ID),
			zap.String("event", string(t)),
			zap.Error(err))
	}
}

func (s *OrderService) enrichCustomers(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.CustomerID]; ok {
			continue
		}
		seen[o.CustomerID] = struct{}{}
		ids = append(ids, o.CustomerID)
	}

	names, err := s.directory.CustomerNames(ctx, ids)
	if err != nil {
		return err
	}
	for _, o := range orders {
		applyCustomerName(o, names)
	}
	return nil
}

func awaitingDecision() models.OrderFilter {
	return models.OrderFilter{
		Statuses:              []models.Status{models.StatusCancellationRequested},
		CancellationRequested: ptr(true),
		Decision:              ptr(models.DecisionPending),
	}
}

func applyCustomerName(o *models.Order, names map[string]models.CustomerName) {
	if n, ok := names[o.CustomerID]; ok {
		o.CustomerFirstName = n.FirstName
		o.CustomerLastName = n.LastName
	}
}

func productIDs(o *models.Order) []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}
