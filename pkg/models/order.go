package models

import "time"

// Status is the order status code. The numeric values are shared with the
// web client and must not be renumbered.
type Status int

const (
	StatusPending               Status = 0
	StatusCancellationApproved  Status = 3
	StatusCancellationRequested Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCancellationApproved:
		return "cancellation_approved"
	case StatusCancellationRequested:
		return "cancellation_requested"
	default:
		return "unknown"
	}
}

// CancellationDecision records where a cancellation request stands.
type CancellationDecision string

const (
	DecisionNone     CancellationDecision = ""
	DecisionPending  CancellationDecision = "pending"
	DecisionApproved CancellationDecision = "approved"
	DecisionRejected CancellationDecision = "rejected"
)

type Order struct {
	ID                      string               `bson:"_id" json:"id"`
	OrderCode               int64                `bson:"orderCode" json:"orderCode"`
	CustomerID              string               `bson:"customerId" json:"customerId"`
	Items                   []OrderItem          `bson:"orderItems" json:"orderItems"`
	Status                  Status               `bson:"status" json:"status"`
	IsCancellationRequested bool                 `bson:"isCancellationRequested" json:"isCancellationRequested"`
	CancellationDecision    CancellationDecision `bson:"cancellationDecision,omitempty" json:"cancellationDecision,omitempty"`
	CancellationNote        string               `bson:"cancellationNote,omitempty" json:"cancellationNote,omitempty"`
	Version                 int64                `bson:"version" json:"version"`

	// Filled from the user collection on read, never stored.
	CustomerFirstName string `bson:"-" json:"customerFirstName,omitempty"`
	CustomerLastName  string `bson:"-" json:"customerLastName,omitempty"`
}

type OrderItem struct {
	ProductID string `bson:"productId" json:"productId"`
	VendorID  string `bson:"vendorId" json:"vendorId"`
	Quantity  int32  `bson:"quantity" json:"quantity"`

	ProductName string `bson:"-" json:"productName,omitempty"`
}

// VendorIDs returns the distinct vendors of the order items in item order.
func (o *Order) VendorIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	var ids []string
	for _, it := range o.Items {
		if _, ok := seen[it.VendorID]; ok || it.VendorID == "" {
			continue
		}
		seen[it.VendorID] = struct{}{}
		ids = append(ids, it.VendorID)
	}
	return ids
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	c := *o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	return &c
}

// ClearEnrichment drops the read-time display fields.
func (o *Order) ClearEnrichment() {
	o.CustomerFirstName = ""
	o.CustomerLastName = ""
	for i := range o.Items {
		o.Items[i].ProductName = ""
	}
}

// OrderEvent is published after every successful order mutation.
type OrderEvent struct {
	Type       EventType            `json:"type"`
	OrderID    string               `json:"orderId"`
	CustomerID string               `json:"customerId"`
	VendorIDs  []string             `json:"vendorIds,omitempty"`
	Status     Status               `json:"status"`
	Decision   CancellationDecision `json:"decision,omitempty"`
	Note       string               `json:"note,omitempty"`
	At         time.Time            `json:"at"`
}

type EventType string

const (
	EventOrderCreated          EventType = "order.created"
	EventOrderUpdated          EventType = "order.updated"
	EventCancellationRequested EventType = "order.cancellation_requested"
	EventCancellationApproved  EventType = "order.cancellation_approved"
	EventCancellationRejected  EventType = "order.cancellation_rejected"
)

// NewOrderEvent snapshots o into an event of type t.
func NewOrderEvent(t EventType, o *Order) OrderEvent {
	return OrderEvent{
		Type:       t,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		VendorIDs:  o.VendorIDs(),
		Status:     o.Status,
		Decision:   o.CancellationDecision,
		Note:       o.CancellationNote,
		At:         time.Now().UTC(),
	}
}
