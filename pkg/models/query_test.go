package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderFilter_Match(t *testing.T) {
	yes := true
	pending := DecisionPending
	none := DecisionNone
	v3 := int64(3)

	o := &Order{
		ID:         "o1",
		CustomerID: "c1",
		Items: []OrderItem{
			{ProductID: "p1", VendorID: "v1"},
			{ProductID: "p2", VendorID: "v2"},
		},
		Status:                  StatusCancellationRequested,
		IsCancellationRequested: true,
		CancellationDecision:    DecisionPending,
		Version:                 3,
	}

	tests := []struct {
		name   string
		filter OrderFilter
		want   bool
	}{
		{name: "empty_matches_all", filter: OrderFilter{}, want: true},
		{name: "id", filter: OrderFilter{ID: "o1"}, want: true},
		{name: "other_id", filter: OrderFilter{ID: "o2"}, want: false},
		{name: "customer", filter: OrderFilter{CustomerID: "c2"}, want: false},
		{name: "any_item_vendor", filter: OrderFilter{VendorID: "v2"}, want: true},
		{name: "absent_vendor", filter: OrderFilter{VendorID: "v3"}, want: false},
		{name: "requested_pending", filter: OrderFilter{CancellationRequested: &yes, Decision: &pending}, want: true},
		{name: "no_decision", filter: OrderFilter{Decision: &none}, want: false},
		{name: "status_in", filter: OrderFilter{Statuses: []Status{StatusPending, StatusCancellationRequested}}, want: true},
		{name: "status_not_in", filter: OrderFilter{Statuses: []Status{StatusPending}}, want: false},
		{name: "version", filter: OrderFilter{ID: "o1", Version: &v3}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(o))
		})
	}
}

func TestOrderUpdate_Apply(t *testing.T) {
	o := &Order{ID: "o1", Status: StatusPending, Version: 1}
	status := StatusCancellationRequested
	note := "too late"

	OrderUpdate{Status: &status, Note: &note}.Apply(o)

	assert.Equal(t, StatusCancellationRequested, o.Status)
	assert.Equal(t, "too late", o.CancellationNote)
	assert.False(t, o.IsCancellationRequested)
	assert.Equal(t, int64(2), o.Version)
}

func TestOrder_VendorIDsAndClone(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{VendorID: "v1"}, {VendorID: "v2"}, {VendorID: "v1"}, {VendorID: ""},
	}}
	assert.Equal(t, []string{"v1", "v2"}, o.VendorIDs())

	c := o.Clone()
	c.Items[0].VendorID = "changed"
	assert.Equal(t, "v1", o.Items[0].VendorID)
}
