package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/marketplace/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	got []models.OrderEvent
	err error
}

func (r *recordingSink) Publish(_ context.Context, ev models.OrderEvent) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestMulti_PublishesToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingSink{}
	b := &recordingSink{err: boom}
	c := &recordingSink{}

	err := Multi{a, b, c}.Publish(context.Background(), models.OrderEvent{OrderID: "o1"})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.Len(t, c.got, 1)
}

func TestNotificationsFor(t *testing.T) {
	tests := []struct {
		name       string
		ev         models.OrderEvent
		recipients []string
	}{
		{
			name: "request_notifies_every_vendor",
			ev: models.OrderEvent{
				Type:       models.EventCancellationRequested,
				OrderID:    "o1",
				CustomerID: "c1",
				VendorIDs:  []string{"v1", "v2"},
				Note:       "wrong size",
			},
			recipients: []string{"v1", "v2"},
		},
		{
			name:       "approve_notifies_customer",
			ev:         models.OrderEvent{Type: models.EventCancellationApproved, OrderID: "o1", CustomerID: "c1"},
			recipients: []string{"c1"},
		},
		{
			name:       "reject_notifies_customer",
			ev:         models.OrderEvent{Type: models.EventCancellationRejected, OrderID: "o1", CustomerID: "c1"},
			recipients: []string{"c1"},
		},
		{
			name: "create_is_silent",
			ev:   models.OrderEvent{Type: models.EventOrderCreated, OrderID: "o1", CustomerID: "c1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, n := range notificationsFor(&tt.ev) {
				got = append(got, n.Recipient)
			}
			assert.Equal(t, tt.recipients, got)
		})
	}
}

func TestActorNotifier_DeliversAsync(t *testing.T) {
	delivered := make(chan Notification, 4)
	n, err := NewActorNotifier(zap.NewNop(), func(note Notification) { delivered <- note })
	require.NoError(t, err)

	err = n.Publish(context.Background(), models.OrderEvent{
		Type:       models.EventCancellationApproved,
		OrderID:    "o9",
		CustomerID: "c7",
	})
	require.NoError(t, err)

	select {
	case note := <-delivered:
		assert.Equal(t, "c7", note.Recipient)
		assert.Equal(t, "customer", note.Type)
		assert.Contains(t, note.Message, "o9")
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	require.NoError(t, n.Close())
}

func TestKafkaMessage(t *testing.T) {
	ev := models.OrderEvent{Type: models.EventOrderCreated, OrderID: "o1", Status: models.StatusPending}

	msg, err := kafkaMessage(ev)
	require.NoError(t, err)

	assert.Equal(t, []byte("o1"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "order.created", string(msg.Headers[0].Value))

	var decoded models.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "o1", decoded.OrderID)
}
