package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/marketplace/pkg/models"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events as JSON keyed by order id, so all events of
// one order land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev models.OrderEvent) error {
	msg, err := kafkaMessage(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func kafkaMessage(ev models.OrderEvent) (kafka.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:     []byte(ev.OrderID),
		Value:   data,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(ev.Type)}},
		Time:    time.Now().UTC(),
	}, nil
}
