package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

const (
	OrderEventsTopic   = "order-events"
	DisputeEventsTopic = "dispute-events"

	writeTimeout = 10 * time.Second
)

// KafkaPublisher writes domain events keyed by order ID so every event of
// one order lands on the same partition, in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaPublisher) publish(topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	})
}

func (k *KafkaPublisher) PublishOrderEvent(event domain.OrderEvent) error {
	return k.publish(OrderEventsTopic, event.OrderID, event)
}

func (k *KafkaPublisher) PublishDisputeEvent(event domain.DisputeEvent) error {
	return k.publish(DisputeEventsTopic, event.OrderID, event)
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
