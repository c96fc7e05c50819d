package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/domain"
	"github.com/dispensa-escolar/pedidos-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher emits order lifecycle events to a Kafka topic. Delivery is best
// effort: failures are logged and returned, but callers treat them as
// non-fatal because the storage transaction has already committed.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher wires a Kafka writer for the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Publisher{writer: writer, logger: logger}
}

type orderEvent struct {
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	Requester  string    `json:"requester,omitempty"`
	Unit       string    `json:"unit,omitempty"`
	ItemCount  int       `json:"item_count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderCreated publishes an order.created event keyed by the order id.
func (p *Publisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	event := orderEvent{
		Type:       "order.created",
		OrderID:    order.ID,
		Requester:  order.Requester,
		Unit:       order.Unit,
		ItemCount:  len(order.Items),
		OccurredAt: time.Now().UTC(),
	}
	return p.publish(ctx, event)
}

// OrderDeleted publishes an order.deleted event keyed by the order id.
func (p *Publisher) OrderDeleted(ctx context.Context, id int64) error {
	event := orderEvent{
		Type:       "order.deleted",
		OrderID:    id,
		OccurredAt: time.Now().UTC(),
	}
	return p.publish(ctx, event)
}

func (p *Publisher) publish(ctx context.Context, event orderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to encode order event",
			slog.String("type", event.Type),
			slog.Int64("order.id", event.OrderID),
			slog.String("error", err.Error()))
		return err
	}
	message := kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.logger.Warn("failed to publish order event",
			slog.String("type", event.Type),
			slog.Int64("order.id", event.OrderID),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Close flushes pending messages and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
