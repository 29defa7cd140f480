package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// RoutingKeyExpenseAdded is the routing key of ExpenseAdded messages
const RoutingKeyExpenseAdded = "expense.added"

// Publisher hands expense events to downstream consumers
type Publisher interface {
	PublishExpenseAdded(ctx context.Context, event *ExpenseAdded) error
	Close() error
}

// AMQPPublisher publishes events to a durable topic exchange
type AMQPPublisher struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
}

// NewAMQPPublisher dials the broker and declares the exchange
func NewAMQPPublisher(url, exchangeName string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchangeName: exchangeName}, nil
}

func (p *AMQPPublisher) PublishExpenseAdded(ctx context.Context, event *ExpenseAdded) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,         // exchange
		RoutingKeyExpenseAdded, // routing key
		false,                  // mandatory
		false,                  // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "published expense event",
		"expense_id", event.ExpenseID,
		"message_id", msg.MessageId,
		"exchange", p.exchangeName,
	)
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func newPublishing(event *ExpenseAdded) (amqp091.Publishing, error) {
	body, err := event.ToJSON()
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Type:         string(event.Type()),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

// LogPublisher writes events to the log when no broker is configured
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that logs through logger
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishExpenseAdded(ctx context.Context, event *ExpenseAdded) error {
	p.logger.InfoContext(ctx, "expense event",
		"type", event.Type(),
		"expense_id", event.ExpenseID,
		"group_id", event.GroupID,
		"amount", event.Amount,
		"participants", len(event.Splits),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
