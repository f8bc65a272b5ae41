package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/splitpot/splitpot/internal/models"
)

const publishTimeout = 5 * time.Second

// Publisher emits group activity events to an AMQP broker. One durable queue
// is bound to a direct exchange with one routing key per event name, so a
// single consumer sees the full activity stream.
type Publisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewPublisher(url, exchangeName, queueName string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	publisher := &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := publisher.setup(); err != nil {
		publisher.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return publisher, nil
}

func (p *Publisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, routingKey := range []string{EventExpenseRecorded, EventSettlementRecorded} {
		if err := p.channel.QueueBind(p.queueName, routingKey, p.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue for %s: %w", routingKey, err)
		}
	}

	return nil
}

// PublishExpenseRecorded publishes an expense.recorded event.
func (p *Publisher) PublishExpenseRecorded(ctx context.Context, expense *models.Expense) error {
	body, err := NewExpenseRecordedMessage(expense).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := p.publish(ctx, EventExpenseRecorded, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published expense event",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"exchange", p.exchangeName)
	return nil
}

// PublishSettlementRecorded publishes a settlement.recorded event.
func (p *Publisher) PublishSettlementRecorded(ctx context.Context, settlement *models.Settlement) error {
	body, err := NewSettlementRecordedMessage(settlement).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := p.publish(ctx, EventSettlementRecorded, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published settlement event",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"exchange", p.exchangeName)
	return nil
}

func (p *Publisher) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
