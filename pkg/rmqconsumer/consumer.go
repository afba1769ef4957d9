package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"user-account-api/config"
	"user-account-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

// Consumer drains the lifecycle queue into an audit sink.
type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	out        io.Writer
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection) *Consumer {
	return &Consumer{
		cfg:  cfg,
		log:  logger,
		out:  os.Stdout,
		conn: conn,
	}
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	c.conn, err = amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		_ = c.conn.Close()
		c.conn = nil
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range mq.EventTypes() {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			string(rk),
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				return
			}
			if err := c.delivery(msg); err != nil {
				// alert
				c.log.Error("mq read message error", zap.Error(err))
			}
		case <-ctx.Done():
			_ = c.chConsume.Close()
			return
		}
	}
}

// delivery writes one audit line per lifecycle event.
func (c *Consumer) delivery(msg amqp091.Delivery) error {
	var e mq.Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode event %q: %w", msg.RoutingKey, err)
	}

	_, err := fmt.Fprintf(c.out,
		"Audit event=%s user=%s role=%s active=%t at=%s id=%s\n",
		msg.RoutingKey,
		e.UserID,
		e.Payload.Role,
		e.Payload.IsActive,
		e.TS.Format("2006-01-02T15:04:05Z07:00"),
		e.ID,
	)

	return err
}
