package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"user-account-api/config"
	"user-account-api/internal/domain/user"
	"user-account-api/internal/infrastructure/metrics"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

type EventType string

// Event types double as routing keys.
const (
	UserRegistered       EventType = "UserRegistered"
	UserDeleted          EventType = "UserDeleted"
	UserRestored         EventType = "UserRestored"
	UserPasswordMigrated EventType = "UserPasswordMigrated"
)

func EventTypes() []EventType {
	return []EventType{UserRegistered, UserDeleted, UserRestored, UserPasswordMigrated}
}

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg      config.MQ
		log      *zap.Logger
		mCounter *prometheus.CounterVec
		conn     *amqp091.Connection
		pubCh    *amqp091.Channel
		in       InputCh
	}
	Event struct {
		ID      uuid.UUID `json:"event_id"`
		TS      time.Time `json:"time_stamp"`
		Type    EventType `json:"event_type"`
		UserID  string    `json:"user_id"`
		Payload Payload   `json:"user_payload"`
	}
	// Payload never carries credential material.
	Payload struct {
		Username string `json:"username"`
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}
)

func NewEvent(t EventType, u *user.User) Event {
	return Event{
		ID:     uuid.New(),
		TS:     time.Now().UTC(),
		Type:   t,
		UserID: u.UserID,
		Payload: Payload{
			Username: u.Username,
			Role:     u.Role.String(),
			IsActive: u.IsActive,
		},
	}
}

func New(cfg config.MQ, logger *zap.Logger, mCounter *prometheus.CounterVec) *RabbitMQ {
	return &RabbitMQ{
		cfg:      cfg,
		log:      logger,
		mCounter: mCounter,
		in:       make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "useraccountapi",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	var err error
	if err = r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, rk := range EventTypes() {
		if err = r.pubCh.QueueBind(q.Name, string(rk), r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

// Publish enqueues e for the publisher worker. It never blocks the caller:
// when the buffer is full the event is dropped and counted.
func (r *RabbitMQ) Publish(e Event) {
	select {
	case r.in <- e:
	default:
		if r.mCounter != nil {
			r.mCounter.WithLabelValues(metrics.EventDropped).Inc()
		}
		r.log.Warn("mq buffer full, event dropped",
			zap.String("event_type", string(e.Type)),
			zap.String("user_id", e.UserID),
		)
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("event_type", string(e.Type)))
			}
		case <-ctx.Done():
			if r.pubCh != nil {
				_ = r.pubCh.Close()
			}
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.TS,
		Type:         string(e.Type),
		Body:         b,
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		string(e.Type),
		true,
		false,
		pub,
	)
}

func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
