package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"user-account-api/internal/infrastructure/mq"
)

// EventPublisher must not block the caller.
type EventPublisher interface {
	Publish(e mq.Event)
}

type RabbitMQ interface {
	EventPublisher
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
}

// AuditConsumer drains lifecycle events published through RabbitMQ.
type AuditConsumer interface {
	Connect(dsn string) error
	Init() error
	DeliveryWorker(ctx context.Context)
}
