package consumer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/backend-labs/orderms/internal/rabbitmq"
	"github.com/backend-labs/orderms/internal/service/models/order"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// service represents the service layer interface.
type service interface {
	ProcessOrderCreated(ctx context.Context, event order.CreatedEvent) error
}

// Consumer represents the RabbitMQ consumer transport for the
// order-created queue.
type Consumer struct {
	client  *rabbitmq.Client
	service service
	queue   amqp.Queue
	stop    chan struct{}
	done    chan struct{}
}

// NewConsumer creates a new Consumer. The queue name comes from config
// and is declared at startup.
func NewConsumer(client *rabbitmq.Client, service service) *Consumer {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		panic("rabbitmq.queue is not set in config")
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		AutoDelete: false,
		Exclusive:  false,
		NoWait:     false,
	})
	if err != nil {
		panic(err)
	}

	return &Consumer{
		client:  client,
		service: service,
		queue:   queue,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run starts consuming order-created messages from RabbitMQ.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "orderms"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:     c.queue.Name,
		Consumer:  consumerTag,
		AutoAck:   false,
		Exclusive: viper.GetBool("rabbitmq.exclusive"),
		NoLocal:   viper.GetBool("rabbitmq.no_local"),
		NoWait:    viper.GetBool("rabbitmq.no_wait"),
	})
	if err != nil {
		return err
	}

	slog.Info("Consumer started", "queue", c.queue.Name, "consumer_tag", consumerTag)

	go c.dispatch(ctx, msgs)

	<-c.done

	return nil
}

// dispatch fans deliveries out to a bounded worker pool. Every delivery
// is handled independently: a failed one has already signaled the broker
// via nack, so its error must not cancel the context the remaining
// deliveries run under.
func (c *Consumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	g := new(errgroup.Group)
	g.SetLimit(50)

	defer func() {
		if err := g.Wait(); err != nil {
			slog.Error("Error waiting for in-flight deliveries", "error", err)
		}
		close(c.done)
	}()

	for {
		select {
		case <-c.stop:
			slog.Info("Stopping consumer")

			return
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("Message channel closed")

				return
			}

			g.Go(func() error {
				if err := c.processMessage(ctx, msg); err != nil {
					slog.Error("Delivery processing failed",
						"error", err,
						"delivery_tag", msg.DeliveryTag)
				}

				return nil
			})
		}
	}
}

// processMessage handles a single delivery. Malformed or invalid events
// are rejected without requeue so the broker can dead-letter them; store
// failures are requeued for redelivery.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.processMessage")
	defer span.End()

	slog.Info("Received message", "delivery_tag", msg.DeliveryTag)

	event, err := order.DecodeCreatedEvent(msg.Body)
	if err != nil {
		slog.Error("Failed to decode order-created event", "error", err)
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return err
	}

	if err := c.service.ProcessOrderCreated(ctx, event); err != nil {
		requeue := !errors.Is(err, order.ErrNegativeQuantity)
		slog.Error("Failed to process order-created event",
			"error", err,
			"order_id", event.OrderID,
			"requeue", requeue)
		if err := msg.Nack(false, requeue); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return err
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return err
	}

	slog.Info("Message processed successfully", "order_id", event.OrderID)

	return nil
}

// Shutdown gracefully shuts down the consumer.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down consumer")
	close(c.stop)

	// Wait for processing to finish with timeout
	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Consumer shutdown timeout")
	}

	return nil
}
