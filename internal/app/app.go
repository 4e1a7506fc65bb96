package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/backend-labs/orderms/internal/dal/postgres"
	orderrepo "github.com/backend-labs/orderms/internal/dal/repositories/order/postgres"
	"github.com/backend-labs/orderms/internal/otel"
	"github.com/backend-labs/orderms/internal/rabbitmq"
	"github.com/backend-labs/orderms/internal/service/services/ingestsvc"
	"github.com/backend-labs/orderms/internal/service/services/querysvc"
	"github.com/backend-labs/orderms/internal/transport/consumer"
	httptransport "github.com/backend-labs/orderms/internal/transport/http"
)

// App represents the application.
type App struct {
	ingestSvc      *ingestsvc.IngestService
	querySvc       *querysvc.QueryService
	consumerTransp *consumer.Consumer
	httpTransp     *httptransport.HTTPTransport
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application. All collaborators are wired
// explicitly here: repositories into services, services into transports.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	rabbitMqClient := rabbitmq.MustNewClient()
	postgresClient := postgres.MustNewClient()

	orderRepository := orderrepo.NewOrderRepository(postgresClient)

	ingestSvc := ingestsvc.MustNewIngestService(
		ingestsvc.WithOrderRepository(orderRepository),
	)

	querySvc := querysvc.MustNewQueryService(
		querysvc.WithOrderRepository(orderRepository),
	)

	consumerTransp := consumer.NewConsumer(rabbitMqClient, ingestSvc)

	httpTransp := httptransport.NewHTTPTransport(querySvc)
	httpTransp.RegisterRoutes()

	return &App{
		ingestSvc:      ingestSvc,
		querySvc:       querySvc,
		consumerTransp: consumerTransp,
		httpTransp:     httpTransp,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting consumer")
		if err := a.consumerTransp.Run(ctx); err != nil {
			slog.Error("Consumer error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.httpTransp.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown performs graceful shutdown of all application components.
// Components stop in dependency order: consumer, HTTP server, RabbitMQ,
// PostgreSQL, and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.consumerTransp.Shutdown(); err != nil {
		slog.Error("Consumer shutdown error", "error", err)
	} else {
		slog.Info("Consumer stopped gracefully")
	}

	if err := a.httpTransp.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
