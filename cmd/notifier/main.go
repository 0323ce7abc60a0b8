package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/dvasilkov/skybook-go/internal/config"
	"github.com/dvasilkov/skybook-go/internal/kafka"
)

// The notifier drains the notifications topic and delivers each event.
// Delivery is a structured log line here; a real deployment would hand
// the event to an email or push gateway.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
	defer consumer.Close()

	logger.Info("notifier consuming", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.GroupID)

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.NotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode event", "error", err, "offset", msg.Offset)
			return nil
		}

		logger.Info("notification",
			"type", event.Type,
			"user_id", event.UserID,
			"booking_id", event.BookingID,
			"pnr", event.PNR,
			"flight_id", event.FlightID,
			"ticket_id", event.TicketID,
			"message", event.Message,
		)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
