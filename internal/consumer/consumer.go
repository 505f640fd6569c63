package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"medifinder/internal/config"
	"medifinder/internal/entity"
	"medifinder/internal/service"
)

// Consumer turns order events into pharmacy dashboard notifications.
type Consumer struct {
	notificationSvc *service.NotificationService
}

func NewConsumer(notificationSvc *service.NotificationService) *Consumer {
	return &Consumer{notificationSvc: notificationSvc}
}

// StartKafkaConsumer starts a Kafka consumer to listen for order events
func (c *Consumer) StartKafkaConsumer() {
	orderReader := config.NewKafkaReader("order-topic", "notification-service-group")

	for {
		// Read message from order topic
		ctx := context.Background()
		msg, err := orderReader.ReadMessage(ctx)
		if err != nil {
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		// Process message
		c.processMessage(ctx, msg.Key, msg.Value)
	}
}

// processMessage processes the message received from the Kafka topic
func (c *Consumer) processMessage(ctx context.Context, key, value []byte) {
	// Unmarshal the message payload
	var order entity.Order

	if err := json.Unmarshal(value, &order); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	// key -> "order.created.ORD-..." or "order.status.ORD-..."
	listKey := strings.Split(string(key), ".")
	if len(listKey) < 3 {
		log.Error().Msgf("Malformed event key: %s", key)
		return
	}
	eventType := listKey[1]

	var message string
	switch eventType {
	case "created":
		message = fmt.Sprintf("New order %s from %s", order.ID, order.CustomerName)
	case "status":
		message = fmt.Sprintf("Order %s is now %s", order.ID, order.Status)
	case "prescription":
		message = fmt.Sprintf("Prescription for order %s was %s", order.ID, order.Status)
	default:
		log.Error().Msgf("Unknown order event type: %s", eventType)
		return
	}

	if err := c.notificationSvc.Record(ctx, order.PharmacyID, order.ID, message); err != nil {
		log.Error().Msgf("Error recording notification for order %s: %v", order.ID, err)
	}
}
