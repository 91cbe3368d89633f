package services

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// kioskOrderMessage is the payload self-service kiosks put on the intake
// queue. Items carry menu ids only; pricing happens here.
type kioskOrderMessage struct {
	IdempotencyKey uuid.UUID        `json:"idempotency_key"`
	CustomerName   string           `json:"customer_name"`
	CustomerEmail  string           `json:"customer_email"`
	CustomerPhone  string           `json:"customer_phone"`
	OrderType      string           `json:"order_type"`
	Items          []OrderItemInput `json:"items"`
	PaymentMethod  string           `json:"payment_method"`
}

// ProcessKioskOrder handles one order message from the kiosk intake queue.
// Returning nil completes the message; returning an error abandons it for
// redelivery. Malformed and duplicate messages are completed, retrying
// them cannot succeed differently.
func (s *OrderService) ProcessKioskOrder(ctx context.Context, message *azservicebus.ReceivedMessage) error {
	var msg kioskOrderMessage
	if err := json.Unmarshal(message.Body, &msg); err != nil {
		log.Error().Err(err).Str("message_id", message.MessageID).Msg("Dropping malformed kiosk order")
		return nil
	}

	if msg.IdempotencyKey == uuid.Nil {
		log.Error().Str("message_id", message.MessageID).Msg("Dropping kiosk order without idempotency key")
		return nil
	}

	priced, err := s.PriceItems(ctx, msg.Items)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNotFound) {
			log.Error().Err(err).Str("message_id", message.MessageID).Msg("Dropping unpriceable kiosk order")
			return nil
		}
		return err
	}

	key := msg.IdempotencyKey
	_, err = s.PlaceOrder(ctx, PlaceOrderInput{
		CustomerName:   msg.CustomerName,
		CustomerEmail:  msg.CustomerEmail,
		CustomerPhone:  msg.CustomerPhone,
		OrderType:      msg.OrderType,
		Items:          priced,
		PaymentMethod:  msg.PaymentMethod,
		IdempotencyKey: &key,
	})
	if err != nil {
		// A key collision means a redelivered message we already placed.
		if errors.Is(err, ErrConflict) {
			log.Info().Str("idempotency_key", key.String()).Msg("Kiosk order already placed, completing duplicate")
			return nil
		}
		if errors.Is(err, ErrInvalidArgument) {
			log.Error().Err(err).Str("message_id", message.MessageID).Msg("Dropping invalid kiosk order")
			return nil
		}
		return err
	}

	s.metrics.IncrementCounter("kiosk_orders_processed")
	return nil
}
