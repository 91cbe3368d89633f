package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/rs/zerolog/log"

	"github.com/Princeshukla16/Brew-Haven-Cafe-sub000/config"
)

// ServiceBusClient is an interface for Azure Service Bus send operations
type ServiceBusClient interface {
	SendMessage(ctx context.Context, body interface{}, sessionID string) error
	Close() error
}

// serviceBusClient implements the ServiceBusClient interface
type serviceBusClient struct {
	client     *azservicebus.Client
	sender     *azservicebus.Sender
	queueName  string
	clientType string
}

// mockServiceBusClient is a no-op implementation for local development
type mockServiceBusClient struct {
	clientType string
}

// NewServiceBusClient creates a new Azure Service Bus sender for the given
// queue. Without a connection string a logging mock is returned so local
// runs work without Azure.
func NewServiceBusClient(cfg config.AzureConfig, queueName, clientType string) (ServiceBusClient, error) {
	if cfg.ConnectionString == "" {
		return &mockServiceBusClient{clientType: clientType}, nil
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus client: %w", err)
	}

	sender, err := client.NewSender(queueName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus sender: %w", err)
	}

	return &serviceBusClient{
		client:     client,
		sender:     sender,
		queueName:  queueName,
		clientType: clientType,
	}, nil
}

// SendMessage sends a message to the Service Bus queue
func (s *serviceBusClient) SendMessage(ctx context.Context, body interface{}, sessionID string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message body: %w", err)
	}

	msg := &azservicebus.Message{
		Body: data,
		ApplicationProperties: map[string]interface{}{
			"source": s.clientType,
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	}
	if sessionID != "" {
		msg.SessionID = &sessionID
	}

	return s.sender.SendMessage(ctx, msg, nil)
}

// Close closes the Service Bus client
func (s *serviceBusClient) Close() error {
	if s.sender != nil {
		if err := s.sender.Close(context.Background()); err != nil {
			return err
		}
	}

	if s.client != nil {
		return s.client.Close(context.Background())
	}

	return nil
}

// SendMessage implementation for mock client
func (m *mockServiceBusClient) SendMessage(ctx context.Context, body interface{}, sessionID string) error {
	log.Debug().
		Str("client", m.clientType).
		Str("session_id", sessionID).
		Interface("body", body).
		Msg("Service Bus disabled, dropping message")
	return nil
}

// Close implementation for mock client
func (m *mockServiceBusClient) Close() error {
	return nil
}

// MessageHandler processes one received Service Bus message
type MessageHandler func(ctx context.Context, message *azservicebus.ReceivedMessage) error

// Receiver consumes messages from a Service Bus queue
type Receiver struct {
	client    *azservicebus.Client
	receiver  *azservicebus.Receiver
	queueName string
}

// NewReceiver creates a new queue receiver
func NewReceiver(cfg config.AzureConfig, queueName string) (*Receiver, error) {
	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("Azure Service Bus connection string is empty")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus client: %w", err)
	}

	receiver, err := client.NewReceiverForQueue(queueName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus receiver: %w", err)
	}

	return &Receiver{
		client:    client,
		receiver:  receiver,
		queueName: queueName,
	}, nil
}

// ProcessMessages receives and dispatches messages until the context is
// cancelled. Handler failures abandon the message for redelivery.
func (r *Receiver) ProcessMessages(ctx context.Context, handle MessageHandler) error {
	for {
		messages, err := r.receiver.ReceiveMessages(ctx, 10, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to receive messages: %w", err)
		}

		for _, message := range messages {
			if err := handle(ctx, message); err != nil {
				log.Error().
					Err(err).
					Str("queue", r.queueName).
					Str("message_id", message.MessageID).
					Msg("Failed to process message, abandoning")
				if abandonErr := r.receiver.AbandonMessage(ctx, message, nil); abandonErr != nil {
					log.Error().Err(abandonErr).Msg("Failed to abandon message")
				}
				continue
			}

			if err := r.receiver.CompleteMessage(ctx, message, nil); err != nil {
				log.Error().Err(err).Msg("Failed to complete message")
			}
		}
	}
}

// Close closes the receiver and its client
func (r *Receiver) Close() error {
	if r.receiver != nil {
		if err := r.receiver.Close(context.Background()); err != nil {
			return err
		}
	}

	if r.client != nil {
		return r.client.Close(context.Background())
	}

	return nil
}
