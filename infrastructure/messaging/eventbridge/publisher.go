// Package eventbridge publishes integration events to an EventBridge bus.
package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
)

const eventSource = "exercisely.api"

// Publisher implements the EventPublisher port on an EventBridge bus.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a new Publisher.
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends one event with a JSON detail payload.
func (p *Publisher) Publish(ctx context.Context, eventType string, detail any) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal event detail: %w", err)
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(eventType),
				Detail:       aws.String(string(payload)),
			},
		},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			p.logger.Error("event bus call failed",
				zap.String("type", eventType),
				zap.String("code", apiErr.ErrorCode()),
			)
		}
		return fmt.Errorf("failed to put event: %w", err)
	}
	if result.FailedEntryCount > 0 {
		return fmt.Errorf("event bus rejected %d entries", result.FailedEntryCount)
	}

	p.logger.Debug("event published", zap.String("type", eventType))
	return nil
}
