package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI defines the subset of the SQS client used by the gateway, so tests
// can substitute a mock.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSGateway implements Gateway by enqueueing each email for asynchronous
// delivery by the notifier Lambda.
type SQSGateway struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSGateway creates a new SQSGateway.
func NewSQSGateway(client SQSAPI, queueURL string) *SQSGateway {
	return &SQSGateway{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Gateway = (*SQSGateway)(nil)

// Send enqueues the email as a JSON message.
func (g *SQSGateway) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to marshal email for SQS: %w", err)
	}

	_, err = g.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(g.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send email message to SQS: %w", err)
	}

	return nil
}
