package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/upright/escrow/pkg/notify"
)

type handler struct {
	gateway notify.Gateway
}

// HandleRequest delivers each queued email through the mail relay. Failed
// deliveries are reported as partial batch item failures so SQS redelivers
// only those records, never the emails that already went out.
func (h handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var failures []events.SQSBatchItemFailure

	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var email notify.Email
		if err := json.Unmarshal([]byte(message.Body), &email); err != nil {
			// A malformed body will never parse on redelivery, so drop it.
			log.Printf("ERROR: failed to unmarshal email from SQS message %s: %v", message.MessageId, err)
			continue
		}

		if err := h.gateway.Send(ctx, email); err != nil {
			log.Printf("ERROR: failed to deliver email to %s: %v", email.To, err)
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}

		log.Printf("Successfully delivered email to %s", email.To)
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	endpoint := os.Getenv("MAIL_RELAY_URL")
	if endpoint == "" {
		log.Fatal("MAIL_RELAY_URL environment variable not set")
	}

	h := handler{gateway: notify.NewHTTPRelay(endpoint, os.Getenv("MAIL_RELAY_API_KEY"))}
	lambda.Start(h.HandleRequest)
}
