package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSQSAPI struct {
	mock.Mock
}

func (m *mockSQSAPI) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

func TestSQSGatewaySend(t *testing.T) {
	email := Email{To: "b@x.com", Subject: "Delivery Started", HTML: "<p>on the way</p>"}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mockSQSAPI)
		gw := NewSQSGateway(mockClient, "https://sqs.test/queue")

		mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(input *sqs.SendMessageInput) bool {
			if *input.QueueUrl != "https://sqs.test/queue" {
				return false
			}
			var queued Email
			if err := json.Unmarshal([]byte(*input.MessageBody), &queued); err != nil {
				return false
			}
			return queued == email
		})).Return(&sqs.SendMessageOutput{}, nil)

		err := gw.Send(context.Background(), email)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Send Fails", func(t *testing.T) {
		mockClient := new(mockSQSAPI)
		gw := NewSQSGateway(mockClient, "https://sqs.test/queue")

		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("queue unavailable"))

		err := gw.Send(context.Background(), email)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send email message to SQS")
		mockClient.AssertExpectations(t)
	})
}
