// Package sqs is an aws sqs implementation of producer
package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"

	"github.com/Decentr-net/veil/internal/producer"
)

var _ producer.Producer = &impl{}

type impl struct {
	queueURL string
	sqs      sqsiface.SQSAPI
}

// New returns new instance of impl.
func New(sqs sqsiface.SQSAPI, queueURL string) *impl { // nolint:golint
	return &impl{
		sqs:      sqs,
		queueURL: queueURL,
	}
}

// Produce sends task to SQS.
func (i impl) Produce(ctx context.Context, t *producer.PermissionTask) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if _, err := i.sqs.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		MessageBody: aws.String(string(body)),
		QueueUrl:    &i.queueURL,
	}); err != nil {
		return fmt.Errorf("failed to send sqs message: %w", err)
	}

	return nil
}
