// Package sqs is an aws sqs implementation of consumer
package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/cache"
	"github.com/Decentr-net/veil/internal/consumer"
	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/producer"
)

var _ consumer.Consumer = &impl{}

var log = logrus.WithField("package", "sqs")

// nolint:gochecknoglobals
var (
	// how long the message is locked from other consumers in seconds
	visibilityTimeout int64 = 30
	// how long consumer will wait for the next messages in seconds
	waitTimeSeconds int64 = 20
	// pause after failed receive
	receiveBackoff = 5 * time.Second
)

const routines = 8

// Config ...
type Config struct {
	QueueURL string
	BulkSize uint
	// Timeout bounds a single gateway call.
	Timeout time.Duration
}

type impl struct {
	gw  gateway.Gateway
	bus cache.Bus

	sqs      sqsiface.SQSAPI
	queueURL string
	bulkSize uint
	timeout  time.Duration
}

// New return new instance of impl. Bus is optional.
func New(gw gateway.Gateway, bus cache.Bus, sqs sqsiface.SQSAPI, cfg Config) *impl { // nolint:golint
	return &impl{
		gw:       gw,
		bus:      bus,
		sqs:      sqs,
		queueURL: cfg.QueueURL,
		bulkSize: cfg.BulkSize,
		timeout:  cfg.Timeout,
	}
}

// Run consumes permission tasks from SQS and applies them on the gateway.
func (i *impl) Run(ctx context.Context) error {
	var maxNumberOfMessages *int64
	if i.bulkSize > 0 {
		v := int64(i.bulkSize)
		maxNumberOfMessages = &v
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		out, err := i.sqs.ReceiveMessageWithContext(ctx, &sqs.ReceiveMessageInput{
			MaxNumberOfMessages: maxNumberOfMessages,
			QueueUrl:            &i.queueURL,
			VisibilityTimeout:   &visibilityTimeout,
			WaitTimeSeconds:     &waitTimeSeconds,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			log.WithError(err).Error("failed to receive messages")

			select {
			case <-ctx.Done():
			case <-time.After(receiveBackoff):
			}
			continue
		}

		if err := i.processMessages(ctx, out.Messages); err != nil {
			log.WithError(err).Error("failed to process messages")
		}
	}
}

func (i *impl) processMessages(ctx context.Context, msgs []*sqs.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	var (
		toDelete []*sqs.DeleteMessageBatchRequestEntry
		mu       sync.Mutex
	)

	parallel(routines, func(m *sqs.Message) {
		if !i.processMessage(ctx, m) {
			return
		}

		mu.Lock()
		toDelete = append(toDelete, &sqs.DeleteMessageBatchRequestEntry{
			Id:            m.MessageId,
			ReceiptHandle: m.ReceiptHandle,
		})
		mu.Unlock()
	}, msgs)

	if len(toDelete) == 0 {
		return nil
	}

	if _, err := i.sqs.DeleteMessageBatchWithContext(ctx, &sqs.DeleteMessageBatchInput{
		Entries:  toDelete,
		QueueUrl: &i.queueURL,
	}); err != nil {
		return fmt.Errorf("failed to delete messages from sqs: %w", err)
	}

	return nil
}

// processMessage returns true when the message shouldn't be delivered again.
func (i *impl) processMessage(ctx context.Context, m *sqs.Message) bool {
	if m.Body == nil {
		log.WithField("id", m.MessageId).Error("empty message")
		return true
	}

	var t producer.PermissionTask
	if err := json.Unmarshal([]byte(*m.Body), &t); err != nil {
		log.WithError(err).WithField("body", *m.Body).Error("failed to unmarshal message")
		return true
	}

	l := log.WithFields(logrus.Fields{
		"subject":  t.SubjectID,
		"observer": t.ObserverID,
		"policy":   t.PolicyID,
		"action":   t.Action,
	})

	if t.PolicyID == "" || t.ObserverID == "" || !t.Action.IsValid() {
		l.Error("malformed task")
		return true
	}

	if err := i.apply(ctx, &t); err != nil {
		if errors.Is(err, gateway.ErrUnavailable) {
			l.WithError(err).Warn("failed to apply task, leave it for redelivery")
			return false
		}

		l.WithError(err).Error("failed to apply task")
		return true
	}

	l.Debug("task applied")

	if i.bus != nil {
		if err := i.bus.Publish(ctx, cache.PairKeys(t.SubjectID, t.ObserverID)...); err != nil {
			l.WithError(err).Error("failed to publish invalidation")
		}
	}

	return true
}

func (i *impl) apply(ctx context.Context, t *producer.PermissionTask) error {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	switch t.Action {
	case entities.PermissionGrant:
		return i.gw.GrantAccess(ctx, t.PolicyID, t.ObserverID)
	default:
		return i.gw.RevokeAccess(ctx, t.PolicyID, t.ObserverID)
	}
}

func parallel(routines int, f func(m *sqs.Message), batch []*sqs.Message) {
	var wg sync.WaitGroup

	ch := make(chan *sqs.Message)

	for i := 0; i < routines; i++ {
		wg.Add(1)

		go func() {
			for m := range ch {
				f(m)
			}
			wg.Done()
		}()
	}

	for _, v := range batch {
		ch <- v
	}
	close(ch)

	wg.Wait()
}
