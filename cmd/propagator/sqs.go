package main

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awssqs "github.com/aws/aws-sdk-go/service/sqs"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/cache"
	"github.com/Decentr-net/veil/internal/consumer"
	"github.com/Decentr-net/veil/internal/consumer/sqs"
	"github.com/Decentr-net/veil/internal/gateway"
)

type SQSOpts struct {
	SQSRegion         string        `long:"sqs.region" env:"SQS_REGION" default:"" description:"sqs region"`
	SQSAccessKeyID    string        `long:"sqs.access-key-id" env:"SQS_ACCESS_KEY_ID" description:"access key id for SQS"`
	SQSecretAccessKey string        `long:"sqs.secret-access-key" env:"SQS_SECRET_ACCESS_KEY" description:"secret access key for SQS"`
	SQSQueue          string        `long:"sqs.queue" env:"SQS_QUEUE" required:"true" description:"SQS queue name of permission tasks"`
	SQSBulkSize       uint          `long:"sqs.bulk-size" env:"SQS_BULK_SIZE" default:"10" description:"max count of messages received at once"`
	SQSTaskTimeout    time.Duration `long:"sqs.task-timeout" env:"SQS_TASK_TIMEOUT" default:"10s" description:"timeout of a single permission task"`
}

func mustGetConsumer(gw gateway.Gateway, bus cache.Bus) consumer.Consumer {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(opts.SQSRegion),
		Credentials: credentials.NewStaticCredentials(opts.SQSAccessKeyID, opts.SQSecretAccessKey, ""),
	}))

	c := awssqs.New(sess)
	queue, err := c.GetQueueUrl(&awssqs.GetQueueUrlInput{
		QueueName: &opts.SQSQueue,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to get queue url")
	}

	return sqs.New(gw, bus, c, sqs.Config{
		QueueURL: *queue.QueueUrl,
		BulkSize: opts.SQSBulkSize,
		Timeout:  opts.SQSTaskTimeout,
	})
}
