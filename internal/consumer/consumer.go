// Package consumer contains interface of permission tasks consumer.
package consumer

import (
	"context"
)

// Consumer consumes permission tasks and applies them.
type Consumer interface {
	Run(ctx context.Context) error
}
