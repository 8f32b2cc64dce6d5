package queue

import (
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	DeliveryQueue = "Delivery"
)

// PostJob delivers Body to the inbox To, signed by the local actor From.
type PostJob struct {
	To   string
	From string
	Body map[string]any
}

func (j PostJob) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        DeliveryQueue,
		MaxAttempts: 5,
		Backoff:     30 * time.Second,
		Timeout:     20 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data: &backlite.RetainData{
				OnlyFailed: true,
			},
		},
	}
}
