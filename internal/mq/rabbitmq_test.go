package mq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryExpiration(t *testing.T) {
	assert.Equal(t, "1500", RetryExpiration(1500*time.Millisecond))
	assert.Equal(t, "0", RetryExpiration(-time.Second))
}

func TestRetryQueueDeadLettersToJobs(t *testing.T) {
	var retry *binding
	for i := range topology {
		if topology[i].queue == QueueRetry {
			retry = &topology[i]
		}
	}
	if assert.NotNil(t, retry) {
		assert.Equal(t, ExchangeJobs, retry.args["x-dead-letter-exchange"])
		assert.Equal(t, RoutingJob, retry.args["x-dead-letter-routing-key"])
	}
	assert.Len(t, topology, 3)
}
