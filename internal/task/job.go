package task

import (
	"Go_Assets/internal/mq"
	"Go_Assets/internal/service"
	"context"
	"encoding/json"
	"fmt"
)

const (
	KindBlobCleanup = "blob_cleanup"
	KindShareNotify = "share_notify"
)

// Message is the payload sent to the worker.
type Message struct {
	Kind    string `json:"kind"`
	TaskID  uint64 `json:"task_id,omitempty"`
	GrantID string `json:"grant_id,omitempty"`
	Attempt int    `json:"attempt"`
}

// Publisher puts an encoded job on the queue.
type Publisher interface {
	PublishJob(ctx context.Context, body []byte) error
}

// Dispatcher publishes follow-up jobs for the service layer.
type Dispatcher struct {
	connect func() (Publisher, error)
}

var _ service.JobDispatcher = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher backed by the shared RabbitMQ publisher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{connect: func() (Publisher, error) {
		return mq.GetPublisher()
	}}
}

// NewDispatcherWith returns a dispatcher that publishes through p.
func NewDispatcherWith(p Publisher) *Dispatcher {
	return &Dispatcher{connect: func() (Publisher, error) { return p, nil }}
}

func (d *Dispatcher) EnqueueBlobCleanup(ctx context.Context, taskID uint64) error {
	return d.publish(ctx, Message{Kind: KindBlobCleanup, TaskID: taskID})
}

func (d *Dispatcher) EnqueueShareNotify(ctx context.Context, grantID string) error {
	return d.publish(ctx, Message{Kind: KindShareNotify, GrantID: grantID})
}

func (d *Dispatcher) publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	p, err := d.connect()
	if err != nil {
		return fmt.Errorf("connect publisher: %w", err)
	}
	return p.PublishJob(ctx, body)
}
