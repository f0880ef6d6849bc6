package worker

import (
	"Go_Assets/config"
	"Go_Assets/internal/mq"
	"Go_Assets/internal/repo"
	"Go_Assets/internal/task"
	"Go_Assets/model"
	"Go_Assets/pkg/logger"
	"Go_Assets/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

var errUnknownKind = errors.New("unknown job kind")

type dlqMessage struct {
	task.Message
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// retryPublisher is the part of the broker client the failure path needs.
type retryPublisher interface {
	PublishRetry(ctx context.Context, body []byte, delay time.Duration) error
	PublishDLQ(ctx context.Context, body []byte) error
}

// RunJobWorker consumes background jobs from RabbitMQ until ctx is done.
func RunJobWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(mq.QueueJobs, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.JobConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	limiter := newLimiter(config.AppConfig.JobRate, config.AppConfig.JobBurst)

	logger.Log.Info().Int("concurrency", concurrency).Int("prefetch", prefetch).Msg("job worker started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("job worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleDelivery(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if burst <= 0 {
		burst = 1
	}
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func handleDelivery(ctx context.Context, client retryPublisher, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg task.Message
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		logger.Log.Warn().Err(err).Msg("job worker: invalid message")
		_ = delivery.Ack(false)
		return
	}

	if err := limiter.Wait(ctx); err != nil {
		_ = delivery.Nack(false, true)
		return
	}

	if requeue := processMessage(ctx, client, msg); requeue {
		_ = delivery.Nack(false, true)
		return
	}
	_ = delivery.Ack(false)
}

// processMessage runs one job and routes failures to retry or DLQ.
// It reports whether the delivery should go back to the queue as is.
func processMessage(ctx context.Context, client retryPublisher, msg task.Message) bool {
	err := process(ctx, msg)
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	logger.Log.Warn().Err(err).Str("kind", msg.Kind).Int("attempt", msg.Attempt).Msg("job failed")
	if shouldRetry(err) {
		if err := scheduleRetry(ctx, client, msg, err); err != nil {
			logger.Log.Error().Err(err).Msg("job worker: retry schedule failed")
			return true
		}
		return false
	}
	if err := markFailed(ctx, client, msg, err); err != nil {
		logger.Log.Error().Err(err).Msg("job worker: mark failed failed")
		return true
	}
	return false
}

func process(ctx context.Context, msg task.Message) error {
	switch msg.Kind {
	case task.KindBlobCleanup:
		return task.ProcessBlobCleanup(ctx, msg.TaskID)
	case task.KindShareNotify:
		return task.ProcessShareNotify(ctx, msg.GrantID)
	default:
		return fmt.Errorf("%w: %q", errUnknownKind, msg.Kind)
	}
}

func shouldRetry(err error) bool {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, utils.ErrSMTPNotConfigured),
		errors.Is(err, errUnknownKind):
		return false
	}
	return true
}

func scheduleRetry(ctx context.Context, client retryPublisher, msg task.Message, procErr error) error {
	maxRetry := config.AppConfig.JobRetryMax
	if maxRetry < 0 {
		maxRetry = 0
	}
	nextAttempt := msg.Attempt + 1
	if maxRetry == 0 || nextAttempt > maxRetry {
		return markFailed(ctx, client, msg, procErr)
	}

	delay := pickRetryDelay(nextAttempt, config.AppConfig.JobRetryDelays)
	if msg.Kind == task.KindBlobCleanup {
		nextRetryAt := time.Now().Add(delay)
		if err := repo.Db.Model(&model.BlobCleanupTask{}).
			Where("id = ?", msg.TaskID).
			Updates(map[string]interface{}{
				"status":        model.CleanupStatusRetrying,
				"error_msg":     procErr.Error(),
				"retry_count":   nextAttempt,
				"next_retry_at": &nextRetryAt,
			}).Error; err != nil {
			return err
		}
	}

	msg.Attempt = nextAttempt
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return client.PublishRetry(ctx, body, delay)
}

func markFailed(ctx context.Context, client retryPublisher, msg task.Message, procErr error) error {
	failedAt := time.Now()
	if msg.Kind == task.KindBlobCleanup {
		if err := repo.Db.Model(&model.BlobCleanupTask{}).
			Where("id = ?", msg.TaskID).
			Updates(map[string]interface{}{
				"status":      model.CleanupStatusFailed,
				"error_msg":   procErr.Error(),
				"finished_at": &failedAt,
			}).Error; err != nil {
			return err
		}
	}

	body, err := json.Marshal(dlqMessage{Message: msg, Error: procErr.Error(), FailedAt: failedAt})
	if err != nil {
		return err
	}
	if err := client.PublishDLQ(ctx, body); err != nil {
		logger.Log.Error().Err(err).Str("kind", msg.Kind).Msg("job worker: dlq publish failed")
	}
	return nil
}

func pickRetryDelay(attempt int, delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	index := attempt - 1
	if index < 0 {
		index = 0
	}
	if index >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[index]
}
