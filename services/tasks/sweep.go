package tasks

import (
	"context"
	"encoding/json"
	"time"

	"vivare/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSessionSweep = "checkout:session:sweep"

// SweepPayload identifies one session record whose checkout may have lapsed.
type SweepPayload struct {
	DeviceID   string `json:"deviceId"`
	ListingID  string `json:"listingId"`
	CheckoutID string `json:"checkoutId"`
}

// NewSessionSweepTask builds a deferred sweep task.
func NewSessionSweepTask(payload SweepPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionSweep, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	return task, opts, nil
}

// SweepScheduler enqueues session sweeps on the shared queue. It satisfies
// the checkout package's ExpiryScheduler.
type SweepScheduler struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewSweepScheduler(logger *zap.Logger) *SweepScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &SweepScheduler{client: client, logger: logger}
}

// ScheduleSweep queues a sweep for the given session record at the given time.
func (s *SweepScheduler) ScheduleSweep(ctx context.Context, deviceID, listingID, checkoutID string, at time.Time) error {
	task, opts, err := NewSessionSweepTask(SweepPayload{
		DeviceID:   deviceID,
		ListingID:  listingID,
		CheckoutID: checkoutID,
	}, at)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return err
	}
	s.logger.Debug("session sweep scheduled",
		zap.String("checkoutId", checkoutID),
		zap.Time("at", at),
	)
	return nil
}

// Close releases the queue client.
func (s *SweepScheduler) Close() error {
	return s.client.Close()
}
