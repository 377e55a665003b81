package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"vivare/config"
	"vivare/gateway"
	"vivare/services/session"
	"vivare/services/tasks"

	"github.com/hibiken/asynq"
)

// InitSweepWorker runs the async worker in background. It processes deferred
// session sweeps: once a hold deadline or the record TTL has passed, the
// checkout is re-fetched and records pointing at dead attempts are cleared.
func InitSweepWorker(store session.Store, api gateway.CheckoutAPI) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSessionSweep, handleSweepTask(store, api))

	// Start async worker with retry logic
	go func() {
		log.Println("[SweepWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleSweepTask(store session.Store, api gateway.CheckoutAPI) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SweepPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[SweepHandler] invalid payload: %v", err)
			return err
		}

		checkout, err := api.GetCheckout(ctx, p.CheckoutID)
		if err != nil {
			if gateway.IsNotFound(err) {
				return store.Clear(ctx, p.DeviceID, p.ListingID)
			}
			// Backend hiccup; let asynq retry the task.
			return err
		}

		if checkout.State.Terminal() {
			log.Printf("[SweepHandler] clearing session record for terminal checkout %s (%s)", p.CheckoutID, checkout.State)
			return store.Clear(ctx, p.DeviceID, p.ListingID)
		}
		return nil
	}
}
