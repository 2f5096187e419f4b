package integration

import (
	"context"
	"time"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/worker"
	"github.com/rs/zerolog"
)

type AsyncNotifier struct {
	next    EventNotifier
	pool    *worker.WorkerPool
	timeout time.Duration
	logger  zerolog.Logger
}

// NewAsyncNotifier hands events to next on a worker pool so callers never
// wait on the broker. Close drains pending events before closing next.
func NewAsyncNotifier(next EventNotifier, workers, queueSize int, timeout time.Duration, logger zerolog.Logger) *AsyncNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	pool := worker.NewWorkerPool(workers, queueSize, logger)
	pool.Start()

	return &AsyncNotifier{
		next:    next,
		pool:    pool,
		timeout: timeout,
		logger:  logger,
	}
}

func (n *AsyncNotifier) Publish(_ context.Context, event *models.EvaluationEvent) error {
	ev := *event

	return n.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.next.Publish(ctx, &ev); err != nil {
			n.logger.Error().
				Err(err).
				Str("event_id", ev.ID).
				Str("event_type", string(ev.Type)).
				Msg("Failed to deliver evaluation event")
		}
	})
}

// Pending reports how many events are queued and not yet picked up by a worker.
func (n *AsyncNotifier) Pending() int {
	return n.pool.QueueLength()
}

func (n *AsyncNotifier) Close() error {
	n.pool.Stop()
	return n.next.Close()
}
