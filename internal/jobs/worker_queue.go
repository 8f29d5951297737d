package jobs

import (
	"github.com/vytor/banishment/internal/events"
	"github.com/vytor/banishment/internal/metrics"
	"github.com/vytor/banishment/internal/worker"
)

// WorkerQueue implements EventQueue using a worker pool
type WorkerQueue struct {
	pool    *worker.Pool
	sink    events.Sink
	metrics *metrics.Metrics
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, sink events.Sink, m *metrics.Metrics) EventQueue {
	return &WorkerQueue{pool: pool, sink: sink, metrics: m}
}

func (q *WorkerQueue) Enqueue(e events.Event) error {
	return q.pool.Submit(&worker.PublishEventJob{
		Sink:    q.sink,
		Event:   e,
		Metrics: q.metrics,
	})
}
