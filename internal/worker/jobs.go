package worker

import (
	"context"

	"github.com/vytor/banishment/internal/events"
	"github.com/vytor/banishment/internal/metrics"
)

// PublishEventJob hands one gauntlet event to a sink off the request path.
type PublishEventJob struct {
	Sink    events.Sink
	Event   events.Event
	Metrics *metrics.Metrics
}

func (j *PublishEventJob) Name() string { return "publish_" + string(j.Event.Type) }

func (j *PublishEventJob) Run(ctx context.Context) error {
	err := j.Sink.Publish(ctx, j.Event)
	j.Metrics.EventPublished(string(j.Event.Type), err)
	return err
}
