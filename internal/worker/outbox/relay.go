package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"commerce-core/internal/pkg/clock"
	"commerce-core/internal/pkg/config"
	"commerce-core/internal/pkg/metrics"
	"commerce-core/internal/usecase/shared"
)

// MessageTransport is the relay's delivery port. Implementations must be
// safe for concurrent use.
type MessageTransport interface {
	Send(ctx context.Context, topic, key string, payload []byte) error
}

// Relay polls the outbox table and pushes pending records to the transport.
// Delivery is at-least-once: the mark-processed write runs after the send,
// so a crash in between re-delivers on the next tick.
type Relay struct {
	outbox    shared.OutboxRepository
	transport MessageTransport
	cfg       config.OutboxConfig
	topic     string
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRelay(
	outbox shared.OutboxRepository,
	transport MessageTransport,
	cfg config.Config,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Relay {
	return &Relay{
		outbox:    outbox,
		transport: transport,
		cfg:       cfg.Outbox,
		topic:     cfg.Kafka.Topic,
		clock:     clk,
		metrics:   m,
		logger:    logger,
	}
}

func (r *Relay) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(2)
	go r.pollLoop(ctx)
	go r.purgeLoop(ctx)
}

func (r *Relay) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Relay) pollLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.DeliverBatch(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("outbox batch delivery failed", "error", err.Error())
			}
		}
	}
}

func (r *Relay) purgeLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := r.clock.Now().Add(-r.cfg.PurgeAge)
			purged, err := r.outbox.PurgeProcessedBefore(ctx, cutoff)
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Error("outbox purge failed", "error", err.Error())
				}
				continue
			}
			if purged > 0 {
				r.logger.Info("purged processed outbox records", "count", purged)
			}
		}
	}
}

// DeliverBatch fetches one batch of pending records and delivers them in
// creation order. Per-record failures mark that record and continue; only
// the fetch itself aborts the batch.
func (r *Relay) DeliverBatch(ctx context.Context) error {
	records, err := r.outbox.FetchUnprocessed(ctx, r.cfg.BatchSize, r.cfg.MaxRetry)
	if err != nil {
		return err
	}

	for i := range records {
		rec := &records[i]
		if err := r.deliver(ctx, rec); err != nil {
			r.markFailed(ctx, rec, err)
			continue
		}
		if err := r.outbox.MarkProcessed(ctx, rec.ID, r.clock.Now()); err != nil {
			r.logger.Error("failed to mark outbox record processed, will re-deliver",
				"record_id", rec.ID, "error", err.Error())
			continue
		}
		r.metrics.OutboxDelivered.Inc()
	}
	return nil
}

func (r *Relay) deliver(ctx context.Context, rec *shared.OutboxRecord) error {
	// Keyed by aggregate ID so one aggregate's events stay on one partition.
	return r.transport.Send(ctx, r.topic, rec.AggregateID.String(), rec.Payload)
}

func (r *Relay) markFailed(ctx context.Context, rec *shared.OutboxRecord, cause error) {
	r.logger.Warn("outbox delivery failed",
		"record_id", rec.ID,
		"event_type", rec.EventType,
		"retry_count", rec.RetryCount+1,
		"error", cause.Error())

	if err := r.outbox.MarkFailed(ctx, rec.ID, cause.Error()); err != nil {
		r.logger.Error("failed to record outbox delivery failure",
			"record_id", rec.ID, "error", err.Error())
		return
	}
	r.metrics.OutboxRetried.Inc()

	if rec.RetryCount+1 >= r.cfg.MaxRetry {
		r.metrics.OutboxDeadLetters.Inc()
		r.logger.Error("outbox record moved to dead letters",
			"record_id", rec.ID, "event_type", rec.EventType)
	}
}
