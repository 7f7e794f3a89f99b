//go:build unit

package outbox_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"commerce-core/internal/pkg/clock"
	"commerce-core/internal/pkg/config"
	"commerce-core/internal/pkg/errs"
	"commerce-core/internal/pkg/metrics"
	"commerce-core/internal/usecase/shared"
	outboxworker "commerce-core/internal/worker/outbox"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type memOutbox struct {
	mu      sync.Mutex
	records []*shared.OutboxRecord
}

func (m *memOutbox) Append(_ context.Context, rec *shared.OutboxRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *memOutbox) FetchUnprocessed(_ context.Context, limit, maxRetry int) ([]shared.OutboxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []shared.OutboxRecord
	for _, rec := range m.records {
		if !rec.Processed && rec.RetryCount < maxRetry {
			out = append(out, *rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memOutbox) MarkProcessed(_ context.Context, id uuid.UUID, processedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == id {
			rec.Processed = true
			rec.ProcessedAt = &processedAt
			return nil
		}
	}
	return errs.New("record not found")
}

func (m *memOutbox) MarkFailed(_ context.Context, id uuid.UUID, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == id {
			rec.RetryCount++
			rec.ErrorMessage = &errorMessage
			return nil
		}
	}
	return errs.New("record not found")
}

func (m *memOutbox) ListDeadLetters(_ context.Context, maxRetry, limit int) ([]shared.OutboxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []shared.OutboxRecord
	for _, rec := range m.records {
		if !rec.Processed && rec.RetryCount >= maxRetry {
			out = append(out, *rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memOutbox) PurgeProcessedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*shared.OutboxRecord
	var purged int64
	for _, rec := range m.records {
		if rec.Processed && rec.ProcessedAt != nil && rec.ProcessedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, rec)
	}
	m.records = kept
	return purged, nil
}

type sent struct {
	topic   string
	key     string
	payload []byte
}

// flakyTransport fails the first failures deliveries, then succeeds.
type flakyTransport struct {
	mu       sync.Mutex
	failures int
	sent     []sent
}

func (f *flakyTransport) Send(_ context.Context, topic, key string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errs.New("broker unreachable")
	}
	f.sent = append(f.sent, sent{topic, key, payload})
	return nil
}

type relayEnv struct {
	repo      *memOutbox
	transport *flakyTransport
	metrics   *metrics.Metrics
	relay     *outboxworker.Relay
}

func newRelayEnv(t *testing.T, maxRetry int) *relayEnv {
	t.Helper()

	cfg := config.NewTestConfig()
	cfg.Outbox.MaxRetry = maxRetry
	cfg.Kafka = config.KafkaConfig{Topic: "order-events"}

	repo := &memOutbox{}
	transport := &flakyTransport{}
	m := metrics.New(prometheus.NewRegistry())

	relay := outboxworker.NewRelay(
		repo,
		transport,
		cfg,
		clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		m,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &relayEnv{repo: repo, transport: transport, metrics: m, relay: relay}
}

func appendRecord(t *testing.T, repo *memOutbox) *shared.OutboxRecord {
	t.Helper()
	rec := shared.NewOutboxRecord(shared.AggregateOrder, uuid.New(), shared.EventOrderCompleted, []byte(`{"final_cents":1000}`))
	require.NoError(t, repo.Append(context.Background(), rec))
	return rec
}

func TestDeliverBatch_MarksProcessed(t *testing.T) {
	env := newRelayEnv(t, 3)
	rec := appendRecord(t, env.repo)

	require.NoError(t, env.relay.DeliverBatch(context.Background()))

	require.Len(t, env.transport.sent, 1)
	require.Equal(t, "order-events", env.transport.sent[0].topic)
	require.Equal(t, rec.AggregateID.String(), env.transport.sent[0].key)

	stored := env.repo.records[0]
	require.True(t, stored.Processed)
	require.NotNil(t, stored.ProcessedAt)
	require.Equal(t, float64(1), testutil.ToFloat64(env.metrics.OutboxDelivered))

	// Nothing left to deliver.
	require.NoError(t, env.relay.DeliverBatch(context.Background()))
	require.Len(t, env.transport.sent, 1)
}

func TestDeliverBatch_RetriesAfterFailure(t *testing.T) {
	env := newRelayEnv(t, 3)
	appendRecord(t, env.repo)
	env.transport.failures = 1

	require.NoError(t, env.relay.DeliverBatch(context.Background()))

	stored := env.repo.records[0]
	require.False(t, stored.Processed)
	require.Equal(t, 1, stored.RetryCount)
	require.NotNil(t, stored.ErrorMessage)
	require.Contains(t, *stored.ErrorMessage, "broker unreachable")
	require.Equal(t, float64(1), testutil.ToFloat64(env.metrics.OutboxRetried))

	// Next tick succeeds and clears the backlog.
	require.NoError(t, env.relay.DeliverBatch(context.Background()))
	require.True(t, env.repo.records[0].Processed)
	require.Len(t, env.transport.sent, 1)
}

func TestDeliverBatch_DeadLetterAfterMaxRetry(t *testing.T) {
	env := newRelayEnv(t, 2)
	appendRecord(t, env.repo)
	env.transport.failures = 10

	for i := 0; i < 5; i++ {
		require.NoError(t, env.relay.DeliverBatch(context.Background()))
	}

	// Two attempts were made, then the record fell out of the fetch window.
	stored := env.repo.records[0]
	require.False(t, stored.Processed)
	require.Equal(t, 2, stored.RetryCount)
	require.True(t, stored.DeadLetter(2))
	require.Equal(t, float64(1), testutil.ToFloat64(env.metrics.OutboxDeadLetters))

	letters, err := env.repo.ListDeadLetters(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, letters, 1)
}

func TestDeliverBatch_PerRecordFailureDoesNotBlockOthers(t *testing.T) {
	env := newRelayEnv(t, 3)
	appendRecord(t, env.repo)
	appendRecord(t, env.repo)
	env.transport.failures = 1

	require.NoError(t, env.relay.DeliverBatch(context.Background()))

	// First record failed, second was still delivered.
	require.Len(t, env.transport.sent, 1)
	require.Equal(t, 1, env.repo.records[0].RetryCount)
	require.True(t, env.repo.records[1].Processed)
}
