package canary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YieldSense/internal/domain/models"
	pcache "YieldSense/pkg/cache"
	"YieldSense/pkg/metrics"
)

type recordingSink struct{ alerts []ProbeAlert }

func (r *recordingSink) Send(_ context.Context, a ProbeAlert) error {
	r.alerts = append(r.alerts, a)
	return nil
}

type recordingPublisher struct {
	topic   string
	payload interface{}
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.topic, p.payload = topic, payload
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, "canary:probe:sol:usdc", Key(models.TokenSOL, models.TokenUSDC))
	assert.Equal(t, Key(models.TokenSOL, models.TokenUSDC), Key(models.TokenUSDC, models.TokenSOL))
}

func TestObserveFlagsAfterThreshold(t *testing.T) {
	mem := pcache.NewMemoryCache()
	defer mem.Close()
	sink := &recordingSink{}
	d := New(mem, WithSink(sink), WithMetrics(metrics.NewWithRegistry(prometheus.NewRegistry())))

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		a, b := models.TokenSOL, models.TokenUSDC
		if i%2 == 1 {
			a, b = b, a
		}
		assert.False(t, d.Observe(ctx, a, b), "request %d", i+1)
	}
	assert.True(t, d.Observe(ctx, models.TokenUSDC, models.TokenSOL))

	require.Len(t, sink.alerts, 1)
	assert.Equal(t, "sol:usdc", sink.alerts[0].Pair)
	assert.Equal(t, int64(21), sink.alerts[0].Count)
	assert.NotEmpty(t, sink.alerts[0].ID)
}

func TestObserveSetsWindowOnFirstHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	d := New(pcache.NewRedisCacheWithClient(db, "ys"))
	ctx := context.Background()

	mock.ExpectIncr("ys:canary:probe:jup:sol").SetVal(1)
	mock.ExpectExpire("ys:canary:probe:jup:sol", 10*time.Second).SetVal(true)
	assert.False(t, d.Observe(ctx, models.TokenSOL, models.TokenJUP))

	mock.ExpectIncr("ys:canary:probe:jup:sol").SetVal(2)
	assert.False(t, d.Observe(ctx, models.TokenSOL, models.TokenJUP))

	mock.ExpectIncr("ys:canary:probe:jup:sol").SetVal(21)
	assert.True(t, d.Observe(ctx, models.TokenJUP, models.TokenSOL))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestObserveBackendErrorIsNotSuspicious(t *testing.T) {
	db, mock := redismock.NewClientMock()
	d := New(pcache.NewRedisCacheWithClient(db, "ys"))

	mock.ExpectIncr("ys:canary:probe:sol:usdc").SetErr(errors.New("connection refused"))
	assert.False(t, d.Observe(context.Background(), models.TokenSOL, models.TokenUSDC))
}

func TestPublisherSink(t *testing.T) {
	pub := &recordingPublisher{}
	sink := NewPublisherSink(pub, "alerts")

	require.NoError(t, sink.Send(context.Background(), ProbeAlert{Pair: "sol:usdc"}))
	assert.Equal(t, "alerts", pub.topic)
	assert.Equal(t, ProbeAlert{Pair: "sol:usdc"}, pub.payload)
}
