package repository

import (
	"context"
	"time"
)

// ResponseCache stores serialized responses. Implementations are best-effort:
// a backend failure is a miss on Get and a no-op on Set.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Healthy(ctx context.Context) bool
}

// WindowCounter counts events per key inside an expiring window.
type WindowCounter interface {
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Publisher ships a payload to a topic on the message bus.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
	Close() error
}

type Metrics interface {
	RecordUpstream(upstream, outcome string)
	RecordRotation()
	RecordCacheLookup(namespace string, hit bool)
	RecordProbe(pair string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, d time.Duration)
	RecordError(kind string)
}
