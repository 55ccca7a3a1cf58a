// Package canary flags token pairs that are queried suspiciously often,
// a sign of someone probing the model's outputs.
package canary

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"YieldSense/internal/domain/models"
	domrepo "YieldSense/internal/domain/repository"
	domsvc "YieldSense/internal/domain/service"
	applogger "YieldSense/pkg/logger"
)

const (
	defaultWindow    = 10 * time.Second
	defaultThreshold = 20
)

// ProbeAlert is emitted each time a pair crosses the threshold.
type ProbeAlert struct {
	ID        string    `json:"id"`
	Pair      string    `json:"pair"`
	Count     int64     `json:"count"`
	Window    string    `json:"window"`
	Threshold int64     `json:"threshold"`
	At        time.Time `json:"at"`
}

// AlertSink receives probe alerts.
type AlertSink interface {
	Send(ctx context.Context, alert ProbeAlert) error
}

type nopSink struct{}

func (nopSink) Send(context.Context, ProbeAlert) error { return nil }

// Detector is an AbuseDetector over a shared window counter. It never
// rejects a request; flagging only produces side effects.
type Detector struct {
	counter   domrepo.WindowCounter
	window    time.Duration
	threshold int64
	sink      AlertSink
	metrics   domrepo.Metrics
	l         *applogger.Logger
	now       func() time.Time
}

type Option func(*Detector)

func WithWindow(d time.Duration) Option {
	return func(det *Detector) {
		if d > 0 {
			det.window = d
		}
	}
}

func WithThreshold(n int64) Option {
	return func(det *Detector) {
		if n > 0 {
			det.threshold = n
		}
	}
}

func WithSink(s AlertSink) Option {
	return func(det *Detector) {
		if s != nil {
			det.sink = s
		}
	}
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(det *Detector) { det.metrics = m }
}

func WithLogger(l *applogger.Logger) Option {
	return func(det *Detector) { det.l = l }
}

func New(counter domrepo.WindowCounter, opts ...Option) *Detector {
	d := &Detector{
		counter:   counter,
		window:    defaultWindow,
		threshold: defaultThreshold,
		sink:      nopSink{},
		l:         applogger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Key returns the counter key for a pair; argument order does not matter.
func Key(a, b models.TokenSymbol) string {
	lo, hi := models.OrderedPair(a, b)
	return fmt.Sprintf("canary:probe:%s:%s", lo, hi)
}

// Observe counts one request for the pair and reports whether the count in
// the current window exceeds the threshold. Counter failures are not suspicious.
func (d *Detector) Observe(ctx context.Context, a, b models.TokenSymbol) bool {
	key := Key(a, b)

	count, err := d.counter.Increment(ctx, key)
	if err != nil {
		d.l.Warn("canary.observe counter unavailable", applogger.String("key", key), applogger.Error(err))
		return false
	}
	if count == 1 {
		if _, err := d.counter.Expire(ctx, key, d.window); err != nil {
			d.l.Warn("canary.observe expire failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	if count <= d.threshold {
		return false
	}

	pair := key[len("canary:probe:"):]
	d.l.Warn("canary.observe probing suspected",
		applogger.String("pair", pair),
		applogger.Int64("count", count),
		applogger.Duration("window_ms", d.window),
	)
	if d.metrics != nil {
		d.metrics.RecordProbe(pair)
	}

	alert := ProbeAlert{
		ID:        uuid.NewString(),
		Pair:      pair,
		Count:     count,
		Window:    d.window.String(),
		Threshold: d.threshold,
		At:        d.now().UTC(),
	}
	if err := d.sink.Send(ctx, alert); err != nil {
		d.l.Warn("canary.observe alert not delivered", applogger.String("pair", pair), applogger.Error(err))
	}
	return true
}

var _ domsvc.AbuseDetector = (*Detector)(nil)
