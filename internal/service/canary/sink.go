package canary

import (
	"context"

	domrepo "YieldSense/internal/domain/repository"
)

// PublisherSink forwards alerts to a message bus topic keyed by pair.
type PublisherSink struct {
	pub   domrepo.Publisher
	topic string
}

func NewPublisherSink(pub domrepo.Publisher, topic string) *PublisherSink {
	return &PublisherSink{pub: pub, topic: topic}
}

func (s *PublisherSink) Send(ctx context.Context, alert ProbeAlert) error {
	return s.pub.PublishMessage(ctx, s.topic, alert)
}
