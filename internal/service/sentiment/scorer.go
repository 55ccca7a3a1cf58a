// Package sentiment turns headlines into a net sentiment score using the
// external tokenizer and classifier.
package sentiment

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"YieldSense/internal/domain/models"
	domsvc "YieldSense/internal/domain/service"
	applogger "YieldSense/pkg/logger"
)

const (
	defaultMaxHeadlines = 5
	defaultMaxLength    = 128
	bullishThreshold    = 0.1
	fixedConfidence     = 0.8
)

// Scorer is a SentimentScorer. Headlines are scored sequentially since the
// classifier call dominates and the cap keeps the batch small.
type Scorer struct {
	tokenizer    domsvc.Tokenizer
	inferencer   domsvc.Inferencer
	caps         models.Capabilities
	maxHeadlines int
	maxLength    int
	l            *applogger.Logger
}

type Option func(*Scorer)

func WithMaxHeadlines(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxHeadlines = n
		}
	}
}

func WithMaxLength(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxLength = n
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(s *Scorer) { s.l = l }
}

func New(tok domsvc.Tokenizer, inf domsvc.Inferencer, caps models.Capabilities, opts ...Option) *Scorer {
	s := &Scorer{
		tokenizer:    tok,
		inferencer:   inf,
		caps:         caps,
		maxHeadlines: defaultMaxHeadlines,
		maxLength:    defaultMaxLength,
		l:            applogger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scorer) Score(ctx context.Context, headlines []string) models.SentimentResult {
	if len(headlines) == 0 || !s.caps.Sentiment || s.inferencer == nil {
		return models.NeutralSentiment()
	}
	if len(headlines) > s.maxHeadlines {
		headlines = headlines[:s.maxHeadlines]
	}

	scored := make([]models.ScoredHeadline, 0, len(headlines))
	sum := 0.0
	for _, h := range headlines {
		score, err := s.scoreOne(ctx, h)
		if err != nil {
			s.l.Warn("sentiment.score headline skipped", applogger.Error(err))
			continue
		}
		sum += score
		scored = append(scored, models.ScoredHeadline{Headline: h, Score: score})
	}
	if len(scored) == 0 {
		return models.NeutralSentiment()
	}

	net := roundTo(sum/float64(len(scored)), 4)
	trend := models.TrendNeutral
	if net > bullishThreshold {
		trend = models.TrendBullish
	}
	return models.SentimentResult{
		NetSentiment: net,
		Confidence:   fixedConfidence,
		Trend:        trend,
		Headlines:    scored,
	}
}

func (s *Scorer) scoreOne(ctx context.Context, headline string) (float64, error) {
	enc, err := s.encode(ctx, headline)
	if err != nil {
		return 0, err
	}
	logits, err := s.inferencer.Infer(ctx, enc)
	if err != nil {
		return 0, err
	}
	probs := Softmax(logits)
	if len(probs) < 2 {
		return 0, models.ErrCapabilityUnavailable
	}
	return probs[0] - probs[1], nil
}

func (s *Scorer) encode(ctx context.Context, headline string) (domsvc.Encoding, error) {
	if s.caps.Tokenizer && s.tokenizer != nil {
		return s.tokenizer.Tokenize(ctx, headline, s.maxLength)
	}
	return PaddingEncoding(s.maxLength), nil
}

// PaddingEncoding is the input used when no tokenizer is loaded: all-zero
// ids under a full attention mask.
func PaddingEncoding(n int) domsvc.Encoding {
	enc := domsvc.Encoding{
		InputIDs:      make([]int64, n),
		AttentionMask: make([]int64, n),
	}
	for i := range enc.AttentionMask {
		enc.AttentionMask[i] = 1
	}
	return enc
}

// Softmax normalizes logits after subtracting the maximum.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxV := logits[0]
	for _, v := range logits[1:] {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]float64, len(logits))
	total := 0.0
	for i, v := range logits {
		out[i] = math.Exp(v - maxV)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

func roundTo(v float64, places int32) float64 {
	out, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return out
}
