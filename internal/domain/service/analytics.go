package service

import (
	"context"

	"YieldSense/internal/domain/models"
)

// PriceResolver resolves a token to a USD price. It never fails: an
// unresolved price is reported as a zero PricePoint.
type PriceResolver interface {
	Resolve(ctx context.Context, token models.TokenSymbol, override *float64) models.PricePoint
}

// NewsFetcher returns recent headlines, or none when every credential failed.
type NewsFetcher interface {
	Fetch(ctx context.Context, token models.TokenSymbol) []models.Headline
}

type SentimentScorer interface {
	Score(ctx context.Context, headlines []string) models.SentimentResult
}

// BoundsCalculator is the external volatility/bounds model.
type BoundsCalculator interface {
	CalculateBounds(ctx context.Context, in models.BoundsInput) (models.BoundsResult, error)
}

// Encoding is the tokenizer output for one text.
type Encoding struct {
	InputIDs      []int64 `json:"input_ids"`
	AttentionMask []int64 `json:"attention_mask"`
}

type Tokenizer interface {
	Tokenize(ctx context.Context, text string, maxLength int) (Encoding, error)
}

// Inferencer runs the sentiment classifier and returns raw logits.
type Inferencer interface {
	Infer(ctx context.Context, enc Encoding) ([]float64, error)
}

// StakingSource is the external staking-yield collaborator.
type StakingSource interface {
	AllAPY(ctx context.Context) (map[string]any, error)
	TokenAPY(ctx context.Context, token string) (any, error)
}

// AbuseDetector observes request frequency per token pair.
type AbuseDetector interface {
	Observe(ctx context.Context, a, b models.TokenSymbol) bool
}

// NoiseFilter perturbs a score before it leaves the service.
type NoiseFilter interface {
	Apply(value float64) float64
}
