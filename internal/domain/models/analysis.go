package models

import "YieldSense/pkg/util"

// QuickAnalysisRequest is the body of POST /api/farming/quick-analysis.
// Prices are optional overrides; nil means resolve from market data.
type QuickAnalysisRequest struct {
	TokenA string   `json:"token_a" validate:"required"`
	TokenB string   `json:"token_b" validate:"required"`
	PriceA *float64 `json:"price_a,omitempty"`
	PriceB *float64 `json:"price_b,omitempty"`
}

// BoundsInput is what the bounds model receives for one side of a pair.
type BoundsInput struct {
	Token     TokenSymbol
	Price     float64
	Headlines []string
}

// BoundsResult is the bounds model output for one token.
type BoundsResult struct {
	Symbol          string     `json:"symbol"`
	CurrentPrice    util.Float `json:"current_price"`
	LowerBound      util.Float `json:"lower_bound"`
	UpperBound      util.Float `json:"upper_bound"`
	RangeWidthPct   util.Float `json:"range_width_pct"`
	Volatility      util.Float `json:"volatility"`
	SafetyScore     util.Float `json:"safety_score"`
	ConfidenceLevel util.Float `json:"confidence_level"`
	SentimentScore  util.Float `json:"sentiment_score"`
}

type Recommendation string

const (
	RecommendSafe     Recommendation = "SAFE_TO_FARM"
	RecommendModerate Recommendation = "MODERATE_FARM"
	RecommendRisky    Recommendation = "RISKY_AVOID"
)

type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
	SignalSell Signal = "SELL"
)

const AnalysisMessage = "Analysis powered by LSTM + FinBERT (YieldSense v2)"

type Overall struct {
	SafetyScore    util.Float     `json:"safety_score"`
	Recommendation Recommendation `json:"recommendation"`
	Signal         Signal         `json:"signal"`
	Message        string         `json:"message"`
}

// Classify maps an averaged safety score onto the recommendation ladder.
func Classify(score float64) (Recommendation, Signal) {
	switch {
	case score >= 75:
		return RecommendSafe, SignalBuy
	case score >= 50:
		return RecommendModerate, SignalHold
	default:
		return RecommendRisky, SignalSell
	}
}

type AnalysisResponse struct {
	Success bool         `json:"success"`
	TokenA  BoundsResult `json:"token_a"`
	TokenB  BoundsResult `json:"token_b"`
	Overall Overall      `json:"overall"`
}

// NewsSentiment is the sentiment block of a news response with NaN-safe floats.
type NewsSentiment struct {
	NetSentiment util.Float       `json:"net_sentiment"`
	Confidence   util.Float       `json:"confidence"`
	Trend        Trend            `json:"trend"`
	Headlines    []ScoredHeadline `json:"headlines"`
}

func NewNewsSentiment(s SentimentResult) NewsSentiment {
	hs := s.Headlines
	if hs == nil {
		hs = []ScoredHeadline{}
	}
	return NewsSentiment{
		NetSentiment: util.Float(s.NetSentiment),
		Confidence:   util.Float(s.Confidence),
		Trend:        s.Trend,
		Headlines:    hs,
	}
}

type NewsResponse struct {
	Success       bool          `json:"success"`
	Token         string        `json:"token"`
	NewsAvailable bool          `json:"news_available"`
	Sentiment     NewsSentiment `json:"sentiment"`
}

type HealthModels struct {
	Volatility map[string]bool `json:"volatility"`
	Sentiment  bool            `json:"sentiment"`
}

type HealthResponse struct {
	Status string       `json:"status"`
	Models HealthModels `json:"models"`
	Cache  bool         `json:"cache"`
}

type TokensResponse struct {
	Tokens []string `json:"tokens"`
	Loaded []string `json:"loaded"`
}

type FarmingTokensResponse struct {
	Success         bool     `json:"success"`
	SupportedTokens []string `json:"supported_tokens"`
	Description     string   `json:"description"`
}

// PriceTick is one websocket broadcast of current prices.
type PriceTick struct {
	Type   string                `json:"type"`
	Prices map[string]util.Float `json:"prices"`
	TS     int64                 `json:"ts"`
}
