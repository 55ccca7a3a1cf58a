package models

// Headline is a single news title for a token, in provider order.
type Headline struct {
	Text        string      `json:"text"`
	SourceToken TokenSymbol `json:"source_token"`
}

// Texts returns the headline titles.
func Texts(hs []Headline) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Text
	}
	return out
}

type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendNeutral Trend = "neutral"
	TrendBearish Trend = "bearish"
)

type ScoredHeadline struct {
	Headline string  `json:"headline"`
	Score    float64 `json:"score"`
}

// SentimentResult aggregates per-headline scores. NetSentiment is in [-1,1].
type SentimentResult struct {
	NetSentiment float64          `json:"net_sentiment"`
	Confidence   float64          `json:"confidence"`
	Trend        Trend            `json:"trend"`
	Headlines    []ScoredHeadline `json:"headlines"`
}

// NeutralSentiment is returned when nothing could be scored.
func NeutralSentiment() SentimentResult {
	return SentimentResult{Trend: TrendNeutral, Headlines: []ScoredHeadline{}}
}
