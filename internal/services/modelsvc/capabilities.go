package modelsvc

import (
	"context"

	"YieldSense/internal/domain/models"
)

type healthResp struct {
	Volatility map[string]bool `json:"volatility"`
	Sentiment  bool            `json:"sentiment"`
	Tokenizer  bool            `json:"tokenizer"`
	Bounds     bool            `json:"bounds"`
}

// Probe asks the model service what it has loaded. An unreachable service
// yields an empty snapshot together with the error.
func Probe(ctx context.Context, base *HTTPServiceBase) (models.Capabilities, error) {
	caps := models.Capabilities{Volatility: map[models.TokenSymbol]bool{}}

	var h healthResp
	if err := base.GetJSON(ctx, "/health", &h); err != nil {
		return caps, err
	}

	for sym, loaded := range h.Volatility {
		if t, err := models.ParseToken(sym); err == nil {
			caps.Volatility[t] = loaded
		}
	}
	caps.Sentiment = h.Sentiment
	caps.Tokenizer = h.Tokenizer
	caps.Bounds = h.Bounds
	return caps, nil
}
