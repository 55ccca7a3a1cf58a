package models

// Capabilities is the immutable snapshot of what the model service can do,
// read once at startup.
type Capabilities struct {
	Volatility map[TokenSymbol]bool
	Sentiment  bool
	Tokenizer  bool
	Bounds     bool
}

// LoadedTokens returns the tokens with a loaded volatility model, in canonical order.
func (c Capabilities) LoadedTokens() []string {
	out := []string{}
	for _, t := range SupportedTokens {
		if c.Volatility[t] {
			out = append(out, string(t))
		}
	}
	return out
}

// VolatilityMap renders the per-token volatility flags for every supported token.
func (c Capabilities) VolatilityMap() map[string]bool {
	out := make(map[string]bool, len(SupportedTokens))
	for _, t := range SupportedTokens {
		out[string(t)] = c.Volatility[t]
	}
	return out
}
