package dexscreener

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type pairsResponse struct {
	Pairs []pair `json:"pairs"`
}

type tokenRef struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type pair struct {
	ChainID     string    `json:"chainId"`
	DexID       string    `json:"dexId"`
	PairAddress string    `json:"pairAddress"`
	BaseToken   tokenRef  `json:"baseToken"`
	QuoteToken  tokenRef  `json:"quoteToken"`
	PriceUSD    flexFloat `json:"priceUsd"`
	Liquidity   *struct {
		USD flexFloat `json:"usd"`
	} `json:"liquidity"`
}

func (p pair) liquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return float64(p.Liquidity.USD)
}

// flexFloat accepts a JSON number or a numeric string. Anything else,
// including null, decodes to 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
