package models

// PriceSource tells where a PricePoint came from.
type PriceSource string

const (
	SourceOverride    PriceSource = "override"
	SourceStablecoin  PriceSource = "stablecoin"
	SourceDexScreener PriceSource = "dexscreener"
	SourceUnresolved  PriceSource = "unresolved"
)

// PricePoint is a resolved USD price. A zero USD value means unresolved.
type PricePoint struct {
	Symbol TokenSymbol `json:"symbol"`
	USD    float64     `json:"usd_price"`
	Source PriceSource `json:"source"`
}

func (p PricePoint) Resolved() bool {
	return p.USD > 0
}
