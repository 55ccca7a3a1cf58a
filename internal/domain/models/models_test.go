package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	tok, err := ParseToken("  SOL ")
	require.NoError(t, err)
	assert.Equal(t, TokenSOL, tok)

	_, err = ParseToken("bonk")
	assert.True(t, errors.Is(err, ErrUnsupportedToken))
}

func TestValidateAddresses(t *testing.T) {
	require.NoError(t, ValidateAddresses())
}

func TestOrderedPair(t *testing.T) {
	a, b := OrderedPair(TokenUSDC, TokenSOL)
	c, d := OrderedPair(TokenSOL, TokenUSDC)
	assert.Equal(t, a, c)
	assert.Equal(t, b, d)
	assert.Equal(t, TokenSOL, a)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		score float64
		rec   Recommendation
		sig   Signal
	}{
		{75, RecommendSafe, SignalBuy},
		{74.99, RecommendModerate, SignalHold},
		{50, RecommendModerate, SignalHold},
		{49.9, RecommendRisky, SignalSell},
	}
	for _, c := range cases {
		rec, sig := Classify(c.score)
		assert.Equal(t, c.rec, rec, "score %v", c.score)
		assert.Equal(t, c.sig, sig, "score %v", c.score)
	}
}

func TestCombineYield(t *testing.T) {
	y := CombineYield(7, 10)
	assert.Equal(t, 17.0, float64(y.CombinedAPY))
	assert.Equal(t, 17.7, float64(y.CompoundedAPY))
	assert.True(t, IsLST("JupSOL"))
	assert.False(t, IsLST("sol"))
}

func TestCapabilitiesLoadedTokens(t *testing.T) {
	c := Capabilities{Volatility: map[TokenSymbol]bool{TokenJUP: true, TokenSOL: true}}
	assert.Equal(t, []string{"sol", "jup"}, c.LoadedTokens())
	assert.Len(t, c.VolatilityMap(), len(SupportedTokens))
}
