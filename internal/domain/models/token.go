package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mr-tron/base58"
)

// TokenSymbol is a lower-case identifier from the supported set.
type TokenSymbol string

const (
	TokenSOL    TokenSymbol = "sol"
	TokenJupSOL TokenSymbol = "jupsol"
	TokenPENGU  TokenSymbol = "pengu"
	TokenUSDT   TokenSymbol = "usdt"
	TokenUSDC   TokenSymbol = "usdc"
	TokenJUP    TokenSymbol = "jup"
)

// SupportedTokens lists the analysable tokens in their canonical order.
var SupportedTokens = []TokenSymbol{TokenSOL, TokenJupSOL, TokenPENGU, TokenUSDT, TokenUSDC, TokenJUP}

var tokenAddresses = map[TokenSymbol]string{
	TokenSOL:    "So11111111111111111111111111111111111111112",
	TokenJUP:    "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN",
	TokenUSDC:   "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	TokenUSDT:   "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
	TokenJupSOL: "jupSoLaHXQiZZTSfEWMTRRgpnyFm8f6sZdosWBjx93v",
	TokenPENGU:  "2zMMhcVQEXDtdE6vsFS7S7D5oUodfJHE8vd1gnBouauv",
}

// ParseToken normalizes s and checks it against the supported set.
func ParseToken(s string) (TokenSymbol, error) {
	t := TokenSymbol(strings.ToLower(strings.TrimSpace(s)))
	if !t.Supported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedToken, s)
	}
	return t, nil
}

func (t TokenSymbol) Supported() bool {
	_, ok := tokenAddresses[t]
	return ok
}

// Stablecoin reports whether the token is pegged to 1 USD.
func (t TokenSymbol) Stablecoin() bool {
	return t == TokenUSDC || t == TokenUSDT
}

// Address returns the Solana mint address of the token.
func (t TokenSymbol) Address() (string, bool) {
	a, ok := tokenAddresses[t]
	return a, ok
}

func (t TokenSymbol) Upper() string {
	return strings.ToUpper(string(t))
}

func (t TokenSymbol) String() string {
	return string(t)
}

// SupportedTokenNames returns the supported symbols as plain strings.
func SupportedTokenNames() []string {
	out := make([]string, len(SupportedTokens))
	for i, t := range SupportedTokens {
		out[i] = string(t)
	}
	return out
}

// OrderedPair returns the two symbols sorted, so (a,b) and (b,a) share a key.
func OrderedPair(a, b TokenSymbol) (TokenSymbol, TokenSymbol) {
	p := []string{string(a), string(b)}
	sort.Strings(p)
	return TokenSymbol(p[0]), TokenSymbol(p[1])
}

// ValidateAddresses checks that every mint address decodes to a 32-byte key.
func ValidateAddresses() error {
	for sym, addr := range tokenAddresses {
		raw, err := base58.Decode(addr)
		if err != nil {
			return fmt.Errorf("token %s: decode mint address: %w", sym, err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("token %s: mint address is %d bytes, want 32", sym, len(raw))
		}
	}
	return nil
}
