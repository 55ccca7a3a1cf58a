package modelsvc

import (
	"context"
	"fmt"

	domsvc "YieldSense/internal/domain/service"
)

type HTTPTokenizer struct{ base *HTTPServiceBase }

func NewHTTPTokenizer(base *HTTPServiceBase) *HTTPTokenizer {
	return &HTTPTokenizer{base: base}
}

type tokenizeReq struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
}

func (t *HTTPTokenizer) Tokenize(ctx context.Context, text string, maxLength int) (domsvc.Encoding, error) {
	var enc domsvc.Encoding
	if err := t.base.PostJSON(ctx, "/sentiment/tokenize", tokenizeReq{Text: text, MaxLength: maxLength}, &enc); err != nil {
		return domsvc.Encoding{}, fmt.Errorf("tokenize: %w", err)
	}
	if len(enc.InputIDs) != len(enc.AttentionMask) {
		return domsvc.Encoding{}, fmt.Errorf("tokenize: %d ids but %d mask entries", len(enc.InputIDs), len(enc.AttentionMask))
	}
	return enc, nil
}

type HTTPInferencer struct{ base *HTTPServiceBase }

func NewHTTPInferencer(base *HTTPServiceBase) *HTTPInferencer {
	return &HTTPInferencer{base: base}
}

type inferResp struct {
	Logits []float64 `json:"logits"`
}

func (i *HTTPInferencer) Infer(ctx context.Context, enc domsvc.Encoding) ([]float64, error) {
	var res inferResp
	if err := i.base.PostJSON(ctx, "/sentiment/infer", enc, &res); err != nil {
		return nil, fmt.Errorf("infer: %w", err)
	}
	if len(res.Logits) < 2 {
		return nil, fmt.Errorf("infer: expected at least 2 logits, got %d", len(res.Logits))
	}
	return res.Logits, nil
}

var (
	_ domsvc.Tokenizer  = (*HTTPTokenizer)(nil)
	_ domsvc.Inferencer = (*HTTPInferencer)(nil)
)
