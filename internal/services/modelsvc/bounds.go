package modelsvc

import (
	"context"
	"fmt"

	"YieldSense/internal/domain/models"
	domsvc "YieldSense/internal/domain/service"
)

type HTTPBoundsCalculator struct{ base *HTTPServiceBase }

func NewHTTPBoundsCalculator(base *HTTPServiceBase) *HTTPBoundsCalculator {
	return &HTTPBoundsCalculator{base: base}
}

type boundsReq struct {
	Token     string   `json:"token"`
	Price     float64  `json:"price"`
	Headlines []string `json:"headlines"`
}

func (c *HTTPBoundsCalculator) CalculateBounds(ctx context.Context, in models.BoundsInput) (models.BoundsResult, error) {
	headlines := in.Headlines
	if headlines == nil {
		headlines = []string{}
	}

	var res models.BoundsResult
	err := c.base.PostJSON(ctx, "/bounds/calculate", boundsReq{
		Token:     in.Token.String(),
		Price:     in.Price,
		Headlines: headlines,
	}, &res)
	if err != nil {
		return models.BoundsResult{}, fmt.Errorf("calculate bounds for %s: %w", in.Token, err)
	}
	return res, nil
}

var _ domsvc.BoundsCalculator = (*HTTPBoundsCalculator)(nil)
