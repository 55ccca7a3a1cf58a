package models

import (
	"strings"

	"YieldSense/pkg/util"
)

var lstTokens = map[string]struct{}{
	"jupsol":  {},
	"msol":    {},
	"jitosol": {},
	"bsol":    {},
}

// IsLST reports whether token is a known liquid staking token.
func IsLST(token string) bool {
	_, ok := lstTokens[strings.ToLower(token)]
	return ok
}

type CombinedYieldRequest struct {
	StakingAPY *float64 `json:"staking_apy" validate:"required"`
	LPAPY      *float64 `json:"lp_apy" validate:"required"`
}

type CombinedYield struct {
	StakingAPY    util.Float `json:"staking_apy"`
	LPAPY         util.Float `json:"lp_apy"`
	CombinedAPY   util.Float `json:"combined_apy"`
	CompoundedAPY util.Float `json:"compounded_apy"`
}

// CombineYield adds staking and LP yield (percent) and reports the figure
// obtained when both compound over the same year.
func CombineYield(stakingAPY, lpAPY float64) CombinedYield {
	compounded := ((1+stakingAPY/100)*(1+lpAPY/100) - 1) * 100
	return CombinedYield{
		StakingAPY:    util.Float(stakingAPY),
		LPAPY:         util.Float(lpAPY),
		CombinedAPY:   util.Float(util.Round(stakingAPY+lpAPY, 4)),
		CompoundedAPY: util.Float(util.Round(compounded, 4)),
	}
}
