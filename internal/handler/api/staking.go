package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"YieldSense/internal/domain/models"
	xhttp "YieldSense/pkg/http"
	applogger "YieldSense/pkg/logger"
)

// Staking responses keep status 200 and report failures in the body, which
// is what existing dashboard clients check.

func (h *Handler) StakingAPY(c echo.Context) error {
	data, err := h.staking.AllAPY(c.Request().Context())
	if err != nil {
		h.l.Warn("api.staking_apy upstream failed", applogger.Error(err))
		return xhttp.JSONResponse(c, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
			"lsts":    map[string]interface{}{},
		})
	}

	out := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["success"] = true
	return xhttp.JSONResponse(c, http.StatusOK, out)
}

type tokenStakingResponse struct {
	Success bool        `json:"success"`
	IsLST   bool        `json:"is_lst"`
	Token   string      `json:"token"`
	APY     interface{} `json:"apy"`
}

func (h *Handler) TokenStakingAPY(c echo.Context) error {
	token := c.Param("token")
	upper := strings.ToUpper(token)
	if !models.IsLST(token) {
		return xhttp.JSONResponse(c, http.StatusOK, tokenStakingResponse{Success: true, Token: upper})
	}

	apy, err := h.staking.TokenAPY(c.Request().Context(), token)
	if err != nil {
		h.l.Warn("api.token_staking_apy upstream failed", applogger.String("token", token), applogger.Error(err))
		return xhttp.JSONResponse(c, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}
	return xhttp.JSONResponse(c, http.StatusOK, tokenStakingResponse{Success: true, IsLST: true, Token: upper, APY: apy})
}

type combinedYieldResponse struct {
	Success bool `json:"success"`
	models.CombinedYield
}

func (h *Handler) CombinedYield(c echo.Context) error {
	req := &models.CombinedYieldRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.AppErrorResponse(c, verr)
	}
	return xhttp.JSONResponse(c, http.StatusOK, combinedYieldResponse{
		Success:       true,
		CombinedYield: models.CombineYield(*req.StakingAPY, *req.LPAPY),
	})
}
