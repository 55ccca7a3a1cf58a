// Package api exposes the analysis service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"YieldSense/internal/domain/models"
	domrepo "YieldSense/internal/domain/repository"
	domsvc "YieldSense/internal/domain/service"
	"YieldSense/internal/service/ticker"
	"YieldSense/internal/usecase"
	xhttp "YieldSense/pkg/http"
	applogger "YieldSense/pkg/logger"
)

const (
	headerCache           = "X-Cache"
	farmingTokensDescribe = "Tokens available for yield farming safety analysis"
)

// Handler serves the /api routes.
type Handler struct {
	quick   *usecase.QuickAnalysisUseCase
	news    *usecase.TokenNewsUseCase
	staking domsvc.StakingSource
	cache   domrepo.ResponseCache
	caps    models.Capabilities
	hub     *ticker.Hub
	l       *applogger.Logger
}

type Deps struct {
	Quick   *usecase.QuickAnalysisUseCase
	News    *usecase.TokenNewsUseCase
	Staking domsvc.StakingSource
	Cache   domrepo.ResponseCache
	Caps    models.Capabilities
	Hub     *ticker.Hub // nil when the ticker is disabled
	Logger  *applogger.Logger
}

func NewHandler(d Deps) *Handler {
	l := d.Logger
	if l == nil {
		l = applogger.Nop()
	}
	return &Handler{
		quick:   d.Quick,
		news:    d.News,
		staking: d.Staking,
		cache:   d.Cache,
		caps:    d.Caps,
		hub:     d.Hub,
		l:       l,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/tokens", h.Tokens)
	g.GET("/farming/tokens", h.FarmingTokens)
	g.POST("/farming/quick-analysis", h.QuickAnalysis)
	g.GET("/news/:token", h.TokenNews)
	g.GET("/staking/apy", h.StakingAPY)
	g.GET("/staking/apy/:token", h.TokenStakingAPY)
	g.POST("/staking/combined-yield", h.CombinedYield)
	g.GET("/ws/prices", h.Prices)
}

func (h *Handler) Health(c echo.Context) error {
	return xhttp.JSONResponse(c, http.StatusOK, models.HealthResponse{
		Status: "healthy",
		Models: models.HealthModels{
			Volatility: h.caps.VolatilityMap(),
			Sentiment:  h.caps.Sentiment,
		},
		Cache: h.cache.Healthy(c.Request().Context()),
	})
}

func (h *Handler) Tokens(c echo.Context) error {
	return xhttp.JSONResponse(c, http.StatusOK, models.TokensResponse{
		Tokens: models.SupportedTokenNames(),
		Loaded: h.caps.LoadedTokens(),
	})
}

func (h *Handler) FarmingTokens(c echo.Context) error {
	return xhttp.JSONResponse(c, http.StatusOK, models.FarmingTokensResponse{
		Success:         true,
		SupportedTokens: models.SupportedTokenNames(),
		Description:     farmingTokensDescribe,
	})
}

func (h *Handler) QuickAnalysis(c echo.Context) error {
	req := &models.QuickAnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.AppErrorResponse(c, verr)
	}

	body, hit, err := h.quick.Analyze(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "quick_analysis", err)
	}
	return blob(c, body, hit)
}

func (h *Handler) TokenNews(c echo.Context) error {
	body, hit, err := h.news.Get(c.Request().Context(), c.Param("token"))
	if err != nil {
		return h.fail(c, "token_news", err)
	}
	return blob(c, body, hit)
}

// Prices upgrades to a websocket streaming price snapshots.
func (h *Handler) Prices(c echo.Context) error {
	if h.hub == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("Price ticker is disabled"))
	}
	if err := h.hub.ServeWS(c.Response(), c.Request()); err != nil {
		// the upgrader has already written the failure response
		h.l.Debug("api.prices upgrade failed", applogger.Error(err))
	}
	return nil
}

func blob(c echo.Context, body []byte, hit bool) error {
	state := "MISS"
	if hit {
		state = "HIT"
	}
	c.Response().Header().Set(headerCache, state)
	return xhttp.BlobResponse(c, http.StatusOK, body)
}

func (h *Handler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.l.Error("api."+op+" failed", applogger.Error(err))
	} else {
		h.l.Debug("api."+op+" rejected", applogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrUnsupportedToken):
		return xhttp.FieldError("ERR_UNSUPPORTED_TOKEN", "token", "Unsupported token(s)").WithError(err)
	case errors.Is(err, models.ErrInvalidPrice):
		return xhttp.FieldError("ERR_INVALID_PRICE", "price", "Anomalous price input detected").WithError(err)
	case errors.Is(err, models.ErrCapabilityUnavailable):
		return xhttp.ServiceUnavailableError("ML Models not initialized").WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.ServiceUnavailableError("Analysis timed out").WithError(err)
	case errors.Is(err, models.ErrBoundsComputation):
		return xhttp.InternalError("Bounds calculation failed").WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
