package api

import (
	models "CedearScan/internal/domain/models"
	"CedearScan/internal/usecase"
	xhttp "CedearScan/pkg/http"
	xlogger "CedearScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScreenerEchoHandler exposes the ranking engine over Echo.
type ScreenerEchoHandler struct {
	logger   *xlogger.Logger
	screener *usecase.Screener
}

func NewScreenerEchoHandler(logger *xlogger.Logger, screener *usecase.Screener) *ScreenerEchoHandler {
	return &ScreenerEchoHandler{logger: logger, screener: screener}
}

func (h *ScreenerEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/rankings", h.Rankings)
	g.GET("/assets", h.Assets)
	g.GET("/assets/:ticker", h.Asset)
	g.GET("/universe", h.Universe)
	e.GET("/health", h.Health)
}

// Rankings serves the Top-N ranking for one strategy.
func (h *ScreenerEchoHandler) Rankings(c echo.Context) error {
	req := &models.RankingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.screener.GetRanking(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("ranking usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Assets serves the full momentum ranking over the whole universe.
func (h *ScreenerEchoHandler) Assets(c echo.Context) error {
	req := &models.AssetListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	full, err := h.screener.FullRanking(c.Request().Context(), models.StrategyMomentum, false)
	if err != nil {
		h.logger.Error("asset list usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if !req.IncludeBreakdown {
		trimmed := *full
		trimmed.Entries = make([]models.ScoredAsset, len(full.Entries))
		copy(trimmed.Entries, full.Entries)
		for i := range trimmed.Entries {
			trimmed.Entries[i].Breakdown = nil
		}
		full = &trimmed
	}
	return xhttp.SuccessResponse(c, full)
}

// Asset serves the per-strategy analysis of a single ticker.
func (h *ScreenerEchoHandler) Asset(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("ticker is required"))
	}

	res, err := h.screener.AnalyzeAsset(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("asset analysis usecase error",
			xlogger.Error(err), xlogger.String("ticker", ticker))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Universe lists the configured asset set.
func (h *ScreenerEchoHandler) Universe(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.screener.Universe())
}

// Health reports service status plus last successful runs.
func (h *ScreenerEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.screener.Health())
}
