package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/insightcrew/relata/internal/adapter/middleware"
	"github.com/insightcrew/relata/pkg/config"
	"github.com/insightcrew/relata/pkg/jwt"
	"github.com/insightcrew/relata/pkg/validator"
)

// NewRouter builds the echo instance with middleware and all routes.
func NewRouter(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	analysis *AnalysisHandler,
	briefs *BriefHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.LoggerWithConfig(echomiddleware.LoggerConfig{
		Format: "${time_rfc3339} ${method} ${uri} ${status} ${latency_human}\n",
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/v1", middleware.Auth(jwtManager))

	v1.POST("/analysis/transcripts", analysis.AnalyzeTranscript)

	v1.GET("/analysis/briefs/:personID", briefs.GetBrief)
	v1.DELETE("/analysis/briefs/:personID", briefs.InvalidateBrief)
	v1.DELETE("/analysis/briefs", briefs.InvalidateAllBriefs)

	return e
}
