package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/insightcrew/relata/errors"
	"github.com/insightcrew/relata/internal/adapter/dto"
	"github.com/insightcrew/relata/internal/domain/entities"
	"github.com/insightcrew/relata/internal/usecase/brief"
	"github.com/insightcrew/relata/pkg/runcontext"
)

// BriefHandler serves pre-meeting briefs.
type BriefHandler struct {
	briefs *brief.Service
	logger *zap.Logger
}

// NewBriefHandler creates the brief handler.
func NewBriefHandler(briefs *brief.Service, logger *zap.Logger) *BriefHandler {
	return &BriefHandler{briefs: briefs, logger: logger}
}

// GetBrief handles GET /v1/analysis/briefs/:personID.
func (h *BriefHandler) GetBrief(c echo.Context) error {
	personID, err := uuid.Parse(c.Param("personID"))
	if err != nil {
		return HandleError(c, errors.ErrInvalidArgument("invalid person id"))
	}

	ctx, cancel := runcontext.Begin(c.Request().Context(), "get_brief")
	defer cancel()

	text, fromCache, err := h.briefs.GetBrief(ctx, personID)
	if err != nil {
		if stderrors.Is(err, entities.ErrPersonNotFound) {
			return HandleError(c, errors.ErrNotFound("person"))
		}
		return HandleError(c, err)
	}

	return HandleSuccess(c, http.StatusOK, dto.BriefResponse{
		PersonID:  personID.String(),
		Brief:     text,
		FromCache: fromCache,
	})
}

// InvalidateBrief handles DELETE /v1/analysis/briefs/:personID.
func (h *BriefHandler) InvalidateBrief(c echo.Context) error {
	personID, err := uuid.Parse(c.Param("personID"))
	if err != nil {
		return HandleError(c, errors.ErrInvalidArgument("invalid person id"))
	}

	if err := h.briefs.Invalidate(c.Request().Context(), &personID); err != nil {
		return HandleError(c, errors.ErrCacheFailed("invalidate_brief", err))
	}
	return c.NoContent(http.StatusNoContent)
}

// InvalidateAllBriefs handles DELETE /v1/analysis/briefs.
func (h *BriefHandler) InvalidateAllBriefs(c echo.Context) error {
	if err := h.briefs.Invalidate(c.Request().Context(), nil); err != nil {
		return HandleError(c, errors.ErrCacheFailed("invalidate_briefs", err))
	}
	return c.NoContent(http.StatusNoContent)
}
