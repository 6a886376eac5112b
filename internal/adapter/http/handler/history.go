package handler

import (
	"context"
	"net/http"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
)

type HistoryService interface {
	Fetch(ctx context.Context, email string) ([]models.HistoryBucket, error)
}

type History struct {
	history HistoryService
	l       logger.Logger
}

func NewHistory(service HistoryService, l logger.Logger) *History {
	return &History{
		history: service,
		l:       l,
	}
}

// Fetch godoc
// @Summary      Drive history
// @Description  Returns the account's drives grouped by day with durations
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /history [get]
func (h *History) Fetch(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "fetch_history")

	acc := models.AccountFromContext(ctx)
	if acc == nil || acc.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	buckets, err := h.history.Fetch(ctx, acc.Email)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to fetch history", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"history": buckets}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
