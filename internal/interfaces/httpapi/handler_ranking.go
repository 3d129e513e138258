package httpapi

import (
	"net/http"
)

func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankings")
	defer span.End()

	rows, err := h.rankingService.Standings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get rankings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rankingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, rankingToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
