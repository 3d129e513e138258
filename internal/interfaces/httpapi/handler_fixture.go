package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/usecase"
)

func (h *Handler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFixture")
	defer span.End()

	var req createFixtureRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	kickoffAt, err := parseRFC3339("kickoff_at", req.KickoffAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fx, err := h.fixtureService.Create(ctx, req.Opponent, kickoffAt, req.CreatedBy)
	if err != nil {
		h.logger.WarnContext(ctx, "create fixture failed", "opponent", req.Opponent, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, fixtureToDTO(fx))
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	fixtures, err := h.fixtureService.ListAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, fx := range fixtures {
		items = append(items, fixtureToDTO(fx))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListUpcomingFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingFixtures")
	defer span.End()

	fixtures, err := h.fixtureService.ListUpcoming(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list upcoming fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, fx := range fixtures {
		items = append(items, fixtureToDTO(fx))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	fx, err := h.fixtureService.GetByID(ctx, fixtureID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(fx))
}

func (h *Handler) UpdateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFixture")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")

	var req updateFixtureRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	update := usecase.FixtureUpdate{
		Opponent: req.Opponent,
		Status:   req.Status,
	}
	if req.KickoffAt != nil {
		kickoffAt, err := parseRFC3339("kickoff_at", *req.KickoffAt)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		update.KickoffAt = &kickoffAt
	}

	fx, err := h.fixtureService.Update(ctx, fixtureID, update)
	if err != nil {
		h.logger.WarnContext(ctx, "update fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(fx))
}

func (h *Handler) DeleteFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFixture")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	if err := h.fixtureService.Delete(ctx, fixtureID); err != nil {
		h.logger.WarnContext(ctx, "delete fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SetFixtureResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetFixtureResult")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")

	var req setFixtureResultRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result := fixture.Result{
		ActualScore:   fixture.Score{Home: req.HomeGoals, Away: req.AwayGoals},
		ActualScorers: req.Scorers,
		ActualAssists: req.Assists,
	}
	if err := h.scoringService.SetResult(ctx, fixtureID, result, req.SetBy); err != nil {
		h.logger.WarnContext(ctx, "set fixture result failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	fx, err := h.fixtureService.GetByID(ctx, fixtureID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(fx))
}

func (h *Handler) RecalculateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateFixture")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	if err := h.scoringService.Recalculate(ctx, fixtureID); err != nil {
		h.logger.WarnContext(ctx, "recalculate fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recalculated"})
}
