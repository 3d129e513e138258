package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/bolao-app/bolao-api/internal/domain/fixture"
	"github.com/bolao-app/bolao-api/internal/usecase"
)

func (h *Handler) PlacePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlacePrediction")
	defer span.End()

	var req placePredictionRequest
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

	pred, err := h.predictionService.Place(ctx, usecase.PredictionInput{
		UserID:          req.UserID,
		FixtureID:       req.FixtureID,
		PredictedScore:  fixture.Score{Home: req.PredictedHome, Away: req.PredictedAway},
		PredictedPlayer: req.PredictedPlayer,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "place prediction failed",
			"user_id", req.UserID,
			"fixture_id", req.FixtureID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, predictionToDTO(pred))
}

func (h *Handler) UpdatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePrediction")
	defer span.End()

	predictionID := r.PathValue("predictionID")

	var req updatePredictionRequest
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

	pred, err := h.predictionService.Update(ctx, predictionID, usecase.PredictionInput{
		UserID:          req.UserID,
		FixtureID:       req.FixtureID,
		PredictedScore:  fixture.Score{Home: req.PredictedHome, Away: req.PredictedAway},
		PredictedPlayer: req.PredictedPlayer,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update prediction failed",
			"prediction_id", predictionID,
			"user_id", req.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(pred))
}

func (h *Handler) ListPredictionsByFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPredictionsByFixture")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	preds, err := h.predictionService.ListByFixture(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsToDTOs(preds))
}

func (h *Handler) ListPredictionsByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPredictionsByUser")
	defer span.End()

	userID := r.PathValue("userID")
	preds, err := h.predictionService.ListByUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user predictions failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsToDTOs(preds))
}
