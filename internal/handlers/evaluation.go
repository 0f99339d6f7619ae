package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"resto-reviews-backend/internal/middleware"
	"resto-reviews-backend/internal/models"
	"resto-reviews-backend/internal/services"
)

// EvaluationHandler handles evaluation HTTP requests
type EvaluationHandler struct {
	evaluationService *services.EvaluationService
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluationService *services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// EvaluationResponse is an evaluation with the presigned download URLs of
// its photos
type EvaluationResponse struct {
	ID          int64    `json:"id"`
	Evaluateur  string   `json:"evaluateur"`
	Commentaire string   `json:"commentaire"`
	Note        int      `json:"note"`
	PhotosURLs  []string `json:"photosUrls"`
}

// UpdatePlatsImageResponse carries one presigned upload URL per photo slot
type UpdatePlatsImageResponse struct {
	UploadURLs []string `json:"uploadUrls"`
}

// createEvaluationPayload is the wire shape of an evaluation creation; Note
// is a pointer so an absent note is told apart from a zero one
type createEvaluationPayload struct {
	Evaluateur  string `json:"evaluateur"`
	Commentaire string `json:"commentaire"`
	Note        *int   `json:"note"`
}

// List handles GET /restaurant/{restaurantId}/evaluation
func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurantID, err := pathID(r, "restaurantId")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	evals, err := h.evaluationService.GetEvaluationsByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Error().Err(err).Int64("restaurant_id", restaurantID).Msg("Failed to list evaluations")
		respondServiceError(w, err)
		return
	}

	body, err := h.buildResponses(r, restaurantID, evals)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, body)
}

// Get handles GET /restaurant/{restaurantId}/evaluation/{evaluationId}
func (h *EvaluationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurantID, evaluationID, err := pathIDs(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	eval, err := h.evaluationService.GetEvaluationByRestaurant(ctx, restaurantID, evaluationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	urls, err := h.evaluationService.GetPlatsImageURLs(ctx, restaurantID, evaluationID)
	if err != nil {
		log.Error().Err(err).Int64("evaluation_id", evaluationID).Msg("Failed to issue photo download URLs")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toEvaluationResponse(eval, urls))
}

// Create handles POST /restaurant/{restaurantId}/evaluation
func (h *EvaluationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetIdentity(ctx)

	restaurantID, err := pathID(r, "restaurantId")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var payload createEvaluationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validateEvaluationPayload(payload); err != nil {
		respondServiceError(w, err)
		return
	}

	req := services.CreateEvaluationRequest{
		Evaluateur:  payload.Evaluateur,
		Commentaire: payload.Commentaire,
		Note:        *payload.Note,
	}
	eval, err := h.evaluationService.CreateEvaluation(ctx, restaurantID, req, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Int64("evaluation_id", eval.ID).
		Int64("restaurant_id", restaurantID).
		Str("evaluateur", eval.Evaluateur).
		Msg("Evaluation created")

	w.Header().Set("Location", fmt.Sprintf("/restaurant/%d/evaluation/%d", restaurantID, eval.ID))
	respondJSON(w, http.StatusCreated, toEvaluationResponse(eval, []string{}))
}

// UploadURLs handles PUT /restaurant/{restaurantId}/evaluation/{evaluationId}/upload-urls
func (h *EvaluationHandler) UploadURLs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetIdentity(ctx)

	restaurantID, evaluationID, err := pathIDs(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	nbImage := 1
	if raw := r.URL.Query().Get("nbImage"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, "nbImage must be a non-negative integer", http.StatusBadRequest)
			return
		}
		nbImage = parsed
	}

	urls, err := h.evaluationService.GetUpdatePlatsImageURLs(ctx, restaurantID, evaluationID, nbImage, caller)
	if err != nil {
		log.Error().Err(err).Int64("evaluation_id", evaluationID).Msg("Failed to issue photo upload URLs")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, UpdatePlatsImageResponse{UploadURLs: urls})
}

// Delete handles DELETE /restaurant/{restaurantId}/evaluation/{evaluationId}
func (h *EvaluationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetIdentity(ctx)

	restaurantID, evaluationID, err := pathIDs(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.evaluationService.DeleteEvaluation(ctx, restaurantID, evaluationID, caller); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Int64("evaluation_id", evaluationID).
		Int64("restaurant_id", restaurantID).
		Str("caller", caller.Username).
		Msg("Evaluation deleted")
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /restaurant/{restaurantId}/evaluation/search?query=
func (h *EvaluationHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurantID, err := pathID(r, "restaurantId")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		respondError(w, "query is required", http.StatusBadRequest)
		return
	}

	evals, err := h.evaluationService.SearchEvaluations(ctx, restaurantID, query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Search failed")
		respondServiceError(w, err)
		return
	}

	body, err := h.buildResponses(r, restaurantID, evals)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, body)
}

// buildResponses folds photo download URLs into each evaluation
func (h *EvaluationHandler) buildResponses(r *http.Request, restaurantID int64, evals []*models.Evaluation) ([]EvaluationResponse, error) {
	ctx := r.Context()

	body := make([]EvaluationResponse, 0, len(evals))
	for _, eval := range evals {
		urls, err := h.evaluationService.GetPlatsImageURLs(ctx, restaurantID, eval.ID)
		if err != nil {
			log.Error().Err(err).Int64("evaluation_id", eval.ID).Msg("Failed to issue photo download URLs")
			return nil, err
		}
		body = append(body, toEvaluationResponse(eval, urls))
	}
	return body, nil
}

func toEvaluationResponse(eval *models.Evaluation, photoURLs []string) EvaluationResponse {
	return EvaluationResponse{
		ID:          eval.ID,
		Evaluateur:  eval.Evaluateur,
		Commentaire: eval.Commentaire,
		Note:        eval.Note,
		PhotosURLs:  photoURLs,
	}
}

// validateEvaluationPayload enforces the payload constraints before the
// orchestrator sees the request
func validateEvaluationPayload(p createEvaluationPayload) error {
	if strings.TrimSpace(p.Commentaire) == "" || len(p.Commentaire) > 255 {
		return fmt.Errorf("commentaire must be non-blank and at most 255 characters: %w", models.ErrValidation)
	}
	if len(p.Evaluateur) > 50 {
		return fmt.Errorf("evaluateur must be at most 50 characters: %w", models.ErrValidation)
	}
	if p.Note == nil || *p.Note < 0 || *p.Note > 3 {
		return fmt.Errorf("note must be an integer between 0 and 3: %w", models.ErrValidation)
	}
	return nil
}
