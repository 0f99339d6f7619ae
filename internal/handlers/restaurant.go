package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"resto-reviews-backend/internal/middleware"
	"resto-reviews-backend/internal/models"
	"resto-reviews-backend/internal/services"
)

// RestaurantHandler handles restaurant HTTP requests
type RestaurantHandler struct {
	restaurantService *services.RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(restaurantService *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService}
}

// RestaurantResponse is a restaurant with its derived image URL and average
// note. ImageURL is null until an image upload URL has been issued; Moyenne
// is -1 for a restaurant without evaluations.
type RestaurantResponse struct {
	ID       int64   `json:"id"`
	Nom      string  `json:"nom"`
	Adresse  string  `json:"adresse"`
	ImageURL *string `json:"imageUrl"`
	Moyenne  float64 `json:"moyenne"`
}

// UpdateRestaurantImageResponse carries one presigned upload URL
type UpdateRestaurantImageResponse struct {
	UploadURL string `json:"uploadUrl"`
}

// List handles GET /restaurant
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restos, err := h.restaurantService.GetRestaurants(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list restaurants")
		respondServiceError(w, err)
		return
	}

	body := make([]RestaurantResponse, 0, len(restos))
	for _, resto := range restos {
		dto, err := h.buildResponse(r, resto)
		if err != nil {
			log.Error().Err(err).Int64("restaurant_id", resto.ID).Msg("Failed to compose restaurant")
			respondServiceError(w, err)
			return
		}
		body = append(body, dto)
	}
	respondJSON(w, http.StatusOK, body)
}

// Get handles GET /restaurant/{restaurantId}
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "restaurantId")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resto, err := h.restaurantService.GetRestaurantByID(ctx, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	dto, err := h.buildResponse(r, resto)
	if err != nil {
		log.Error().Err(err).Int64("restaurant_id", id).Msg("Failed to compose restaurant")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// Create handles POST /restaurant
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetIdentity(ctx)

	req, err := decodeRestaurantRequest(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resto, err := h.restaurantService.CreateRestaurant(ctx, req, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Int64("restaurant_id", resto.ID).Str("caller", caller.Username).Msg("Restaurant created")

	// no image and no evaluations yet
	body := RestaurantResponse{ID: resto.ID, Nom: resto.Nom, Adresse: resto.Adresse, Moyenne: -1.0}
	w.Header().Set("Location", fmt.Sprintf("/restaurant/%d", resto.ID))
	respondJSON(w, http.StatusCreated, body)
}

// Update handles PUT /restaurant/{restaurantId}
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetIdentity(ctx)

	id, err := pathID(r, "restaurantId")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	req, err := decodeRestaurantRequest(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resto, err := h.restaurantService.UpdateRestaurant(ctx, id, req, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	dto, err := h.buildResponse(r, resto)
	if err != nil {
		log.Error().Err(err).Int64("restaurant_id", id).Msg("Failed to compose restaurant")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// UpdateImage handles PUT /restaurant/{restaurantId}/image
func (h *RestaurantHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetIdentity(ctx)

	id, err := pathID(r, "restaurantId")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	url, err := h.restaurantService.GetUpdateRestaurantImageURL(ctx, id, caller)
	if err != nil {
		log.Error().Err(err).Int64("restaurant_id", id).Msg("Failed to issue restaurant image upload URL")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, UpdateRestaurantImageResponse{UploadURL: url})
}

// buildResponse folds the image URL and the average note into the DTO
func (h *RestaurantHandler) buildResponse(r *http.Request, resto *models.Restaurant) (RestaurantResponse, error) {
	ctx := r.Context()

	imageURL, err := h.restaurantService.GetRestaurantImageURL(ctx, resto.ID)
	if err != nil {
		return RestaurantResponse{}, err
	}
	moyenne, err := h.restaurantService.AverageFor(ctx, resto.ID)
	if err != nil {
		return RestaurantResponse{}, err
	}

	dto := RestaurantResponse{ID: resto.ID, Nom: resto.Nom, Adresse: resto.Adresse, Moyenne: moyenne}
	if imageURL != "" {
		dto.ImageURL = &imageURL
	}
	return dto, nil
}

// decodeRestaurantRequest decodes and validates a create/update payload
func decodeRestaurantRequest(r *http.Request) (services.CreateRestaurantRequest, error) {
	var req services.CreateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", models.ErrValidation)
	}
	if strings.TrimSpace(req.Nom) == "" || len(req.Nom) > 90 {
		return req, fmt.Errorf("nom must be non-blank and at most 90 characters: %w", models.ErrValidation)
	}
	if strings.TrimSpace(req.Adresse) == "" || len(req.Adresse) > 255 {
		return req, fmt.Errorf("adresse must be non-blank and at most 255 characters: %w", models.ErrValidation)
	}
	return req, nil
}
