package services

import (
	"context"
	"fmt"

	"resto-reviews-backend/internal/models"
	"resto-reviews-backend/internal/objectstore"
)

// noEvaluations is returned by AverageFor when a restaurant has no
// evaluations; zero is a valid note and cannot double as the sentinel
const noEvaluations = -1.0

// RestaurantService orchestrates restaurant records and their single image
type RestaurantService struct {
	restoRepo RestaurantStore
	evalRepo  EvaluationStore
	objects   ObjectStore
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(restoRepo RestaurantStore, evalRepo EvaluationStore, objects ObjectStore) *RestaurantService {
	return &RestaurantService{
		restoRepo: restoRepo,
		evalRepo:  evalRepo,
		objects:   objects,
	}
}

// CreateRestaurantRequest is the payload of a restaurant creation or update
type CreateRestaurantRequest struct {
	Nom     string `json:"nom"`
	Adresse string `json:"adresse"`
}

// GetRestaurants lists all restaurants
func (s *RestaurantService) GetRestaurants(ctx context.Context) ([]*models.Restaurant, error) {
	return s.restoRepo.GetAll(ctx)
}

// GetRestaurantByID fetches one restaurant
func (s *RestaurantService) GetRestaurantByID(ctx context.Context, id int64) (*models.Restaurant, error) {
	return s.restoRepo.GetByID(ctx, id)
}

// CreateRestaurant persists a new restaurant; admin only
func (s *RestaurantService) CreateRestaurant(ctx context.Context, req CreateRestaurantRequest, caller models.Identity) (*models.Restaurant, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	resto := &models.Restaurant{Nom: req.Nom, Adresse: req.Adresse}
	if err := s.restoRepo.Create(ctx, resto); err != nil {
		return nil, err
	}
	return resto, nil
}

// UpdateRestaurant changes a restaurant's name and address; admin only
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, id int64, req CreateRestaurantRequest, caller models.Identity) (*models.Restaurant, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	resto, err := s.restoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resto.Nom = req.Nom
	resto.Adresse = req.Adresse
	if err := s.restoRepo.Update(ctx, resto); err != nil {
		return nil, err
	}
	return resto, nil
}

// AverageFor returns the mean note of a restaurant's evaluations, or -1.0
// when it has none
func (s *RestaurantService) AverageFor(ctx context.Context, restaurantID int64) (float64, error) {
	avg, ok, err := s.evalRepo.AverageNote(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return noEvaluations, nil
	}
	return avg, nil
}

// GetUpdateRestaurantImageURL derives the restaurant's fixed image key,
// persists it on the row and returns an upload URL for it; admin only.
// The key is stable, so reissuing only renews the URL's validity window.
func (s *RestaurantService) GetUpdateRestaurantImageURL(ctx context.Context, id int64, caller models.Identity) (string, error) {
	if err := requireAdmin(caller); err != nil {
		return "", err
	}
	if _, err := s.restoRepo.GetByID(ctx, id); err != nil {
		return "", err
	}

	key := objectstore.RestaurantImageKey(id)
	if err := s.restoRepo.SetImageKey(ctx, id, key); err != nil {
		return "", err
	}
	return s.objects.UploadURL(ctx, key)
}

// GetRestaurantImageURL returns a download URL for the restaurant's image,
// or "" when no upload URL has ever been issued — there is no blob to point
// at, and that is not an error.
func (s *RestaurantService) GetRestaurantImageURL(ctx context.Context, id int64) (string, error) {
	resto, err := s.restoRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if resto.ImageKey == nil || *resto.ImageKey == "" {
		return "", nil
	}
	return s.objects.DownloadURL(ctx, *resto.ImageKey)
}

// requireAdmin enforces the admin-only policy on restaurant mutations
func requireAdmin(caller models.Identity) error {
	if caller.IsAdmin() {
		return nil
	}
	return fmt.Errorf("admin role required: %w", models.ErrForbidden)
}
