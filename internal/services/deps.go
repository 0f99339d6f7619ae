package services

import (
	"context"

	"resto-reviews-backend/internal/models"
)

// RestaurantStore is the authoritative store of restaurant records
type RestaurantStore interface {
	Create(ctx context.Context, resto *models.Restaurant) error
	GetByID(ctx context.Context, id int64) (*models.Restaurant, error)
	GetAll(ctx context.Context) ([]*models.Restaurant, error)
	Update(ctx context.Context, resto *models.Restaurant) error
	SetImageKey(ctx context.Context, id int64, imageKey string) error
}

// EvaluationStore is the authoritative store of evaluation records
type EvaluationStore interface {
	Create(ctx context.Context, eval *models.Evaluation) error
	GetByID(ctx context.Context, id int64) (*models.Evaluation, error)
	GetByRestaurantID(ctx context.Context, restaurantID int64) ([]*models.Evaluation, error)
	Delete(ctx context.Context, id int64) error
	AverageNote(ctx context.Context, restaurantID int64) (float64, bool, error)
}

// PhotoStore is the authoritative store of evaluation photo rows
type PhotoStore interface {
	Create(ctx context.Context, photo *models.PlatPhoto) error
	SetImageKey(ctx context.Context, id int64, imageKey string) error
	GetByEvaluationID(ctx context.Context, evaluationID int64) ([]*models.PlatPhoto, error)
}

// ObjectStore issues signed URLs for blobs and deletes them by key
type ObjectStore interface {
	UploadURL(ctx context.Context, key string) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// SearchIndex is the best-effort keyword projection of evaluations
type SearchIndex interface {
	IndexEvaluation(ctx context.Context, id, restaurantID int64, evaluateur, commentaire string, note int) error
	DeleteEvaluation(ctx context.Context, id int64) error
	SearchByKeywords(ctx context.Context, query string, restaurantID int64) ([]int64, error)
}
