package repository

import (
	"context"
	"fmt"

	"resto-reviews-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PlatPhotoRepository handles database operations for evaluation photos
type PlatPhotoRepository struct {
	db *pgxpool.Pool
}

// NewPlatPhotoRepository creates a new plat photo repository
func NewPlatPhotoRepository(db *pgxpool.Pool) *PlatPhotoRepository {
	return &PlatPhotoRepository{db: db}
}

// Create inserts a photo row without a key and fills in its assigned id.
// The id must exist before the object key can be derived.
func (r *PlatPhotoRepository) Create(ctx context.Context, photo *models.PlatPhoto) error {
	query := `
		INSERT INTO evaluation_photo (evaluation_id)
		VALUES ($1)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, query, photo.EvaluationID).Scan(&photo.ID); err != nil {
		return fmt.Errorf("failed to create evaluation photo: %w", err)
	}
	return nil
}

// SetImageKey persists the derived object key on the photo row
func (r *PlatPhotoRepository) SetImageKey(ctx context.Context, id int64, imageKey string) error {
	query := `UPDATE evaluation_photo SET image_key = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, imageKey, id)
	if err != nil {
		return fmt.Errorf("failed to set photo image key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("evaluation photo %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// GetByEvaluationID retrieves all photo rows of an evaluation ordered by id
func (r *PlatPhotoRepository) GetByEvaluationID(ctx context.Context, evaluationID int64) ([]*models.PlatPhoto, error) {
	query := `
		SELECT id, evaluation_id, image_key
		FROM evaluation_photo
		WHERE evaluation_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluation photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.PlatPhoto
	for rows.Next() {
		var photo models.PlatPhoto
		if err := rows.Scan(&photo.ID, &photo.EvaluationID, &photo.ImageKey); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation photo: %w", err)
		}
		photos = append(photos, &photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation photos: %w", err)
	}
	return photos, nil
}
