package repository

import (
	"context"
	"errors"
	"fmt"

	"resto-reviews-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RestaurantRepository handles database operations for restaurants
type RestaurantRepository struct {
	db *pgxpool.Pool
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// Create inserts a new restaurant and fills in its assigned id
func (r *RestaurantRepository) Create(ctx context.Context, resto *models.Restaurant) error {
	query := `
		INSERT INTO restaurant (nom, adresse)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, query, resto.Nom, resto.Adresse).Scan(&resto.ID); err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// GetByID retrieves a restaurant by id
func (r *RestaurantRepository) GetByID(ctx context.Context, id int64) (*models.Restaurant, error) {
	query := `
		SELECT id, nom, adresse, image_key
		FROM restaurant
		WHERE id = $1
	`
	var resto models.Restaurant
	err := r.db.QueryRow(ctx, query, id).Scan(&resto.ID, &resto.Nom, &resto.Adresse, &resto.ImageKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("restaurant %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return &resto, nil
}

// GetAll retrieves all restaurants ordered by id
func (r *RestaurantRepository) GetAll(ctx context.Context) ([]*models.Restaurant, error) {
	query := `
		SELECT id, nom, adresse, image_key
		FROM restaurant
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	var restos []*models.Restaurant
	for rows.Next() {
		var resto models.Restaurant
		if err := rows.Scan(&resto.ID, &resto.Nom, &resto.Adresse, &resto.ImageKey); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restos = append(restos, &resto)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurants: %w", err)
	}
	return restos, nil
}

// Update changes a restaurant's name and address
func (r *RestaurantRepository) Update(ctx context.Context, resto *models.Restaurant) error {
	query := `UPDATE restaurant SET nom = $1, adresse = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, resto.Nom, resto.Adresse, resto.ID)
	if err != nil {
		return fmt.Errorf("failed to update restaurant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("restaurant %d: %w", resto.ID, models.ErrNotFound)
	}
	return nil
}

// SetImageKey persists the derived object key on the restaurant row
func (r *RestaurantRepository) SetImageKey(ctx context.Context, id int64, imageKey string) error {
	query := `UPDATE restaurant SET image_key = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, imageKey, id)
	if err != nil {
		return fmt.Errorf("failed to set restaurant image key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("restaurant %d: %w", id, models.ErrNotFound)
	}
	return nil
}
