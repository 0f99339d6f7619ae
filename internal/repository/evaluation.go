package repository

import (
	"context"
	"errors"
	"fmt"

	"resto-reviews-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EvaluationRepository handles database operations for evaluations
type EvaluationRepository struct {
	db *pgxpool.Pool
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create inserts a new evaluation and fills in its assigned id
func (r *EvaluationRepository) Create(ctx context.Context, eval *models.Evaluation) error {
	query := `
		INSERT INTO evaluation (evaluateur, commentaire, note, resto_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		eval.Evaluateur, eval.Commentaire, eval.Note, eval.RestaurantID,
	).Scan(&eval.ID)
	if err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

// GetByID retrieves an evaluation by id
func (r *EvaluationRepository) GetByID(ctx context.Context, id int64) (*models.Evaluation, error) {
	query := `
		SELECT id, evaluateur, commentaire, note, resto_id
		FROM evaluation
		WHERE id = $1
	`
	var eval models.Evaluation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&eval.ID, &eval.Evaluateur, &eval.Commentaire, &eval.Note, &eval.RestaurantID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("evaluation %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return &eval, nil
}

// GetByRestaurantID retrieves all evaluations of a restaurant ordered by id
func (r *EvaluationRepository) GetByRestaurantID(ctx context.Context, restaurantID int64) ([]*models.Evaluation, error) {
	query := `
		SELECT id, evaluateur, commentaire, note, resto_id
		FROM evaluation
		WHERE resto_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var evals []*models.Evaluation
	for rows.Next() {
		var eval models.Evaluation
		err := rows.Scan(&eval.ID, &eval.Evaluateur, &eval.Commentaire, &eval.Note, &eval.RestaurantID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evals = append(evals, &eval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluations: %w", err)
	}
	return evals, nil
}

// Delete removes an evaluation and its photo rows in one transaction.
// The photo rows also carry ON DELETE CASCADE, but the explicit delete keeps
// the boundary visible and the schema dependency out of the hot path.
func (r *EvaluationRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM evaluation_photo WHERE evaluation_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete evaluation photos: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM evaluation WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("evaluation %d: %w", id, models.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit evaluation delete: %w", err)
	}
	return nil
}

// AverageNote computes the mean note for a restaurant.
// The second return value is false when the restaurant has no evaluations;
// zero is a valid note and must not be confused with absence.
func (r *EvaluationRepository) AverageNote(ctx context.Context, restaurantID int64) (float64, bool, error) {
	query := `SELECT AVG(note) FROM evaluation WHERE resto_id = $1`
	var avg *float64
	if err := r.db.QueryRow(ctx, query, restaurantID).Scan(&avg); err != nil {
		return 0, false, fmt.Errorf("failed to compute average note: %w", err)
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}
