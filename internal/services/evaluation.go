package services

import (
	"context"
	"fmt"

	"resto-reviews-backend/internal/models"
	"resto-reviews-backend/internal/objectstore"

	"github.com/rs/zerolog/log"
)

// EvaluationService orchestrates the evaluation lifecycle across the entity
// store, the object store and the search index. The entity store is the only
// authoritative one: index writes are best-effort and blob cleanup is causally
// tied to, but never atomic with, the relational delete.
type EvaluationService struct {
	evalRepo  EvaluationStore
	restoRepo RestaurantStore
	photoRepo PhotoStore
	objects   ObjectStore
	index     SearchIndex
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(
	evalRepo EvaluationStore,
	restoRepo RestaurantStore,
	photoRepo PhotoStore,
	objects ObjectStore,
	index SearchIndex,
) *EvaluationService {
	return &EvaluationService{
		evalRepo:  evalRepo,
		restoRepo: restoRepo,
		photoRepo: photoRepo,
		objects:   objects,
		index:     index,
	}
}

// CreateEvaluationRequest is the payload of an evaluation creation
type CreateEvaluationRequest struct {
	Evaluateur  string `json:"evaluateur"`
	Commentaire string `json:"commentaire"`
	Note        int    `json:"note"`
}

// CreateEvaluation persists a new evaluation for a restaurant and then
// indexes it best-effort. A non-blank caller username overrides the declared
// author. The returned evaluation has no photos yet; those are added through
// GetUpdatePlatsImageURLs.
func (s *EvaluationService) CreateEvaluation(ctx context.Context, restaurantID int64, req CreateEvaluationRequest, caller models.Identity) (*models.Evaluation, error) {
	if _, err := s.restoRepo.GetByID(ctx, restaurantID); err != nil {
		return nil, err
	}

	eval := &models.Evaluation{
		Evaluateur:   req.Evaluateur,
		Commentaire:  req.Commentaire,
		Note:         req.Note,
		RestaurantID: restaurantID,
	}
	if caller.Username != "" {
		eval.Evaluateur = caller.Username
	}

	if err := s.evalRepo.Create(ctx, eval); err != nil {
		return nil, err
	}

	// the index is a rebuildable projection; its failure never rolls back
	// the persisted evaluation
	if err := s.index.IndexEvaluation(ctx, eval.ID, restaurantID, eval.Evaluateur, eval.Commentaire, eval.Note); err != nil {
		log.Warn().Err(err).Int64("evaluation_id", eval.ID).Msg("Failed to index evaluation")
	}

	return eval, nil
}

// GetEvaluationsByRestaurant lists all evaluations of a restaurant
func (s *EvaluationService) GetEvaluationsByRestaurant(ctx context.Context, restaurantID int64) ([]*models.Evaluation, error) {
	return s.evalRepo.GetByRestaurantID(ctx, restaurantID)
}

// GetEvaluationByRestaurant fetches an evaluation and verifies it belongs to
// the given restaurant. An evaluation owned by a different restaurant is
// indistinguishable from an absent one.
func (s *EvaluationService) GetEvaluationByRestaurant(ctx context.Context, restaurantID, evaluationID int64) (*models.Evaluation, error) {
	eval, err := s.evalRepo.GetByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if eval.RestaurantID != restaurantID {
		return nil, fmt.Errorf("restaurant %d: %w", restaurantID, models.ErrNotFound)
	}
	return eval, nil
}

// GetUpdatePlatsImageURLs creates count photo slots on an evaluation and
// returns one upload URL per slot. Each slot's row is created first so its
// store-assigned id can feed the key derivation, and the key is persisted on
// the row before the URL is issued; a crash mid-loop leaves at most one row
// without a usable key, never a key without a row.
func (s *EvaluationService) GetUpdatePlatsImageURLs(ctx context.Context, restaurantID, evaluationID int64, count int, caller models.Identity) ([]string, error) {
	eval, err := s.GetEvaluationByRestaurant(ctx, restaurantID, evaluationID)
	if err != nil {
		return nil, err
	}
	if err := canMutate(caller, eval); err != nil {
		return nil, err
	}

	urls := make([]string, 0, count)
	for i := 0; i < count; i++ {
		photo := &models.PlatPhoto{EvaluationID: evaluationID}
		if err := s.photoRepo.Create(ctx, photo); err != nil {
			return nil, err
		}

		key := objectstore.PlatImageKey(restaurantID, evaluationID, photo.ID)
		if err := s.photoRepo.SetImageKey(ctx, photo.ID, key); err != nil {
			return nil, err
		}

		url, err := s.objects.UploadURL(ctx, key)
		if err != nil {
			// the request cannot succeed without the URL; surfaced, not swallowed
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// GetPlatsImageURLs returns a download URL per photo of an evaluation, in
// row order. A row without a key is a data-integrity gap: it is logged and
// skipped rather than failing the whole read.
func (s *EvaluationService) GetPlatsImageURLs(ctx context.Context, restaurantID, evaluationID int64) ([]string, error) {
	if _, err := s.GetEvaluationByRestaurant(ctx, restaurantID, evaluationID); err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.GetByEvaluationID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(photos))
	for _, photo := range photos {
		if photo.ImageKey == nil || *photo.ImageKey == "" {
			log.Warn().
				Int64("photo_id", photo.ID).
				Int64("evaluation_id", evaluationID).
				Msg("Photo row has no image key")
			continue
		}
		url, err := s.objects.DownloadURL(ctx, *photo.ImageKey)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// DeleteEvaluation deletes an evaluation: blobs first (each failure logged
// and ignored), then the relational rows in one transaction, then the index
// document best-effort. If the transaction fails after blobs were deleted,
// those blobs are permanently lost; that divergence is accepted rather than
// masked with distributed-transaction machinery.
func (s *EvaluationService) DeleteEvaluation(ctx context.Context, restaurantID, evaluationID int64, caller models.Identity) error {
	eval, err := s.GetEvaluationByRestaurant(ctx, restaurantID, evaluationID)
	if err != nil {
		return err
	}
	if err := canMutate(caller, eval); err != nil {
		return err
	}

	photos, err := s.photoRepo.GetByEvaluationID(ctx, evaluationID)
	if err != nil {
		return err
	}
	for _, photo := range photos {
		if photo.ImageKey == nil || *photo.ImageKey == "" {
			continue
		}
		if err := s.objects.Delete(ctx, *photo.ImageKey); err != nil {
			log.Warn().Err(err).
				Str("key", *photo.ImageKey).
				Int64("evaluation_id", evaluationID).
				Msg("Failed to delete photo blob")
		}
	}

	if err := s.evalRepo.Delete(ctx, evaluationID); err != nil {
		return err
	}

	if err := s.index.DeleteEvaluation(ctx, evaluationID); err != nil {
		log.Warn().Err(err).Int64("evaluation_id", evaluationID).Msg("Failed to remove evaluation from index")
	}
	return nil
}

// SearchEvaluations resolves keyword matches from the index against the
// entity store. The index is not authoritative: ids it returns that no
// longer resolve, or that fail the ownership check, are dropped.
func (s *EvaluationService) SearchEvaluations(ctx context.Context, restaurantID int64, query string) ([]*models.Evaluation, error) {
	ids, err := s.index.SearchByKeywords(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}

	evals := make([]*models.Evaluation, 0, len(ids))
	for _, id := range ids {
		eval, err := s.GetEvaluationByRestaurant(ctx, restaurantID, id)
		if err != nil {
			log.Debug().Err(err).
				Int64("evaluation_id", id).
				Int64("restaurant_id", restaurantID).
				Msg("Indexed evaluation no longer resolves")
			continue
		}
		evals = append(evals, eval)
	}
	return evals, nil
}

// canMutate enforces the evaluation mutation policy: admins always, anyone
// else only on their own evaluations
func canMutate(caller models.Identity, eval *models.Evaluation) error {
	if caller.IsAdmin() {
		return nil
	}
	if caller.Username != "" && caller.Username == eval.Evaluateur {
		return nil
	}
	return fmt.Errorf("evaluation %d: author or admin required: %w", eval.ID, models.ErrForbidden)
}
