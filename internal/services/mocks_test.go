package services

import (
	"context"
	"fmt"

	"resto-reviews-backend/internal/models"
)

// in-memory stand-ins for the stores; no store errors unless injected

type mockRestaurantStore struct {
	restaurants map[int64]*models.Restaurant
	nextID      int64
}

func newMockRestaurantStore() *mockRestaurantStore {
	return &mockRestaurantStore{restaurants: make(map[int64]*models.Restaurant), nextID: 1}
}

func (m *mockRestaurantStore) Create(ctx context.Context, resto *models.Restaurant) error {
	resto.ID = m.nextID
	m.nextID++
	m.restaurants[resto.ID] = resto
	return nil
}

func (m *mockRestaurantStore) GetByID(ctx context.Context, id int64) (*models.Restaurant, error) {
	resto, ok := m.restaurants[id]
	if !ok {
		return nil, fmt.Errorf("restaurant %d: %w", id, models.ErrNotFound)
	}
	copied := *resto
	return &copied, nil
}

func (m *mockRestaurantStore) GetAll(ctx context.Context) ([]*models.Restaurant, error) {
	var all []*models.Restaurant
	for id := int64(1); id < m.nextID; id++ {
		if resto, ok := m.restaurants[id]; ok {
			copied := *resto
			all = append(all, &copied)
		}
	}
	return all, nil
}

func (m *mockRestaurantStore) Update(ctx context.Context, resto *models.Restaurant) error {
	if _, ok := m.restaurants[resto.ID]; !ok {
		return fmt.Errorf("restaurant %d: %w", resto.ID, models.ErrNotFound)
	}
	copied := *resto
	m.restaurants[resto.ID] = &copied
	return nil
}

func (m *mockRestaurantStore) SetImageKey(ctx context.Context, id int64, imageKey string) error {
	resto, ok := m.restaurants[id]
	if !ok {
		return fmt.Errorf("restaurant %d: %w", id, models.ErrNotFound)
	}
	resto.ImageKey = &imageKey
	return nil
}

type mockEvaluationStore struct {
	evaluations map[int64]*models.Evaluation
	nextID      int64
	deleted     []int64
}

func newMockEvaluationStore() *mockEvaluationStore {
	return &mockEvaluationStore{evaluations: make(map[int64]*models.Evaluation), nextID: 10}
}

func (m *mockEvaluationStore) Create(ctx context.Context, eval *models.Evaluation) error {
	eval.ID = m.nextID
	m.nextID++
	copied := *eval
	m.evaluations[eval.ID] = &copied
	return nil
}

func (m *mockEvaluationStore) GetByID(ctx context.Context, id int64) (*models.Evaluation, error) {
	eval, ok := m.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("evaluation %d: %w", id, models.ErrNotFound)
	}
	copied := *eval
	return &copied, nil
}

func (m *mockEvaluationStore) GetByRestaurantID(ctx context.Context, restaurantID int64) ([]*models.Evaluation, error) {
	var evals []*models.Evaluation
	for id := int64(0); id < m.nextID; id++ {
		if eval, ok := m.evaluations[id]; ok && eval.RestaurantID == restaurantID {
			copied := *eval
			evals = append(evals, &copied)
		}
	}
	return evals, nil
}

func (m *mockEvaluationStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.evaluations[id]; !ok {
		return fmt.Errorf("evaluation %d: %w", id, models.ErrNotFound)
	}
	delete(m.evaluations, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEvaluationStore) AverageNote(ctx context.Context, restaurantID int64) (float64, bool, error) {
	sum, n := 0, 0
	for _, eval := range m.evaluations {
		if eval.RestaurantID == restaurantID {
			sum += eval.Note
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(n), true, nil
}

type mockPhotoStore struct {
	photos map[int64]*models.PlatPhoto
	nextID int64
}

func newMockPhotoStore() *mockPhotoStore {
	return &mockPhotoStore{photos: make(map[int64]*models.PlatPhoto), nextID: 100}
}

func (m *mockPhotoStore) Create(ctx context.Context, photo *models.PlatPhoto) error {
	photo.ID = m.nextID
	m.nextID++
	copied := *photo
	m.photos[photo.ID] = &copied
	return nil
}

func (m *mockPhotoStore) SetImageKey(ctx context.Context, id int64, imageKey string) error {
	photo, ok := m.photos[id]
	if !ok {
		return fmt.Errorf("evaluation photo %d: %w", id, models.ErrNotFound)
	}
	photo.ImageKey = &imageKey
	return nil
}

func (m *mockPhotoStore) GetByEvaluationID(ctx context.Context, evaluationID int64) ([]*models.PlatPhoto, error) {
	var photos []*models.PlatPhoto
	for id := int64(0); id < m.nextID; id++ {
		if photo, ok := m.photos[id]; ok && photo.EvaluationID == evaluationID {
			copied := *photo
			photos = append(photos, &copied)
		}
	}
	return photos, nil
}

type mockObjectStore struct {
	uploadErr   error
	downloadErr error
	deleteErr   error
	uploads     []string
	downloads   []string
	deletes     []string
}

func (m *mockObjectStore) UploadURL(ctx context.Context, key string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploads = append(m.uploads, key)
	return "https://store.example/put/" + key, nil
}

func (m *mockObjectStore) DownloadURL(ctx context.Context, key string) (string, error) {
	if m.downloadErr != nil {
		return "", m.downloadErr
	}
	m.downloads = append(m.downloads, key)
	return "https://store.example/get/" + key, nil
}

func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, key)
	return nil
}

type mockSearchIndex struct {
	indexErr   error
	deleteErr  error
	searchIDs  []int64
	searchErr  error
	indexed    []int64
	unindexed  []int64
	lastQuery  string
	lastFilter int64
}

func (m *mockSearchIndex) IndexEvaluation(ctx context.Context, id, restaurantID int64, evaluateur, commentaire string, note int) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexed = append(m.indexed, id)
	return nil
}

func (m *mockSearchIndex) DeleteEvaluation(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.unindexed = append(m.unindexed, id)
	return nil
}

func (m *mockSearchIndex) SearchByKeywords(ctx context.Context, query string, restaurantID int64) ([]int64, error) {
	m.lastQuery = query
	m.lastFilter = restaurantID
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchIDs, nil
}
