package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartfit/smartfit-backend/models"
)

// MemStore is the in-process map-backed store. Handlers run on concurrent
// goroutines, so every operation takes the lock.
type MemStore struct {
	mu sync.RWMutex

	users         map[string]*models.User
	emailIndex    map[string]string // lowercased email -> user id
	usernameIndex map[string]string // lowercased username -> user id

	measurements    map[string]*models.Measurement // keyed by user id
	products        map[string]*models.Product
	fitAnalyses     map[string]*models.FitAnalysis
	favorites       map[string]*models.Favorite
	recommendations map[string]*models.Recommendation
	history         map[string]*models.HistoryEntry
	notifications   map[string]*models.Notification
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:           make(map[string]*models.User),
		emailIndex:      make(map[string]string),
		usernameIndex:   make(map[string]string),
		measurements:    make(map[string]*models.Measurement),
		products:        make(map[string]*models.Product),
		fitAnalyses:     make(map[string]*models.FitAnalysis),
		favorites:       make(map[string]*models.Favorite),
		recommendations: make(map[string]*models.Recommendation),
		history:         make(map[string]*models.HistoryEntry),
		notifications:   make(map[string]*models.Notification),
	}
}

func (s *MemStore) Kind() string { return "memory" }

func (s *MemStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *MemStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *MemStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emailKey := strings.ToLower(user.Email)
	usernameKey := strings.ToLower(user.Username)
	if _, exists := s.emailIndex[emailKey]; exists {
		return nil, ErrDuplicate
	}
	if _, exists := s.usernameIndex[usernameKey]; exists {
		return nil, ErrDuplicate
	}

	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	s.users[u.ID] = &u
	s.emailIndex[emailKey] = u.ID
	s.usernameIndex[usernameKey] = u.ID

	out := u
	return &out, nil
}

func (s *MemStore) GetMeasurement(ctx context.Context, userID string) (*models.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.measurements[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *m
	return &out, nil
}

func (s *MemStore) UpsertMeasurement(ctx context.Context, m *models.Measurement) (*models.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rec := *m
	if existing, ok := s.measurements[m.UserID]; ok {
		// Last write wins; identity and creation time survive the update.
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.measurements[m.UserID] = &rec

	out := rec
	return &out, nil
}

func (s *MemStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *p
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	s.products[rec.ID] = &rec

	out := rec
	return &out, nil
}

func (s *MemStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *MemStore) GetUserProducts(ctx context.Context, userID string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := []models.Product{}
	for _, p := range s.products {
		if p.UserID == userID {
			products = append(products, *p)
		}
	}
	sortNewestFirst(products, func(p models.Product) time.Time { return p.CreatedAt })
	return products, nil
}

func (s *MemStore) CreateFitAnalysis(ctx context.Context, fa *models.FitAnalysis) (*models.FitAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *fa
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	s.fitAnalyses[rec.ID] = &rec

	out := rec
	return &out, nil
}

func (s *MemStore) GetUserFitAnalyses(ctx context.Context, userID string) ([]models.FitAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	analyses := []models.FitAnalysis{}
	for _, fa := range s.fitAnalyses {
		if fa.UserID == userID {
			analyses = append(analyses, *fa)
		}
	}
	sortNewestFirst(analyses, func(fa models.FitAnalysis) time.Time { return fa.CreatedAt })
	return analyses, nil
}

func (s *MemStore) AddToFavorites(ctx context.Context, userID, productID string) (*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// (userID, productID) is unique; re-favoriting returns the existing link.
	for _, f := range s.favorites {
		if f.UserID == userID && f.ProductID == productID {
			out := *f
			return &out, nil
		}
	}

	rec := models.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	s.favorites[rec.ID] = &rec

	out := rec
	return &out, nil
}

func (s *MemStore) RemoveFromFavorites(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.favorites {
		if f.UserID == userID && f.ProductID == productID {
			delete(s.favorites, id)
			return nil
		}
	}
	// No-op if absent.
	return nil
}

func (s *MemStore) GetUserFavorites(ctx context.Context, userID string) ([]models.FavoriteWithProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	favorites := []models.FavoriteWithProduct{}
	for _, f := range s.favorites {
		if f.UserID != userID {
			continue
		}
		product, ok := s.products[f.ProductID]
		if !ok {
			// Favorites whose product no longer resolves are dropped from
			// listings rather than surfaced half-empty.
			continue
		}
		favorites = append(favorites, models.FavoriteWithProduct{Favorite: *f, Product: *product})
	}
	sortNewestFirst(favorites, func(f models.FavoriteWithProduct) time.Time { return f.CreatedAt })
	return favorites, nil
}

func (s *MemStore) CreateRecommendation(ctx context.Context, rec *models.Recommendation) (*models.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *rec
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	s.recommendations[r.ID] = &r

	out := r
	return &out, nil
}

func (s *MemStore) GetUserRecommendations(ctx context.Context, userID string) ([]models.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := []models.Recommendation{}
	for _, r := range s.recommendations {
		if r.UserID == userID {
			recs = append(recs, *r)
		}
	}
	sortNewestFirst(recs, func(r models.Recommendation) time.Time { return r.CreatedAt })
	return recs, nil
}

func (s *MemStore) AddToHistory(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *entry
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	s.history[rec.ID] = &rec

	out := rec
	return &out, nil
}

func (s *MemStore) GetUserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []models.HistoryEntry{}
	for _, e := range s.history {
		if e.UserID == userID {
			entries = append(entries, *e)
		}
	}
	sortNewestFirst(entries, func(e models.HistoryEntry) time.Time { return e.CreatedAt })
	return entries, nil
}

func (s *MemStore) CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *n
	rec.ID = uuid.NewString()
	rec.IsRead = false
	rec.CreatedAt = time.Now()
	s.notifications[rec.ID] = &rec

	out := rec
	return &out, nil
}

func (s *MemStore) GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notifications := []models.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			notifications = append(notifications, *n)
		}
	}
	sortNewestFirst(notifications, func(n models.Notification) time.Time { return n.CreatedAt })
	return notifications, nil
}

func (s *MemStore) MarkNotificationAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notifications[id]; ok {
		n.IsRead = true
	}
	// No-op if absent.
	return nil
}

func sortNewestFirst[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
