package storage

import (
	"context"
	"errors"

	"github.com/smartfit/smartfit-backend/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would violate a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the data access contract shared by the in-memory and MongoDB
// backends. Callers must stay backend-agnostic: the active implementation is
// chosen once at startup.
type Store interface {
	Kind() string

	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)

	GetMeasurement(ctx context.Context, userID string) (*models.Measurement, error)
	UpsertMeasurement(ctx context.Context, m *models.Measurement) (*models.Measurement, error)

	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetUserProducts(ctx context.Context, userID string) ([]models.Product, error)

	CreateFitAnalysis(ctx context.Context, fa *models.FitAnalysis) (*models.FitAnalysis, error)
	GetUserFitAnalyses(ctx context.Context, userID string) ([]models.FitAnalysis, error)

	AddToFavorites(ctx context.Context, userID, productID string) (*models.Favorite, error)
	RemoveFromFavorites(ctx context.Context, userID, productID string) error
	GetUserFavorites(ctx context.Context, userID string) ([]models.FavoriteWithProduct, error)

	CreateRecommendation(ctx context.Context, rec *models.Recommendation) (*models.Recommendation, error)
	GetUserRecommendations(ctx context.Context, userID string) ([]models.Recommendation, error)

	AddToHistory(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error)
	GetUserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error)

	CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error)
	GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationAsRead(ctx context.Context, id string) error
}
