package storage

import (
	"context"
	"testing"

	"github.com/smartfit/smartfit-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, s *MemStore, username, email string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), &models.User{
		Username: username,
		Email:    email,
		Password: "hashed",
		FullName: "Test User",
	})
	require.NoError(t, err)
	return user
}

func TestCreateUser_EnforcesUniqueness(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()

	newTestUser(t, s, "alice", "a@x.com")

	_, err := s.CreateUser(ctx, &models.User{Username: "alice2", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate, "duplicate email must be rejected")

	_, err = s.CreateUser(ctx, &models.User{Username: "alice", Email: "a2@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate, "duplicate username must be rejected")

	// Case differences do not create a second identity.
	_, err = s.CreateUser(ctx, &models.User{Username: "ALICE", Email: "A@X.COM"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetUser_Lookups(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()

	created := newTestUser(t, s, "bob", "b@x.com")

	byID, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	byEmail, err := s.GetUserByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byUsername, err := s.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertMeasurement_Idempotence(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "carol", "c@x.com")

	first, err := s.UpsertMeasurement(ctx, &models.Measurement{UserID: user.ID, Chest: 100, Waist: 80})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := s.UpsertMeasurement(ctx, &models.Measurement{UserID: user.ID, Chest: 100, Waist: 80})
	require.NoError(t, err)

	// Same record identity and creation time; only UpdatedAt may move.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	stored, err := s.GetMeasurement(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, stored.ID)
	assert.Equal(t, 100.0, stored.Chest)
}

func TestUpsertMeasurement_LastWriteWins(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "dave", "d@x.com")

	_, err := s.UpsertMeasurement(ctx, &models.Measurement{UserID: user.ID, Chest: 100, Waist: 80})
	require.NoError(t, err)

	_, err = s.UpsertMeasurement(ctx, &models.Measurement{UserID: user.ID, Chest: 95})
	require.NoError(t, err)

	stored, err := s.GetMeasurement(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 95.0, stored.Chest)
	assert.Zero(t, stored.Waist, "no merge: the whole record is replaced")
}

func TestProduct_RoundTrip(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "erin", "e@x.com")

	created, err := s.CreateProduct(ctx, &models.Product{
		UserID:       user.ID,
		Name:         "Oxford Shirt",
		Brand:        "Arrow",
		Size:         "M",
		Measurements: map[string]float64{"chest": 102, "shoulders": 46},
	})
	require.NoError(t, err)

	fetched, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestFavorites_JoinDropsDeadProducts(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "frank", "f@x.com")

	product, err := s.CreateProduct(ctx, &models.Product{UserID: user.ID, Name: "Jacket"})
	require.NoError(t, err)

	_, err = s.AddToFavorites(ctx, user.ID, product.ID)
	require.NoError(t, err)
	_, err = s.AddToFavorites(ctx, user.ID, "gone-product")
	require.NoError(t, err)

	favorites, err := s.GetUserFavorites(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1, "favorites without a resolvable product are dropped")
	assert.Equal(t, product.ID, favorites[0].Product.ID)
}

func TestFavorites_PairIsUnique(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "grace", "g@x.com")

	product, err := s.CreateProduct(ctx, &models.Product{UserID: user.ID, Name: "Chinos"})
	require.NoError(t, err)

	first, err := s.AddToFavorites(ctx, user.ID, product.ID)
	require.NoError(t, err)
	second, err := s.AddToFavorites(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-favoriting returns the existing link")

	favorites, err := s.GetUserFavorites(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}

func TestFavorites_RemoveIsNoOpWhenAbsent(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "heidi", "h@x.com")

	assert.NoError(t, s.RemoveFromFavorites(ctx, user.ID, "never-favorited"))

	product, err := s.CreateProduct(ctx, &models.Product{UserID: user.ID, Name: "Tee"})
	require.NoError(t, err)
	_, err = s.AddToFavorites(ctx, user.ID, product.ID)
	require.NoError(t, err)
	require.NoError(t, s.RemoveFromFavorites(ctx, user.ID, product.ID))

	favorites, err := s.GetUserFavorites(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestFitAnalyses_NewestFirstAndScoped(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "ivan", "i@x.com")
	other := newTestUser(t, s, "judy", "j@x.com")

	for _, status := range []string{"perfect", "acceptable", "poor"} {
		_, err := s.CreateFitAnalysis(ctx, &models.FitAnalysis{UserID: user.ID, ProductID: "p", FitStatus: status})
		require.NoError(t, err)
	}
	_, err := s.CreateFitAnalysis(ctx, &models.FitAnalysis{UserID: other.ID, ProductID: "p", FitStatus: "poor"})
	require.NoError(t, err)

	analyses, err := s.GetUserFitAnalyses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, analyses, 3)
	for i := 1; i < len(analyses); i++ {
		assert.False(t, analyses[i-1].CreatedAt.Before(analyses[i].CreatedAt), "analyses must be newest first")
	}
}

func TestNotifications_MarkRead(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "mallory", "m@x.com")

	created, err := s.CreateNotification(ctx, &models.Notification{
		UserID:  user.ID,
		Title:   "Fit analysis ready",
		Message: "done",
		Type:    "fit_analysis",
	})
	require.NoError(t, err)
	assert.False(t, created.IsRead)

	require.NoError(t, s.MarkNotificationAsRead(ctx, created.ID))
	require.NoError(t, s.MarkNotificationAsRead(ctx, "missing"), "marking an absent notification is a no-op")

	notifications, err := s.GetUserNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].IsRead)
}

func TestHistory_AppendOnlyNewestFirst(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()
	user := newTestUser(t, s, "niaj", "n@x.com")

	for _, action := range []string{"signup", "measurement_saved", "fit_predicted"} {
		_, err := s.AddToHistory(ctx, &models.HistoryEntry{UserID: user.ID, Action: action})
		require.NoError(t, err)
	}

	entries, err := s.GetUserHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i-1].CreatedAt.Before(entries[i].CreatedAt))
	}
}
