package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartfit/smartfit-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the document-database-backed store. Concurrency control is
// delegated to the driver's connection pool; no operation spans more than one
// collection write.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(client *mongo.Client, dbName string) (*MongoStore, error) {
	s := &MongoStore{db: client.Database(dbName)}
	if err := s.ensureIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Kind() string { return "mongodb" }

// UserCollation compares email and username case-insensitively, the same rule
// the in-memory store applies by lowercasing its index keys. Strength 2
// ignores case but still distinguishes base characters.
var UserCollation = &options.Collation{Locale: "en", Strength: 2}

// ensureIndexes enforces the same uniqueness rules the in-memory store
// applies, so both backends reject duplicates identically.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	users := s.db.Collection("users")
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(UserCollation)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(UserCollation)},
	})
	if err != nil {
		return err
	}

	measurements := s.db.Collection("measurements")
	_, err = measurements.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	favorites := s.db.Collection("favorites")
	_, err = favorites.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, filter, opts...).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email}, options.FindOne().SetCollation(UserCollation))
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username}, options.FindOne().SetCollation(UserCollation))
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()

	_, err := s.db.Collection("users").InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) GetMeasurement(ctx context.Context, userID string) (*models.Measurement, error) {
	var m models.Measurement
	err := s.db.Collection("measurements").FindOne(ctx, bson.M{"user_id": userID}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &m, nil
}

func (s *MongoStore) UpsertMeasurement(ctx context.Context, m *models.Measurement) (*models.Measurement, error) {
	now := time.Now()

	// Single atomic write. Last write wins; identity and creation time
	// survive updates, and concurrent first-time upserts cannot race the
	// unique user_id index.
	update := bson.M{
		"$set": bson.M{
			"chest":      m.Chest,
			"shoulders":  m.Shoulders,
			"waist":      m.Waist,
			"height":     m.Height,
			"hips":       m.Hips,
			"confidence": m.Confidence,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"user_id":    m.UserID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var rec models.Measurement
	err := s.db.Collection("measurements").FindOneAndUpdate(ctx, bson.M{"user_id": m.UserID}, update, opts).Decode(&rec)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	rec := *p
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	if _, err := s.db.Collection("products").InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) GetUserProducts(ctx context.Context, userID string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.findAllForUser(ctx, "products", userID, &products)
	return products, err
}

func (s *MongoStore) CreateFitAnalysis(ctx context.Context, fa *models.FitAnalysis) (*models.FitAnalysis, error) {
	rec := *fa
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	if _, err := s.db.Collection("fit_analyses").InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) GetUserFitAnalyses(ctx context.Context, userID string) ([]models.FitAnalysis, error) {
	analyses := []models.FitAnalysis{}
	err := s.findAllForUser(ctx, "fit_analyses", userID, &analyses)
	return analyses, err
}

func (s *MongoStore) AddToFavorites(ctx context.Context, userID, productID string) (*models.Favorite, error) {
	collection := s.db.Collection("favorites")

	rec := models.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	_, err := collection.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Re-favoriting returns the existing link.
			var existing models.Favorite
			if ferr := collection.FindOne(ctx, bson.M{"user_id": userID, "product_id": productID}).Decode(&existing); ferr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) RemoveFromFavorites(ctx context.Context, userID, productID string) error {
	// No-op if absent.
	_, err := s.db.Collection("favorites").DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUserFavorites(ctx context.Context, userID string) ([]models.FavoriteWithProduct, error) {
	favorites := []models.Favorite{}
	if err := s.findAllForUser(ctx, "favorites", userID, &favorites); err != nil {
		return nil, err
	}

	joined := []models.FavoriteWithProduct{}
	for _, f := range favorites {
		product, err := s.GetProduct(ctx, f.ProductID)
		if err != nil {
			// Favorites whose product no longer resolves are dropped from
			// listings rather than surfaced half-empty.
			continue
		}
		joined = append(joined, models.FavoriteWithProduct{Favorite: f, Product: *product})
	}
	return joined, nil
}

func (s *MongoStore) CreateRecommendation(ctx context.Context, rec *models.Recommendation) (*models.Recommendation, error) {
	r := *rec
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	if _, err := s.db.Collection("recommendations").InsertOne(ctx, r); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &r, nil
}

func (s *MongoStore) GetUserRecommendations(ctx context.Context, userID string) ([]models.Recommendation, error) {
	recs := []models.Recommendation{}
	err := s.findAllForUser(ctx, "recommendations", userID, &recs)
	return recs, err
}

func (s *MongoStore) AddToHistory(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	rec := *entry
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	if _, err := s.db.Collection("user_history").InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) GetUserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	err := s.findAllForUser(ctx, "user_history", userID, &entries)
	return entries, err
}

func (s *MongoStore) CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	rec := *n
	rec.ID = uuid.NewString()
	rec.IsRead = false
	rec.CreatedAt = time.Now()
	if _, err := s.db.Collection("notifications").InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := s.findAllForUser(ctx, "notifications", userID, &notifications)
	return notifications, err
}

func (s *MongoStore) MarkNotificationAsRead(ctx context.Context, id string) error {
	// No-op if absent.
	_, err := s.db.Collection("notifications").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// findAllForUser loads every document owned by userID, newest first, into out
// (a pointer to a slice).
func (s *MongoStore) findAllForUser(ctx context.Context, collection, userID string, out any) error {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}}) // Show latest first

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
