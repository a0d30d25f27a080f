package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/couchcryptid/agri-advisor-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	districtsCollection       = "districts"
	recommendationsCollection = "recommendations"

	maxConnectAttempts = 5
	retryDelay         = 2 * time.Second
)

// Store persists district records and recommendation history in MongoDB.
// It implements advisor.Store.
type Store struct {
	client          *mongodriver.Client
	districts       *mongodriver.Collection
	recommendations *mongodriver.Collection
	logger          *slog.Logger
}

// Connect dials MongoDB, retrying until the server answers a ping or the
// attempts run out.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		client, err := connectOnce(ctx, opts)
		if err == nil {
			logger.Info("connected to mongodb", "database", database)
			db := client.Database(database)
			return &Store{
				client:          client,
				districts:       db.Collection(districtsCollection),
				recommendations: db.Collection(recommendationsCollection),
				logger:          logger,
			}, nil
		}
		lastErr = err
		logger.Warn("mongodb connect failed",
			"attempt", attempt,
			"max_attempts", maxConnectAttempts,
			"error", err,
		)
		if attempt == maxConnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("connect to mongodb after %d attempts: %w", maxConnectAttempts, lastErr)
}

func connectOnce(ctx context.Context, opts *options.ClientOptions) (*mongodriver.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongodriver.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the lookup indexes. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.districts.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "state", Value: 1}, {Key: "district", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("state_district_idx"),
	})
	if err != nil {
		return fmt.Errorf("create district index: %w", err)
	}

	_, err = s.recommendations.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys: bson.D{
			{Key: "state", Value: 1},
			{Key: "district", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("district_history_idx"),
	})
	if err != nil {
		return fmt.Errorf("create recommendation index: %w", err)
	}
	return nil
}

// UpsertDistricts writes merged district records, replacing the fields of
// existing documents for the same state and district. It returns the number
// of documents inserted or matched.
func (s *Store) UpsertDistricts(ctx context.Context, records []domain.DistrictRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	models := make([]mongodriver.WriteModel, len(records))
	for i := range records {
		models[i] = mongodriver.NewUpdateOneModel().
			SetFilter(districtFilter(records[i].State, records[i].District)).
			SetUpdate(bson.M{"$set": records[i]}).
			SetUpsert(true)
	}

	res, err := s.districts.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("upsert districts: %w", err)
	}
	s.logger.Info("upserted districts",
		"matched", res.MatchedCount,
		"upserted", res.UpsertedCount,
	)
	return int(res.MatchedCount + res.UpsertedCount), nil
}

// FindDistrict loads the aggregated record for a district.
func (s *Store) FindDistrict(ctx context.Context, state, district string) (domain.DistrictRecord, error) {
	var rec domain.DistrictRecord
	err := s.districts.FindOne(ctx, districtFilter(state, district)).Decode(&rec)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return domain.DistrictRecord{}, fmt.Errorf("%w: %s, %s", domain.ErrDistrictNotFound, district, state)
	}
	if err != nil {
		return domain.DistrictRecord{}, fmt.Errorf("find district: %w", err)
	}
	return rec, nil
}

// ListDistricts returns the distinct state names when state is empty, or the
// distinct district names stored for that state, sorted.
func (s *Store) ListDistricts(ctx context.Context, state string) ([]string, error) {
	field, filter := "state", bson.D{}
	if state != "" {
		field, filter = "district", bson.D{{Key: "state", Value: state}}
	}
	values, err := s.districts.Distinct(ctx, field, filter)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	return distinctNames(values), nil
}

// SaveRecommendation appends a recommendation run to the history.
func (s *Store) SaveRecommendation(ctx context.Context, rec domain.RecommendationRecord) error {
	if _, err := s.recommendations.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("save recommendation: %w", err)
	}
	return nil
}

// ListRecommendations returns a district's history, newest first. Empty state
// and district list across all districts. The limit is normalized with
// domain.HistoryLimit.
func (s *Store) ListRecommendations(ctx context.Context, state, district string, limit int) ([]domain.RecommendationRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(domain.HistoryLimit(limit)))

	cursor, err := s.recommendations.Find(ctx, historyFilter(state, district), opts)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.RecommendationRecord{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return out, nil
}

// GetRecommendation loads one history entry by ID.
func (s *Store) GetRecommendation(ctx context.Context, id string) (domain.RecommendationRecord, error) {
	var rec domain.RecommendationRecord
	err := s.recommendations.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return domain.RecommendationRecord{}, fmt.Errorf("%w: %s", domain.ErrRecommendationNotFound, id)
	}
	if err != nil {
		return domain.RecommendationRecord{}, fmt.Errorf("get recommendation: %w", err)
	}
	return rec, nil
}

// CheckReadiness pings the primary.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func districtFilter(state, district string) bson.D {
	return bson.D{{Key: "state", Value: state}, {Key: "district", Value: district}}
}

func historyFilter(state, district string) bson.D {
	f := bson.D{}
	if state != "" {
		f = append(f, bson.E{Key: "state", Value: state})
	}
	if district != "" {
		f = append(f, bson.E{Key: "district", Value: district})
	}
	return f
}

// distinctNames keeps the non-empty string values of a Distinct result.
func distinctNames(values []any) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok && name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
