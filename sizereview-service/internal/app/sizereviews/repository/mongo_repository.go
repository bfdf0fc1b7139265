package repository

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codeitmall/pkg/logger"
	"codeitmall/pkg/metrics"
	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

const (
	serviceName = "sizereview-service"

	reviewsCollection  = "size_reviews"
	countersCollection = "size_review_counters"
)

// sizeReviewCounter - счетчик товара: последний seq и последний createdAt
type sizeReviewCounter struct {
	ProductID     string    `bson:"_id"`
	Seq           int64     `bson:"seq"`
	LastCreatedAt time.Time `bson:"last_created_at"`
}

type mongoSizeReviewRepository struct {
	db       *mongo.Database
	reviews  *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

// NewMongoSizeReviewRepository создает репозиторий отзывов о размере в MongoDB
// Автоматически создает индекс (product_id, seq) для ленты и полного обхода
func NewMongoSizeReviewRepository(db *mongo.Database) SizeReviewRepository {
	reviews := db.Collection(reviewsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "product_id", Value: 1},
			{Key: "seq", Value: -1},
		},
		Options: options.Index().SetName("product_seq_idx").SetUnique(true),
	}

	if _, err := reviews.Indexes().CreateOne(ctx, indexModel); err != nil {
		// индекс может уже существовать
		logger.Warn().Err(err).Str("collection", reviewsCollection).Msg("Failed to create index")
	}

	return &mongoSizeReviewRepository{
		db:       db,
		reviews:  reviews,
		counters: db.Collection(countersCollection),
		now:      time.Now,
	}
}

// Append резервирует seq в счетчике товара и вставляет документ.
// $inc и $max выполняются одним атомарным обновлением, поэтому seq и createdAt
// упорядочены даже между несколькими процессами
func (r *mongoSizeReviewRepository) Append(ctx context.Context, review *entity.SizeReview) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, reviewsCollection)
	defer timer.ObserveDuration()

	createdAt := review.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	// Mongo хранит время с точностью до миллисекунд
	createdAt = createdAt.UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": review.ProductID}
	update := bson.M{
		"$inc": bson.M{"seq": 1},
		"$max": bson.M{"last_created_at": createdAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter sizeReviewCounter
	if err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to reserve size review seq: %w", err)
	}

	stored := *review
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Seq = counter.Seq
	stored.CreatedAt = counter.LastCreatedAt.UTC()

	if _, err := r.reviews.InsertOne(ctx, stored); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to insert size review: %w", err)
	}

	*review = stored
	return nil
}

func (r *mongoSizeReviewRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]entity.SizeReview, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, reviewsCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.reviews.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to find size reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]entity.SizeReview, 0)
	for cursor.Next(ctx) {
		var review entity.SizeReview
		if err := cursor.Decode(&review); err != nil {
			// битая запись не должна ломать ленту
			metrics.SizeReviewCorruptRecords.Inc()
			logger.Warn().Err(err).Str("product_id", productID).Msg("Skipping undecodable size review")
			continue
		}
		reviews = append(reviews, review)
	}
	if err := cursor.Err(); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to read size reviews: %w", err)
	}

	return reviews, nil
}

func (r *mongoSizeReviewRepository) ScanByProduct(ctx context.Context, productID string) iter.Seq2[entity.SizeReview, error] {
	return func(yield func(entity.SizeReview, error) bool) {
		timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, reviewsCollection)
		defer timer.ObserveDuration()

		opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
		cursor, err := r.reviews.Find(ctx, bson.M{"product_id": productID}, opts)
		if err != nil {
			metrics.RecordDbError(serviceName, metrics.DbOpSelect)
			yield(entity.SizeReview{}, fmt.Errorf("failed to scan size reviews: %w", err))
			return
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var review entity.SizeReview
			if err := cursor.Decode(&review); err != nil {
				if !yield(entity.SizeReview{}, fmt.Errorf("%w: %w", entity.ErrCorruptRecord, err)) {
					return
				}
				continue
			}
			if !yield(review, nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			metrics.RecordDbError(serviceName, metrics.DbOpSelect)
			yield(entity.SizeReview{}, fmt.Errorf("failed to scan size reviews: %w", err))
		}
	}
}

func (r *mongoSizeReviewRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}
