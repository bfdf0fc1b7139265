package repository

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"codeitmall/pkg/metrics"
	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

// sizeReviewRow - строка таблицы size_reviews
type sizeReviewRow struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	ProductID string    `gorm:"column:product_id;not null;uniqueIndex:idx_size_reviews_product_seq,priority:1"`
	Size      string    `gorm:"column:size;not null"`
	Sex       string    `gorm:"column:sex;not null"`
	Height    int       `gorm:"column:height;not null"`
	Fit       string    `gorm:"column:fit;not null"`
	Seq       int64     `gorm:"column:seq;not null;uniqueIndex:idx_size_reviews_product_seq,priority:2"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (sizeReviewRow) TableName() string {
	return "size_reviews"
}

func (row sizeReviewRow) toEntity() entity.SizeReview {
	return entity.SizeReview{
		ID:        row.ID,
		ProductID: row.ProductID,
		Size:      entity.Size(row.Size),
		Sex:       entity.Sex(row.Sex),
		Height:    row.Height,
		Fit:       entity.Fit(row.Fit),
		Seq:       row.Seq,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

const selectSizeReviews = `SELECT id, product_id, size, sex, height, fit, seq, created_at FROM size_reviews WHERE product_id = ?`

// postgresSizeReviewRepository реализует SizeReviewRepository для PostgreSQL через GORM
type postgresSizeReviewRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostgresSizeReviewRepository создает репозиторий отзывов о размере в PostgreSQL
func NewPostgresSizeReviewRepository(db *gorm.DB) SizeReviewRepository {
	return &postgresSizeReviewRepository{db: db, now: time.Now}
}

// MigratePostgres создает таблицу size_reviews и индекс (product_id, seq)
func MigratePostgres(db *gorm.DB) error {
	if err := db.AutoMigrate(&sizeReviewRow{}); err != nil {
		return fmt.Errorf("failed to migrate size_reviews: %w", err)
	}
	return nil
}

// Append выполняется в транзакции под advisory lock товара:
// вставки в один товар сериализуются, в разные товары идут параллельно
func (r *postgresSizeReviewRepository) Append(ctx context.Context, review *entity.SizeReview) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "size_reviews")
	defer timer.ObserveDuration()

	stored := *review
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	stored.CreatedAt = stored.CreatedAt.UTC().Truncate(time.Microsecond)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", stored.ProductID).Error; err != nil {
			return fmt.Errorf("failed to lock product: %w", err)
		}

		var last struct {
			Seq       int64
			CreatedAt time.Time
		}
		err := tx.Raw("SELECT seq, created_at FROM size_reviews WHERE product_id = ? ORDER BY seq DESC LIMIT 1", stored.ProductID).
			Scan(&last).Error
		if err != nil {
			return fmt.Errorf("failed to read last seq: %w", err)
		}

		stored.Seq = last.Seq + 1
		if stored.CreatedAt.Before(last.CreatedAt) {
			stored.CreatedAt = last.CreatedAt.UTC()
		}

		err = tx.Exec(
			"INSERT INTO size_reviews (id, product_id, size, sex, height, fit, seq, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			stored.ID, stored.ProductID, string(stored.Size), string(stored.Sex), stored.Height, string(stored.Fit), stored.Seq, stored.CreatedAt,
		).Error
		if err != nil {
			return fmt.Errorf("failed to insert size review: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return err
	}

	*review = stored
	return nil
}

func (r *postgresSizeReviewRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]entity.SizeReview, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "size_reviews")
	defer timer.ObserveDuration()

	query := selectSizeReviews + " ORDER BY seq DESC"
	args := []interface{}{productID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []sizeReviewRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list size reviews: %w", err)
	}

	reviews := make([]entity.SizeReview, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toEntity())
	}
	return reviews, nil
}

func (r *postgresSizeReviewRepository) ScanByProduct(ctx context.Context, productID string) iter.Seq2[entity.SizeReview, error] {
	return func(yield func(entity.SizeReview, error) bool) {
		timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "size_reviews")
		defer timer.ObserveDuration()

		db := r.db.WithContext(ctx)
		rows, err := db.Raw(selectSizeReviews+" ORDER BY seq ASC", productID).Rows()
		if err != nil {
			metrics.RecordDbError(serviceName, metrics.DbOpSelect)
			yield(entity.SizeReview{}, fmt.Errorf("failed to scan size reviews: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row sizeReviewRow
			if err := db.ScanRows(rows, &row); err != nil {
				if !yield(entity.SizeReview{}, fmt.Errorf("%w: %w", entity.ErrCorruptRecord, err)) {
					return
				}
				continue
			}
			if !yield(row.toEntity(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			metrics.RecordDbError(serviceName, metrics.DbOpSelect)
			yield(entity.SizeReview{}, fmt.Errorf("failed to scan size reviews: %w", err))
		}
	}
}

func (r *postgresSizeReviewRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
