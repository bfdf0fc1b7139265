package repository

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

type memoryPartition struct {
	mu      sync.RWMutex
	reviews []entity.SizeReview // в порядке вставки
}

type memorySizeReviewRepository struct {
	mu         sync.Mutex
	partitions map[string]*memoryPartition
	now        func() time.Time
}

// NewMemorySizeReviewRepository создает хранилище в памяти процесса.
// Используется в разработке и тестах
func NewMemorySizeReviewRepository() SizeReviewRepository {
	return &memorySizeReviewRepository{
		partitions: make(map[string]*memoryPartition),
		now:        time.Now,
	}
}

func (r *memorySizeReviewRepository) partition(productID string) *memoryPartition {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.partitions[productID]
	if !ok {
		p = &memoryPartition{}
		r.partitions[productID] = p
	}
	return p
}

func (r *memorySizeReviewRepository) Append(ctx context.Context, review *entity.SizeReview) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p := r.partition(review.ProductID)
	p.mu.Lock()
	defer p.mu.Unlock()

	stored := *review
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now().UTC()
	}
	// createdAt не убывает внутри товара даже при скачке часов
	if n := len(p.reviews); n > 0 && stored.CreatedAt.Before(p.reviews[n-1].CreatedAt) {
		stored.CreatedAt = p.reviews[n-1].CreatedAt
	}
	stored.Seq = int64(len(p.reviews)) + 1

	p.reviews = append(p.reviews, stored)
	*review = stored
	return nil
}

func (r *memorySizeReviewRepository) snapshot(productID string) []entity.SizeReview {
	r.mu.Lock()
	p, ok := r.partitions[productID]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	// срез только растет, префикс неизменен
	return p.reviews[:len(p.reviews):len(p.reviews)]
}

func (r *memorySizeReviewRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]entity.SizeReview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reviews := r.snapshot(productID)
	n := len(reviews)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]entity.SizeReview, 0, n)
	for i := len(reviews) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, reviews[i])
	}
	return result, nil
}

func (r *memorySizeReviewRepository) ScanByProduct(ctx context.Context, productID string) iter.Seq2[entity.SizeReview, error] {
	return func(yield func(entity.SizeReview, error) bool) {
		for _, review := range r.snapshot(productID) {
			if err := ctx.Err(); err != nil {
				yield(entity.SizeReview{}, err)
				return
			}
			if !yield(review, nil) {
				return
			}
		}
	}
}

func (r *memorySizeReviewRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
