package mocks

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

// MockSizeReviewRepository мок для SizeReviewRepository
type MockSizeReviewRepository struct {
	mock.Mock
}

func (m *MockSizeReviewRepository) Append(ctx context.Context, review *entity.SizeReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockSizeReviewRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]entity.SizeReview, error) {
	args := m.Called(ctx, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SizeReview), args.Error(1)
}

// ScanByProduct отдает заранее заданные записи; ошибка из второго аргумента
// выдается после них, если задана
func (m *MockSizeReviewRepository) ScanByProduct(ctx context.Context, productID string) iter.Seq2[entity.SizeReview, error] {
	args := m.Called(ctx, productID)
	reviews, _ := args.Get(0).([]entity.SizeReview)
	scanErr := args.Error(1)

	return func(yield func(entity.SizeReview, error) bool) {
		for _, r := range reviews {
			if !yield(r, nil) {
				return
			}
		}
		if scanErr != nil {
			yield(entity.SizeReview{}, scanErr)
		}
	}
}

func (m *MockSizeReviewRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCatalogClient мок для клиента Catalog API
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogClient) SearchProducts(ctx context.Context, query string) ([]entity.Product, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

// MockAggregateCache мок для кеша агрегатов
type MockAggregateCache struct {
	mock.Mock
}

func (m *MockAggregateCache) Get(ctx context.Context, productID string) (*entity.FitAggregate, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FitAggregate), args.Error(1)
}

func (m *MockAggregateCache) SetIfNewer(ctx context.Context, agg *entity.FitAggregate) (bool, error) {
	args := m.Called(ctx, agg)
	return args.Bool(0), args.Error(1)
}

func (m *MockAggregateCache) Delete(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockAggregateCache) Products(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAggregateCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAggregateCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
