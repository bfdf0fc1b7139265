package infrastructure

import (
	"context"
	"errors"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

var (
	// ErrProductNotFound - каталог ответил 404
	ErrProductNotFound = errors.New("product not found in catalog")
	// ErrCatalogUnavailable - каталог недоступен (сеть, 5xx, открытый circuit breaker)
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// CatalogClient - клиент внешнего Catalog API (только чтение)
type CatalogClient interface {
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	SearchProducts(ctx context.Context, query string) ([]entity.Product, error)
}

// AggregateCache - кеш производных агрегатов посадки.
// Промах кеша - (nil, nil)
type AggregateCache interface {
	Get(ctx context.Context, productID string) (*entity.FitAggregate, error)
	// SetIfNewer записывает агрегат, только если он не старее закешированного.
	// Возвращает false, если в кеше уже более свежая версия
	SetIfNewer(ctx context.Context, agg *entity.FitAggregate) (bool, error)
	Delete(ctx context.Context, productID string) error
	// Products - товары, для которых в кеше есть агрегат
	Products(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}
