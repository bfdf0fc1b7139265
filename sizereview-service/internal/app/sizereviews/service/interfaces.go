package service

import (
	"context"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

// ProductLookup - проверка существования товара в каталоге
type ProductLookup interface {
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
}

type SizeReviewServiceInterface interface {
	Submit(ctx context.Context, req *entity.CreateSizeReviewRequest) (*SubmitResult, error)
	GetFeed(ctx context.Context, query FeedQuery) (*entity.SizeReviewFeedResponse, error)
	Ready(ctx context.Context) error
}

type CatalogServiceInterface interface {
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	SearchProducts(ctx context.Context, query string) ([]entity.Product, error)
}
