package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
	"codeitmall/sizereview-service/internal/app/sizereviews/infrastructure"
)

// CatalogService - прокси к Catalog API для страниц товара и поиска
type CatalogService struct {
	catalog infrastructure.CatalogClient
}

func NewCatalogService(catalog infrastructure.CatalogClient) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// GetProduct возвращает карточку товара или ErrProductNotFound
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrProductNotFound
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, infrastructure.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	return product, nil
}

// SearchProducts ищет товары; пустой запрос возвращает то, что отдает каталог
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]entity.Product, error) {
	products, err := s.catalog.SearchProducts(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}
