package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"codeitmall/pkg/logger"
	"codeitmall/pkg/metrics"
	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
	"codeitmall/sizereview-service/internal/app/sizereviews/infrastructure"
)

const (
	breakerMinRequests  = 5
	breakerFailureRatio = 0.5
	breakerOpenTimeout  = 30 * time.Second
)

// CatalogClient клиент для Catalog API
// Используется для проверки товара при создании отзыва и для прокси /products
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

// NewCatalogClient создает клиент Catalog API с circuit breaker.
// 5xx и сетевые ошибки считаются отказами; после половины отказов
// из minRequests запросов каталог считается недоступным на breakerOpenTimeout
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	settings := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= breakerFailureRatio
		},
		// отмена запроса клиентом не говорит о здоровье каталога
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			metrics.CatalogCircuitState.Set(stateToFloat(to))
		},
	}

	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// SetAuthToken устанавливает Bearer токен для Catalog API
func (c *CatalogClient) SetAuthToken(token string) {
	c.authToken = token
}

// GetProduct получает карточку товара. 404 каталога - infrastructure.ErrProductNotFound
func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	resp, err := c.get(ctx, "get_product", "/products/"+url.PathEscape(productID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.CatalogRequests.WithLabelValues("get_product", "not_found").Inc()
		return nil, infrastructure.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		metrics.CatalogRequests.WithLabelValues("get_product", "error").Inc()
		return nil, fmt.Errorf("%w: unexpected status code: %d", infrastructure.ErrCatalogUnavailable, resp.StatusCode)
	}

	var product entity.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		metrics.CatalogRequests.WithLabelValues("get_product", "error").Inc()
		return nil, fmt.Errorf("%w: failed to decode product: %w", infrastructure.ErrCatalogUnavailable, err)
	}

	metrics.CatalogRequests.WithLabelValues("get_product", "ok").Inc()
	return &product, nil
}

// SearchProducts ищет товары по строке запроса, пустой результат - пустой срез
func (c *CatalogClient) SearchProducts(ctx context.Context, query string) ([]entity.Product, error) {
	path := "/products/?" + url.Values{"q": []string{query}}.Encode()

	resp, err := c.get(ctx, "search_products", path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogRequests.WithLabelValues("search_products", "error").Inc()
		return nil, fmt.Errorf("%w: unexpected status code: %d", infrastructure.ErrCatalogUnavailable, resp.StatusCode)
	}

	var list entity.ProductListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		metrics.CatalogRequests.WithLabelValues("search_products", "error").Inc()
		return nil, fmt.Errorf("%w: failed to decode products: %w", infrastructure.ErrCatalogUnavailable, err)
	}
	if list.Results == nil {
		list.Results = []entity.Product{}
	}

	metrics.CatalogRequests.WithLabelValues("search_products", "ok").Inc()
	return list.Results, nil
}

// get выполняет GET через circuit breaker. Любая ошибка транспорта
// или открытый breaker возвращаются как infrastructure.ErrCatalogUnavailable
func (c *CatalogClient) get(ctx context.Context, operation, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return nil, fmt.Errorf("catalog server error %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		status := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "circuit_open"
		}
		metrics.CatalogRequests.WithLabelValues(operation, status).Inc()
		return nil, fmt.Errorf("%w: %w", infrastructure.ErrCatalogUnavailable, err)
	}

	return resp, nil
}
