package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Centimeters принимает рост как JSON число или как числовую строку:
// форма на витрине отправляет значение input как есть ("173")
type Centimeters int

func (c *Centimeters) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*c = 0
			return nil
		}
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("height must be a number: %w", err)
	}
	if value != float64(int(value)) {
		return fmt.Errorf("height must be a whole number of centimeters")
	}

	*c = Centimeters(int(value))
	return nil
}

// CreateSizeReviewRequest - запрос на создание отзыва о размере
type CreateSizeReviewRequest struct {
	ProductID CatalogID   `json:"productId" validate:"required"`
	Size      string      `json:"size"`
	Sex       string      `json:"sex" validate:"required,oneof=male female"`
	Height    Centimeters `json:"height" validate:"min=100,max=250"`
	Fit       string      `json:"fit" validate:"required,oneof=small good big"`
}

// SizeReviewResponse - созданный отзыв вместе с пересчитанным агрегатом.
// Поля отзыва лежат на верхнем уровне, клиент может сразу добавить его в начало списка
type SizeReviewResponse struct {
	SizeReview
	Aggregate *FitAggregate `json:"aggregate"`
}

// SizeReviewFeedResponse - лента отзывов товара
type SizeReviewFeedResponse struct {
	Results        []SizeReview            `json:"results"`
	Total          int                     `json:"total"`
	Aggregate      *FitAggregate           `json:"aggregate"`
	Percentages    map[Size]FitPercentages `json:"percentages"`
	Recommendation *Recommendation         `json:"recommendation,omitempty"`
}

// ProductListResponse - результаты поиска по каталогу
type ProductListResponse struct {
	Results []Product `json:"results"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Product - карточка товара из Catalog API.
// Сервис не владеет товарами, только читает их
type Product struct {
	ID              CatalogID `json:"id"`
	Name            string    `json:"name"`
	EnglishName     string    `json:"englishName,omitempty"`
	ImgURL          string    `json:"imgUrl,omitempty"`
	Brand           string    `json:"brand,omitempty"`
	ProductCode     string    `json:"productCode,omitempty"`
	Category        string    `json:"category,omitempty"` // Определяет шкалу размеров
	Price           int64     `json:"price"`
	SalePrice       int64     `json:"salePrice"`
	Point           int64     `json:"point"`
	StarRating      float64   `json:"starRating"`
	StarRatingCount int64     `json:"starRatingCount"`
	LikeCount       int64     `json:"likeCount"`
}

// CatalogID - идентификатор товара. Каталог отдает его числом или строкой,
// внутри сервиса он всегда строка
type CatalogID string

func (id *CatalogID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CatalogID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or a number: %w", err)
	}
	*id = CatalogID(n.String())
	return nil
}
