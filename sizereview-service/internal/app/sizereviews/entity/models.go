package entity

import (
	"errors"
	"time"
)

// ErrCorruptRecord - сохранённая запись не читается или содержит значения вне домена.
// Такие записи пропускаются при агрегации, но не ломают чтение остальных
var ErrCorruptRecord = errors.New("corrupt size review record")

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Fit - субъективная оценка посадки выбранного размера
type Fit string

const (
	FitSmall Fit = "small" // маломерит
	FitGood  Fit = "good"  // в размер
	FitBig   Fit = "big"   // большемерит
)

func (f Fit) Valid() bool {
	return f == FitSmall || f == FitGood || f == FitBig
}

// Допустимый рост отзывающегося (см, включительно)
const (
	MinHeightCm = 100
	MaxHeightCm = 250
)

// SizeReview - отзыв о размере. После создания не изменяется и не удаляется
type SizeReview struct {
	ID        string    `json:"id" bson:"_id"`
	ProductID string    `json:"productId" bson:"product_id"` // ID товара из Catalog API
	Size      Size      `json:"size" bson:"size"`
	Sex       Sex       `json:"sex" bson:"sex"`
	Height    int       `json:"height" bson:"height"` // Рост в сантиметрах
	Fit       Fit       `json:"fit" bson:"fit"`
	Seq       int64     `json:"seq" bson:"seq"` // Порядковый номер внутри товара, назначает хранилище
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// SizeStats - счётчики посадки для одного размера.
// GoodHeightSum - сумма роста тех, кому размер подошёл (для рекомендаций)
type SizeStats struct {
	Small         int `json:"small"`
	Good          int `json:"good"`
	Big           int `json:"big"`
	GoodHeightSum int `json:"goodHeightSum"`
}

func (s SizeStats) Total() int {
	return s.Small + s.Good + s.Big
}

// FitAggregate - производное представление журнала отзывов товара.
// Не хранится как источник истины, только кешируется
type FitAggregate struct {
	ProductID string                     `json:"productId"`
	Total     int                        `json:"total"`
	LastSeq   int64                      `json:"lastSeq"` // Максимальный seq, учтённый в агрегате
	PerSize   map[Size]SizeStats         `json:"perSize"`
	BySex     map[Sex]map[Size]SizeStats `json:"bySex"`
}

// NewFitAggregate создает пустой агрегат с инициализированными картами
func NewFitAggregate(productID string) *FitAggregate {
	return &FitAggregate{
		ProductID: productID,
		PerSize:   make(map[Size]SizeStats),
		BySex:     make(map[Sex]map[Size]SizeStats),
	}
}

// FitPercentages - доли в процентах для отображения
type FitPercentages struct {
	Small int `json:"small"`
	Good  int `json:"good"`
	Big   int `json:"big"`
}

type RecommendationStatus string

const (
	RecommendationRecommended      RecommendationStatus = "recommended"
	RecommendationInsufficientData RecommendationStatus = "insufficient_data"
)

// Recommendation - результат подбора размера по росту
type Recommendation struct {
	Status      RecommendationStatus `json:"status"`
	Height      int                  `json:"height"`
	Sex         Sex                  `json:"sex,omitempty"`
	Size        Size                 `json:"size,omitempty"`
	SampleCount int                  `json:"sampleCount,omitempty"`
	MeanHeight  float64              `json:"meanHeight,omitempty"`
}

// SizeReviewEvent - событие для Kafka
type SizeReviewEvent struct {
	EventType string    `json:"event_type"` // SIZE_REVIEW_CREATED
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	Size      Size      `json:"size"`
	Sex       Sex       `json:"sex"`
	Height    int       `json:"height"`
	Fit       Fit       `json:"fit"`
	Timestamp time.Time `json:"timestamp"`
}

const EventSizeReviewCreated = "SIZE_REVIEW_CREATED"
