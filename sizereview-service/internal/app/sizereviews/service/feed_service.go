package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeitmall/pkg/logger"
	"codeitmall/pkg/metrics"
	"codeitmall/sizereview-service/internal/app/sizereviews/aggregator"
	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
	"codeitmall/sizereview-service/internal/app/sizereviews/infrastructure"
	"codeitmall/sizereview-service/internal/app/sizereviews/repository"
)

const DefaultStoreTimeout = 5 * time.Second

// SubmitResult - сохраненный отзыв и пересчитанный агрегат товара.
// Aggregate == nil, если пересчитать не удалось: отзыв при этом уже сохранен
type SubmitResult struct {
	Review    *entity.SizeReview
	Aggregate *entity.FitAggregate
}

// FeedQuery - параметры ленты. Height > 0 включает подбор размера
type FeedQuery struct {
	ProductID string
	Limit     int
	Height    int
	Sex       entity.Sex
}

// FeedService обрабатывает отзывы о размере
// Координирует валидатор, хранилище, агрегатор, кеш агрегатов и Kafka
type FeedService struct {
	repo         repository.SizeReviewRepository
	validator    *ReviewValidator
	cache        infrastructure.AggregateCache   // может быть nil
	publisher    infrastructure.MessagePublisher // может быть nil
	storeTimeout time.Duration
}

// NewFeedService создает сервис ленты отзывов с внедрением зависимостей
func NewFeedService(
	repo repository.SizeReviewRepository,
	validator *ReviewValidator,
	cache infrastructure.AggregateCache,
	publisher infrastructure.MessagePublisher,
	storeTimeout time.Duration,
) *FeedService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &FeedService{
		repo:         repo,
		validator:    validator,
		cache:        cache,
		publisher:    publisher,
		storeTimeout: storeTimeout,
	}
}

// Submit принимает отзыв о размере
// 1. Проверяет отзыв (ничего не пишет при ошибке)
// 2. Добавляет в журнал товара
// 3. Отправляет SIZE_REVIEW_CREATED в Kafka
// 4. Пересчитывает агрегат и обновляет кеш
//
// Запись после успешного Append окончательна. Если ctx отменен после нее,
// возвращается сохраненный отзыв вместе с ошибкой ErrResponseAbandoned
func (s *FeedService) Submit(ctx context.Context, req *entity.CreateSizeReviewRequest) (*SubmitResult, error) {
	review, err := s.validator.Validate(ctx, req)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			metrics.SizeReviewsRejected.WithLabelValues(string(validationErr.Reason)).Inc()
		}
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	err = s.repo.Append(storeCtx, review)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	metrics.SizeReviewsSubmitted.WithLabelValues(string(review.Fit)).Inc()

	// событие уходит даже если клиент уже отключился
	s.publishCreated(context.WithoutCancel(ctx), review)

	result := &SubmitResult{Review: review}
	if err := ctx.Err(); err != nil {
		// seq резервируется до вставки: в кеше уже может лежать агрегат
		// с большим LastSeq, но без этого отзыва. Пересчитываем и для брошенного запроса
		detached := context.WithoutCancel(ctx)
		if _, refreshErr := s.refreshAggregate(detached, review.ProductID); refreshErr != nil {
			s.evictAggregate(detached, review, refreshErr)
		}
		return result, fmt.Errorf("%w: %w", ErrResponseAbandoned, err)
	}

	agg, err := s.refreshAggregate(ctx, review.ProductID)
	if err != nil {
		s.evictAggregate(context.WithoutCancel(ctx), review, err)
		return result, nil
	}
	result.Aggregate = agg

	return result, nil
}

// evictAggregate удаляет агрегат товара из кеша, если после записи его не удалось
// пересчитать: следующий GetFeed пересчитает агрегат по журналу
func (s *FeedService) evictAggregate(ctx context.Context, review *entity.SizeReview, cause error) {
	logger.Warn().Err(cause).
		Str("product_id", review.ProductID).
		Str("review_id", review.ID).
		Msg("Size review stored but aggregate recompute failed")

	if s.cache == nil {
		return
	}

	cacheCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.cache.Delete(cacheCtx, review.ProductID); err != nil {
		logger.Warn().Err(err).Str("product_id", review.ProductID).Msg("Failed to evict stale fit aggregate")
	}
}

// GetFeed возвращает последние отзывы товара, агрегат и проценты посадки.
// Агрегат берется из кеша, если он не отстает от журнала
func (s *FeedService) GetFeed(ctx context.Context, query FeedQuery) (*entity.SizeReviewFeedResponse, error) {
	productID := strings.TrimSpace(query.ProductID)
	if productID == "" {
		return nil, newValidationError(ReasonUnknownProduct, "product_id", "product_id is required")
	}
	if query.Height != 0 && (query.Height < entity.MinHeightCm || query.Height > entity.MaxHeightCm) {
		return nil, newValidationError(ReasonHeightOutOfRange, "height", "height %d is outside %d..%d", query.Height, entity.MinHeightCm, entity.MaxHeightCm)
	}
	if query.Sex != "" && !query.Sex.Valid() {
		return nil, newValidationError(ReasonInvalidSex, "sex", "sex %q is not male or female", query.Sex)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	reviews, err := s.repo.ListByProduct(storeCtx, productID, query.Limit)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	var newestSeq int64
	if len(reviews) > 0 {
		newestSeq = reviews[0].Seq
	}

	agg := s.cachedAggregate(ctx, productID, newestSeq)
	if agg == nil {
		agg, err = s.refreshAggregate(ctx, productID)
		if err != nil {
			// лента важнее агрегата: отдаем отзывы без него
			logger.Warn().Err(err).Str("product_id", productID).Msg("Failed to compute fit aggregate")
		}
	}

	feed := &entity.SizeReviewFeedResponse{
		Results:     reviews,
		Total:       len(reviews),
		Aggregate:   agg,
		Percentages: aggregator.AllPercentages(agg),
	}
	if agg != nil {
		feed.Total = agg.Total
	}

	if query.Height > 0 {
		rec := aggregator.Recommend(agg, query.Height, query.Sex)
		metrics.SizeRecommendations.WithLabelValues(string(rec.Status)).Inc()
		feed.Recommendation = &rec
	}

	return feed, nil
}

// ReconcileAggregates пересчитывает агрегаты всех закешированных товаров.
// Возвращает число обновленных товаров
func (s *FeedService) ReconcileAggregates(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	products, err := s.cache.Products(ctx)
	if err != nil {
		metrics.AggregateReconciliations.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to list cached products: %w", err)
	}

	var errs []error
	refreshed := 0
	for _, productID := range products {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		agg, err := s.refreshAggregate(ctx, productID)
		if err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", productID, err))
			continue
		}
		// журнал товара пуст: ключ кеша больше ничему не соответствует
		if agg.LastSeq == 0 {
			if err := s.cache.Delete(ctx, productID); err != nil {
				errs = append(errs, fmt.Errorf("product %s: %w", productID, err))
				continue
			}
		}
		refreshed++
	}

	if len(errs) > 0 {
		metrics.AggregateReconciliations.WithLabelValues("failed").Inc()
		return refreshed, errors.Join(errs...)
	}

	metrics.AggregateReconciliations.WithLabelValues("success").Inc()
	return refreshed, nil
}

// Ready проверяет хранилище и кеш для readiness probe
func (s *FeedService) Ready(ctx context.Context) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.Ping(storeCtx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if s.cache != nil {
		if err := s.cache.Ping(storeCtx); err != nil {
			return fmt.Errorf("aggregate cache unavailable: %w", err)
		}
	}
	return nil
}

// refreshAggregate пересчитывает агрегат по полному журналу товара и кладет его в кеш
func (s *FeedService) refreshAggregate(ctx context.Context, productID string) (*entity.FitAggregate, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	agg, anomalies, err := aggregator.Aggregate(productID, s.repo.ScanByProduct(storeCtx, productID))
	for _, anomaly := range anomalies {
		metrics.SizeReviewCorruptRecords.Inc()
		logger.Warn().Err(anomaly).Str("product_id", productID).Msg("Skipping size review during aggregation")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	// агрегат пустого журнала в кеш не пишется
	if s.cache != nil && agg.LastSeq > 0 {
		if _, err := s.cache.SetIfNewer(ctx, agg); err != nil {
			logger.Warn().Err(err).Str("product_id", productID).Msg("Failed to cache fit aggregate")
		}
	}

	return agg, nil
}

// cachedAggregate возвращает агрегат из кеша, если он учитывает newestSeq.
// Ошибки кеша не критичны: агрегат просто пересчитывается
func (s *FeedService) cachedAggregate(ctx context.Context, productID string, newestSeq int64) *entity.FitAggregate {
	if s.cache == nil {
		return nil
	}

	agg, err := s.cache.Get(ctx, productID)
	if err != nil {
		logger.Warn().Err(err).Str("product_id", productID).Msg("Failed to read cached fit aggregate")
		return nil
	}
	if agg == nil || agg.LastSeq < newestSeq {
		return nil
	}
	return agg
}

func (s *FeedService) publishCreated(ctx context.Context, review *entity.SizeReview) {
	if s.publisher == nil {
		return
	}

	event := entity.SizeReviewEvent{
		EventType: entity.EventSizeReviewCreated,
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		Size:      review.Size,
		Sex:       review.Sex,
		Height:    review.Height,
		Fit:       review.Fit,
		Timestamp: review.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal size review event")
		return
	}

	// Kafka не критична: отзыв уже сохранен
	if err := s.publisher.PublishMessage(ctx, review.ProductID, data); err != nil {
		logger.Warn().Err(err).
			Str("review_id", review.ID).
			Str("product_id", review.ProductID).
			Msg("Failed to publish size review created event")
	}
}
