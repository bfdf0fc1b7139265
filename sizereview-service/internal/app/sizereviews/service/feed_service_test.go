package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codeitmall/sizereview-service/internal/app/sizereviews/aggregator"
	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
	"codeitmall/sizereview-service/internal/app/sizereviews/infrastructure/cache"
	"codeitmall/sizereview-service/internal/app/sizereviews/repository"
	"codeitmall/sizereview-service/internal/app/sizereviews/repository/mocks"
)

func newMemoryFeedService(t *testing.T) (*FeedService, *mocks.MockMessagePublisher) {
	t.Helper()
	publisher := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}, &entity.Product{ID: "p2"}))
	svc := NewFeedService(repository.NewMemorySizeReviewRepository(), validator, nil, publisher, time.Second)
	return svc, publisher
}

// ===================== Submit Tests =====================

func TestSubmit_FirstReviewScenario(t *testing.T) {
	svc, publisher := newMemoryFeedService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, validRequest("p1"))

	require.NoError(t, err)
	require.NotNil(t, result.Review)
	assert.NotEmpty(t, result.Review.ID)
	assert.Equal(t, int64(1), result.Review.Seq)
	require.NotNil(t, result.Aggregate)
	assert.Equal(t, 1, result.Aggregate.Total)
	assert.Equal(t, map[entity.Size]entity.SizeStats{
		"M": {Small: 0, Good: 1, Big: 0, GoodHeightSum: 173},
	}, result.Aggregate.PerSize)

	feed, err := svc.GetFeed(ctx, FeedQuery{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, feed.Results, 1)
	assert.Equal(t, result.Review.ID, feed.Results[0].ID)

	// событие SIZE_REVIEW_CREATED с ключом товара
	require.Len(t, publisher.Messages, 1)
	var event entity.SizeReviewEvent
	require.NoError(t, json.Unmarshal(publisher.Messages[0], &event))
	assert.Equal(t, entity.EventSizeReviewCreated, event.EventType)
	assert.Equal(t, result.Review.ID, event.ReviewID)
	publisher.AssertCalled(t, "PublishMessage", mock.Anything, "p1", mock.Anything)
}

func TestSubmit_FeedContainsReviewExactlyOnce(t *testing.T) {
	svc, _ := newMemoryFeedService(t)
	ctx := context.Background()

	var ids []string
	for _, size := range []string{"S", "M", "L"} {
		req := validRequest("p1")
		req.Size = size
		result, err := svc.Submit(ctx, req)
		require.NoError(t, err)
		ids = append(ids, result.Review.ID)
	}

	feed, err := svc.GetFeed(ctx, FeedQuery{ProductID: "p1"})
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, r := range feed.Results {
		seen[r.ID]++
	}
	for _, id := range ids {
		assert.Equal(t, 1, seen[id])
	}
	// от новых к старым
	assert.Equal(t, ids[2], feed.Results[0].ID)
	assert.Equal(t, 3, feed.Total)
}

func TestSubmit_ConcurrentSubmissionsBothPersist(t *testing.T) {
	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repository.NewMemorySizeReviewRepository(), validator, nil, nil, time.Second)
	ctx := context.Background()

	_, err := svc.Submit(ctx, validRequest("p1"))
	require.NoError(t, err)
	before, err := svc.GetFeed(ctx, FeedQuery{ProductID: "p1"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, validRequest("p1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	after, err := svc.GetFeed(ctx, FeedQuery{ProductID: "p1"})
	require.NoError(t, err)
	assert.Len(t, after.Results, len(before.Results)+2)
	assert.Equal(t, before.Aggregate.Total+2, after.Aggregate.Total)
}

func TestSubmit_HeightOutOfRangeNeverStored(t *testing.T) {
	repo := new(mocks.MockSizeReviewRepository)
	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repo, validator, nil, nil, time.Second)

	req := validRequest("p1")
	req.Height = 30

	result, err := svc.Submit(context.Background(), req)

	assert.Nil(t, result)
	requireReason(t, err, ReasonHeightOutOfRange)
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSubmit_StorageError(t *testing.T) {
	repo := new(mocks.MockSizeReviewRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	publisher := &mocks.MockMessagePublisher{}
	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repo, validator, nil, publisher, time.Second)

	result, err := svc.Submit(context.Background(), validRequest("p1"))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_KafkaErrorIgnored(t *testing.T) {
	publisher := &mocks.MockMessagePublisher{}
	publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("kafka error"))
	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repository.NewMemorySizeReviewRepository(), validator, nil, publisher, time.Second)

	result, err := svc.Submit(context.Background(), validRequest("p1"))

	assert.NoError(t, err)
	assert.NotNil(t, result.Aggregate)
}

func TestSubmit_CancelledAfterAppendKeepsReview(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	memory := repository.NewMemorySizeReviewRepository()
	repo := new(mocks.MockSizeReviewRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		review := args.Get(1).(*entity.SizeReview)
		require.NoError(t, memory.Append(context.Background(), review))
		// клиент отключился сразу после записи
		cancel()
	})
	repo.On("ScanByProduct", mock.Anything, "p1").Return(nil, nil)
	publisher := &mocks.MockMessagePublisher{}
	publisher.On("PublishMessage", mock.Anything, "p1", mock.Anything).Return(nil)

	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repo, validator, nil, publisher, time.Second)

	result, err := svc.Submit(ctx, validRequest("p1"))

	assert.ErrorIs(t, err, ErrResponseAbandoned)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Review.ID)
	// событие отправлено несмотря на отмену
	assert.Len(t, publisher.Messages, 1)

	stored, listErr := memory.ListByProduct(context.Background(), "p1", 0)
	require.NoError(t, listErr)
	assert.Len(t, stored, 1)
}

// отзыв A получил seq 5, но B (seq 6) успел попасть в кеш раньше;
// клиент A отключился сразу после записи
func TestSubmit_AbandonedAfterSeqGapRefreshesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	aggregateCache := cache.NewRedisAggregateCache(client, time.Minute)

	reviewB := entity.SizeReview{ID: "r-6", ProductID: "p1", Size: "L", Sex: entity.SexFemale, Height: 180, Fit: entity.FitGood, Seq: 6}
	reviewA := entity.SizeReview{ID: "r-5", ProductID: "p1", Size: "M", Sex: entity.SexMale, Height: 173, Fit: entity.FitGood, Seq: 5}

	withoutA, _, err := aggregator.Aggregate("p1", aggregator.Records([]entity.SizeReview{reviewB}))
	require.NoError(t, err)
	stored, err := aggregateCache.SetIfNewer(context.Background(), withoutA)
	require.NoError(t, err)
	require.True(t, stored)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := new(mocks.MockSizeReviewRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		review := args.Get(1).(*entity.SizeReview)
		review.ID = reviewA.ID
		review.Seq = reviewA.Seq
		cancel()
	})
	repo.On("ScanByProduct", mock.Anything, "p1").Return([]entity.SizeReview{reviewA, reviewB}, nil)
	repo.On("ListByProduct", mock.Anything, "p1", 0).Return([]entity.SizeReview{reviewB, reviewA}, nil)

	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repo, validator, aggregateCache, nil, time.Second)

	_, err = svc.Submit(ctx, validRequest("p1"))
	require.ErrorIs(t, err, ErrResponseAbandoned)

	cached, err := aggregateCache.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 2, cached.Total)
	assert.Equal(t, int64(6), cached.LastSeq)

	feed, err := svc.GetFeed(context.Background(), FeedQuery{ProductID: "p1"})
	require.NoError(t, err)
	assert.Len(t, feed.Results, 2)
	require.NotNil(t, feed.Aggregate)
	assert.Equal(t, 2, feed.Aggregate.Total)
	assert.Equal(t, 1, feed.Aggregate.PerSize["M"].Good)
}

func TestSubmit_AbandonedAndRecomputeFailedEvictsCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := new(mocks.MockSizeReviewRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.SizeReview).Seq = 5
		cancel()
	})
	repo.On("ScanByProduct", mock.Anything, "p1").Return(nil, errors.New("cursor killed"))
	aggregateCache := new(mocks.MockAggregateCache)
	aggregateCache.On("Delete", mock.Anything, "p1").Return(nil)

	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repo, validator, aggregateCache, nil, time.Second)

	_, err := svc.Submit(ctx, validRequest("p1"))

	assert.ErrorIs(t, err, ErrResponseAbandoned)
	aggregateCache.AssertExpectations(t)
	aggregateCache.AssertNotCalled(t, "SetIfNewer", mock.Anything, mock.Anything)
}

func TestSubmit_CatalogUnavailable(t *testing.T) {
	catalog := new(mocks.MockCatalogClient)
	catalog.On("GetProduct", mock.Anything, "p1").Return(nil, errors.New("dial tcp: connection refused"))
	repo := new(mocks.MockSizeReviewRepository)
	svc := NewFeedService(repo, NewReviewValidator(catalog), nil, nil, time.Second)

	_, err := svc.Submit(context.Background(), validRequest("p1"))

	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSubmit_AggregateFailureStillReturnsReview(t *testing.T) {
	repo := new(mocks.MockSizeReviewRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		review := args.Get(1).(*entity.SizeReview)
		review.ID = "r-1"
		review.Seq = 1
	})
	repo.On("ScanByProduct", mock.Anything, "p1").Return(nil, errors.New("cursor killed"))
	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repo, validator, nil, nil, time.Second)

	result, err := svc.Submit(context.Background(), validRequest("p1"))

	require.NoError(t, err)
	assert.Equal(t, "r-1", result.Review.ID)
	assert.Nil(t, result.Aggregate)
}

func TestSubmit_AggregateFailureEvictsCache(t *testing.T) {
	repo := new(mocks.MockSizeReviewRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.SizeReview).Seq = 1
	})
	repo.On("ScanByProduct", mock.Anything, "p1").Return(nil, errors.New("cursor killed"))
	aggregateCache := new(mocks.MockAggregateCache)
	aggregateCache.On("Delete", mock.Anything, "p1").Return(errors.New("redis down"))

	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repo, validator, aggregateCache, nil, time.Second)

	result, err := svc.Submit(context.Background(), validRequest("p1"))

	require.NoError(t, err)
	assert.Nil(t, result.Aggregate)
	aggregateCache.AssertExpectations(t)
}

func TestSubmit_WritesAggregateToCache(t *testing.T) {
	cache := new(mocks.MockAggregateCache)
	cache.On("SetIfNewer", mock.Anything, mock.MatchedBy(func(agg *entity.FitAggregate) bool {
		return agg.ProductID == "p1" && agg.Total == 1 && agg.LastSeq == 1
	})).Return(true, nil)

	validator := NewReviewValidator(catalogWith(&entity.Product{ID: "p1"}))
	svc := NewFeedService(repository.NewMemorySizeReviewRepository(), validator, cache, nil, time.Second)

	_, err := svc.Submit(context.Background(), validRequest("p1"))

	require.NoError(t, err)
	cache.AssertExpectations(t)
}

// ===================== GetFeed Tests =====================

func TestGetFeed_EmptyProduct(t *testing.T) {
	svc, _ := newMemoryFeedService(t)

	feed, err := svc.GetFeed(context.Background(), FeedQuery{ProductID: "p2", Height: 173})

	require.NoError(t, err)
	assert.Empty(t, feed.Results)
	assert.Zero(t, feed.Total)
	require.NotNil(t, feed.Recommendation)
	assert.Equal(t, entity.RecommendationInsufficientData, feed.Recommendation.Status)
	assert.Empty(t, feed.Recommendation.Size)
}

func TestGetFeed_PercentagesAndRecommendation(t *testing.T) {
	svc, _ := newMemoryFeedService(t)
	ctx := context.Background()

	fits := []string{"small", "good", "good", "good"}
	for _, fit := range fits {
		req := validRequest("p1")
		req.Fit = fit
		_, err := svc.Submit(ctx, req)
		require.NoError(t, err)
	}

	feed, err := svc.GetFeed(ctx, FeedQuery{ProductID: "p1", Height: 175, Sex: entity.SexMale})

	require.NoError(t, err)
	assert.Equal(t, entity.FitPercentages{Small: 25, Good: 75, Big: 0}, feed.Percentages["M"])
	require.NotNil(t, feed.Recommendation)
	assert.Equal(t, entity.RecommendationRecommended, feed.Recommendation.Status)
	assert.Equal(t, entity.Size("M"), feed.Recommendation.Size)
}

func TestGetFeed_Limit(t *testing.T) {
	svc, _ := newMemoryFeedService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Submit(ctx, validRequest("p1"))
		require.NoError(t, err)
	}

	feed, err := svc.GetFeed(ctx, FeedQuery{ProductID: "p1", Limit: 2})

	require.NoError(t, err)
	assert.Len(t, feed.Results, 2)
	assert.Equal(t, int64(5), feed.Results[0].Seq)
	assert.Equal(t, 5, feed.Total)
	assert.Nil(t, feed.Recommendation)
}

func TestGetFeed_InvalidQuery(t *testing.T) {
	svc, _ := newMemoryFeedService(t)
	ctx := context.Background()

	_, err := svc.GetFeed(ctx, FeedQuery{ProductID: " "})
	requireReason(t, err, ReasonUnknownProduct)

	_, err = svc.GetFeed(ctx, FeedQuery{ProductID: "p1", Height: 30})
	requireReason(t, err, ReasonHeightOutOfRange)

	_, err = svc.GetFeed(ctx, FeedQuery{ProductID: "p1", Height: 170, Sex: "robot"})
	requireReason(t, err, ReasonInvalidSex)
}

func TestGetFeed_UsesFreshCache(t *testing.T) {
	reviews := []entity.SizeReview{{ID: "r-2", ProductID: "p1", Seq: 2}, {ID: "r-1", ProductID: "p1", Seq: 1}}
	cached := entity.NewFitAggregate("p1")
	cached.Total = 2
	cached.LastSeq = 2
	cached.PerSize["M"] = entity.SizeStats{Good: 2, GoodHeightSum: 346}

	repo := new(mocks.MockSizeReviewRepository)
	repo.On("ListByProduct", mock.Anything, "p1", 0).Return(reviews, nil)
	cache := new(mocks.MockAggregateCache)
	cache.On("Get", mock.Anything, "p1").Return(cached, nil)

	svc := NewFeedService(repo, NewReviewValidator(new(mocks.MockCatalogClient)), cache, nil, time.Second)

	feed, err := svc.GetFeed(context.Background(), FeedQuery{ProductID: "p1"})

	require.NoError(t, err)
	assert.Same(t, cached, feed.Aggregate)
	repo.AssertNotCalled(t, "ScanByProduct", mock.Anything, mock.Anything)
}

func TestGetFeed_RecomputesStaleCache(t *testing.T) {
	reviews := []entity.SizeReview{
		{ID: "r-2", ProductID: "p1", Size: "L", Sex: entity.SexMale, Height: 180, Fit: entity.FitGood, Seq: 2},
		{ID: "r-1", ProductID: "p1", Size: "M", Sex: entity.SexMale, Height: 173, Fit: entity.FitGood, Seq: 1},
	}
	stale := entity.NewFitAggregate("p1")
	stale.Total = 1
	stale.LastSeq = 1

	repo := new(mocks.MockSizeReviewRepository)
	repo.On("ListByProduct", mock.Anything, "p1", 0).Return(reviews, nil)
	repo.On("ScanByProduct", mock.Anything, "p1").Return(reviews, nil)
	cache := new(mocks.MockAggregateCache)
	cache.On("Get", mock.Anything, "p1").Return(stale, nil)
	cache.On("SetIfNewer", mock.Anything, mock.Anything).Return(true, nil)

	svc := NewFeedService(repo, NewReviewValidator(new(mocks.MockCatalogClient)), cache, nil, time.Second)

	feed, err := svc.GetFeed(context.Background(), FeedQuery{ProductID: "p1"})

	require.NoError(t, err)
	assert.Equal(t, 2, feed.Aggregate.Total)
	assert.Equal(t, int64(2), feed.Aggregate.LastSeq)
	cache.AssertCalled(t, "SetIfNewer", mock.Anything, mock.Anything)
}

func TestGetFeed_SkipsCorruptRecord(t *testing.T) {
	reviews := []entity.SizeReview{
		{ID: "r-2", ProductID: "p1", Size: "M", Sex: "???", Height: 173, Fit: entity.FitGood, Seq: 2},
		{ID: "r-1", ProductID: "p1", Size: "M", Sex: entity.SexMale, Height: 173, Fit: entity.FitGood, Seq: 1},
	}
	repo := new(mocks.MockSizeReviewRepository)
	repo.On("ListByProduct", mock.Anything, "p1", 0).Return(reviews, nil)
	repo.On("ScanByProduct", mock.Anything, "p1").Return(reviews, nil)

	svc := NewFeedService(repo, NewReviewValidator(new(mocks.MockCatalogClient)), nil, nil, time.Second)

	feed, err := svc.GetFeed(context.Background(), FeedQuery{ProductID: "p1"})

	require.NoError(t, err)
	assert.Len(t, feed.Results, 2)
	assert.Equal(t, 1, feed.Aggregate.Total)
}

func TestGetFeed_StorageError(t *testing.T) {
	repo := new(mocks.MockSizeReviewRepository)
	repo.On("ListByProduct", mock.Anything, "p1", 0).Return(nil, errors.New("timeout"))

	svc := NewFeedService(repo, NewReviewValidator(new(mocks.MockCatalogClient)), nil, nil, time.Second)

	_, err := svc.GetFeed(context.Background(), FeedQuery{ProductID: "p1"})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

// ===================== Reconcile / Ready Tests =====================

func TestReconcileAggregates(t *testing.T) {
	memory := repository.NewMemorySizeReviewRepository()
	for _, pid := range []string{"p1", "p1", "p2"} {
		require.NoError(t, memory.Append(context.Background(), &entity.SizeReview{
			ProductID: pid, Size: "M", Sex: entity.SexMale, Height: 173, Fit: entity.FitGood,
		}))
	}

	cache := new(mocks.MockAggregateCache)
	cache.On("Products", mock.Anything).Return([]string{"p1", "p2"}, nil)
	cache.On("SetIfNewer", mock.Anything, mock.MatchedBy(func(agg *entity.FitAggregate) bool {
		return agg.ProductID == "p1" && agg.Total == 2
	})).Return(true, nil).Once()
	cache.On("SetIfNewer", mock.Anything, mock.MatchedBy(func(agg *entity.FitAggregate) bool {
		return agg.ProductID == "p2" && agg.Total == 1
	})).Return(true, nil).Once()

	svc := NewFeedService(memory, NewReviewValidator(new(mocks.MockCatalogClient)), cache, nil, time.Second)

	refreshed, err := svc.ReconcileAggregates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, refreshed)
	cache.AssertExpectations(t)
}

func TestReconcileAggregates_EvictsEmptyProduct(t *testing.T) {
	aggregateCache := new(mocks.MockAggregateCache)
	aggregateCache.On("Products", mock.Anything).Return([]string{"gone"}, nil)
	aggregateCache.On("Delete", mock.Anything, "gone").Return(nil)

	svc := NewFeedService(repository.NewMemorySizeReviewRepository(), NewReviewValidator(new(mocks.MockCatalogClient)), aggregateCache, nil, time.Second)

	refreshed, err := svc.ReconcileAggregates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)
	aggregateCache.AssertExpectations(t)
	aggregateCache.AssertNotCalled(t, "SetIfNewer", mock.Anything, mock.Anything)
}

func TestGetFeed_EmptyLogIsNotCached(t *testing.T) {
	aggregateCache := new(mocks.MockAggregateCache)
	aggregateCache.On("Get", mock.Anything, "p9").Return(nil, nil)

	svc := NewFeedService(repository.NewMemorySizeReviewRepository(), NewReviewValidator(new(mocks.MockCatalogClient)), aggregateCache, nil, time.Second)

	feed, err := svc.GetFeed(context.Background(), FeedQuery{ProductID: "p9"})

	require.NoError(t, err)
	assert.Equal(t, 0, feed.Total)
	aggregateCache.AssertNotCalled(t, "SetIfNewer", mock.Anything, mock.Anything)
}

func TestReconcileAggregates_NoCache(t *testing.T) {
	svc, _ := newMemoryFeedService(t)

	refreshed, err := svc.ReconcileAggregates(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, refreshed)
}

func TestReady(t *testing.T) {
	repo := new(mocks.MockSizeReviewRepository)
	repo.On("Ping", mock.Anything).Return(nil).Once()
	repo.On("Ping", mock.Anything).Return(errors.New("down")).Once()

	svc := NewFeedService(repo, NewReviewValidator(new(mocks.MockCatalogClient)), nil, nil, time.Second)

	assert.NoError(t, svc.Ready(context.Background()))
	assert.ErrorIs(t, svc.Ready(context.Background()), ErrStorageUnavailable)
}
