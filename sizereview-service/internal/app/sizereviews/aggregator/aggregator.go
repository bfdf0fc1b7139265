// Package aggregator сворачивает журнал отзывов о размере в FitAggregate
// и подбирает размер по росту. Пакет не хранит состояния и не делает I/O
package aggregator

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sort"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

// BandCm - ширина полосы правдоподобной посадки над минимальной дистанцией
const BandCm = 5.0

// ErrInvalidRecord - запись не принадлежит домену (неизвестный пол, посадка и т.п.)
var ErrInvalidRecord = errors.New("invalid size review record")

// Aggregate сворачивает последовательность отзывов товара в агрегат.
// Результат не зависит от порядка записей. Битые и невалидные записи
// пропускаются и возвращаются как anomalies; любая другая ошибка
// последовательности прерывает свертку
func Aggregate(productID string, records iter.Seq2[entity.SizeReview, error]) (*entity.FitAggregate, []error, error) {
	agg := entity.NewFitAggregate(productID)
	var anomalies []error

	for review, err := range records {
		if err != nil {
			if errors.Is(err, entity.ErrCorruptRecord) {
				anomalies = append(anomalies, err)
				continue
			}
			return nil, anomalies, err
		}

		if err := Apply(agg, review); err != nil {
			anomalies = append(anomalies, err)
			// невалидная запись все равно прочитана, водяной знак сдвигаем
			if review.Seq > agg.LastSeq {
				agg.LastSeq = review.Seq
			}
		}
	}

	return agg, anomalies, nil
}

// Apply добавляет один отзыв в агрегат
func Apply(agg *entity.FitAggregate, review entity.SizeReview) error {
	if err := check(agg.ProductID, review); err != nil {
		return err
	}

	agg.PerSize[review.Size] = bump(agg.PerSize[review.Size], review)

	bySize, ok := agg.BySex[review.Sex]
	if !ok {
		bySize = make(map[entity.Size]entity.SizeStats)
		agg.BySex[review.Sex] = bySize
	}
	bySize[review.Size] = bump(bySize[review.Size], review)

	agg.Total++
	if review.Seq > agg.LastSeq {
		agg.LastSeq = review.Seq
	}
	return nil
}

func check(productID string, r entity.SizeReview) error {
	switch {
	case r.ProductID != productID:
		return fmt.Errorf("%w: review %s belongs to product %q", ErrInvalidRecord, r.ID, r.ProductID)
	case !entity.KnownSize(r.Size):
		return fmt.Errorf("%w: review %s has size %q", ErrInvalidRecord, r.ID, r.Size)
	case !r.Sex.Valid():
		return fmt.Errorf("%w: review %s has sex %q", ErrInvalidRecord, r.ID, r.Sex)
	case !r.Fit.Valid():
		return fmt.Errorf("%w: review %s has fit %q", ErrInvalidRecord, r.ID, r.Fit)
	case r.Height < entity.MinHeightCm || r.Height > entity.MaxHeightCm:
		return fmt.Errorf("%w: review %s has height %d", ErrInvalidRecord, r.ID, r.Height)
	}
	return nil
}

func bump(s entity.SizeStats, r entity.SizeReview) entity.SizeStats {
	switch r.Fit {
	case entity.FitSmall:
		s.Small++
	case entity.FitGood:
		s.Good++
		s.GoodHeightSum += r.Height
	case entity.FitBig:
		s.Big++
	}
	return s
}

// Records превращает срез в последовательность для Aggregate
func Records(reviews []entity.SizeReview) iter.Seq2[entity.SizeReview, error] {
	return func(yield func(entity.SizeReview, error) bool) {
		for _, r := range reviews {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Percentages считает доли посадки с округлением половины вверх.
// Сумма может отличаться от 100 на единицу
func Percentages(s entity.SizeStats) entity.FitPercentages {
	total := s.Total()
	if total == 0 {
		return entity.FitPercentages{}
	}
	return entity.FitPercentages{
		Small: roundPercent(s.Small, total),
		Good:  roundPercent(s.Good, total),
		Big:   roundPercent(s.Big, total),
	}
}

// round_half_up(count*100/total) в целых числах
func roundPercent(count, total int) int {
	return (2*count*100 + total) / (2 * total)
}

// AllPercentages считает доли для каждого размера агрегата
func AllPercentages(agg *entity.FitAggregate) map[entity.Size]entity.FitPercentages {
	out := make(map[entity.Size]entity.FitPercentages)
	if agg == nil {
		return out
	}
	for size, stats := range agg.PerSize {
		out[size] = Percentages(stats)
	}
	return out
}

type candidate struct {
	size     entity.Size
	samples  int
	mean     float64
	distance float64
}

// Recommend подбирает размер для роста height (и пола, если задан).
// Кандидаты - размеры, где good составляет не меньше половины отзывов.
// Среди кандидатов в полосе BandCm от ближайшего по среднему росту
// выигрывает размер с большей выборкой, при равенстве - меньший размер
func Recommend(agg *entity.FitAggregate, height int, sex entity.Sex) entity.Recommendation {
	rec := entity.Recommendation{
		Status: entity.RecommendationInsufficientData,
		Height: height,
		Sex:    sex,
	}
	if agg == nil {
		return rec
	}

	stats := agg.PerSize
	if sex != "" {
		stats = agg.BySex[sex]
	}

	var candidates []candidate
	for size, s := range stats {
		total := s.Total()
		if total == 0 || s.Good == 0 || s.Good*2 < total {
			continue
		}
		mean := float64(s.GoodHeightSum) / float64(s.Good)
		candidates = append(candidates, candidate{
			size:     size,
			samples:  total,
			mean:     mean,
			distance: math.Abs(mean - float64(height)),
		})
	}
	if len(candidates) == 0 {
		return rec
	}

	minDistance := candidates[0].distance
	for _, c := range candidates[1:] {
		minDistance = math.Min(minDistance, c.distance)
	}

	band := candidates[:0]
	for _, c := range candidates {
		if c.distance <= minDistance+BandCm {
			band = append(band, c)
		}
	}

	sort.Slice(band, func(i, j int) bool {
		if band[i].samples != band[j].samples {
			return band[i].samples > band[j].samples
		}
		return entity.CompareSizes(band[i].size, band[j].size) < 0
	})

	best := band[0]
	rec.Status = entity.RecommendationRecommended
	rec.Size = best.size
	rec.SampleCount = best.samples
	rec.MeanHeight = math.Round(best.mean*10) / 10
	return rec
}
