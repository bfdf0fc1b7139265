package repository

import (
	"context"
	"iter"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

// SizeReviewRepository - журнал отзывов о размере, разбитый по товарам.
// Только добавление: методов изменения и удаления нет
type SizeReviewRepository interface {
	// Append назначает ID, Seq и CreatedAt и атомарно сохраняет отзыв.
	// Добавления в один товар упорядочены, в разные товары - независимы
	Append(ctx context.Context, review *entity.SizeReview) error
	// ListByProduct возвращает отзывы от новых к старым, limit <= 0 - вся история
	ListByProduct(ctx context.Context, productID string, limit int) ([]entity.SizeReview, error)
	// ScanByProduct лениво обходит всю историю товара. Каждый range заново читает хранилище.
	// Нечитаемая запись отдается ошибкой с entity.ErrCorruptRecord
	ScanByProduct(ctx context.Context, productID string) iter.Seq2[entity.SizeReview, error]
	Ping(ctx context.Context) error
}

// Драйверы хранилища
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)
