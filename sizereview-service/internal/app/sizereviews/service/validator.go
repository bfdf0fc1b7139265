package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
	"codeitmall/sizereview-service/internal/app/sizereviews/infrastructure"
)

// порядок проверок формы запроса и причина отказа для каждого поля
var shapeChecks = []struct {
	field  string
	reason ValidationReason
}{
	{"ProductID", ReasonUnknownProduct},
	{"Sex", ReasonInvalidSex},
	{"Height", ReasonHeightOutOfRange},
	{"Fit", ReasonInvalidFit},
}

// ReviewValidator отклоняет некорректные отзывы до записи в хранилище.
// Состояния не хранит, безопасен для конкурентного использования
type ReviewValidator struct {
	catalog  ProductLookup
	validate *validator.Validate
}

func NewReviewValidator(catalog ProductLookup) *ReviewValidator {
	return &ReviewValidator{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// Validate проверяет отзыв и возвращает нормализованную запись без ID.
// Первая найденная ошибка - *ValidationError; недоступность каталога - ErrCatalogUnavailable
func (v *ReviewValidator) Validate(ctx context.Context, req *entity.CreateSizeReviewRequest) (*entity.SizeReview, error) {
	normalized := normalize(req)

	if err := v.checkShape(&normalized); err != nil {
		return nil, err
	}

	product, err := v.catalog.GetProduct(ctx, string(normalized.ProductID))
	if err != nil {
		if errors.Is(err, infrastructure.ErrProductNotFound) {
			return nil, newValidationError(ReasonUnknownProduct, "productId", "product %q does not exist", normalized.ProductID)
		}
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	size := entity.Size(normalized.Size)
	scale := entity.ScaleFor(product.Category)
	if !scale.Contains(size) {
		return nil, newValidationError(ReasonInvalidSize, "size", "size %q is not one of %v", normalized.Size, scale)
	}

	return &entity.SizeReview{
		ProductID: string(normalized.ProductID),
		Size:      size,
		Sex:       entity.Sex(normalized.Sex),
		Height:    int(normalized.Height),
		Fit:       entity.Fit(normalized.Fit),
	}, nil
}

func normalize(req *entity.CreateSizeReviewRequest) entity.CreateSizeReviewRequest {
	return entity.CreateSizeReviewRequest{
		ProductID: entity.CatalogID(strings.TrimSpace(string(req.ProductID))),
		Size:      strings.ToUpper(strings.TrimSpace(req.Size)),
		Sex:       strings.ToLower(strings.TrimSpace(req.Sex)),
		Height:    req.Height,
		Fit:       strings.ToLower(strings.TrimSpace(req.Fit)),
	}
}

func (v *ReviewValidator) checkShape(req *entity.CreateSizeReviewRequest) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	failed := make(map[string]validator.FieldError, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.StructField()] = fe
	}

	for _, check := range shapeChecks {
		fe, ok := failed[check.field]
		if !ok {
			continue
		}
		return newValidationError(check.reason, jsonField(check.field), "%s failed on '%s' (got %v)", jsonField(check.field), fe.Tag(), fe.Value())
	}

	return err
}

func jsonField(structField string) string {
	switch structField {
	case "ProductID":
		return "productId"
	default:
		return strings.ToLower(structField)
	}
}
