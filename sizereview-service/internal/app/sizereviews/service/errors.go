package service

import (
	"errors"
	"fmt"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrStorageUnavailable = errors.New("size review storage unavailable")
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrResponseAbandoned - отзыв сохранен, но вызывающий уже отменил запрос
	ErrResponseAbandoned = errors.New("size review stored but response abandoned")
)

// ValidationReason - причина отклонения отзыва, отдается клиенту как есть
type ValidationReason string

const (
	ReasonUnknownProduct   ValidationReason = "UnknownProduct"
	ReasonInvalidSize      ValidationReason = "InvalidSize"
	ReasonInvalidSex       ValidationReason = "InvalidSex"
	ReasonHeightOutOfRange ValidationReason = "HeightOutOfRange"
	ReasonInvalidFit       ValidationReason = "InvalidFit"
)

// ValidationError - отзыв отклонен, повтор без исправления бессмысленен
type ValidationError struct {
	Reason  ValidationReason
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func newValidationError(reason ValidationReason, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Reason:  reason,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
