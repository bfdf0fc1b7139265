package entity

import (
	"strconv"
	"strings"
)

type Size string

// SizeScale - упорядоченный набор размеров для категории товара (от меньшего к большему)
type SizeScale []Size

var (
	DefaultScale  = SizeScale{"S", "M", "L", "XL"}
	ExtendedScale = SizeScale{"XS", "S", "M", "L", "XL", "XXL"}
	KidsScale     = SizeScale{"110", "120", "130", "140", "150"}
)

var scalesByCategory = map[string]SizeScale{
	"extended": ExtendedScale,
	"kids":     KidsScale,
}

// ScaleFor возвращает шкалу размеров категории.
// Для неизвестной или пустой категории используется DefaultScale
func ScaleFor(category string) SizeScale {
	if scale, ok := scalesByCategory[strings.ToLower(strings.TrimSpace(category))]; ok {
		return scale
	}
	return DefaultScale
}

func (s SizeScale) Contains(size Size) bool {
	for _, candidate := range s {
		if candidate == size {
			return true
		}
	}
	return false
}

// KnownSize сообщает, входит ли размер хотя бы в одну шкалу.
// Агрегатор не знает категорию товара, поэтому проверяет по всем шкалам
func KnownSize(size Size) bool {
	if DefaultScale.Contains(size) {
		return true
	}
	for _, scale := range scalesByCategory {
		if scale.Contains(size) {
			return true
		}
	}
	return false
}

// буквенные размеры в порядке возрастания
var letterRank = map[Size]int{
	"XXS": 0, "XS": 1, "S": 2, "M": 3, "L": 4, "XL": 5, "XXL": 6, "XXXL": 7,
}

// CompareSizes сравнивает размеры без знания категории:
// числовые - по значению, буквенные - по letterRank, остальные - лексикографически.
// Возвращает -1, 0 или 1
func CompareSizes(a, b Size) int {
	if a == b {
		return 0
	}

	an, aErr := strconv.Atoi(string(a))
	bn, bErr := strconv.Atoi(string(b))
	if aErr == nil && bErr == nil {
		return compareInts(an, bn)
	}

	ar, aOk := letterRank[a]
	br, bOk := letterRank[b]
	if aOk && bOk {
		return compareInts(ar, br)
	}

	return strings.Compare(string(a), string(b))
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
