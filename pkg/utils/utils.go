package utils

import "math"

// Round округляет число до places знаков после запятой, половину округляет от нуля
func Round(value float64, places int) float64 {
	if places <= 0 {
		return math.Round(value)
	}
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	return Round(value, 2)
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// FiniteOr возвращает value, если оно конечно, иначе fallback
func FiniteOr(value, fallback float64) float64 {
	if !IsFinite(value) {
		return fallback
	}
	return value
}
