package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы расчета
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidAges    = "invalid_ages"
	OutcomeInvalidHorizon = "retirement_not_after_current"
)

var (
	// Calculations счетчик расчетов по поверхности (html, api, cli) и исходу
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pension_calculations_total",
			Help: "Количество расчетов прогноза",
		},
		[]string{"surface", "outcome"},
	)

	// Resets счетчик сбросов формы
	Resets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pension_resets_total",
			Help: "Количество сбросов формы к значениям по умолчанию",
		},
		[]string{"surface"},
	)

	// HTTPRequests счетчик HTTP-запросов
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP-запросы по маршруту и статусу",
		},
		[]string{"route", "status"},
	)

	// YearsToRetirement распределение горизонта прогноза в годах
	YearsToRetirement = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pension_years_to_retirement",
			Help:    "Число лет до пенсии в успешных расчетах",
			Buckets: []float64{5, 10, 15, 20, 25, 30, 35, 40, 50},
		},
	)
)
