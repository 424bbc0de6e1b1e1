package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/pension-calculator-go/internal/calculations"
	"github.com/cloud-ru/pension-calculator-go/internal/metrics"
	"github.com/cloud-ru/pension-calculator-go/internal/validators"
)

// Поверхности, с которых приходят расчеты
const (
	SurfaceHTML = "html"
	SurfaceAPI  = "api"
	SurfaceCLI  = "cli"
)

// ProjectionService связывает калькулятор с трейсингом, метриками и логами
type ProjectionService struct {
	calc     *calculations.Calculator
	defaults calculations.Defaults
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProjectionService создает сервис прогноза
func NewProjectionService(calc *calculations.Calculator, defaults calculations.Defaults,
	tracer trace.Tracer, logger *slog.Logger) *ProjectionService {
	return &ProjectionService{
		calc:     calc,
		defaults: defaults,
		tracer:   tracer,
		logger:   logger,
	}
}

// Calculate выполняет расчет прогноза. Ошибки проверки ввода возвращаются как есть
// и сравниваются через errors.Is с ошибками пакета validators.
func (s *ProjectionService) Calculate(ctx context.Context, surface string, req calculations.CalculationRequest) (*calculations.Projection, error) {
	_, span := s.tracer.Start(ctx, "calculate_projection")
	defer span.End()

	span.SetAttributes(
		attribute.String("surface", surface),
		attribute.Float64("current_age", req.CurrentAge),
		attribute.Float64("retirement_age", req.RetirementAge),
		attribute.Float64("work_pension", req.WorkPensionAnnual),
		attribute.Float64("isa", req.ISAAnnual),
		attribute.Float64("sipp", req.SIPPAnnual),
		attribute.Int("periods_per_year", req.PeriodsPerYear),
	)

	projection, err := s.calc.Calculate(req)
	if err != nil {
		outcome := outcomeFor(err)
		span.SetAttributes(attribute.String("error", outcome))
		span.SetStatus(codes.Error, err.Error())
		metrics.Calculations.WithLabelValues(surface, outcome).Inc()
		s.logger.Debug("projection rejected", "surface", surface, "reason", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Float64("years", projection.Years),
		attribute.Float64("grand_total", projection.GrandTotals.Total),
	)
	metrics.Calculations.WithLabelValues(surface, metrics.OutcomeSuccess).Inc()
	metrics.YearsToRetirement.Observe(projection.Years)
	s.logger.Debug("projection calculated", "surface", surface, "years", projection.Years,
		"periods_per_year", projection.PeriodsPerYear, "rows", len(projection.Rows))

	return projection, nil
}

// Reset возвращает форму со значениями по умолчанию
func (s *ProjectionService) Reset(surface string) calculations.FormInput {
	metrics.Resets.WithLabelValues(surface).Inc()
	return calculations.Reset(s.defaults)
}

// Defaults возвращает значения по умолчанию
func (s *ProjectionService) Defaults() calculations.Defaults {
	return s.defaults
}

// Rates возвращает ставки сценариев
func (s *ProjectionService) Rates() []float64 {
	return s.calc.Rates()
}

// outcomeFor сопоставляет ошибку проверки возраста с исходом расчета.
// Calculator.Calculate возвращает только эти две ошибки.
func outcomeFor(err error) string {
	if errors.Is(err, validators.ErrInvalidAges) {
		return metrics.OutcomeInvalidAges
	}
	return metrics.OutcomeInvalidHorizon
}
