package handlers

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/cloud-ru/pension-calculator-go/internal/calculations"
	"github.com/cloud-ru/pension-calculator-go/internal/render"
	"github.com/cloud-ru/pension-calculator-go/internal/service"
	"github.com/cloud-ru/pension-calculator-go/internal/validators"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

// Deps содержит зависимости обработчиков
type Deps struct {
	Service   *service.ProjectionService
	Formatter *render.Formatter
	Logger    *slog.Logger
}

// IndexHandler отдает форму со значениями по умолчанию и пустой областью результата
func IndexHandler(d *Deps) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if !ctx.IsGet() && !ctx.IsHead() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		page := render.NewPage(calculations.Reset(d.Service.Defaults()))
		writePage(ctx, d, page)
	}
}

// CalculateHandler обрабатывает отправку формы: пересчитывает прогноз с нуля и
// отрисовывает страницу с введенными значениями и таблицей или сообщением
func CalculateHandler(d *Deps) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if !ctx.IsPost() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}

		form := calculations.FormInput{
			CurrentAge:    string(ctx.FormValue("current_age")),
			RetirementAge: string(ctx.FormValue("retirement_age")),
			WorkPension:   string(ctx.FormValue("work_pension")),
			ISA:           string(ctx.FormValue("isa")),
			SIPP:          string(ctx.FormValue("sipp")),
			Compounding:   string(ctx.FormValue("compounding")),
		}

		projection, err := d.Service.Calculate(ctx, service.SurfaceHTML, form.Request())
		page := render.NewPage(form).WithResult(d.Formatter, projection, err)
		writePage(ctx, d, page)
	}
}

// ResetHandler возвращает форму к значениям по умолчанию и очищает результат
func ResetHandler(d *Deps) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if !ctx.IsPost() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}
		page := render.NewPage(d.Service.Reset(service.SurfaceHTML))
		writePage(ctx, d, page)
	}
}

// ProjectionRequest тело запроса JSON API. Отсутствующий возраст считается
// некорректным, отсутствующие взносы равны 0, капитализация по умолчанию ежегодная.
type ProjectionRequest struct {
	CurrentAge     *float64     `json:"current_age"`
	RetirementAge  *float64     `json:"retirement_age"`
	WorkPension    *float64     `json:"work_pension"`
	ISA            *float64     `json:"isa"`
	SIPP           *float64     `json:"sipp"`
	PeriodsPerYear *Compounding `json:"periods_per_year"`
}

// Compounding число периодов капитализации в теле запроса. Принимает число или
// строку; неподдерживаемое значение приводится к ежегодной капитализации.
type Compounding int

// UnmarshalJSON приводит значение так же, как селектор формы
func (c *Compounding) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	*c = Compounding(validators.ParsePeriodsPerYear(raw))
	return nil
}

// CalculationRequest приводит тело запроса к запросу калькулятора
func (r ProjectionRequest) CalculationRequest() calculations.CalculationRequest {
	periods := validators.PeriodsAnnual
	if r.PeriodsPerYear != nil {
		periods = validators.CoercePeriodsPerYear(int(*r.PeriodsPerYear))
	}
	return calculations.CalculationRequest{
		CurrentAge:        valueOr(r.CurrentAge, math.NaN()),
		RetirementAge:     valueOr(r.RetirementAge, math.NaN()),
		WorkPensionAnnual: validators.CoerceContribution(valueOr(r.WorkPension, 0)),
		ISAAnnual:         validators.CoerceContribution(valueOr(r.ISA, 0)),
		SIPPAnnual:        validators.CoerceContribution(valueOr(r.SIPP, 0)),
		PeriodsPerYear:    periods,
	}
}

// CalculationMetadata описывает выполненный расчет
type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

// ProjectionResponse ответ JSON API
type ProjectionResponse struct {
	CalculationMetadata CalculationMetadata      `json:"calculation_metadata"`
	Projection          *calculations.Projection `json:"projection"`
	Table               render.Table             `json:"table"`
}

// ErrorResponse тело ответа об ошибке
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// DefaultsResponse ответ со значениями сброса
type DefaultsResponse struct {
	Form  calculations.FormInput `json:"form"`
	Rates []float64              `json:"rates"`
}

// OutcomeSuccess исход успешного расчета в метаданных ответа
const OutcomeSuccess = "SUCCESS"

// ProjectionAPIHandler обрабатывает POST /api/v1/projections
func ProjectionAPIHandler(d *Deps) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req ProjectionRequest
		if err := json.Unmarshal(bytes.TrimSpace(ctx.PostBody()), &req); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		start := time.Now()
		projection, err := d.Service.Calculate(ctx, service.SurfaceAPI, req.CalculationRequest())
		if err != nil {
			writeError(ctx, fasthttp.StatusUnprocessableEntity, render.ErrorMessage(err))
			return
		}
		elapsed := time.Since(start)
		now := time.Now().UTC()

		writeJSON(ctx, fasthttp.StatusOK, ProjectionResponse{
			CalculationMetadata: CalculationMetadata{
				CalculationID:          uuid.New().String(),
				CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
				CalculationCompletedAt: now.Format(time.RFC3339),
				CalculationDurationMs:  elapsed.Milliseconds(),
				CalculationOutcome:     OutcomeSuccess,
			},
			Projection: projection,
			Table:      d.Formatter.Table(projection),
		})
	}
}

// DefaultsAPIHandler обрабатывает GET /api/v1/defaults: значения формы после сброса
func DefaultsAPIHandler(d *Deps) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if !ctx.IsGet() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, DefaultsResponse{
			Form:  d.Service.Reset(service.SurfaceAPI),
			Rates: d.Service.Rates(),
		})
	}
}

// HealthHandler отвечает на проверку живости
func HealthHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString("ok")
}

func writePage(ctx *fasthttp.RequestCtx, d *Deps, page render.Page) {
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, page); err != nil {
		d.Logger.Error("failed to render page", "error", err)
		ctx.Error("internal server error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType(contentTypeHTML)
	ctx.SetBody(buf.Bytes())
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error("internal server error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType(contentTypeJSON)
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, ErrorResponse{
		Status:  status,
		Message: message,
	})
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
