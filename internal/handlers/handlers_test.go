package handlers

import (
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/pension-calculator-go/internal/calculations"
	"github.com/cloud-ru/pension-calculator-go/internal/render"
	"github.com/cloud-ru/pension-calculator-go/internal/service"
)

func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	formatter, err := render.NewFormatter("en-GB", "£")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Deps{
		Service: service.NewProjectionService(
			calculations.NewCalculator(nil),
			calculations.DefaultInputs(),
			noop.NewTracerProvider().Tracer("test"),
			logger,
		),
		Formatter: formatter,
		Logger:    logger,
	}
}

func newRequestCtx(method, uri, contentType, body string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	req.SetBodyString(body)

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func formBody(values map[string]string) string {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	return form.Encode()
}

func TestIndexHandler(t *testing.T) {
	ctx := newRequestCtx(fasthttp.MethodGet, "/", "", "")
	IndexHandler(newTestDeps(t))(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	body := string(ctx.Response.Body())
	if !strings.Contains(body, `name="retirement_age" value="68"`) {
		t.Error("expected default retirement age in form")
	}
	if strings.Contains(body, "<table>") {
		t.Error("expected empty result area")
	}
}

func TestCalculateHandler(t *testing.T) {
	body := formBody(map[string]string{
		"current_age":    "35",
		"retirement_age": "68",
		"work_pension":   "3000",
		"isa":            "2000",
		"sipp":           "1500",
		"compounding":    "1",
	})
	ctx := newRequestCtx(fasthttp.MethodPost, "/calculate", "application/x-www-form-urlencoded", body)
	CalculateHandler(newTestDeps(t))(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	out := string(ctx.Response.Body())
	for _, want := range []string{
		"<td>6% (33 yrs)</td>",
		"<td>£292,029</td>",
		"Sum of projections (all rates)",
		"Years until retirement: 33. Compounding: annual.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected response to contain %q", want)
		}
	}
}

func TestCalculateHandlerValidation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		message string
	}{
		{
			name:    "retirement before current",
			values:  map[string]string{"current_age": "40", "retirement_age": "35"},
			message: "Retirement age must be greater than current age.",
		},
		{
			name:    "blank age",
			values:  map[string]string{"current_age": "", "retirement_age": "68"},
			message: "Please enter valid ages.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newRequestCtx(fasthttp.MethodPost, "/calculate", "application/x-www-form-urlencoded", formBody(tt.values))
			CalculateHandler(newTestDeps(t))(ctx)

			if ctx.Response.StatusCode() != fasthttp.StatusOK {
				t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
			}
			out := string(ctx.Response.Body())
			if !strings.Contains(out, tt.message) {
				t.Errorf("expected message %q", tt.message)
			}
			if strings.Contains(out, "<table>") {
				t.Error("expected no table")
			}
		})
	}
}

func TestCalculateHandlerMethodNotAllowed(t *testing.T) {
	ctx := newRequestCtx(fasthttp.MethodGet, "/calculate", "", "")
	CalculateHandler(newTestDeps(t))(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", ctx.Response.StatusCode())
	}
}

func TestResetHandler(t *testing.T) {
	body := formBody(map[string]string{"current_age": "50", "retirement_age": "55", "compounding": "12"})
	ctx := newRequestCtx(fasthttp.MethodPost, "/reset", "application/x-www-form-urlencoded", body)
	ResetHandler(newTestDeps(t))(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	out := string(ctx.Response.Body())
	for _, want := range []string{
		`name="current_age" value="35"`,
		`name="retirement_age" value="68"`,
		`name="work_pension" value="3000"`,
		`name="isa" value="2000"`,
		`name="sipp" value="1500"`,
		`<option value="1" selected>Annual</option>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected reset page to contain %q", want)
		}
	}
	if strings.Contains(out, "<table>") {
		t.Error("expected empty result area after reset")
	}
}

func TestProjectionAPIHandler(t *testing.T) {
	body := `{"current_age": 55, "retirement_age": 65, "work_pension": 1200, "periods_per_year": 12}`
	ctx := newRequestCtx(fasthttp.MethodPost, "/api/v1/projections", "application/json", body)
	ProjectionAPIHandler(newTestDeps(t))(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}

	var resp ProjectionResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CalculationMetadata.CalculationOutcome != OutcomeSuccess {
		t.Errorf("expected SUCCESS, got %s", resp.CalculationMetadata.CalculationOutcome)
	}
	if resp.CalculationMetadata.CalculationID == "" {
		t.Error("expected calculation id")
	}
	if resp.Projection == nil || len(resp.Projection.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %+v", resp.Projection)
	}
	if resp.Projection.PeriodsPerYear != 12 {
		t.Errorf("expected monthly compounding, got %d", resp.Projection.PeriodsPerYear)
	}
	if resp.Table.Summary != "Years until retirement: 10. Compounding: monthly." {
		t.Errorf("unexpected summary %q", resp.Table.Summary)
	}
	// 1200 в год при 4% ежемесячно за 10 лет
	if resp.Table.Rows[0][1] != "£14,725" {
		t.Errorf("unexpected work pension cell %q", resp.Table.Rows[0][1])
	}
}

func TestProjectionAPIHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation failure",
			method:     fasthttp.MethodPost,
			body:       `{"current_age": 40, "retirement_age": 35}`,
			wantStatus: fasthttp.StatusUnprocessableEntity,
			wantMsg:    "Retirement age must be greater than current age.",
		},
		{
			name:       "missing ages",
			method:     fasthttp.MethodPost,
			body:       `{"work_pension": 100}`,
			wantStatus: fasthttp.StatusUnprocessableEntity,
			wantMsg:    "Please enter valid ages.",
		},
		{
			name:       "malformed json",
			method:     fasthttp.MethodPost,
			body:       `{invalid-json}`,
			wantStatus: fasthttp.StatusBadRequest,
		},
		{
			name:       "wrong method",
			method:     fasthttp.MethodGet,
			wantStatus: fasthttp.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newRequestCtx(tt.method, "/api/v1/projections", "application/json", tt.body)
			ProjectionAPIHandler(newTestDeps(t))(ctx)

			if ctx.Response.StatusCode() != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, ctx.Response.StatusCode())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("expected status %d in body, got %d", tt.wantStatus, resp.Status)
			}
			if tt.wantMsg != "" && resp.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, resp.Message)
			}
		})
	}
}

func TestProjectionRequestDefaults(t *testing.T) {
	age, retire, negative := 30.0, 60.0, -5.0
	quarterly := Compounding(4)
	req := ProjectionRequest{
		CurrentAge:     &age,
		RetirementAge:  &retire,
		ISA:            &negative,
		PeriodsPerYear: &quarterly,
	}.CalculationRequest()

	if req.CurrentAge != 30 || req.RetirementAge != 60 {
		t.Errorf("unexpected ages %v/%v", req.CurrentAge, req.RetirementAge)
	}
	if req.ISAAnnual != 0 || req.WorkPensionAnnual != 0 || req.SIPPAnnual != 0 {
		t.Errorf("expected contributions coerced to 0, got %+v", req)
	}
	if req.PeriodsPerYear != 1 {
		t.Errorf("expected unsupported periods to fall back to 1, got %d", req.PeriodsPerYear)
	}
}

func TestProjectionRequestCompounding(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "integer", body: `{"periods_per_year": 12}`, want: 12},
		{name: "float", body: `{"periods_per_year": 12.0}`, want: 12},
		{name: "string", body: `{"periods_per_year": "12"}`, want: 12},
		{name: "annual string", body: `{"periods_per_year": "1"}`, want: 1},
		{name: "quarterly", body: `{"periods_per_year": 4}`, want: 1},
		{name: "fractional", body: `{"periods_per_year": 12.5}`, want: 1},
		{name: "non-numeric", body: `{"periods_per_year": "monthly"}`, want: 1},
		{name: "boolean", body: `{"periods_per_year": true}`, want: 1},
		{name: "absent", body: `{}`, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ProjectionRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got := req.CalculationRequest().PeriodsPerYear; got != tt.want {
				t.Errorf("PeriodsPerYear = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProjectionAPIHandlerStringCompounding(t *testing.T) {
	body := `{"current_age": 55, "retirement_age": 65, "work_pension": 1200, "periods_per_year": "12"}`
	ctx := newRequestCtx(fasthttp.MethodPost, "/api/v1/projections", "application/json", body)
	ProjectionAPIHandler(newTestDeps(t))(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp ProjectionResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Projection == nil || resp.Projection.PeriodsPerYear != 12 {
		t.Fatalf("expected monthly compounding, got %+v", resp.Projection)
	}
}

func TestDefaultsAPIHandler(t *testing.T) {
	ctx := newRequestCtx(fasthttp.MethodGet, "/api/v1/defaults", "", "")
	DefaultsAPIHandler(newTestDeps(t))(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}

	var resp DefaultsResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Form != calculations.Reset(calculations.DefaultInputs()) {
		t.Errorf("unexpected defaults %+v", resp.Form)
	}
	if len(resp.Rates) != 3 {
		t.Errorf("expected 3 rates, got %v", resp.Rates)
	}
}

func TestHealthHandler(t *testing.T) {
	ctx := newRequestCtx(fasthttp.MethodGet, "/healthz", "", "")
	HealthHandler(ctx)

	if string(ctx.Response.Body()) != "ok" {
		t.Errorf("unexpected body %q", ctx.Response.Body())
	}
}
