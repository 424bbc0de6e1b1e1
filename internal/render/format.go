package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cloud-ru/pension-calculator-go/internal/calculations"
	"github.com/cloud-ru/pension-calculator-go/internal/validators"
	"github.com/cloud-ru/pension-calculator-go/pkg/utils"
)

// Formatter превращает числа прогноза в текст для отображения
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter создает форматтер для локали (BCP 47, например en-GB) и символа валюты
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}, nil
}

// Currency форматирует сумму с символом валюты, без дробной части и с разделителями разрядов
func (f *Formatter) Currency(value float64) string {
	if math.IsNaN(value) {
		value = 0
	}
	if math.IsInf(value, 0) || math.Abs(value) >= math.MaxInt64 {
		return f.symbol + f.printer.Sprintf("%.0f", value)
	}
	return f.symbol + f.printer.Sprintf("%d", int64(utils.Round(value, 0)))
}

// Percent форматирует ставку как проценты, до двух знаков после запятой
func Percent(rate float64) string {
	return strconv.FormatFloat(utils.Round2(rate*100), 'f', -1, 64) + "%"
}

// Years форматирует число лет до пенсии
func Years(years float64) string {
	return strconv.FormatFloat(years, 'f', -1, 64)
}

// RowLabel возвращает подпись строки сценария, например "6% (33 yrs)"
func RowLabel(rate, years float64) string {
	return Percent(rate) + " (" + Years(years) + " yrs)"
}

// CompoundingLabel возвращает название частоты капитализации
func CompoundingLabel(periodsPerYear int) string {
	if periodsPerYear == validators.PeriodsMonthly {
		return "monthly"
	}
	return "annual"
}

// Summary возвращает строку-резюме под таблицей
func Summary(p *calculations.Projection) string {
	return "Years until retirement: " + Years(p.Years) + ". Compounding: " + CompoundingLabel(p.PeriodsPerYear) + "."
}

// ErrorMessage возвращает текст, который показывается вместо таблицы при ошибке ввода
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, validators.ErrInvalidAges):
		return "Please enter valid ages."
	case errors.Is(err, validators.ErrRetirementNotAfterCurrent):
		return "Retirement age must be greater than current age."
	default:
		return "Unable to calculate projection."
	}
}
