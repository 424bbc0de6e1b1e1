package calculations

import (
	"github.com/cloud-ru/pension-calculator-go/internal/validators"
)

// DefaultRates содержит годовые ставки сценариев: 4%, 6% и 8%
var DefaultRates = []float64{0.04, 0.06, 0.08}

// Calculator строит сценарную таблицу. После создания не изменяется
// и может использоваться из нескольких горутин.
type Calculator struct {
	rates []float64
}

// NewCalculator создает калькулятор с заданными ставками. Пустой список
// заменяется ставками по умолчанию, порядок ставок сохраняется.
func NewCalculator(rates []float64) *Calculator {
	if len(rates) == 0 {
		rates = DefaultRates
	}
	own := make([]float64, len(rates))
	copy(own, rates)
	return &Calculator{rates: own}
}

// Rates возвращает копию ставок сценариев
func (c *Calculator) Rates() []float64 {
	out := make([]float64, len(c.rates))
	copy(out, c.rates)
	return out
}

// Calculate проверяет запрос, рассчитывает прогноз по каждому счету для каждой
// ставки и суммирует строки в итоговую строку
func (c *Calculator) Calculate(req CalculationRequest) (*Projection, error) {
	years, err := validators.CheckAges(req.CurrentAge, req.RetirementAge)
	if err != nil {
		return nil, err
	}

	periods := validators.CoercePeriodsPerYear(req.PeriodsPerYear)

	grand := newScenarioRow(0)
	grand.Aggregate = true

	rows := make([]ScenarioRow, 0, len(c.rates))
	for _, rate := range c.rates {
		row := newScenarioRow(rate)

		for _, result := range projectAccounts(req, rate, years, periods) {
			row.Values[result.Account] = result.FutureValue
			row.Total += result.FutureValue

			grand.Values[result.Account] += result.FutureValue
		}
		grand.Total += row.Total

		rows = append(rows, row)
	}

	return &Projection{
		Rows:           rows,
		GrandTotals:    grand,
		Years:          years,
		PeriodsPerYear: periods,
	}, nil
}

func projectAccounts(req CalculationRequest, rate, years float64, periods int) []ProjectionResult {
	results := make([]ProjectionResult, 0, len(Accounts))
	for _, account := range Accounts {
		in := ProjectionInput{
			ContributionPerYear: validators.CoerceContribution(req.Contribution(account)),
			AnnualRate:          rate,
			Years:               years,
			PeriodsPerYear:      periods,
		}
		results = append(results, ProjectionResult{
			Account:     account,
			FutureValue: in.FutureValue(),
		})
	}
	return results
}
