package calculations

import "github.com/cloud-ru/pension-calculator-go/internal/validators"

// Account определяет накопительный счет, по которому строится прогноз
type Account string

const (
	AccountWorkPension Account = "work_pension"
	AccountISA         Account = "isa"
	AccountSIPP        Account = "sipp"
)

// Accounts задает порядок счетов в строках и колонках таблицы
var Accounts = []Account{AccountWorkPension, AccountISA, AccountSIPP}

// Label возвращает заголовок колонки для счета
func (a Account) Label() string {
	switch a {
	case AccountWorkPension:
		return "Work pension"
	case AccountISA:
		return "ISA"
	case AccountSIPP:
		return "SIPP"
	default:
		return string(a)
	}
}

// ProjectionInput представляет параметры одного расчета будущей стоимости
type ProjectionInput struct {
	ContributionPerYear float64 `json:"contribution_per_year"`
	AnnualRate          float64 `json:"annual_rate"`
	Years               float64 `json:"years"`
	PeriodsPerYear      int     `json:"periods_per_year"`
}

// FutureValue рассчитывает будущую стоимость серии взносов
func (in ProjectionInput) FutureValue() float64 {
	return FutureValueOfSeries(in.ContributionPerYear, in.AnnualRate, in.Years, in.PeriodsPerYear)
}

// ProjectionResult представляет прогноз по одному счету при одной ставке
type ProjectionResult struct {
	Account     Account `json:"account"`
	FutureValue float64 `json:"future_value"`
}

// ScenarioRow представляет строку таблицы: одну ставку или итоговую строку по всем ставкам
type ScenarioRow struct {
	Rate      float64             `json:"rate"`
	Values    map[Account]float64 `json:"values"`
	Total     float64             `json:"total"`
	Aggregate bool                `json:"aggregate,omitempty"`
}

func newScenarioRow(rate float64) ScenarioRow {
	return ScenarioRow{
		Rate:   rate,
		Values: make(map[Account]float64, len(Accounts)),
	}
}

// Value возвращает прогноз по счету, 0 если счета нет в строке
func (r ScenarioRow) Value(a Account) float64 {
	return r.Values[a]
}

// CalculationRequest представляет входные данные одного расчета
type CalculationRequest struct {
	CurrentAge        float64 `json:"current_age"`
	RetirementAge     float64 `json:"retirement_age"`
	WorkPensionAnnual float64 `json:"work_pension"`
	ISAAnnual         float64 `json:"isa"`
	SIPPAnnual        float64 `json:"sipp"`
	PeriodsPerYear    int     `json:"periods_per_year"`
}

// Contribution возвращает годовой взнос на счет
func (r CalculationRequest) Contribution(a Account) float64 {
	switch a {
	case AccountWorkPension:
		return r.WorkPensionAnnual
	case AccountISA:
		return r.ISAAnnual
	case AccountSIPP:
		return r.SIPPAnnual
	default:
		return 0
	}
}

// Projection представляет готовый к отображению результат расчета
type Projection struct {
	Rows           []ScenarioRow `json:"rows"`
	GrandTotals    ScenarioRow   `json:"grand_totals"`
	Years          float64       `json:"years"`
	PeriodsPerYear int           `json:"periods_per_year"`
}

// Monthly сообщает, выбрана ли ежемесячная капитализация
func (p *Projection) Monthly() bool {
	return p.PeriodsPerYear == validators.PeriodsMonthly
}
