package calculations

import (
	"strconv"

	"github.com/cloud-ru/pension-calculator-go/internal/validators"
)

// FormInput содержит сырой текст полей формы в том виде, в каком его прислал пользователь
type FormInput struct {
	CurrentAge    string `json:"current_age"`
	RetirementAge string `json:"retirement_age"`
	WorkPension   string `json:"work_pension"`
	ISA           string `json:"isa"`
	SIPP          string `json:"sipp"`
	Compounding   string `json:"compounding"`
}

// Request превращает текст формы в запрос. Нечисловой возраст становится NaN и будет
// отклонен при расчете, взносы приводятся к 0, капитализация к 1.
func (f FormInput) Request() CalculationRequest {
	return CalculationRequest{
		CurrentAge:        validators.ParseNumber(f.CurrentAge),
		RetirementAge:     validators.ParseNumber(f.RetirementAge),
		WorkPensionAnnual: validators.CoerceContribution(validators.ParseNumber(f.WorkPension)),
		ISAAnnual:         validators.CoerceContribution(validators.ParseNumber(f.ISA)),
		SIPPAnnual:        validators.CoerceContribution(validators.ParseNumber(f.SIPP)),
		PeriodsPerYear:    validators.ParsePeriodsPerYear(f.Compounding),
	}
}

// Defaults содержит значения полей после сброса
type Defaults struct {
	CurrentAge     float64
	RetirementAge  float64
	WorkPension    float64
	ISA            float64
	SIPP           float64
	PeriodsPerYear int
}

// DefaultInputs возвращает стандартный набор значений формы
func DefaultInputs() Defaults {
	return Defaults{
		CurrentAge:     35,
		RetirementAge:  68,
		WorkPension:    3000,
		ISA:            2000,
		SIPP:           1500,
		PeriodsPerYear: validators.PeriodsAnnual,
	}
}

// Request возвращает запрос, соответствующий значениям по умолчанию
func (d Defaults) Request() CalculationRequest {
	return CalculationRequest{
		CurrentAge:        d.CurrentAge,
		RetirementAge:     d.RetirementAge,
		WorkPensionAnnual: d.WorkPension,
		ISAAnnual:         d.ISA,
		SIPPAnnual:        d.SIPP,
		PeriodsPerYear:    validators.CoercePeriodsPerYear(d.PeriodsPerYear),
	}
}

// Reset возвращает форму, заполненную значениями по умолчанию. Результат
// предыдущего расчета не сохраняется.
func Reset(d Defaults) FormInput {
	return FormInput{
		CurrentAge:    formatField(d.CurrentAge),
		RetirementAge: formatField(d.RetirementAge),
		WorkPension:   formatField(d.WorkPension),
		ISA:           formatField(d.ISA),
		SIPP:          formatField(d.SIPP),
		Compounding:   strconv.Itoa(validators.CoercePeriodsPerYear(d.PeriodsPerYear)),
	}
}

func formatField(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
