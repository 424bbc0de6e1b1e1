package validators

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/cloud-ru/pension-calculator-go/pkg/utils"
)

var (
	// ErrInvalidAges возвращается, если хотя бы один из возрастов не является конечным числом
	ErrInvalidAges = errors.New("invalid ages")

	// ErrRetirementNotAfterCurrent возвращается, если до пенсии не осталось ни одного года
	ErrRetirementNotAfterCurrent = errors.New("retirement age must exceed current age")
)

// Частоты капитализации, которые принимает форма
const (
	PeriodsAnnual  = 1
	PeriodsMonthly = 12
)

// IsValidationError сообщает, является ли ошибка ошибкой проверки ввода
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAges) || errors.Is(err, ErrRetirementNotAfterCurrent)
}

// CheckAges проверяет возраст и возвращает число лет до пенсии.
// Первая найденная ошибка побеждает.
func CheckAges(currentAge, retirementAge float64) (float64, error) {
	if !utils.IsFinite(currentAge) || !utils.IsFinite(retirementAge) {
		return 0, ErrInvalidAges
	}
	years := retirementAge - currentAge
	if !(years > 0) {
		return 0, ErrRetirementNotAfterCurrent
	}
	return years, nil
}

// ParseNumber разбирает текст поля формы. Пустое или нечисловое значение дает NaN.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

// CoerceContribution приводит взнос к безопасному значению: всё, что не является
// конечным неотрицательным числом, превращается в 0
func CoerceContribution(value float64) float64 {
	value = utils.FiniteOr(value, 0)
	if value < 0 {
		return 0
	}
	return value
}

// CoercePeriodsPerYear возвращает 12 для ежемесячной капитализации и 1 во всех остальных случаях
func CoercePeriodsPerYear(value int) int {
	if value == PeriodsMonthly {
		return PeriodsMonthly
	}
	return PeriodsAnnual
}

// ParsePeriodsPerYear разбирает значение селектора капитализации
func ParsePeriodsPerYear(raw string) int {
	value := ParseNumber(raw)
	if !utils.IsFinite(value) || value != math.Trunc(value) {
		return PeriodsAnnual
	}
	return CoercePeriodsPerYear(int(value))
}
