package calculations

import "math"

// FutureValueOfSeries рассчитывает будущую стоимость серии равных взносов в конце периода
// с дискретной капитализацией:
//
//	FV = p * ((1 + r)^n - 1) / r
//
// где p = annualContribution / m, r = annualRate / m, n = round(years * m),
// m = periodsPerYear. Дробное число периодов округляется до целого.
func FutureValueOfSeries(annualContribution, annualRate, years float64, periodsPerYear int) float64 {
	if years <= 0 || annualContribution == 0 {
		return 0
	}
	if periodsPerYear < 1 {
		periodsPerYear = 1
	}

	m := float64(periodsPerYear)
	p := annualContribution / m
	n := math.Round(years * m)
	r := annualRate / m

	if r == 0 {
		return p * n
	}
	return p * (math.Pow(1+r, n) - 1) / r
}
