package render

import (
	"github.com/cloud-ru/pension-calculator-go/internal/calculations"
)

const (
	rateHeader     = "Rate (annual)"
	totalHeader    = "Total"
	aggregateLabel = "Sum of projections (all rates)"
)

// Table представляет таблицу прогноза в виде готового текста
type Table struct {
	Header  []string   `json:"header"`
	Rows    [][]string `json:"rows"`
	Footer  []string   `json:"footer"`
	Summary string     `json:"summary"`
}

// Table материализует прогноз: заголовок, строка на каждую ставку, итоговая строка и резюме
func (f *Formatter) Table(p *calculations.Projection) Table {
	header := make([]string, 0, len(calculations.Accounts)+2)
	header = append(header, rateHeader)
	for _, account := range calculations.Accounts {
		header = append(header, account.Label())
	}
	header = append(header, totalHeader)

	rows := make([][]string, 0, len(p.Rows))
	for _, row := range p.Rows {
		rows = append(rows, f.row(RowLabel(row.Rate, p.Years), row))
	}

	return Table{
		Header:  header,
		Rows:    rows,
		Footer:  f.row(aggregateLabel, p.GrandTotals),
		Summary: Summary(p),
	}
}

func (f *Formatter) row(label string, row calculations.ScenarioRow) []string {
	cells := make([]string, 0, len(calculations.Accounts)+2)
	cells = append(cells, label)
	for _, account := range calculations.Accounts {
		cells = append(cells, f.Currency(row.Value(account)))
	}
	return append(cells, f.Currency(row.Total))
}
