package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/cloud-ru/pension-calculator-go/internal/calculations"
	"github.com/cloud-ru/pension-calculator-go/internal/validators"
)

//go:embed templates/page.html.tmpl
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/page.html.tmpl"))

// CompoundingOption описывает пункт селектора капитализации
type CompoundingOption struct {
	Value    int
	Label    string
	Selected bool
}

// Page содержит все, что нужно для отрисовки страницы калькулятора.
// Пустые Table и Message означают пустую область результата.
type Page struct {
	Form        calculations.FormInput
	Table       *Table
	Message     string
	Compounding []CompoundingOption
}

// NewPage собирает страницу для состояния формы
func NewPage(form calculations.FormInput) Page {
	selected := validators.ParsePeriodsPerYear(form.Compounding)
	options := []CompoundingOption{
		{Value: validators.PeriodsAnnual, Label: "Annual"},
		{Value: validators.PeriodsMonthly, Label: "Monthly"},
	}
	for i := range options {
		options[i].Selected = options[i].Value == selected
	}
	return Page{Form: form, Compounding: options}
}

// WithResult заполняет область результата таблицей или сообщением об ошибке
func (p Page) WithResult(f *Formatter, projection *calculations.Projection, err error) Page {
	if err != nil {
		p.Message = ErrorMessage(err)
		p.Table = nil
		return p
	}
	if projection != nil {
		table := f.Table(projection)
		p.Table = &table
		p.Message = ""
	}
	return p
}

// WriteHTML отрисовывает страницу калькулятора
func WriteHTML(w io.Writer, page Page) error {
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
