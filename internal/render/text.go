package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText выводит таблицу в виде выровненного текста для терминала
func WriteText(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	lines := make([][]string, 0, len(t.Rows)+2)
	lines = append(lines, t.Header)
	lines = append(lines, t.Rows...)
	lines = append(lines, t.Footer)

	for _, cells := range lines {
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t"); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	if _, err := fmt.Fprintln(w, t.Summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// WriteMessage выводит сообщение об ошибке ввода вместо таблицы
func WriteMessage(w io.Writer, err error) error {
	_, werr := fmt.Fprintln(w, ErrorMessage(err))
	return werr
}
