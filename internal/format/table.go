package format

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Row is one table row. Marked rows are highlighted.
type Row struct {
	Cells  []string
	Marked bool
}

// Tabular is implemented by values that have a table rendering.
type Tabular interface {
	TableHeader() []string
	TableRows() []Row
}

var (
	headerColor = color.New(color.Bold)
	markColor   = color.New(color.FgGreen, color.Bold)
)

func WriteTable(w io.Writer, t Tabular) error {
	tbl := uitable.New()
	tbl.MaxColWidth = 80
	tbl.Separator = "  "

	tbl.AddRow(cells(t.TableHeader(), headerColor)...)
	for _, r := range t.TableRows() {
		if r.Marked {
			tbl.AddRow(cells(r.Cells, markColor)...)
			continue
		}
		tbl.AddRow(cells(r.Cells, nil)...)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

func cells(ss []string, c *color.Color) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		if c != nil {
			s = c.Sprint(s)
		}
		out[i] = s
	}
	return out
}
