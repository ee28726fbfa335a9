package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-gantt/internal/util"
)

type TableFormatter struct {
	w       io.Writer
	headers []string
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		w:       w,
		headers: []string{"#", "Label", "Group", "Color", "Start", "End", "Days"},
	}
}

// FormatRows prints rows in a bordered table. Header rows span the label
// column in bold and leave the date columns empty.
func (f *TableFormatter) FormatRows(rows []RowView) error {
	values := make([][]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, f.rowValues(r))
	}

	widths := f.calculateColumnWidths(values)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths, false)
	f.printBorder(widths, "middle")

	for i, r := range rows {
		f.printRow(values[i], widths, r.Kind == RowKindHeader)
	}

	f.printBorder(widths, "bottom")
	fmt.Fprintf(f.w, "%d rows, %d data rows\n", len(rows), countData(rows))
	return nil
}

func (f *TableFormatter) rowValues(r RowView) []string {
	if r.Kind == RowKindHeader {
		return []string{fmt.Sprintf("%d", r.Index), "[" + r.Label + "]", r.Group, string(r.Color), "", "", ""}
	}
	return []string{
		fmt.Sprintf("%d", r.Index),
		r.Label,
		r.Group,
		string(r.Color),
		r.Start,
		r.End,
		fmt.Sprintf("%d", r.Days),
	}
}

// calculateColumnWidths determines the display width of each column
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(f.w, b.String())
}

// printRow prints a row; the first and last columns are right-aligned
func (f *TableFormatter) printRow(values []string, widths []int, emphasis bool) {
	var b strings.Builder
	b.WriteString("│")
	last := len(values) - 1
	for i, value := range values {
		cell := util.PadToWidth(value, widths[i], i != 0 && i != last)
		if emphasis && i == 1 {
			cell = util.ColorBold + cell + util.ColorReset
		}
		b.WriteString(" " + cell + " │")
	}
	fmt.Fprintln(f.w, b.String())
}

func countData(rows []RowView) int {
	n := 0
	for _, r := range rows {
		if r.Kind == RowKindData {
			n++
		}
	}
	return n
}
