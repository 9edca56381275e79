package nodelens

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

const nullText = "NULL"

// RenderTable writes t as whitespace-aligned text: a header line, then one line per row
// led by its position in the result.
func RenderTable(w io.Writer, t *Table) error {
	if t == nil || len(t.Rows) == 0 {
		cols := []string{}
		if t != nil {
			cols = t.Columns
		}
		_, err := fmt.Fprintf(w, "Empty table\nColumns: [%s]\n", strings.Join(cols, ", "))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, "")
	header = append(header, t.Columns...)
	if _, err := io.WriteString(tw, strings.Join(header, "\t")+"\n"); err != nil {
		return err
	}
	cells := make([]string, len(t.Columns)+1)
	for i, r := range t.Rows {
		cells[0] = strconv.Itoa(i)
		for j, c := range t.Columns {
			cells[j+1] = FormatValue(r[c])
		}
		if _, err := io.WriteString(tw, strings.Join(cells, "\t")+"\n"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// FormatValue renders a single cell on one line.
func FormatValue(v any) string {
	var s string
	switch x := normalizeValue(v).(type) {
	case nil:
		return nullText
	case string:
		s = x
	case time.Time:
		s = x.Format("2006-01-02 15:04:05.999999")
	default:
		s = fmt.Sprint(x)
	}
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
}
