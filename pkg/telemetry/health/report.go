package health

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

var statusMarks = map[Status]string{
	StatusOK:   "✓",
	StatusWarn: "!",
	StatusFail: "✗",
}

// WriteText writes one line per check followed by the overall status.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range r.Checks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", statusMarks[c.Status], c.Name, c.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nOverall: %s\n", r.Status)
	return err
}

// CSVHeader returns the column names for CSVRows.
func (r *Report) CSVHeader() []string {
	return []string{"name", "status", "message", "duration_ms"}
}

// CSVRows returns one row per check.
func (r *Report) CSVRows() [][]string {
	rows := make([][]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		rows = append(rows, []string{
			c.Name,
			string(c.Status),
			c.Message,
			strconv.FormatFloat(c.DurationMS, 'f', 1, 64),
		})
	}
	return rows
}
