package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/togglreport/internal/report"
)

// ToCSV writes the visible columns, one row per record and the summary row.
func ToCSV(res *report.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, res); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV is ToCSV over an arbitrary writer.
func WriteCSV(out io.Writer, res *report.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(res.Headers()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range res.Rows() {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	if err := w.Write(res.SummaryRow()); err != nil {
		return fmt.Errorf("write csv summary: %w", err)
	}

	w.Flush()
	return w.Error()
}
