package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonExport struct {
	ExportedAt string            `json:"exported_at"`
	Client     string            `json:"client"`
	Project    string            `json:"project"`
	Month      string            `json:"month"`
	Count      int               `json:"count"`
	Columns    []jsonColumn      `json:"columns"`
	Rows       []json.RawMessage `json:"rows"`
	Summary    jsonSummary       `json:"summary"`
}

type jsonColumn struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

type jsonSummary struct {
	TotalHours    string `json:"total_hours"`
	BillableHours string `json:"billable_hours"`
	TotalEntries  int    `json:"total_entries"`
	AllBillable   bool   `json:"all_billable"`
}

// ToJSON writes the document as JSON. Each row is an object keyed by the
// visible column fields in display order.
func ToJSON(doc Document, path string) error {
	data, err := MarshalJSON(doc, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// MarshalJSON renders doc with the given export timestamp.
func MarshalJSON(doc Document, now time.Time) ([]byte, error) {
	res := doc.Result
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Client:     doc.Client,
		Project:    doc.Project,
		Month:      doc.Month.Format("2006-01"),
		Count:      len(res.Records),
		Columns:    make([]jsonColumn, 0, len(res.Columns)),
		Rows:       make([]json.RawMessage, 0, len(res.Records)),
		Summary: jsonSummary{
			TotalHours:    res.Summary.TotalHours,
			BillableHours: res.Summary.BillableDisplay(),
			TotalEntries:  res.Summary.TotalEntries,
			AllBillable:   res.Summary.AllBillable,
		},
	}

	fields := make([]string, 0, len(res.Columns))
	for _, c := range res.Columns {
		export.Columns = append(export.Columns, jsonColumn{Field: c.Field, Header: c.Header})
		fields = append(fields, c.Field)
	}
	for _, row := range res.Rows() {
		obj, err := orderedObject(fields, row)
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		export.Rows = append(export.Rows, obj)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return data, nil
}

// orderedObject encodes keys and values as a JSON object, keeping key order.
func orderedObject(keys, values []string) (json.RawMessage, error) {
	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}
