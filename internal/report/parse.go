package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedCSV wraps any reader failure while decoding a report.
var ErrMalformedCSV = errors.New("failed to process data")

// ParseResult is the decoded CSV payload.
type ParseResult struct {
	Header  []string
	Records []Record
	// Dropped counts data rows skipped because their width did not match the header.
	Dropped int
}

// ParseString is Parse over an in-memory payload.
func ParseString(raw string) (ParseResult, error) {
	return Parse(strings.NewReader(raw))
}

// Parse decodes a header row followed by comma-separated records. Rows with a
// different field count than the header are skipped and counted, not reported.
func Parse(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var res ParseResult
	header, err := cr.Read()
	if err == io.EOF {
		return res, nil
	}
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: read header: %v", ErrMalformedCSV, err)
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}
	res.Header = header

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ParseResult{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if len(row) != len(header) {
			res.Dropped++
			continue
		}
		rec := make(Record, len(header))
		for i, name := range header {
			rec[name] = strings.TrimSpace(row[i])
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}
