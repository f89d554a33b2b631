package backend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

var ErrNoHeadings = errors.New("csv has no heading row")

// LoadCSV reads a heading row followed by records. Each cell becomes the
// value of its column's heading. Blank cells are null, numeric cells are
// numbers, and anything else is kept as a string.
func LoadCSV(r io.Reader) (*chart.Dataset, error) {
	return readTable(r, zerolog.Nop())
}

// loadSettled is LoadCSV for files that may still be written to. A trailing
// line without a newline is ignored until its writer finishes it.
func loadSettled(r io.Reader, log zerolog.Logger) (*chart.Dataset, error) {
	lr := NewLineReader(r)
	ds, err := readTable(lr, log)
	if err != nil {
		return nil, err
	}
	if n := lr.Pending(); n > 0 {
		log.Debug().Int("bytes", n).Msg("skipping unterminated line")
	}
	return ds, nil
}

func readTable(r io.Reader, log zerolog.Logger) (*chart.Dataset, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	headings, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeadings
		}
		return nil, fmt.Errorf("failed reading CSV headings: %w", err)
	}
	fields := make([]string, 0, len(headings))
	for i := range headings {
		headings[i] = strings.TrimSpace(headings[i])
		if headings[i] != "" {
			fields = append(fields, headings[i])
		}
	}
	var records []chart.Record
	for {
		rec, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed reading CSV record %d: %w", len(records)+1, err)
		}
		if len(rec) != len(headings) {
			log.Warn().Int("record", len(records)+1).Int("fields", len(rec)).Int("headings", len(headings)).Msg("ragged record")
		}
		record := make(chart.Record, len(headings))
		for i, heading := range headings {
			if heading == "" || i >= len(rec) {
				continue
			}
			record[heading] = chart.ParseValue(rec[i])
		}
		records = append(records, record)
	}
	return chart.NewTable(fields, records), nil
}
