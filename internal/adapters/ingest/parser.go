// Package ingest decodes uploaded score files into score records
// grouped by sample reference.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/palate/palate/internal/domain/model"
)

// Defaults applied when a file omits the metadata columns.
const (
	defaultCountry     = "AUS"
	defaultPickBatchID = "unknown"
)

// Parse decodes the file contents into records grouped by sample
// reference, preserving arrival order within each group. The format is
// chosen from the filename extension; anything but csv, xlsx/xls or
// json returns ErrUnsupportedFormat.
//
// Numeric coercion happens here so the core only ever sees
// numeric-or-null trait values: blank or non-numeric cells become nil.
func Parse(r io.Reader, filename string) (map[string][]model.ScoreRecord, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return parseCSV(r)
	case ".xlsx", ".xls":
		return parseXLSX(r)
	case ".json":
		return parseJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// columns maps logical fields to header indices; -1 means absent.
type columns struct {
	sampleRef int
	consumer  int
	serving   int
	tender    int
	juicy     int
	flavor    int
	overall   int
	pick      int
	country   int
	session   int
}

// resolveColumns locates fields by substring match against the header,
// tolerating the alias spellings seen in field spreadsheets. A header
// without a sample reference column is unusable.
func resolveColumns(header []string) (columns, bool) {
	find := func(needles ...string) int {
		for i, h := range header {
			low := strings.ToLower(strings.TrimSpace(h))
			if low == "" {
				continue
			}
			for _, needle := range needles {
				if strings.Contains(low, needle) {
					return i
				}
			}
		}
		return -1
	}

	cols := columns{
		sampleRef: find("eqs ref", "eqs_ref", "sample ref", "sample_ref"),
		consumer:  find("consumer no", "consumer_no", "consumer id", "consumerid", "id no"),
		serving:   find("serving order", "serving_order"),
		tender:    find("tender"),
		juicy:     find("juic"),
		flavor:    find("like flav", "like_flav", "flavor", "flavour"),
		overall:   find("overall"),
		pick:      find("pick no", "pick_no", "pick batch"),
		country:   find("test country", "test_country", "country"),
		session:   find("session"),
	}
	return cols, cols.sampleRef >= 0
}

// recordFromRow assembles one record from a tabular row. Rows without a
// sample reference, or repeating the header marker, are dropped.
func recordFromRow(cols columns, row []string) (model.ScoreRecord, bool) {
	ref := cell(row, cols.sampleRef)
	if ref == "" || strings.Contains(strings.ToUpper(ref), "EQS REF") {
		return model.ScoreRecord{}, false
	}

	return model.ScoreRecord{
		SampleRef:    ref,
		ConsumerID:   parseOptionalInt(cell(row, cols.consumer)),
		ServingOrder: parseOptionalInt(cell(row, cols.serving)),
		PickBatchID:  orDefault(cell(row, cols.pick), defaultPickBatchID),
		Country:      orDefault(cell(row, cols.country), defaultCountry),
		Session:      cell(row, cols.session),
		Tenderness:   parseOptionalFloat(cell(row, cols.tender)),
		Juiciness:    parseOptionalFloat(cell(row, cols.juicy)),
		Flavor:       parseOptionalFloat(cell(row, cols.flavor)),
		Overall:      parseOptionalFloat(cell(row, cols.overall)),
	}, true
}

func parseCSV(r io.Reader) (map[string][]model.ScoreRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, ok := resolveColumns(header)
	if !ok {
		return nil, ErrMissingHeader
	}

	groups := make(map[string][]model.ScoreRecord)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if rec, ok := recordFromRow(cols, row); ok {
			groups[rec.SampleRef] = append(groups[rec.SampleRef], rec)
		}
	}
	return groups, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalInt(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
