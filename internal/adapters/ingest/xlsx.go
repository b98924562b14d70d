package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/palate/palate/internal/domain/model"
)

// scoreSheetNames are the sheet names score data is expected under, in
// preference order. Workbooks without any of them fall back to the
// first sheet.
var scoreSheetNames = []string{
	"1st Entry",
	"2nd entry & Check",
	"Score Table",
	"Score",
	"Scores",
	"Score Data",
}

// headerSearchRows bounds how deep into a sheet the header row is
// searched for; field workbooks carry a few banner rows above it.
const headerSearchRows = 10

func parseXLSX(r io.Reader) (map[string][]model.ScoreRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeader
	}

	sheet := sheets[0]
	for _, name := range scoreSheetNames {
		if sheetExists(sheets, name) {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	headerIdx := -1
	var cols columns
	limit := len(rows)
	if limit > headerSearchRows {
		limit = headerSearchRows
	}
	for i := 0; i < limit; i++ {
		if c, ok := resolveColumns(rows[i]); ok {
			headerIdx, cols = i, c
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrMissingHeader
	}

	groups := make(map[string][]model.ScoreRecord)
	for _, row := range rows[headerIdx+1:] {
		if rec, ok := recordFromRow(cols, row); ok {
			groups[rec.SampleRef] = append(groups[rec.SampleRef], rec)
		}
	}
	return groups, nil
}

func sheetExists(sheets []string, name string) bool {
	for _, s := range sheets {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
