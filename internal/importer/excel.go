package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by its lowercased header cell.
type Row map[string]string

// ParseWorkbook reads the first sheet of an xlsx workbook into rows. The
// first row supplies the headers; header matching downstream is
// case-insensitive, so keys are lowercased here.
func ParseWorkbook(r io.Reader) ([]Row, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	cells, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	headers := make([]string, len(cells[0]))
	for i, header := range cells[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := Row{}
		empty := true
		for i, value := range line {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			row[headers[i]] = value
			empty = false
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
