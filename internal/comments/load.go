package comments

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a comment table from r, choosing the decoder by the extension
// of filename (.csv or .xlsx). The first row is the header. Structural
// failures return ErrLoadFailed; other extensions return ErrUnsupportedFormat.
func Load(r io.Reader, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return loadCSV(r)
	case ".xlsx":
		return loadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

func loadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrLoadFailed)
	}

	return buildTable(records[0], records[1:])
}

func loadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrLoadFailed)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrLoadFailed, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrLoadFailed)
	}

	return buildTable(rows[0], rows[1:])
}

// buildTable pads short records to the header width. Records wider than the
// header are rejected since their extra cells have no column.
func buildTable(header []string, records [][]string) (*Table, error) {
	width := len(header)
	if width == 0 {
		return nil, fmt.Errorf("%w: empty header row", ErrLoadFailed)
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		if len(rec) > width {
			return nil, fmt.Errorf(
				"%w: row %d has %d fields, header has %d",
				ErrLoadFailed, i+2, len(rec), width,
			)
		}

		row := make([]string, width, width+1)
		copy(row, rec)
		rows[i] = row
	}

	return &Table{
		Columns: header,
		Rows:    rows,
	}, nil
}
