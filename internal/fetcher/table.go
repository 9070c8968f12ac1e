package fetcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a header plus data rows read from a CSV or XLSX file.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable builds a Table from a header and rows. Column lookup is
// case-insensitive and ignores surrounding whitespace.
func NewTable(header []string, rows [][]string) *Table {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return &Table{Header: header, Rows: rows, index: idx}
}

// Col returns the index of the named column, or -1.
func (t *Table) Col(name string) int {
	if i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]; ok {
		return i
	}
	return -1
}

// Has reports whether every named column exists.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if t.Col(n) < 0 {
			return false
		}
	}
	return true
}

// Get returns the trimmed value of the named column in row, or "".
func (t *Table) Get(row []string, name string) string {
	i := t.Col(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadTable reads a .csv or .xlsx file whose first row is the header.
func ReadTable(ctx context.Context, path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err := ReadXLSX(path, XLSXOptions{})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, eris.Errorf("table: %s is empty", path)
		}
		return NewTable(rows[0], rows[1:]), nil
	case ".csv", "":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "table: open")
		}
		defer f.Close() //nolint:errcheck
		return ReadCSVTable(ctx, f)
	default:
		return nil, eris.Errorf("table: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSVTable collects a CSV stream into a Table.
func ReadCSVTable(ctx context.Context, r io.Reader) (*Table, error) {
	headerCh := make(chan []string, 1)
	rowCh, errCh := StreamCSV(ctx, r, CSVOptions{HasHeader: true, HeaderCh: headerCh, LazyQuotes: true, SkipBlank: true})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrap(err, "table: read csv")
	}

	select {
	case header := <-headerCh:
		return NewTable(header, rows), nil
	default:
		return nil, eris.New("table: csv has no header row")
	}
}
