package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX_Basic(t *testing.T) {
	path := createTestXLSX(t, "Sheet1", [][]string{
		{"Email", "Name"},
		{"a@acme.com", "Alice"},
	})

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Email", "Name"}, rows[0])
	assert.Equal(t, []string{"a@acme.com", "Alice"}, rows[1])
}

func TestReadXLSX_SkipRows(t *testing.T) {
	path := createTestXLSX(t, "Sheet1", [][]string{{"h"}, {"a"}, {"b"}})

	rows, err := ReadXLSX(path, XLSXOptions{SkipRows: 1})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}}, rows)
}

func TestReadXLSX_SheetByName(t *testing.T) {
	path := createTestXLSX(t, "Customers", [][]string{{"x"}})

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "Customers"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x"}}, rows)

	_, err = ReadXLSX(path, XLSXOptions{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadXLSX_SheetIndexOutOfRange(t *testing.T) {
	path := createTestXLSX(t, "Sheet1", [][]string{{"x"}})

	_, err := ReadXLSX(path, XLSXOptions{SheetIndex: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	require.Error(t, err)
}

func TestReadXLSX_SheetNameCaseInsensitive(t *testing.T) {
	path := createTestXLSX(t, "Roster", [][]string{{"slug"}})

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "roster"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"slug"}}, rows)
}

func TestReadXLSX_DropsBlankRowsAndTrailingCells(t *testing.T) {
	path := createTestXLSX(t, "Sheet1", [][]string{
		{"email", "city", "", ""},
		{"", "", ""},
		{" a@acme.com ", "Austin", ""},
	})

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"email", "city"}, {"a@acme.com", "Austin"}}, rows)
}
