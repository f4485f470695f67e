package excel

import (
	"path/filepath"
	"testing"

	"github.com/de-tools/status-atlas/pkg/models/domain"
	"github.com/de-tools/status-atlas/pkg/services/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() domain.Report {
	return domain.Report{Sheets: []domain.Sheet{
		{
			Name:    "2024-01-01_2024-01-31",
			Columns: report.Columns,
			Blocks: []domain.AssigneeBlock{
				{
					DisplayName: "Alice",
					Rows: []domain.ReportRow{
						{TaskKey: "AB-1", TaskName: "First", Hours: 3},
						{TaskKey: "AB-2", TaskName: "Second", Hours: 1},
						{TaskKey: "AB-3", TaskName: "Third", Hours: 2.5},
					},
					TotalDays:  0.8,
					TasksCount: 3,
				},
				{
					DisplayName: "Bob",
					Rows: []domain.ReportRow{
						{TaskKey: "AB-4", TaskName: "Solo", Hours: 4},
					},
					TotalDays:  0.5,
					TasksCount: 1,
				},
			},
		},
		{
			Name:    "2024-02-01_2024-02-29",
			Columns: report.Columns,
		},
	}}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Write(sampleReport(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := "2024-01-01_2024-01-31"
	assert.Equal(t, []string{sheet, "2024-02-01_2024-02-29"}, f.GetSheetList())

	t.Run("header row", func(t *testing.T) {
		for col, want := range report.Columns {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			require.NoError(t, err)
			got, err := f.GetCellValue(sheet, cell)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("task rows", func(t *testing.T) {
		got, err := f.GetCellValue(sheet, "B2")
		require.NoError(t, err)
		assert.Equal(t, "AB-1", got)

		got, err = f.GetCellValue(sheet, "D4")
		require.NoError(t, err)
		assert.Equal(t, "2.5", got)

		got, err = f.GetCellValue(sheet, "B5")
		require.NoError(t, err)
		assert.Equal(t, "AB-4", got)
	})

	t.Run("multi-row assignee merges name, days and count", func(t *testing.T) {
		merges, err := f.GetMergeCells(sheet)
		require.NoError(t, err)

		var ranges []string
		for _, m := range merges {
			ranges = append(ranges, m.GetStartAxis()+":"+m.GetEndAxis())
		}
		assert.ElementsMatch(t, []string{"A2:A4", "E2:E4", "F2:F4"}, ranges)

		got, err := f.GetCellValue(sheet, "A2")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got)
	})

	t.Run("single-row assignee writes plain cells", func(t *testing.T) {
		got, err := f.GetCellValue(sheet, "A5")
		require.NoError(t, err)
		assert.Equal(t, "Bob", got)

		got, err = f.GetCellValue(sheet, "F5")
		require.NoError(t, err)
		assert.Equal(t, "1", got)
	})

	t.Run("empty period sheet still carries the header", func(t *testing.T) {
		got, err := f.GetCellValue("2024-02-01_2024-02-29", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Display Name", got)
	})
}

func TestWrite_EmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, Write(domain.Report{}, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
