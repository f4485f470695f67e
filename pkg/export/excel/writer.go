// Package excel renders the report into an xlsx workbook, one sheet per
// period.
package excel

import (
	"fmt"

	"github.com/de-tools/status-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

// Write saves the report to path. Each sheet gets the header row, one row
// per task, and for assignees with more than one task the name, days and
// task-count cells merge across the assignee's rows.
func Write(rep domain.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range rep.Sheets {
		if err := writeSheet(f, sheet, i == 0); err != nil {
			return fmt.Errorf("failed to render sheet %s: %w", sheet.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet domain.Sheet, first bool) error {
	if first {
		// Rename the workbook's default sheet instead of leaving it empty.
		if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(sheet.Name); err != nil {
		return err
	}

	for col, header := range sheet.Columns {
		if err := setCell(f, sheet.Name, col+1, 1, header); err != nil {
			return err
		}
	}

	row := 2
	for _, block := range sheet.Blocks {
		top := row
		bottom := row + len(block.Rows) - 1

		if len(block.Rows) > 1 {
			if err := mergeCell(f, sheet.Name, 1, top, bottom, block.DisplayName); err != nil {
				return err
			}
			if err := mergeCell(f, sheet.Name, 5, top, bottom, block.TotalDays); err != nil {
				return err
			}
			if err := mergeCell(f, sheet.Name, 6, top, bottom, block.TasksCount); err != nil {
				return err
			}
		} else {
			if err := setCell(f, sheet.Name, 1, top, block.DisplayName); err != nil {
				return err
			}
			if err := setCell(f, sheet.Name, 5, top, block.TotalDays); err != nil {
				return err
			}
			if err := setCell(f, sheet.Name, 6, top, block.TasksCount); err != nil {
				return err
			}
		}

		for _, r := range block.Rows {
			if err := setCell(f, sheet.Name, 2, row, r.TaskKey); err != nil {
				return err
			}
			if err := setCell(f, sheet.Name, 3, row, r.TaskName); err != nil {
				return err
			}
			if err := setCell(f, sheet.Name, 4, row, r.Hours); err != nil {
				return err
			}
			row++
		}
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func mergeCell(f *excelize.File, sheet string, col, top, bottom int, value any) error {
	topCell, err := excelize.CoordinatesToCellName(col, top)
	if err != nil {
		return err
	}
	bottomCell, err := excelize.CoordinatesToCellName(col, bottom)
	if err != nil {
		return err
	}
	if err := f.MergeCell(sheet, topCell, bottomCell); err != nil {
		return err
	}
	return f.SetCellValue(sheet, topCell, value)
}
