package report

import (
	"strings"
	"testing"

	"github.com/de-tools/status-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	period := domain.Period{Start: "2024-01-01", End: "2024-01-31"}

	t.Run("sub-hour rows display and sum as one hour", func(t *testing.T) {
		rep := Build([]domain.PeriodGroup{{
			Period: period,
			Assignees: []domain.AssigneeRows{{
				DisplayName: "Alice",
				Rows: []domain.ReportRow{
					{TaskKey: "AB-1", TaskName: "Short", Hours: 0.4},
					{TaskKey: "AB-2", TaskName: "Long", Hours: 1.4},
				},
			}},
		}})

		require.Len(t, rep.Sheets, 1)
		require.Len(t, rep.Sheets[0].Blocks, 1)
		block := rep.Sheets[0].Blocks[0]

		assert.InDelta(t, 1, block.Rows[0].Hours, 1e-9)
		assert.InDelta(t, 1.4, block.Rows[1].Hours, 1e-9)
		// Totals use the displayed hours: (1 + 1.4) / 8 = 0.3.
		assert.InDelta(t, 0.3, block.TotalDays, 1e-9)
		assert.Equal(t, 2, block.TasksCount)
	})

	t.Run("rows sort by task key", func(t *testing.T) {
		rep := Build([]domain.PeriodGroup{{
			Period: period,
			Assignees: []domain.AssigneeRows{{
				DisplayName: "Alice",
				Rows: []domain.ReportRow{
					{TaskKey: "AB-9", Hours: 2},
					{TaskKey: "AB-10", Hours: 2},
					{TaskKey: "AB-1", Hours: 2},
				},
			}},
		}})

		keys := make([]string, 0, 3)
		for _, r := range rep.Sheets[0].Blocks[0].Rows {
			keys = append(keys, r.TaskKey)
		}
		// Lexicographic, matching the source system's ordering.
		assert.Equal(t, []string{"AB-1", "AB-10", "AB-9"}, keys)
	})

	t.Run("assignees with only zero rows are dropped", func(t *testing.T) {
		rep := Build([]domain.PeriodGroup{{
			Period: period,
			Assignees: []domain.AssigneeRows{
				{DisplayName: "Alice", Rows: []domain.ReportRow{{TaskKey: "AB-1", Hours: 0}}},
				{DisplayName: "Bob", Rows: []domain.ReportRow{{TaskKey: "AB-2", Hours: 2}}},
			},
		}})

		require.Len(t, rep.Sheets[0].Blocks, 1)
		assert.Equal(t, "Bob", rep.Sheets[0].Blocks[0].DisplayName)
	})

	t.Run("sheet carries the header columns", func(t *testing.T) {
		rep := Build([]domain.PeriodGroup{{Period: period}})
		require.Len(t, rep.Sheets, 1)
		assert.Equal(t, "2024-01-01_2024-01-31", rep.Sheets[0].Name)
		assert.Equal(t, Columns, rep.Sheets[0].Columns)
		assert.Empty(t, rep.Sheets[0].Blocks)
	})

	t.Run("sheet names truncate to the spreadsheet limit", func(t *testing.T) {
		long := domain.Period{Start: "2024-01-01", End: strings.Repeat("9", 40)}
		rep := Build([]domain.PeriodGroup{{Period: long}})
		assert.Len(t, rep.Sheets[0].Name, 31)
	})

	t.Run("full day totals", func(t *testing.T) {
		rep := Build([]domain.PeriodGroup{{
			Period: period,
			Assignees: []domain.AssigneeRows{{
				DisplayName: "Alice",
				Rows: []domain.ReportRow{
					{TaskKey: "AB-1", Hours: 9},
					{TaskKey: "AB-2", Hours: 7},
				},
			}},
		}})

		assert.InDelta(t, 2.0, rep.Sheets[0].Blocks[0].TotalDays, 1e-9)
	})
}
