package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *WideTable {
	return &WideTable{
		Periods: []string{"2021/12", "2022/12", "2023/12"},
		Rows: []MetricRow{
			{Label: "매출액", Cells: []Cell{Number(100), Number(150), Missing()}},
			{Label: "영업이익", Cells: []Cell{Missing(), Number(30), Number(45)}},
		},
	}
}

func TestMeltOrder(t *testing.T) {
	records := sampleTable().Melt()
	require.Len(t, records, 6)

	// Row-major: every period of the first row before the second row.
	assert.Equal(t, "매출액", records[0].Category)
	assert.Equal(t, "2021/12", records[0].Period)
	assert.Equal(t, "매출액", records[2].Category)
	assert.Equal(t, "영업이익", records[3].Category)
	assert.Equal(t, "2021/12", records[3].Period)

	assert.True(t, records[2].Value.IsMissing(), "missing cells melt as missing")
	assert.True(t, records[3].Value.IsMissing())
}

func TestMeltPivotRoundTrip(t *testing.T) {
	table := sampleTable()
	rebuilt := Pivot(table.Melt())

	assert.Equal(t, table.Periods, rebuilt.Periods)
	require.Len(t, rebuilt.Rows, len(table.Rows))
	for i, row := range table.Rows {
		assert.Equal(t, row.Label, rebuilt.Rows[i].Label)
		assert.Equal(t, row.Cells, rebuilt.Rows[i].Cells)
	}
}

func TestMeltPadsShortRows(t *testing.T) {
	table := &WideTable{
		Periods: []string{"2022", "2023"},
		Rows:    []MetricRow{{Label: "지표", Cells: []Cell{Number(1)}}},
	}
	records := table.Melt()
	require.Len(t, records, 2)
	assert.Equal(t, 1.0, records[0].Value.Value)
	assert.True(t, records[1].Value.IsMissing())
}

func TestPivotKeepsFirstSeenOrder(t *testing.T) {
	records := []LongRecord{
		{Category: "b", Period: "2023", Value: Number(1)},
		{Category: "a", Period: "2022", Value: Number(2)},
		{Category: "b", Period: "2022", Value: Number(3)},
	}
	table := Pivot(records)

	assert.Equal(t, []string{"2023", "2022"}, table.Periods)
	assert.Equal(t, []string{"b", "a"}, table.Categories())
	assert.Equal(t, 3.0, table.Rows[0].Cells[1].Value)
	assert.True(t, table.Rows[1].Cells[0].IsMissing(), "absent pairs stay missing")
}

func TestReportGridAndMelt(t *testing.T) {
	report := &Report{
		Periods: []string{"2022/12", "2023/12"},
		Unit:    "억원",
		Rows: []ReportRow{
			{Name: "매출액", Cells: []Cell{Number(1), Number(2)}, YoY: Number(100)},
			{Name: "영업이익", Cells: []Cell{Number(3), Missing()}, YoY: Missing()},
		},
	}

	grid := report.Grid()
	assert.Equal(t, report.Periods, grid.Periods)
	assert.Equal(t, []string{"매출액", "영업이익"}, grid.Categories())

	records := report.Melt()
	require.Len(t, records, 4, "unit and YoY do not melt")
	assert.Equal(t, 1.0, records[0].Value.Value)
	assert.True(t, records[3].Value.IsMissing())
}
