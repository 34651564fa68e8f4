package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tabula/internal/models"
)

func decodePayload(t *testing.T, raw string) *models.ReportPayload {
	t.Helper()
	var payload models.ReportPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return &payload
}

func TestReport(t *testing.T) {
	payload := decodePayload(t, `{
		"DATA": [
			{"ACC_NM": "매출액", "DATA1": "1,000", "DATA2": "150", "DATA10": "200", "P_ACC": "ignored"},
			{"ACC_NM": "영업이익", "DATA1": 120, "DATA2": 150},
			{"ACC_NM": "순이익", "DATA1": "10", "DATA2": "0", "DATA10": "10"}
		],
		"YYMM": ["2021/12<br />(IFRS연결)", "2022/12<br/>(IFRS연결)"],
		"UNIT": "억원, %"
	}`)

	report, err := Report(payload)
	require.NoError(t, err)

	// Value keys sort by numeric suffix, so DATA10 follows DATA2; the
	// missing third label is synthesized.
	assert.Equal(t, []string{"2021/12 (IFRS연결)", "2022/12 (IFRS연결)", "DATA3"}, report.Periods)
	assert.Equal(t, "억원, %", report.Unit)
	require.Len(t, report.Rows, 3)

	sales := report.Rows[0]
	assert.Equal(t, "매출액", sales.Name)
	assert.Equal(t, 1000.0, sales.Cells[0].Value, "comma-separated strings coerce")
	assert.Equal(t, 150.0, sales.Cells[1].Value)
	assert.Equal(t, 200.0, sales.Cells[2].Value)
	require.True(t, sales.YoY.Valid)
	assert.Equal(t, 33.3, sales.YoY.Value, "rounded to one decimal")

	profit := report.Rows[1]
	assert.Equal(t, 120.0, profit.Cells[0].Value, "JSON numbers coerce directly")
	assert.Equal(t, 150.0, profit.Cells[1].Value)
	assert.True(t, profit.Cells[2].IsMissing(), "absent value key stays missing")
	assert.True(t, profit.YoY.IsMissing(), "missing latest period masks YoY")

	net := report.Rows[2]
	assert.True(t, net.YoY.IsMissing(), "zero previous period masks YoY, never divides")
}

func TestReportYoY(t *testing.T) {
	tests := []struct {
		name    string
		cells   []models.Cell
		want    float64
		missing bool
	}{
		{"growth", []models.Cell{models.Number(100), models.Number(150)}, 50.0, false},
		{"quarter up", []models.Cell{models.Number(120), models.Number(150)}, 25.0, false},
		{"decline", []models.Cell{models.Number(150), models.Number(100)}, -33.3, false},
		{"zero previous", []models.Cell{models.Number(0), models.Number(10)}, 0, true},
		{"missing previous", []models.Cell{models.Missing(), models.Number(10)}, 0, true},
		{"missing last", []models.Cell{models.Number(10), models.Missing()}, 0, true},
		{"single period", []models.Cell{models.Number(10)}, 0, true},
		{"no periods", nil, 0, true},
		{"three periods uses the last two", []models.Cell{models.Number(1), models.Number(200), models.Number(100)}, -50.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := yearOverYear(tt.cells)
			if tt.missing {
				assert.True(t, got.IsMissing())
				return
			}
			require.True(t, got.Valid)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestReportEmpty(t *testing.T) {
	payload := decodePayload(t, `{"DATA": [], "YYMM": [], "UNIT": ""}`)
	_, err := Report(payload)
	assert.True(t, errors.Is(err, ErrEmptyReport))

	_, err = Report(nil)
	assert.True(t, errors.Is(err, ErrEmptyReport))
}

func TestReportSinglePeriod(t *testing.T) {
	payload := decodePayload(t, `{
		"DATA": [
			{"ACC_NM": "매출액", "DATA1": "100"},
			{"ACC_NM": "영업이익", "DATA1": "25"}
		],
		"YYMM": ["2023/12"],
		"UNIT": "억원"
	}`)

	report, err := Report(payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023/12"}, report.Periods)
	for _, row := range report.Rows {
		assert.True(t, row.YoY.IsMissing(), "YoY column present but entirely missing")
	}
}

func TestReportExcessLabels(t *testing.T) {
	payload := decodePayload(t, `{
		"DATA": [{"ACC_NM": "매출액", "DATA1": "100"}],
		"YYMM": ["2021/12", "2022/12", "2023/12"],
		"UNIT": "억원"
	}`)

	report, err := Report(payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"2021/12"}, report.Periods, "labels beyond the key count drop")
}

func TestReportRowsWithAllMissingValuesSucceed(t *testing.T) {
	payload := decodePayload(t, `{
		"DATA": [{"ACC_NM": "매출액", "DATA1": "-", "DATA2": ""}],
		"YYMM": ["2022/12", "2023/12"],
		"UNIT": "억원"
	}`)

	report, err := Report(payload)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].Cells[0].IsMissing())
	assert.True(t, report.Rows[0].Cells[1].IsMissing())
	assert.True(t, report.Rows[0].YoY.IsMissing())
}
