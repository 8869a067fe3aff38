package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"labour/backend/internal/repository/postgres/report"
	"labour/backend/internal/service/reporting"
	"labour/backend/internal/wage"
)

func sampleReport() reporting.Report {
	cur := wage.AggregateStats{TotalHours: 20, TotalAmount: 230, UniqueLabourers: 3, ActiveSites: 2}
	prev := wage.AggregateStats{TotalHours: 10, TotalAmount: 100, UniqueLabourers: 1, ActiveSites: 1}

	return reporting.Report{
		Period:   reporting.PeriodInfo{From: "2026-10-01", To: "2026-10-10", Days: 10},
		Stats:    cur,
		Previous: prev,
		Metrics:  wage.CompareStatistics(cur, prev, wage.DefaultThresholds()),
		SiteWise: []reporting.SiteRow{
			{SiteInfo: report.SiteInfo{ID: 2, Name: "Al Barsha Villas", Location: "Al Barsha"}, AggregateStats: wage.AggregateStats{TotalHours: 12, TotalAmount: 150}},
			{SiteInfo: report.SiteInfo{ID: 1, Name: "Marina Tower", Location: "Dubai Marina"}, AggregateStats: wage.AggregateStats{TotalHours: 8, TotalAmount: 80}},
		},
		Performers: []reporting.PerformerRow{
			{LabourInfo: report.LabourInfo{ID: 3, Name: "Ravi", Code: "L-3"}, AggregateStats: wage.AggregateStats{TotalHours: 12}},
		},
	}
}

func TestWriteReportExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportExcel(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, sitesSheet, performerSheet}, f.GetSheetList())

	v, err := f.GetCellValue(summarySheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total Hours Worked", v)

	v, err = f.GetCellValue(sitesSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Al Barsha Villas", v)

	v, err = f.GetCellValue(performerSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "L-3", v)
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "site_id,site,location,total_hours,total_amount,unique_labourers,total_entries,attendance_rate", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2,Al Barsha Villas,Al Barsha,12,150,"))
}

func TestWriteReportPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportPDF(&buf, sampleReport()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestQRCodeAndBadges(t *testing.T) {
	png, err := QRCode("L-3", 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	var badges []Badge
	for _, code := range []string{"L-1", "L-2", "L-3", "L-4", "L-5"} {
		badges = append(badges, Badge{Code: code, Name: "labour " + code})
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBadgesPDF(&buf, badges))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
