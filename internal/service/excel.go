package service

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"labour/backend/internal/service/reporting"
)

const (
	summarySheet   = "Summary"
	sitesSheet     = "Sites"
	performerSheet = "Top Labour"
)

// WriteReportExcel writes the report as a workbook with one sheet per table.
func WriteReportExcel(w io.Writer, r reporting.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	summary := [][]interface{}{
		{"Labour report", r.Period.From + " - " + r.Period.To, r.Period.Days},
		{},
		{"Metric", "Current", "Previous", "Change %", "Status"},
	}
	for _, m := range r.Metrics {
		summary = append(summary, []interface{}{m.Metric, m.Current, m.Previous, m.Change, string(m.Status)})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	sites := [][]interface{}{
		{"Site", "Location", "Total Hours", "Total Amount", "Labourers", "Entries", "Attendance %"},
	}
	for _, s := range r.SiteWise {
		sites = append(sites, []interface{}{s.Name, s.Location, s.TotalHours, s.TotalAmount, s.UniqueLabourers, s.TotalEntries, s.AttendanceRate})
	}
	if _, err := f.NewSheet(sitesSheet); err != nil {
		return errors.Wrap(err, "creating sheet")
	}
	if err := writeRows(f, sitesSheet, sites); err != nil {
		return err
	}

	performers := [][]interface{}{
		{"Labour ID", "Name", "Total Hours", "Total Amount", "Entries", "Attendance %"},
	}
	for _, p := range r.Performers {
		performers = append(performers, []interface{}{p.Code, p.Name, p.TotalHours, p.TotalAmount, p.TotalEntries, p.AttendanceRate})
	}
	if _, err := f.NewSheet(performerSheet); err != nil {
		return errors.Wrap(err, "creating sheet")
	}
	if err := writeRows(f, performerSheet, performers); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}
