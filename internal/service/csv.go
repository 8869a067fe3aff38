package service

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"labour/backend/internal/service/reporting"
)

type siteCSV struct {
	SiteID         int     `csv:"site_id"`
	Site           string  `csv:"site"`
	Location       string  `csv:"location"`
	TotalHours     float64 `csv:"total_hours"`
	TotalAmount    float64 `csv:"total_amount"`
	Labourers      int     `csv:"unique_labourers"`
	Entries        int     `csv:"total_entries"`
	AttendanceRate float64 `csv:"attendance_rate"`
}

// WriteReportCSV writes the site-wise table of the report.
func WriteReportCSV(w io.Writer, r reporting.Report) error {
	rows := make([]siteCSV, 0, len(r.SiteWise))
	for _, s := range r.SiteWise {
		rows = append(rows, siteCSV{
			SiteID:         s.SiteInfo.ID,
			Site:           s.Name,
			Location:       s.Location,
			TotalHours:     s.TotalHours,
			TotalAmount:    s.TotalAmount,
			Labourers:      s.UniqueLabourers,
			Entries:        s.TotalEntries,
			AttendanceRate: s.AttendanceRate,
		})
	}

	return errors.Wrap(gocsv.Marshal(&rows, w), "writing csv")
}
