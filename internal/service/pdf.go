package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"labour/backend/internal/service/reporting"
)

// WriteReportPDF renders the comparison and site tables on a landscape page.
func WriteReportPDF(w io.Writer, r reporting.Report) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Labour Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%s to %s (%d days)", r.Period.From, r.Period.To, r.Period.Days))
	pdf.Ln(12)

	table(pdf, []float64{80, 45, 45, 35, 35}, []string{"Metric", "Current", "Previous", "Change %", "Status"}, func(row func(...string)) {
		for _, m := range r.Metrics {
			row(m.Metric, number(m.Current), number(m.Previous), number(m.Change), string(m.Status))
		}
	})
	pdf.Ln(8)

	table(pdf, []float64{60, 60, 35, 40, 30, 30}, []string{"Site", "Location", "Hours", "Amount", "Labourers", "Attendance %"}, func(row func(...string)) {
		for _, s := range r.SiteWise {
			row(s.Name, s.Location, number(s.TotalHours), number(s.TotalAmount), fmt.Sprint(s.UniqueLabourers), number(s.AttendanceRate))
		}
	})

	return errors.Wrap(pdf.Output(w), "writing pdf")
}

func table(pdf *gofpdf.Fpdf, widths []float64, header []string, body func(row func(...string))) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	body(func(cells ...string) {
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	})
}

func number(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Badge is what is printed on a labourer's QR badge.
type Badge struct {
	Code string
	Name string
}

// QRCode encodes content as a PNG of size pixels.
func QRCode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "encoding qr code")
	}
	return png, nil
}

// WriteBadgesPDF lays out one QR badge per labourer, four to a row.
func WriteBadgesPDF(w io.Writer, badges []Badge) error {
	const (
		perRow = 4
		size   = 45.0
		gap    = 5.0
		margin = 10.0
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 9)
	pdf.AddPage()

	x, y := margin, margin
	for i, b := range badges {
		png, err := QRCode(b.Code, 256)
		if err != nil {
			return err
		}

		name := fmt.Sprintf("badge-%d", i)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(name, x, y, size, size, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetXY(x, y+size)
		pdf.CellFormat(size, 5, b.Code, "", 2, "C", false, 0, "")
		pdf.CellFormat(size, 5, b.Name, "", 0, "C", false, 0, "")

		if (i+1)%perRow == 0 {
			x = margin
			y += size + 15 + gap
			if y+size+15 > 287 {
				pdf.AddPage()
				y = margin
			}
		} else {
			x += size + gap
		}
	}

	if err := pdf.Error(); err != nil {
		return errors.Wrap(err, "building badges")
	}
	return errors.Wrap(pdf.Output(w), "writing pdf")
}
