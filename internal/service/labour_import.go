package service

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// LabourSheet is the sheet read by ReadLabourSheet and written by
// WriteLabourTemplate.
const LabourSheet = "Labour"

var labourHeader = []interface{}{"Labour ID", "Name", "Password", "Visa Cost"}

// LabourRow is one labourer read from an import workbook.
type LabourRow struct {
	Row      int
	Code     string
	Name     string
	Password string
	VisaCost float64
}

// WriteLabourTemplate writes an empty import workbook with the header row.
func WriteLabourTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LabourSheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}
	if err := writeRows(f, LabourSheet, [][]interface{}{labourHeader}); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

// ReadLabourSheet reads the Labour sheet of an xlsx workbook. Rows that are
// incomplete, malformed, repeat a code seen earlier in the file or use a code
// in existing are skipped and reported by their 1-based row number. Blank
// rows are ignored.
func ReadLabourSheet(r io.Reader, existing map[string]struct{}) ([]LabourRow, []int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(LabourSheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading sheet %s", LabourSheet)
	}

	var (
		labours  []LabourRow
		rejected []int
		seen     = map[string]int{}
	)

	for i, row := range rows {
		rowNumber := i + 1
		if i == 0 || blank(row) {
			continue
		}

		cell := func(n int) string {
			if n < len(row) {
				return strings.TrimSpace(row[n])
			}
			return ""
		}

		code := halfWidth(cell(0))
		name := cell(1)
		password := cell(2)
		if code == "" || name == "" || len(password) < 6 || strings.ContainsAny(code, " \t") {
			rejected = append(rejected, rowNumber)
			continue
		}

		var visaCost float64
		if raw := halfWidth(cell(3)); raw != "" {
			visaCost, err = strconv.ParseFloat(raw, 64)
			if err != nil || visaCost < 0 {
				rejected = append(rejected, rowNumber)
				continue
			}
		}

		if _, ok := existing[code]; ok {
			rejected = append(rejected, rowNumber)
			continue
		}
		if _, ok := seen[code]; ok {
			rejected = append(rejected, rowNumber)
			continue
		}
		seen[code] = rowNumber

		labours = append(labours, LabourRow{
			Row:      rowNumber,
			Code:     code,
			Name:     name,
			Password: password,
			VisaCost: visaCost,
		})
	}

	return labours, rejected, nil
}

// halfWidth folds full-width letters and digits, as typed on some phone
// keyboards, to their ASCII form.
func halfWidth(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
