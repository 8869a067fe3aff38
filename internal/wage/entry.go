// Package wage holds the monthly wage and attendance arithmetic. It works on
// plain values handed in by the caller and never touches storage or the clock.
package wage

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidPeriod is returned for a year or month that does not name a calendar month.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrForeignEntry is returned when an entry belongs to a different labourer.
	ErrForeignEntry = errors.New("entry belongs to another labourer")

	// ErrEntryOutsidePeriod is returned when an entry is not dated in the summarized month.
	ErrEntryOutsidePeriod = errors.New("entry outside the summarized month")

	// ErrUnknownStatus is returned by ParseStatus.
	ErrUnknownStatus = errors.New("unknown attendance status")
)

type Status string

const (
	Present Status = "present"
	Absent  Status = "absent"
)

// ParseStatus accepts any casing of present/absent.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case Present:
		return Present, nil
	case Absent:
		return Absent, nil
	}
	return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
}

// Entry is one labour action recorded by a site employee.
type Entry struct {
	ID         int
	LabourID   int
	EmployeeID int
	SiteID     int
	Timestamp  time.Time
	Status     Status
	Activity   string
	Unit       string
	RateType   string
	Rate       float64
	Quantity   *float64
	TotalHours *float64
	Amount     float64
}

// Hours returns TotalHours or zero.
func (e Entry) Hours() float64 {
	if e.TotalHours == nil {
		return 0
	}
	return *e.TotalHours
}

// Labourer is the snapshot of a labourer the computation needs.
type Labourer struct {
	ID             int
	Name           string
	Code           string
	IsActive       bool
	VisaCost       float64
	VisaPaid       float64
	AdvancePayment float64
}

// PendingVisaAmount is the part of the visa cost not yet recovered.
func (l Labourer) PendingVisaAmount() float64 {
	if l.VisaPaid >= l.VisaCost {
		return 0
	}
	return l.VisaCost - l.VisaPaid
}
