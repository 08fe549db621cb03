// Package period implements the calendar arithmetic behind task due dates:
// parsing a "Jan 2024" style period label, finding the end of its monthly,
// quarterly or yearly window, and the canonical DD-MM-YYYY due date format.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/taskmaster/tasklists/internal/domain/entities"
)

// DueDateLayout is the canonical day-month-year layout used for input and output.
const DueDateLayout = "02-01-2006"

var periodLayouts = []string{"Jan 2006", "January 2006"}

// Day-first layouts are tried before the ISO ones, so "03-04-2024" is always 3 April.
var dueDateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParsePeriod returns the first instant (UTC) of the month named by label.
func ParsePeriod(label string) (time.Time, error) {
	label = strings.Join(strings.Fields(label), " ")
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q does not match \"Mon YYYY\"", entities.ErrInvalidPeriod, label)
}

// End returns the last instant of the periodType window containing start.
func End(start time.Time, periodType entities.PeriodType) (time.Time, error) {
	if !periodType.IsValid() {
		return time.Time{}, fmt.Errorf("%w: %q", entities.ErrInvalidPeriodType, periodType)
	}

	n := now.With(start)
	switch periodType {
	case entities.PeriodTypeMonthly:
		return n.EndOfMonth(), nil
	case entities.PeriodTypeQuarterly:
		return n.EndOfQuarter(), nil
	}
	return n.EndOfYear(), nil
}

// WindowEnd parses label and returns the end of its periodType window.
func WindowEnd(label string, periodType entities.PeriodType) (time.Time, error) {
	start, err := ParsePeriod(label)
	if err != nil {
		return time.Time{}, err
	}
	return End(start, periodType)
}

// ParseDueDate parses s as DD-MM-YYYY, falling back to ISO 8601 forms.
// The result is normalized to UTC midnight for date-only inputs.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q, expected DD-MM-YYYY", entities.ErrInvalidDueDate, s)
}

// FormatDueDate renders t as DD-MM-YYYY in UTC.
func FormatDueDate(t time.Time) string {
	return t.UTC().Format(DueDateLayout)
}

// ValidateDueDate fails with ErrDueDateBeforePeriodEnd when due is strictly
// before the end of the period window.
func ValidateDueDate(due time.Time, label string, periodType entities.PeriodType) error {
	end, err := WindowEnd(label, periodType)
	if err != nil {
		return err
	}
	if due.Before(end) {
		return entities.ErrDueDateBeforePeriodEnd
	}
	return nil
}
