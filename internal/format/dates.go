package format

import "time"

const (
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006, 3:04 PM"
	monthLayout    = "January 2006"
)

// Date formats a calendar date, e.g. "Mar 1, 2024".
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// DateTime formats an appointment time, e.g. "Mar 1, 2024, 9:00 AM".
func DateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// MonthLabel is the heading used when grouping by month, e.g. "March 2024".
func MonthLabel(t time.Time) string {
	return t.Format(monthLayout)
}
