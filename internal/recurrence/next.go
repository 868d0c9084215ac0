package recurrence

import (
	"time"

	"github.com/samber/mo"

	"github.com/hray3182/CarePortal/internal/models"
)

// UpcomingMonths is the default look-ahead used when a caller asks for the
// next appointment without choosing a window.
const UpcomingMonths = 3

// NextAppointmentDate returns the earliest visit of series between now and
// UpcomingMonths from now.
func NextAppointmentDate(series *models.AppointmentSeries) mo.Option[time.Time] {
	return NextAppointmentDateAt(series, time.Now())
}

// NextAppointmentDateAt is NextAppointmentDate with an explicit current time.
func NextAppointmentDateAt(series *models.AppointmentSeries, now time.Time) mo.Option[time.Time] {
	occurrences := AppointmentOccurrences(series, now, now.AddDate(0, UpcomingMonths, 0))
	if len(occurrences) == 0 {
		return mo.None[time.Time]()
	}
	return mo.Some(occurrences[0].Date)
}
