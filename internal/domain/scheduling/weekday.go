package scheduling

import (
	"strings"
	"time"

	"github.com/ehr/clinic/internal/domain/identity"
)

var localWeekdays = map[time.Weekday]string{
	time.Monday:    identity.Lunes,
	time.Tuesday:   identity.Martes,
	time.Wednesday: identity.Miercoles,
	time.Thursday:  identity.Jueves,
	time.Friday:    identity.Viernes,
	time.Saturday:  identity.Sabado,
	time.Sunday:    identity.Domingo,
}

// WeekdayName returns the local name of at's weekday. Anything outside the
// table falls back to the lowercase English name.
func WeekdayName(at time.Time) string {
	if name, ok := localWeekdays[at.Weekday()]; ok {
		return name
	}
	return strings.ToLower(at.Weekday().String())
}
