package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/ehr/clinic/internal/domain/clinicerr"
)

// ParseDateTime reads a "dd/mm/yyyy HH:MM" (24h) instant in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateTimeLayout, strings.Join(strings.Fields(s), " "), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date-time %q is not dd/mm/yyyy HH:MM: %w", s, clinicerr.ErrInvalidArgument)
	}
	return t, nil
}
