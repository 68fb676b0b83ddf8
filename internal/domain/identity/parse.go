package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/ehr/clinic/internal/domain/clinicerr"
)

// ParseDate reads a dd/mm/yyyy date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not dd/mm/yyyy: %w", s, clinicerr.ErrInvalidArgument)
	}
	return t, nil
}

// SplitDays splits a comma-separated day list. Entries are trimmed and
// case-folded; blank entries are dropped. Names are not validated here.
func SplitDays(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := FoldDay(p); f != "" {
			out = append(out, f)
		}
	}
	return out
}
