package identity

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ehr/clinic/internal/domain/clinicerr"
)

// Local weekday names, in the spelling used when resolving a date.
const (
	Lunes     = "lunes"
	Martes    = "martes"
	Miercoles = "miércoles"
	Jueves    = "jueves"
	Viernes   = "viernes"
	Sabado    = "sábado"
	Domingo   = "domingo"
)

// validDays lists every accepted day spelling after case folding. Days that
// carry a diacritic are also accepted without it.
var validDays = map[string]bool{
	Lunes:       true,
	Martes:      true,
	Miercoles:   true,
	"miercoles": true,
	Jueves:      true,
	Viernes:     true,
	Sabado:      true,
	"sabado":    true,
	Domingo:     true,
}

// dayAliases pairs the accented and unaccented spelling of miércoles. It is
// the only pair treated as equal; "sabado" is a valid day name but does not
// match "sábado".
var dayAliases = map[string]string{
	Miercoles:   "miercoles",
	"miercoles": Miercoles,
}

// FoldDay trims and case-folds a day name.
func FoldDay(day string) string {
	return cases.Fold().String(strings.TrimSpace(day))
}

// IsValidDay reports whether day names a weekday, in any letter case.
func IsValidDay(day string) bool {
	return validDays[FoldDay(day)]
}

// Specialty is a medical service and the weekdays on which it is offered.
// It is immutable once built.
type Specialty struct {
	name string
	days []string
}

// NewSpecialty validates name and days. Day names are stored case-folded in
// the order given.
func NewSpecialty(name string, days []string) (Specialty, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Specialty{}, fmt.Errorf("specialty name is required: %w", clinicerr.ErrInvalidArgument)
	}
	if len(days) == 0 {
		return Specialty{}, fmt.Errorf("specialty %s needs at least one day: %w", name, clinicerr.ErrInvalidArgument)
	}
	folded := make([]string, 0, len(days))
	for _, d := range days {
		if !IsValidDay(d) {
			return Specialty{}, fmt.Errorf("invalid day %q: %w", d, clinicerr.ErrInvalidArgument)
		}
		folded = append(folded, FoldDay(d))
	}
	return Specialty{name: name, days: folded}, nil
}

func (s Specialty) Name() string { return s.name }

// Days returns a copy of the specialty's day names.
func (s Specialty) Days() []string {
	out := make([]string, len(s.days))
	copy(out, s.days)
	return out
}

// IsZero reports whether s is the zero Specialty.
func (s Specialty) IsZero() bool { return s.name == "" }

// MatchesDay reports whether the specialty is offered on day. Matching is
// case-insensitive, and miércoles matches with or without its accent.
func (s Specialty) MatchesDay(day string) bool {
	want := FoldDay(day)
	alias, hasAlias := dayAliases[want]
	for _, d := range s.days {
		if d == want || (hasAlias && d == alias) {
			return true
		}
	}
	return false
}

func (s Specialty) String() string {
	return fmt.Sprintf("%s (Días: %s)", s.name, strings.Join(s.days, ", "))
}
