package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/ehr/clinic/internal/domain/clinicerr"
)

// DateLayout is the dd/mm/yyyy layout used for birth dates.
const DateLayout = "02/01/2006"

const (
	minBirthYear = 1900
	maxBirthYear = 2100
)

// Patient is a registered person, keyed by national ID. Patients are
// immutable.
type Patient struct {
	name      string
	id        string
	birthDate time.Time
}

// NewPatient validates and builds a Patient. name and id are trimmed; the
// birth year must fall in [1900, 2100].
func NewPatient(name, id string, birthDate time.Time) (Patient, error) {
	name = strings.TrimSpace(name)
	id = strings.TrimSpace(id)
	if name == "" {
		return Patient{}, fmt.Errorf("patient name is required: %w", clinicerr.ErrInvalidArgument)
	}
	if id == "" {
		return Patient{}, fmt.Errorf("patient id is required: %w", clinicerr.ErrInvalidArgument)
	}
	if y := birthDate.Year(); y < minBirthYear || y > maxBirthYear {
		return Patient{}, fmt.Errorf("birth year %d out of range [%d, %d]: %w",
			y, minBirthYear, maxBirthYear, clinicerr.ErrInvalidArgument)
	}
	return Patient{name: name, id: id, birthDate: birthDate}, nil
}

func (p Patient) Name() string         { return p.name }
func (p Patient) ID() string           { return p.id }
func (p Patient) BirthDate() time.Time { return p.birthDate }

func (p Patient) String() string {
	return fmt.Sprintf("%s, %s, %s", p.name, p.id, p.birthDate.Format(DateLayout))
}
