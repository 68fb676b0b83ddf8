package identity

import (
	"fmt"
	"strings"

	"github.com/ehr/clinic/internal/domain/clinicerr"
)

// Doctor is a practitioner keyed by license number. The specialty list is the
// only mutable part and keeps insertion order.
type Doctor struct {
	name        string
	license     string
	specialties []Specialty
}

// NewDoctor validates name and license and adds the given specialties in
// order, rejecting duplicate names.
func NewDoctor(name, license string, specialties ...Specialty) (*Doctor, error) {
	name = strings.TrimSpace(name)
	license = strings.TrimSpace(license)
	if name == "" {
		return nil, fmt.Errorf("doctor name is required: %w", clinicerr.ErrInvalidArgument)
	}
	if license == "" {
		return nil, fmt.Errorf("doctor license is required: %w", clinicerr.ErrInvalidArgument)
	}
	d := &Doctor{name: name, license: license}
	for _, s := range specialties {
		if err := d.AddSpecialty(s); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Doctor) Name() string    { return d.name }
func (d *Doctor) License() string { return d.license }

// AddSpecialty appends s unless a specialty with exactly the same name is
// already present.
func (d *Doctor) AddSpecialty(s Specialty) error {
	if s.IsZero() {
		return fmt.Errorf("empty specialty: %w", clinicerr.ErrInvalidArgument)
	}
	if _, ok := d.Specialty(s.Name()); ok {
		return fmt.Errorf("%s for doctor %s: %w", s.Name(), d.license, clinicerr.ErrDuplicateSpecialty)
	}
	d.specialties = append(d.specialties, s)
	return nil
}

// Specialty looks up a specialty by exact name.
func (d *Doctor) Specialty(name string) (Specialty, bool) {
	for _, s := range d.specialties {
		if s.Name() == name {
			return s, true
		}
	}
	return Specialty{}, false
}

// SpecialtyForDay returns the first specialty, in insertion order, offered on
// day.
func (d *Doctor) SpecialtyForDay(day string) (Specialty, bool) {
	for _, s := range d.specialties {
		if s.MatchesDay(day) {
			return s, true
		}
	}
	return Specialty{}, false
}

// OffersOn reports whether the doctor has a specialty named exactly name that
// is offered on day.
func (d *Doctor) OffersOn(name, day string) bool {
	for _, s := range d.specialties {
		if s.Name() == name && s.MatchesDay(day) {
			return true
		}
	}
	return false
}

// Specialties returns a snapshot of the specialty list.
func (d *Doctor) Specialties() []Specialty {
	out := make([]Specialty, len(d.specialties))
	copy(out, d.specialties)
	return out
}

// Clone returns a copy that shares no mutable state with d.
func (d *Doctor) Clone() *Doctor {
	return &Doctor{name: d.name, license: d.license, specialties: d.Specialties()}
}

func (d *Doctor) String() string {
	parts := make([]string, len(d.specialties))
	for i, s := range d.specialties {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s, %s, [%s]", d.name, d.license, strings.Join(parts, ", "))
}
