package identity

import (
	"errors"
	"testing"

	"github.com/ehr/clinic/internal/domain/clinicerr"
)

func mustSpecialty(t *testing.T, name string, days ...string) Specialty {
	t.Helper()
	s, err := NewSpecialty(name, days)
	if err != nil {
		t.Fatalf("NewSpecialty(%q): %v", name, err)
	}
	return s
}

func TestNewDoctor_Valid(t *testing.T) {
	ped := mustSpecialty(t, "Pediatría", "lunes", "miércoles")
	d, err := NewDoctor("Dr. García", "54321", ped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name() != "Dr. García" || d.License() != "54321" {
		t.Errorf("got %q/%q, want Dr. García/54321", d.Name(), d.License())
	}
	if n := len(d.Specialties()); n != 1 {
		t.Errorf("len(Specialties()) = %d, want 1", n)
	}
}

func TestNewDoctor_Invalid(t *testing.T) {
	if _, err := NewDoctor("", "1"); !errors.Is(err, clinicerr.ErrInvalidArgument) {
		t.Errorf("empty name: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewDoctor("Dr. X", " "); !errors.Is(err, clinicerr.ErrInvalidArgument) {
		t.Errorf("blank license: err = %v, want ErrInvalidArgument", err)
	}
}

func TestNewDoctor_DuplicateInitialSpecialties(t *testing.T) {
	a := mustSpecialty(t, "Pediatría", "lunes")
	b := mustSpecialty(t, "Pediatría", "martes")
	if _, err := NewDoctor("Dr. X", "1", a, b); !errors.Is(err, clinicerr.ErrDuplicateSpecialty) {
		t.Errorf("err = %v, want ErrDuplicateSpecialty", err)
	}
}

func TestDoctor_AddSpecialty(t *testing.T) {
	d, _ := NewDoctor("Dr. X", "1")
	if err := d.AddSpecialty(mustSpecialty(t, "Cardiología", "martes")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.AddSpecialty(mustSpecialty(t, "Cardiología", "jueves")); !errors.Is(err, clinicerr.ErrDuplicateSpecialty) {
		t.Errorf("err = %v, want ErrDuplicateSpecialty", err)
	}
	// Names are compared exactly.
	if err := d.AddSpecialty(mustSpecialty(t, "cardiología", "jueves")); err != nil {
		t.Errorf("different case should be accepted, got %v", err)
	}
	if err := d.AddSpecialty(Specialty{}); !errors.Is(err, clinicerr.ErrInvalidArgument) {
		t.Errorf("zero specialty: err = %v, want ErrInvalidArgument", err)
	}
}

func TestDoctor_SpecialtyForDay_InsertionOrder(t *testing.T) {
	d, _ := NewDoctor("Dr. X", "1",
		mustSpecialty(t, "Clínica", "lunes", "martes"),
		mustSpecialty(t, "Pediatría", "lunes", "miercoles"),
	)
	s, ok := d.SpecialtyForDay("lunes")
	if !ok || s.Name() != "Clínica" {
		t.Errorf("SpecialtyForDay(lunes) = %v/%v, want Clínica", s.Name(), ok)
	}
	s, ok = d.SpecialtyForDay("miércoles")
	if !ok || s.Name() != "Pediatría" {
		t.Errorf("SpecialtyForDay(miércoles) = %v/%v, want Pediatría", s.Name(), ok)
	}
	if _, ok := d.SpecialtyForDay("domingo"); ok {
		t.Error("SpecialtyForDay(domingo) should find nothing")
	}
}

func TestDoctor_OffersOn(t *testing.T) {
	d, _ := NewDoctor("Dr. X", "1",
		mustSpecialty(t, "Clínica", "martes"),
		mustSpecialty(t, "Pediatría", "lunes"),
	)
	if !d.OffersOn("Pediatría", "lunes") {
		t.Error("expected Pediatría on lunes")
	}
	if d.OffersOn("Pediatría", "martes") {
		t.Error("Pediatría is not offered on martes")
	}
	if d.OffersOn("pediatría", "lunes") {
		t.Error("specialty names must match exactly")
	}
}

func TestDoctor_SnapshotsAreIsolated(t *testing.T) {
	d, _ := NewDoctor("Dr. X", "1", mustSpecialty(t, "Clínica", "martes"))

	specs := d.Specialties()
	specs[0] = mustSpecialty(t, "Otra", "lunes")
	if _, ok := d.Specialty("Clínica"); !ok {
		t.Error("mutating Specialties() must not affect the doctor")
	}

	clone := d.Clone()
	if err := clone.AddSpecialty(mustSpecialty(t, "Pediatría", "lunes")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Specialties()) != 1 {
		t.Error("mutating a clone must not affect the original")
	}
}

func TestDoctor_String(t *testing.T) {
	d, _ := NewDoctor("Dr. García", "54321")
	if got, want := d.String(), "Dr. García, 54321, []"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	_ = d.AddSpecialty(mustSpecialty(t, "Pediatría", "lunes"))
	if got, want := d.String(), "Dr. García, 54321, [Pediatría (Días: lunes)]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
