// Package seed pre-loads a registry from a YAML fixture so a demo clinic can
// start with patients, doctors and bookings in place. Every record goes
// through the regular registry operations, so the same gates apply.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ehr/clinic/internal/domain/identity"
	"github.com/ehr/clinic/internal/domain/registry"
	"github.com/ehr/clinic/internal/domain/scheduling"
)

// ---------------------------------------------------------------------------
// File format
// ---------------------------------------------------------------------------

// File is the top-level YAML document.
type File struct {
	Patients      []PatientRecord      `yaml:"patients"`
	Doctors       []DoctorRecord       `yaml:"doctors"`
	Appointments  []AppointmentRecord  `yaml:"appointments"`
	Prescriptions []PrescriptionRecord `yaml:"prescriptions"`
}

type PatientRecord struct {
	Name      string `yaml:"name"`
	ID        string `yaml:"id"`
	BirthDate string `yaml:"birth_date"`
}

type SpecialtyRecord struct {
	Name string   `yaml:"name"`
	Days []string `yaml:"days"`
}

type DoctorRecord struct {
	Name        string            `yaml:"name"`
	License     string            `yaml:"license"`
	Specialties []SpecialtyRecord `yaml:"specialties"`
}

type AppointmentRecord struct {
	PatientID string `yaml:"patient_id"`
	License   string `yaml:"license"`
	Specialty string `yaml:"specialty"`
	At        string `yaml:"at"`
}

type PrescriptionRecord struct {
	PatientID   string   `yaml:"patient_id"`
	License     string   `yaml:"license"`
	Medications []string `yaml:"medications"`
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

// Result counts the records applied by a load.
type Result struct {
	Patients      int
	Doctors       int
	Appointments  int
	Prescriptions int
}

// RecordError reports the first record that failed to apply. Records before
// it remain in the registry.
type RecordError struct {
	Section string
	Index   int
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("seed %s[%d]: %v", e.Section, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// LoadFile opens path and applies it to reg. See Load.
func LoadFile(path string, reg *registry.Registry, loc *time.Location) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Load(f, reg, loc)
}

// Load decodes a YAML seed from r and applies it to reg section by section:
// patients, doctors, appointments, then prescriptions. Dates are read in loc.
// It stops at the first failing record and returns a *RecordError.
func Load(r io.Reader, reg *registry.Registry, loc *time.Location) (Result, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("decode seed: %w", err)
	}
	return Apply(file, reg, loc)
}

// Apply registers the contents of file in reg.
func Apply(file File, reg *registry.Registry, loc *time.Location) (Result, error) {
	var res Result

	for i, rec := range file.Patients {
		if err := applyPatient(rec, reg, loc); err != nil {
			return res, &RecordError{Section: "patients", Index: i, Err: err}
		}
		res.Patients++
	}
	for i, rec := range file.Doctors {
		if err := applyDoctor(rec, reg); err != nil {
			return res, &RecordError{Section: "doctors", Index: i, Err: err}
		}
		res.Doctors++
	}
	for i, rec := range file.Appointments {
		at, err := scheduling.ParseDateTime(rec.At, loc)
		if err == nil {
			_, err = reg.ScheduleAppointment(rec.PatientID, rec.License, rec.Specialty, at)
		}
		if err != nil {
			return res, &RecordError{Section: "appointments", Index: i, Err: err}
		}
		res.Appointments++
	}
	for i, rec := range file.Prescriptions {
		if _, err := reg.IssuePrescription(rec.PatientID, rec.License, rec.Medications); err != nil {
			return res, &RecordError{Section: "prescriptions", Index: i, Err: err}
		}
		res.Prescriptions++
	}
	return res, nil
}

func applyPatient(rec PatientRecord, reg *registry.Registry, loc *time.Location) error {
	born, err := identity.ParseDate(rec.BirthDate, loc)
	if err != nil {
		return err
	}
	p, err := identity.NewPatient(rec.Name, rec.ID, born)
	if err != nil {
		return err
	}
	return reg.RegisterPatient(p)
}

func applyDoctor(rec DoctorRecord, reg *registry.Registry) error {
	d, err := identity.NewDoctor(rec.Name, rec.License)
	if err != nil {
		return err
	}
	for _, sr := range rec.Specialties {
		s, err := identity.NewSpecialty(sr.Name, sr.Days)
		if err != nil {
			return err
		}
		if err := d.AddSpecialty(s); err != nil {
			return err
		}
	}
	return reg.RegisterDoctor(d)
}
