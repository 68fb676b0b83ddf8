package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/clinic/internal/domain/clinicerr"
	"github.com/ehr/clinic/internal/domain/identity"
)

// DateTimeLayout is the dd/mm/yyyy HH:MM layout used for appointment times.
const DateTimeLayout = "02/01/2006 15:04"

// Appointment books a patient with a doctor for one specialty at one instant.
// Appointments are immutable; the doctor is captured as a snapshot.
type Appointment struct {
	id        uuid.UUID
	patient   identity.Patient
	doctor    *identity.Doctor
	at        time.Time
	specialty string
}

// NewAppointment builds an appointment. It performs no availability checks;
// those belong to the registry.
func NewAppointment(patient identity.Patient, doctor *identity.Doctor, at time.Time, specialty string) (Appointment, error) {
	specialty = strings.TrimSpace(specialty)
	if patient.ID() == "" {
		return Appointment{}, fmt.Errorf("appointment patient is required: %w", clinicerr.ErrInvalidArgument)
	}
	if doctor == nil {
		return Appointment{}, fmt.Errorf("appointment doctor is required: %w", clinicerr.ErrInvalidArgument)
	}
	if at.IsZero() {
		return Appointment{}, fmt.Errorf("appointment time is required: %w", clinicerr.ErrInvalidArgument)
	}
	if specialty == "" {
		return Appointment{}, fmt.Errorf("appointment specialty is required: %w", clinicerr.ErrInvalidArgument)
	}
	return Appointment{
		id:        uuid.New(),
		patient:   patient,
		doctor:    doctor.Clone(),
		at:        at,
		specialty: specialty,
	}, nil
}

func (a Appointment) ID() uuid.UUID             { return a.id }
func (a Appointment) Patient() identity.Patient { return a.patient }
func (a Appointment) At() time.Time             { return a.at }
func (a Appointment) Specialty() string         { return a.specialty }

// Doctor returns a copy of the doctor as it was when the appointment was made.
func (a Appointment) Doctor() *identity.Doctor {
	if a.doctor == nil {
		return nil
	}
	return a.doctor.Clone()
}

// License is the booked doctor's license number.
func (a Appointment) License() string {
	if a.doctor == nil {
		return ""
	}
	return a.doctor.License()
}

// Occupies reports whether the appointment holds the slot (license, at). Times
// must be the same instant, down to the minute and below.
func (a Appointment) Occupies(license string, at time.Time) bool {
	return a.License() == license && a.at.Equal(at)
}

func (a Appointment) String() string {
	return fmt.Sprintf("Turno(Paciente(%s), Médico(%s), %s, %s)",
		a.patient, a.doctor, a.at.Format(DateTimeLayout), a.specialty)
}
