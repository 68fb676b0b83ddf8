package medication

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/clinic/internal/domain/clinicerr"
	"github.com/ehr/clinic/internal/domain/identity"
)

// Prescription lists the medications a doctor prescribed to a patient.
// Prescriptions are immutable.
type Prescription struct {
	id          uuid.UUID
	patient     identity.Patient
	doctor      *identity.Doctor
	medications []string
	issuedAt    time.Time
}

// NewPrescription trims every medication name and drops blanks. At least one
// name must remain.
func NewPrescription(patient identity.Patient, doctor *identity.Doctor, medications []string, issuedAt time.Time) (Prescription, error) {
	if patient.ID() == "" {
		return Prescription{}, fmt.Errorf("prescription patient is required: %w", clinicerr.ErrInvalidArgument)
	}
	if doctor == nil {
		return Prescription{}, fmt.Errorf("prescription doctor is required: %w", clinicerr.ErrInvalidArgument)
	}
	cleaned := CleanMedications(medications)
	if len(cleaned) == 0 {
		return Prescription{}, fmt.Errorf("at least one medication is required: %w", clinicerr.ErrInvalidPrescription)
	}
	return Prescription{
		id:          uuid.New(),
		patient:     patient,
		doctor:      doctor.Clone(),
		medications: cleaned,
		issuedAt:    issuedAt,
	}, nil
}

// CleanMedications returns the trimmed, non-blank names in order.
func CleanMedications(medications []string) []string {
	out := make([]string, 0, len(medications))
	for _, m := range medications {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func (p Prescription) ID() uuid.UUID             { return p.id }
func (p Prescription) Patient() identity.Patient { return p.patient }
func (p Prescription) IssuedAt() time.Time       { return p.issuedAt }

// Doctor returns a copy of the prescribing doctor.
func (p Prescription) Doctor() *identity.Doctor {
	if p.doctor == nil {
		return nil
	}
	return p.doctor.Clone()
}

// Medications returns a copy of the medication names.
func (p Prescription) Medications() []string {
	out := make([]string, len(p.medications))
	copy(out, p.medications)
	return out
}

func (p Prescription) String() string {
	return fmt.Sprintf("Receta(Paciente(%s), Médico(%s), [%s], %s)",
		p.patient, p.doctor, strings.Join(p.medications, ", "), p.issuedAt.Format("02/01/2006 15:04"))
}
