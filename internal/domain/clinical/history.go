package clinical

import (
	"fmt"
	"strings"

	"github.com/ehr/clinic/internal/domain/identity"
	"github.com/ehr/clinic/internal/domain/medication"
	"github.com/ehr/clinic/internal/domain/scheduling"
)

// History is a patient's append-only clinical record.
type History struct {
	patient       identity.Patient
	appointments  []scheduling.Appointment
	prescriptions []medication.Prescription
}

// NewHistory returns an empty history for patient.
func NewHistory(patient identity.Patient) *History {
	return &History{patient: patient}
}

func (h *History) Patient() identity.Patient { return h.patient }

// AddAppointment appends a to the history.
func (h *History) AddAppointment(a scheduling.Appointment) {
	h.appointments = append(h.appointments, a)
}

// AddPrescription appends p to the history.
func (h *History) AddPrescription(p medication.Prescription) {
	h.prescriptions = append(h.prescriptions, p)
}

// Appointments returns a copy of the recorded appointments, oldest first.
func (h *History) Appointments() []scheduling.Appointment {
	out := make([]scheduling.Appointment, len(h.appointments))
	copy(out, h.appointments)
	return out
}

// Prescriptions returns a copy of the recorded prescriptions, oldest first.
func (h *History) Prescriptions() []medication.Prescription {
	out := make([]medication.Prescription, len(h.prescriptions))
	copy(out, h.prescriptions)
	return out
}

// Len is the total number of entries.
func (h *History) Len() int {
	return len(h.appointments) + len(h.prescriptions)
}

// Snapshot returns a copy of h that can be handed out without exposing the
// original's slices.
func (h *History) Snapshot() *History {
	return &History{
		patient:       h.patient,
		appointments:  h.Appointments(),
		prescriptions: h.Prescriptions(),
	}
}

func (h *History) String() string {
	entries := make([]string, 0, h.Len())
	for _, a := range h.appointments {
		entries = append(entries, a.String())
	}
	for _, p := range h.prescriptions {
		entries = append(entries, p.String())
	}
	if len(entries) == 0 {
		return fmt.Sprintf("HistoriaClinica(Paciente(%s),\n  []\n)", h.patient)
	}
	return fmt.Sprintf("HistoriaClinica(Paciente(%s),\n  [\n    %s\n  ]\n)",
		h.patient, strings.Join(entries, ",\n    "))
}
