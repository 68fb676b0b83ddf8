// Package registry is the clinic's system of record. It owns every patient,
// doctor, appointment and clinical history, and is the only place where
// appointments and prescriptions are accepted.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/clinic/internal/domain/clinical"
	"github.com/ehr/clinic/internal/domain/clinicerr"
	"github.com/ehr/clinic/internal/domain/identity"
	"github.com/ehr/clinic/internal/domain/medication"
	"github.com/ehr/clinic/internal/domain/scheduling"
)

// Recorder receives registry outcomes, typically for metrics.
type Recorder interface {
	PatientRegistered()
	DoctorRegistered()
	SpecialtyAdded()
	AppointmentScheduled()
	AppointmentRejected(reason string)
	PrescriptionIssued()
	PrescriptionRejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) PatientRegistered()          {}
func (nopRecorder) DoctorRegistered()           {}
func (nopRecorder) SpecialtyAdded()             {}
func (nopRecorder) AppointmentScheduled()       {}
func (nopRecorder) AppointmentRejected(string)  {}
func (nopRecorder) PrescriptionIssued()         {}
func (nopRecorder) PrescriptionRejected(string) {}

// Registry holds the clinic state. Every mutation runs under one exclusive
// lock, so a gate sequence and the write that follows it are atomic. Reads
// return copies.
type Registry struct {
	mu           sync.RWMutex
	patients     map[string]identity.Patient // national ID -> patient
	patientOrder []string
	doctors      map[string]*identity.Doctor // license -> doctor
	doctorOrder  []string
	appointments []scheduling.Appointment
	histories    map[string]*clinical.History // national ID -> history

	logger zerolog.Logger
	rec    Recorder
	now    func() time.Time
}

// New returns an empty registry. rec may be nil.
func New(logger zerolog.Logger, rec Recorder) *Registry {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Registry{
		patients:  make(map[string]identity.Patient),
		doctors:   make(map[string]*identity.Doctor),
		histories: make(map[string]*clinical.History),
		logger:    logger.With().Str("component", "registry").Logger(),
		rec:       rec,
		now:       time.Now,
	}
}

// -- Registration --

// RegisterPatient adds p and creates its empty clinical history in the same
// step.
func (r *Registry) RegisterPatient(p identity.Patient) error {
	if p.ID() == "" {
		return fmt.Errorf("register patient: %w", clinicerr.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.patients[p.ID()]; exists {
		return fmt.Errorf("patient with id %s: %w", p.ID(), clinicerr.ErrDuplicateKey)
	}
	r.patients[p.ID()] = p
	r.patientOrder = append(r.patientOrder, p.ID())
	r.histories[p.ID()] = clinical.NewHistory(p)

	r.rec.PatientRegistered()
	r.logger.Debug().Str("patient_id", p.ID()).Msg("patient registered")
	return nil
}

// RegisterDoctor adds a copy of d; later changes to d are not seen by the
// registry.
func (r *Registry) RegisterDoctor(d *identity.Doctor) error {
	if d == nil || d.License() == "" {
		return fmt.Errorf("register doctor: %w", clinicerr.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.doctors[d.License()]; exists {
		return fmt.Errorf("doctor with license %s: %w", d.License(), clinicerr.ErrDuplicateKey)
	}
	r.doctors[d.License()] = d.Clone()
	r.doctorOrder = append(r.doctorOrder, d.License())

	r.rec.DoctorRegistered()
	r.logger.Debug().Str("license", d.License()).Int("specialties", len(d.Specialties())).Msg("doctor registered")
	return nil
}

// AddSpecialty appends s to the registered doctor with the given license.
func (r *Registry) AddSpecialty(license string, s identity.Specialty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[license]
	if !ok {
		return fmt.Errorf("no doctor with license %s: %w", license, clinicerr.ErrDoctorUnavailable)
	}
	if err := d.AddSpecialty(s); err != nil {
		return err
	}

	r.rec.SpecialtyAdded()
	r.logger.Debug().Str("license", license).Str("specialty", s.Name()).Msg("specialty added")
	return nil
}

// -- Scheduling --

// ScheduleAppointment books patientID with the doctor holding license for
// specialty at the given instant. The checks run in a fixed order and the
// first failure is returned:
//
//  1. the patient exists (ErrPatientNotFound)
//  2. the doctor exists (ErrDoctorUnavailable)
//  3. the doctor has no appointment at that exact instant (ErrSlotTaken)
//  4. the doctor offers specialty on that weekday (ErrDoctorUnavailable)
//
// Only when all pass is the appointment stored, in the global list and in the
// patient's history.
func (r *Registry) ScheduleAppointment(patientID, license, specialty string, at time.Time) (scheduling.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, err := r.scheduleLocked(patientID, license, specialty, at)
	if err != nil {
		r.rec.AppointmentRejected(clinicerr.Reason(err))
		r.logger.Info().
			Str("patient_id", patientID).
			Str("license", license).
			Str("specialty", specialty).
			Time("at", at).
			Str("reason", clinicerr.Reason(err)).
			Msg("appointment rejected")
		return scheduling.Appointment{}, err
	}

	r.rec.AppointmentScheduled()
	r.logger.Debug().
		Str("appointment_id", appt.ID().String()).
		Str("patient_id", patientID).
		Str("license", license).
		Time("at", at).
		Msg("appointment scheduled")
	return appt, nil
}

func (r *Registry) scheduleLocked(patientID, license, specialty string, at time.Time) (scheduling.Appointment, error) {
	patient, ok := r.patients[patientID]
	if !ok {
		return scheduling.Appointment{}, fmt.Errorf("no patient with id %s: %w", patientID, clinicerr.ErrPatientNotFound)
	}
	doctor, ok := r.doctors[license]
	if !ok {
		return scheduling.Appointment{}, fmt.Errorf("no doctor with license %s: %w", license, clinicerr.ErrDoctorUnavailable)
	}
	if r.slotTakenLocked(license, at) {
		return scheduling.Appointment{}, fmt.Errorf("doctor %s at %s: %w",
			license, at.Format(scheduling.DateTimeLayout), clinicerr.ErrSlotTaken)
	}
	day := scheduling.WeekdayName(at)
	if !doctor.OffersOn(specialty, day) {
		return scheduling.Appointment{}, fmt.Errorf("doctor %s does not offer %s on %s: %w",
			license, specialty, day, clinicerr.ErrDoctorUnavailable)
	}

	appt, err := scheduling.NewAppointment(patient, doctor, at, specialty)
	if err != nil {
		return scheduling.Appointment{}, err
	}
	r.appointments = append(r.appointments, appt)
	r.histories[patientID].AddAppointment(appt)
	return appt, nil
}

func (r *Registry) slotTakenLocked(license string, at time.Time) bool {
	for _, a := range r.appointments {
		if a.Occupies(license, at) {
			return true
		}
	}
	return false
}

// -- Prescriptions --

// IssuePrescription records a prescription in the patient's history. An
// empty list is rejected before any lookup; a list holding only blank names
// is rejected when the prescription is built. Both fail with
// ErrInvalidPrescription.
func (r *Registry) IssuePrescription(patientID, license string, medications []string) (medication.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rx, err := r.issueLocked(patientID, license, medications)
	if err != nil {
		r.rec.PrescriptionRejected(clinicerr.Reason(err))
		r.logger.Info().
			Str("patient_id", patientID).
			Str("license", license).
			Int("medications", len(medications)).
			Str("reason", clinicerr.Reason(err)).
			Msg("prescription rejected")
		return medication.Prescription{}, err
	}

	r.rec.PrescriptionIssued()
	r.logger.Debug().
		Str("prescription_id", rx.ID().String()).
		Str("patient_id", patientID).
		Str("license", license).
		Msg("prescription issued")
	return rx, nil
}

func (r *Registry) issueLocked(patientID, license string, medications []string) (medication.Prescription, error) {
	if len(medications) == 0 {
		return medication.Prescription{}, fmt.Errorf("at least one medication is required: %w", clinicerr.ErrInvalidPrescription)
	}
	patient, ok := r.patients[patientID]
	if !ok {
		return medication.Prescription{}, fmt.Errorf("no patient with id %s: %w", patientID, clinicerr.ErrPatientNotFound)
	}
	doctor, ok := r.doctors[license]
	if !ok {
		return medication.Prescription{}, fmt.Errorf("no doctor with license %s: %w", license, clinicerr.ErrDoctorUnavailable)
	}

	rx, err := medication.NewPrescription(patient, doctor, medications, r.now())
	if err != nil {
		return medication.Prescription{}, err
	}
	r.histories[patientID].AddPrescription(rx)
	return rx, nil
}

// -- Queries --

// Patients returns every patient in registration order.
func (r *Registry) Patients() []identity.Patient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]identity.Patient, 0, len(r.patientOrder))
	for _, id := range r.patientOrder {
		out = append(out, r.patients[id])
	}
	return out
}

// Patient looks up a patient by national ID.
func (r *Registry) Patient(id string) (identity.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return identity.Patient{}, fmt.Errorf("no patient with id %s: %w", id, clinicerr.ErrPatientNotFound)
	}
	return p, nil
}

// Doctors returns copies of every doctor in registration order.
func (r *Registry) Doctors() []*identity.Doctor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*identity.Doctor, 0, len(r.doctorOrder))
	for _, license := range r.doctorOrder {
		out = append(out, r.doctors[license].Clone())
	}
	return out
}

// Doctor returns a copy of the doctor holding license.
func (r *Registry) Doctor(license string) (*identity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[license]
	if !ok {
		return nil, fmt.Errorf("no doctor with license %s: %w", license, clinicerr.ErrDoctorUnavailable)
	}
	return d.Clone(), nil
}

// Appointments returns every appointment in booking order.
func (r *Registry) Appointments() []scheduling.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scheduling.Appointment, len(r.appointments))
	copy(out, r.appointments)
	return out
}

// History returns a snapshot of the patient's clinical history.
func (r *Registry) History(patientID string) (*clinical.History, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.patients[patientID]; !ok {
		return nil, fmt.Errorf("no patient with id %s: %w", patientID, clinicerr.ErrPatientNotFound)
	}
	return r.histories[patientID].Snapshot(), nil
}

// Counts reports the size of each collection.
type Counts struct {
	Patients     int
	Doctors      int
	Appointments int
	Histories    int
}

func (r *Registry) Counts() Counts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Counts{
		Patients:     len(r.patients),
		Doctors:      len(r.doctors),
		Appointments: len(r.appointments),
		Histories:    len(r.histories),
	}
}
