// Package metrics counts clinic registry outcomes with Prometheus counters.
// Counters live on a private registry so several clinics (or tests) can run
// in one process.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "clinic"

// Metrics holds the registry counters.
type Metrics struct {
	reg *prometheus.Registry

	PatientsRegistered    prometheus.Counter
	DoctorsRegistered     prometheus.Counter
	SpecialtiesAdded      prometheus.Counter
	AppointmentsScheduled prometheus.Counter
	AppointmentsRejected  *prometheus.CounterVec
	PrescriptionsIssued   prometheus.Counter
	PrescriptionsRejected *prometheus.CounterVec
}

// New creates and registers all counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		PatientsRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patients_registered_total",
			Help:      "Patients registered.",
		}),
		DoctorsRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "doctors_registered_total",
			Help:      "Doctors registered.",
		}),
		SpecialtiesAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "specialties_added_total",
			Help:      "Specialties added to already registered doctors.",
		}),
		AppointmentsScheduled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_scheduled_total",
			Help:      "Appointments accepted by the registry.",
		}),
		AppointmentsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_rejected_total",
			Help:      "Appointment requests rejected, by reason.",
		}, []string{"reason"}),
		PrescriptionsIssued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prescriptions_issued_total",
			Help:      "Prescriptions issued.",
		}),
		PrescriptionsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prescriptions_rejected_total",
			Help:      "Prescription requests rejected, by reason.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) PatientRegistered()    { m.PatientsRegistered.Inc() }
func (m *Metrics) DoctorRegistered()     { m.DoctorsRegistered.Inc() }
func (m *Metrics) SpecialtyAdded()       { m.SpecialtiesAdded.Inc() }
func (m *Metrics) AppointmentScheduled() { m.AppointmentsScheduled.Inc() }
func (m *Metrics) PrescriptionIssued()   { m.PrescriptionsIssued.Inc() }

func (m *Metrics) AppointmentRejected(reason string) {
	m.AppointmentsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) PrescriptionRejected(reason string) {
	m.PrescriptionsRejected.WithLabelValues(reason).Inc()
}

// Sample is one gathered counter value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Snapshot gathers every counter with a non-zero value, sorted by name and
// labels.
func (m *Metrics) Snapshot() ([]Sample, error) {
	families, err := m.reg.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			v := metric.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			out = append(out, Sample{Name: fam.GetName(), Labels: formatLabels(metric.GetLabel()), Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.GetName() + "=" + p.GetValue()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
