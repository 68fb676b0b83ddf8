package console

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/clinic/internal/domain/clinicerr"
	"github.com/ehr/clinic/internal/domain/identity"
	"github.com/ehr/clinic/internal/domain/registry"
	"github.com/ehr/clinic/internal/platform/metrics"
)

// ---- helpers ----

func input(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func run(t *testing.T, reg *registry.Registry, in string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithLocation(time.UTC)}, opts...)
	c := New(reg, strings.NewReader(in), &out, opts...)
	require.NoError(t, c.Run())
	return out.String()
}

// seeded returns a registry with patient 12345678 and doctor 54321, who sees
// Pediatría on lunes and miércoles.
func seeded(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(zerolog.Nop(), nil)

	p, err := identity.NewPatient("Juan Pérez", "12345678", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, reg.RegisterPatient(p))

	s, err := identity.NewSpecialty("Pediatría", []string{"lunes", "miércoles"})
	require.NoError(t, err)
	d, err := identity.NewDoctor("Dr. García", "54321", s)
	require.NoError(t, err)
	require.NoError(t, reg.RegisterDoctor(d))
	return reg
}

// ---- menu ----

func TestRun_Exit(t *testing.T) {
	out := run(t, registry.New(zerolog.Nop(), nil), input("0"))

	assert.Contains(t, out, "--- Menú Clínica ---")
	assert.Contains(t, out, "10) Ver estadísticas")
	assert.Contains(t, out, "¡Hasta luego!")
}

func TestRun_EndOfInputExitsCleanly(t *testing.T) {
	out := run(t, registry.New(zerolog.Nop(), nil), "")
	assert.NotContains(t, out, "¡Hasta luego!")
}

func TestRun_EndOfInputInsideCommand(t *testing.T) {
	out := run(t, registry.New(zerolog.Nop(), nil), input("1", "Juan"))
	assert.Contains(t, out, "DNI: ")
	assert.NotContains(t, out, "Paciente agregado")
}

func TestRun_InvalidChoices(t *testing.T) {
	out := run(t, registry.New(zerolog.Nop(), nil), input("abc", "", "42", "0"))

	assert.Equal(t, 2, strings.Count(out, "Debe ingresar un número (0-10)"))
	assert.Contains(t, out, "Opción inválida. Intente nuevamente.")
	assert.Contains(t, out, "¡Hasta luego!")
}

func TestRun_RecoversFromPanic(t *testing.T) {
	var logs bytes.Buffer
	var out bytes.Buffer
	reg := registry.New(zerolog.Nop(), nil)
	c := New(reg, strings.NewReader(input("8", "0")), &out, WithLogger(zerolog.New(&logs)))
	c.commands["8"] = command{label: "boom", run: func() error { panic("boom") }}

	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Error inesperado. La operación fue cancelada.")
	assert.Contains(t, out.String(), "¡Hasta luego!")
	assert.Contains(t, logs.String(), `"message":"panic recovered"`)
	assert.Contains(t, logs.String(), `"panic":"boom"`)
	assert.Contains(t, logs.String(), `"component":"console"`)
}

// ---- patients ----

func TestAddPatient(t *testing.T) {
	reg := registry.New(zerolog.Nop(), nil)
	out := run(t, reg, input("1", "Juan Pérez", "12345678", "01/01/1990", "0"))

	assert.Contains(t, out, "Paciente agregado exitosamente: Juan Pérez, 12345678, 01/01/1990")
	require.Len(t, reg.Patients(), 1)
}

func TestAddPatient_BadDate(t *testing.T) {
	reg := registry.New(zerolog.Nop(), nil)
	out := run(t, reg, input("1", "Juan Pérez", "12345678", "1990-01-01", "0"))

	assert.Contains(t, out, "Error: El formato de fecha debe ser dd/mm/aaaa")
	assert.Empty(t, reg.Patients())
}

func TestAddPatient_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"duplicate id", []string{"1", "Otro", "12345678", "02/02/1992"}, "ya existe un registro con ese identificador"},
		{"blank name", []string{"1", "  ", "999", "02/02/1992"}, "datos inválidos"},
		{"year out of range", []string{"1", "Viejo", "999", "02/02/1850"}, "datos inválidos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := seeded(t)
			out := run(t, reg, input(append(tt.lines, "0")...))
			assert.Contains(t, out, "Error al agregar paciente: "+tt.want)
			assert.Len(t, reg.Patients(), 1)
		})
	}
}

// ---- doctors and specialties ----

func TestAddDoctor_WithSpecialties(t *testing.T) {
	reg := registry.New(zerolog.Nop(), nil)
	out := run(t, reg, input(
		"2", "Dr. García", "54321",
		"s", "Pediatría", "Lunes, MIÉRCOLES",
		"S", "Clínica", "viernes",
		"n",
		"0",
	))

	assert.Contains(t, out, "Médico agregado exitosamente: Dr. García, 54321, [Pediatría (Días: lunes, miércoles), Clínica (Días: viernes)]")
	d, err := reg.Doctor("54321")
	require.NoError(t, err)
	assert.Len(t, d.Specialties(), 2)
}

func TestAddDoctor_InvalidDayIsDiscarded(t *testing.T) {
	reg := registry.New(zerolog.Nop(), nil)
	out := run(t, reg, input("2", "Dr. García", "54321", "s", "Pediatría", "funday", "n", "0"))

	assert.Contains(t, out, "Especialidad descartada: datos inválidos")
	d, err := reg.Doctor("54321")
	require.NoError(t, err)
	assert.Empty(t, d.Specialties())
}

func TestAddDoctor_DuplicateSpecialty(t *testing.T) {
	reg := registry.New(zerolog.Nop(), nil)
	out := run(t, reg, input(
		"2", "Dr. García", "54321",
		"s", "Pediatría", "lunes",
		"s", "Pediatría", "martes",
		"n", "0",
	))

	assert.Contains(t, out, "Error al agregar médico: el médico ya tiene esa especialidad")
	assert.Empty(t, reg.Doctors())
}

func TestAddDoctor_DuplicateLicense(t *testing.T) {
	reg := seeded(t)
	out := run(t, reg, input("2", "Otro", "54321", "n", "0"))

	assert.Contains(t, out, "Error al agregar médico: ya existe un registro con ese identificador")
	assert.Len(t, reg.Doctors(), 1)
}

func TestAddSpecialty(t *testing.T) {
	reg := seeded(t)
	out := run(t, reg, input("4", "54321", "Clínica", "martes", "0"))

	assert.Contains(t, out, "Especialidad agregada exitosamente al médico: Dr. García, 54321, [Pediatría (Días: lunes, miércoles), Clínica (Días: martes)]")
}

func TestAddSpecialty_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"unknown doctor", []string{"4", "99999"}, "médico no disponible"},
		{"duplicate", []string{"4", "54321", "Pediatría", "viernes"}, "el médico ya tiene esa especialidad"},
		{"no days", []string{"4", "54321", "Clínica", " , "}, "datos inválidos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := seeded(t)
			out := run(t, reg, input(append(tt.lines, "0")...))
			assert.Contains(t, out, "Error al agregar especialidad: "+tt.want)
			d, err := reg.Doctor("54321")
			require.NoError(t, err)
			assert.Len(t, d.Specialties(), 1)
		})
	}
}

// ---- appointments ----

func TestScheduleAppointment(t *testing.T) {
	reg := seeded(t)
	// 08/12/2025 is a Monday.
	out := run(t, reg, input("3", "12345678", "54321", "Pediatría", "08/12/2025", "14:30", "0"))

	assert.Contains(t, out, "Turno agendado exitosamente: Turno(")
	assert.Contains(t, out, "08/12/2025 14:30")
	require.Len(t, reg.Appointments(), 1)
}

func TestScheduleAppointment_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"unknown patient", []string{"3", "000", "54321", "Pediatría", "08/12/2025", "14:30"}, "paciente no encontrado"},
		{"unknown doctor", []string{"3", "12345678", "000", "Pediatría", "08/12/2025", "14:30"}, "médico no disponible"},
		{"wrong weekday", []string{"3", "12345678", "54321", "Pediatría", "09/12/2025", "14:30"}, "médico no disponible"},
		{"wrong specialty", []string{"3", "12345678", "54321", "Cardiología", "08/12/2025", "14:30"}, "médico no disponible"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := seeded(t)
			out := run(t, reg, input(append(tt.lines, "0")...))
			assert.Contains(t, out, "Error al agendar turno: "+tt.want)
			assert.Empty(t, reg.Appointments())
		})
	}
}

func TestScheduleAppointment_SlotTaken(t *testing.T) {
	reg := seeded(t)
	booking := []string{"3", "12345678", "54321", "Pediatría", "10/12/2025", "09:00"}
	out := run(t, reg, input(append(append(booking, booking...), "0")...))

	assert.Contains(t, out, "Turno agendado exitosamente")
	assert.Contains(t, out, "Error al agendar turno: el médico ya tiene un turno en ese horario")
	assert.Len(t, reg.Appointments(), 1)
}

func TestScheduleAppointment_BadFormat(t *testing.T) {
	reg := seeded(t)
	out := run(t, reg, input("3", "12345678", "54321", "Pediatría", "08/12/2025", "2:30pm", "0"))

	assert.Contains(t, out, "Formato incorrecto. Use dd/mm/aaaa y hora:minutos")
	assert.Empty(t, reg.Appointments())
}

// ---- prescriptions and history ----

func TestIssuePrescription_InsistsOnOneMedication(t *testing.T) {
	reg := seeded(t)
	out := run(t, reg, input("5", "12345678", "54321", "", "Paracetamol", "Ibuprofeno", "", "0"))

	assert.Contains(t, out, "Debe ingresar al menos un medicamento.")
	assert.Contains(t, out, "Receta emitida exitosamente")

	h, err := reg.History("12345678")
	require.NoError(t, err)
	require.Len(t, h.Prescriptions(), 1)
	assert.Equal(t, []string{"Paracetamol", "Ibuprofeno"}, h.Prescriptions()[0].Medications())
}

func TestIssuePrescription_Rejected(t *testing.T) {
	reg := seeded(t)
	out := run(t, reg, input(
		"5", "000", "54321", "Paracetamol", "",
		"5", "12345678", "000", "Paracetamol", "",
		"0",
	))

	assert.Contains(t, out, "Error al emitir receta: paciente no encontrado")
	assert.Contains(t, out, "Error al emitir receta: médico no disponible")
}

func TestShowHistory(t *testing.T) {
	reg := seeded(t)
	out := run(t, reg, input("6", "12345678", "6", "000", "0"))

	assert.Contains(t, out, "HistoriaClinica(Paciente(Juan Pérez, 12345678, 01/01/1990),\n  []\n)")
	assert.Contains(t, out, "Error: paciente no encontrado")
}

// ---- listings ----

func TestListings_Empty(t *testing.T) {
	out := run(t, registry.New(zerolog.Nop(), nil), input("7", "8", "9", "0"))

	assert.Contains(t, out, "No hay turnos agendados")
	assert.Contains(t, out, "No hay pacientes registrados")
	assert.Contains(t, out, "No hay médicos registrados")
}

func threePatients(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(zerolog.Nop(), nil)
	for i := 1; i <= 3; i++ {
		p, err := identity.NewPatient(fmt.Sprintf("Paciente %d", i), fmt.Sprint(i), time.Date(1980, 1, i, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, reg.RegisterPatient(p))
	}
	return reg
}

func TestListPatients_Paged(t *testing.T) {
	out := run(t, threePatients(t), input("8", "", "", "0"), WithPageSize(2))

	assert.Contains(t, out, "1. Paciente 1, 1, 01/01/1980")
	assert.Contains(t, out, "-- Página 1 de 2. ENTER para continuar, q para volver: ")
	assert.Contains(t, out, "3. Paciente 3, 3, 03/01/1980")
	assert.Contains(t, out, "-- Página 2 de 2. a para anterior, q para volver: ")
	assert.Contains(t, out, "¡Hasta luego!")
}

func TestListPatients_PreviousPage(t *testing.T) {
	out := run(t, threePatients(t), input("8", "", "a", "q", "0"), WithPageSize(2))

	assert.Equal(t, 2, strings.Count(out, "1. Paciente 1, 1, 01/01/1980"))
	assert.Equal(t, 1, strings.Count(out, "3. Paciente 3, 3, 03/01/1980"))
	assert.Contains(t, out, "¡Hasta luego!")
}

func TestListPatients_PreviousOnFirstPageAdvances(t *testing.T) {
	out := run(t, threePatients(t), input("8", "a", "q", "0"), WithPageSize(2))

	assert.Contains(t, out, "3. Paciente 3")
	assert.Equal(t, 1, strings.Count(out, "1. Paciente 1,"))
}

func TestListPatients_SinglePageHasNoPrompt(t *testing.T) {
	out := run(t, threePatients(t), input("8", "0"), WithPageSize(5))

	assert.Contains(t, out, "3. Paciente 3")
	assert.NotContains(t, out, "-- Página")
	assert.Contains(t, out, "¡Hasta luego!")
}

func TestListPatients_StopPaging(t *testing.T) {
	out := run(t, threePatients(t), input("8", "q", "0"), WithPageSize(2))

	assert.Contains(t, out, "2. Paciente 2")
	assert.NotContains(t, out, "3. Paciente 3")
}

func TestListDoctors_SpecialtyForToday(t *testing.T) {
	monday := func() time.Time { return time.Date(2025, 12, 8, 10, 0, 0, 0, time.UTC) }
	tuesday := func() time.Time { return time.Date(2025, 12, 9, 10, 0, 0, 0, time.UTC) }

	out := run(t, seeded(t), input("9", "0"), WithClock(monday))
	assert.Contains(t, out, "1. Dr. García, 54321, [Pediatría (Días: lunes, miércoles)]")
	assert.Contains(t, out, "Hoy (lunes): Pediatría")

	out = run(t, seeded(t), input("9", "0"), WithClock(tuesday))
	assert.Contains(t, out, "Hoy (martes): no atiende")
}

func TestListAppointments(t *testing.T) {
	reg := seeded(t)
	out := run(t, reg, input("3", "12345678", "54321", "Pediatría", "08/12/2025", "14:30", "7", "0"))

	assert.Contains(t, out, "1. Turno(")
}

// ---- statistics ----

type failingStats struct{}

func (failingStats) Snapshot() ([]metrics.Sample, error) { return nil, errors.New("gather failed") }

func TestShowStats(t *testing.T) {
	m := metrics.New()
	reg := registry.New(zerolog.Nop(), m)
	out := run(t, reg, input(
		"1", "Juan Pérez", "12345678", "01/01/1990",
		"3", "000", "1", "X", "08/12/2025", "10:00",
		"10", "0",
	), WithStats(m))

	assert.Contains(t, out, "Pacientes: 1")
	assert.Contains(t, out, "Médicos: 0")
	assert.Contains(t, out, "Historias clínicas: 1")
	assert.Contains(t, out, "clinic_patients_registered_total 1")
	assert.Contains(t, out, "clinic_appointments_rejected_total{reason=patient_not_found} 1")
}

func TestShowStats_NoActivity(t *testing.T) {
	m := metrics.New()
	out := run(t, registry.New(zerolog.Nop(), m), input("10", "0"), WithStats(m))
	assert.Contains(t, out, "Sin actividad registrada")
}

func TestShowStats_GatherError(t *testing.T) {
	out := run(t, registry.New(zerolog.Nop(), nil), input("10", "0"), WithStats(failingStats{}))
	assert.Contains(t, out, "Pacientes: 0")
	assert.Contains(t, out, "No se pudieron leer las métricas")
}

// ---- messages ----

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("x: %w", clinicerr.ErrSlotTaken), "el médico ya tiene un turno en ese horario"},
		{clinicerr.ErrInvalidPrescription, "receta inválida, debe incluir al menos un medicamento"},
		{errors.New("other"), "error inesperado"},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
