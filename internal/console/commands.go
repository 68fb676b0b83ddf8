package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ehr/clinic/internal/domain/clinicerr"
	"github.com/ehr/clinic/internal/domain/identity"
	"github.com/ehr/clinic/internal/domain/scheduling"
	"github.com/ehr/clinic/pkg/pagination"
)

// Commands return an error only when input ends or cannot be read. Domain
// failures are printed and swallowed.

// report prints a domain failure and logs its detail.
func (c *Console) report(prefix string, err error) {
	c.logger.Debug().Err(err).Str("reason", clinicerr.Reason(err)).Msg(prefix)
	c.printf("\n%s: %s\n", prefix, Message(err))
}

// -- Patients --

func (c *Console) addPatient() error {
	c.println("\n--- Agregar Paciente ---")
	name, err := c.prompt("Nombre completo: ")
	if err != nil {
		return err
	}
	id, err := c.prompt("DNI: ")
	if err != nil {
		return err
	}
	born, err := c.prompt("Fecha de nacimiento (dd/mm/aaaa): ")
	if err != nil {
		return err
	}

	birthDate, err := identity.ParseDate(born, c.loc)
	if err != nil {
		c.println("\nError: El formato de fecha debe ser dd/mm/aaaa")
		return nil
	}
	p, err := identity.NewPatient(name, id, birthDate)
	if err == nil {
		err = c.reg.RegisterPatient(p)
	}
	if err != nil {
		c.report("Error al agregar paciente", err)
		return nil
	}
	c.printf("\nPaciente agregado exitosamente: %s\n", p)
	return nil
}

// -- Doctors --

func (c *Console) addDoctor() error {
	c.println("\n--- Agregar Médico ---")
	name, err := c.prompt("Nombre completo: ")
	if err != nil {
		return err
	}
	license, err := c.prompt("Matrícula: ")
	if err != nil {
		return err
	}

	var specialties []identity.Specialty
	for {
		answer, err := c.prompt("\n¿Agregar especialidad? (s/n): ")
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "s" {
			break
		}
		s, err := c.readSpecialty()
		if err != nil {
			if errors.Is(err, clinicerr.ErrInvalidArgument) {
				c.report("Especialidad descartada", err)
				continue
			}
			return err
		}
		specialties = append(specialties, s)
	}

	d, err := identity.NewDoctor(name, license, specialties...)
	if err == nil {
		err = c.reg.RegisterDoctor(d)
	}
	if err != nil {
		c.report("Error al agregar médico", err)
		return nil
	}
	c.printf("\nMédico agregado exitosamente: %s\n", d)
	return nil
}

// readSpecialty asks for a specialty name and its days.
func (c *Console) readSpecialty() (identity.Specialty, error) {
	name, err := c.prompt("Tipo de especialidad: ")
	if err != nil {
		return identity.Specialty{}, err
	}
	days, err := c.prompt("Días de atención (separados por coma): ")
	if err != nil {
		return identity.Specialty{}, err
	}
	return identity.NewSpecialty(name, identity.SplitDays(days))
}

func (c *Console) addSpecialty() error {
	c.println("\n--- Agregar Especialidad a Médico ---")
	license, err := c.prompt("Matrícula del médico: ")
	if err != nil {
		return err
	}
	if _, err := c.reg.Doctor(license); err != nil {
		c.report("Error al agregar especialidad", err)
		return nil
	}

	s, err := c.readSpecialty()
	if err != nil && !errors.Is(err, clinicerr.ErrInvalidArgument) {
		return err
	}
	if err == nil {
		err = c.reg.AddSpecialty(license, s)
	}
	if err != nil {
		c.report("Error al agregar especialidad", err)
		return nil
	}
	d, err := c.reg.Doctor(license)
	if err != nil {
		c.report("Error al agregar especialidad", err)
		return nil
	}
	c.printf("\nEspecialidad agregada exitosamente al médico: %s\n", d)
	return nil
}

// -- Appointments --

func (c *Console) scheduleAppointment() error {
	c.println("\n--- Agendar Turno ---")
	fields := make([]string, 0, 5)
	for _, label := range []string{
		"DNI del paciente: ",
		"Matrícula del médico: ",
		"Especialidad: ",
		"Fecha del turno (dd/mm/aaaa): ",
		"Horario del turno (hora:minutos): ",
	} {
		v, err := c.prompt(label)
		if err != nil {
			return err
		}
		fields = append(fields, v)
	}
	patientID, license, specialty := fields[0], fields[1], fields[2]

	at, err := scheduling.ParseDateTime(fields[3]+" "+fields[4], c.loc)
	if err != nil {
		c.println("\nFormato incorrecto. Use dd/mm/aaaa y hora:minutos")
		return nil
	}
	appt, err := c.reg.ScheduleAppointment(patientID, license, specialty, at)
	if err != nil {
		c.report("Error al agendar turno", err)
		return nil
	}
	c.printf("\nTurno agendado exitosamente: %s\n", appt)
	return nil
}

// -- Prescriptions --

func (c *Console) issuePrescription() error {
	c.println("\n--- Emitir Receta ---")
	patientID, err := c.prompt("DNI del paciente: ")
	if err != nil {
		return err
	}
	license, err := c.prompt("Matrícula del médico: ")
	if err != nil {
		return err
	}

	var meds []string
	for {
		med, err := c.prompt("Medicamento (ENTER para terminar): ")
		if err != nil {
			return err
		}
		if med == "" {
			if len(meds) == 0 {
				c.println("Debe ingresar al menos un medicamento.")
				continue
			}
			break
		}
		meds = append(meds, med)
	}

	if _, err := c.reg.IssuePrescription(patientID, license, meds); err != nil {
		c.report("Error al emitir receta", err)
		return nil
	}
	c.println("\nReceta emitida exitosamente")
	return nil
}

// -- Queries --

func (c *Console) showHistory() error {
	c.println("\n--- Ver Historia Clínica ---")
	patientID, err := c.prompt("DNI del paciente: ")
	if err != nil {
		return err
	}
	h, err := c.reg.History(patientID)
	if err != nil {
		c.report("Error", err)
		return nil
	}
	c.printf("\n%s\n", h)
	return nil
}

func (c *Console) listAppointments() error {
	c.println("\n--- Todos los Turnos ---")
	return listPaged(c, c.reg.Appointments(), "No hay turnos agendados", scheduling.Appointment.String)
}

func (c *Console) listPatients() error {
	c.println("\n--- Todos los Pacientes ---")
	return listPaged(c, c.reg.Patients(), "No hay pacientes registrados", identity.Patient.String)
}

func (c *Console) listDoctors() error {
	c.println("\n--- Todos los Médicos ---")
	today := scheduling.WeekdayName(c.now().In(c.loc))
	return listPaged(c, c.reg.Doctors(), "No hay médicos registrados", func(d *identity.Doctor) string {
		if s, ok := d.SpecialtyForDay(today); ok {
			return fmt.Sprintf("%s\n   Hoy (%s): %s", d, today, s.Name())
		}
		return fmt.Sprintf("%s\n   Hoy (%s): no atiende", d, today)
	})
}

// listPaged prints items numbered from 1, one page at a time. Between pages
// the user presses ENTER for the next page, a for the previous one, or q to
// stop. ENTER on the last page also stops.
func listPaged[T any](c *Console, items []T, empty string, render func(T) string) error {
	if len(items) == 0 {
		c.println(empty)
		return nil
	}
	total := len(items)
	p := pagination.New(c.pageSize, 0)
	for {
		for i, it := range pagination.Slice(items, p) {
			c.printf("%d. %s\n", p.Offset+i+1, render(it))
		}
		if !p.HasNext(total) && !p.HasPrevious() {
			return nil
		}
		answer, err := c.prompt(pagePrompt(p, total))
		if err != nil {
			return err
		}
		switch {
		case strings.EqualFold(answer, "q"):
			return nil
		case strings.EqualFold(answer, "a") && p.HasPrevious():
			p.Offset = p.PreviousOffset()
		case p.HasNext(total):
			p.Offset = p.NextOffset()
		default:
			return nil
		}
	}
}

func pagePrompt(p pagination.Params, total int) string {
	var opts []string
	if p.HasNext(total) {
		opts = append(opts, "ENTER para continuar")
	}
	if p.HasPrevious() {
		opts = append(opts, "a para anterior")
	}
	opts = append(opts, "q para volver")
	return fmt.Sprintf("-- Página %d de %d. %s: ", p.Page(), p.Pages(total), strings.Join(opts, ", "))
}

func (c *Console) showStats() error {
	c.println("\n--- Estadísticas ---")
	counts := c.reg.Counts()
	c.printf("Pacientes: %d\n", counts.Patients)
	c.printf("Médicos: %d\n", counts.Doctors)
	c.printf("Turnos: %d\n", counts.Appointments)
	c.printf("Historias clínicas: %d\n", counts.Histories)

	if c.stats == nil {
		return nil
	}
	samples, err := c.stats.Snapshot()
	if err != nil {
		c.logger.Warn().Err(err).Msg("gather metrics")
		c.println("No se pudieron leer las métricas")
		return nil
	}
	if len(samples) == 0 {
		c.println("Sin actividad registrada")
		return nil
	}
	c.println("\nContadores:")
	for _, s := range samples {
		c.printf("  %s%s %g\n", s.Name, s.Labels, s.Value)
	}
	return nil
}
