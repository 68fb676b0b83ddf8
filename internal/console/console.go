// Package console is the interactive text front end of the clinic. It reads
// menu choices and form fields line by line, calls the registry, and prints
// results and localized error messages.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/clinic/internal/domain/registry"
	"github.com/ehr/clinic/internal/platform/metrics"
	"github.com/ehr/clinic/pkg/pagination"
)

// StatsSource supplies the counters shown by the statistics option.
type StatsSource interface {
	Snapshot() ([]metrics.Sample, error)
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the logger used for command tracing and recovered panics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Console) { c.logger = l.With().Str("component", "console").Logger() }
}

// WithLocation sets the zone typed dates are read in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Console) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithPageSize sets the number of rows per listing page.
func WithPageSize(n int) Option {
	return func(c *Console) { c.pageSize = pagination.New(n, 0).Limit }
}

// WithStats enables counter output in the statistics option.
func WithStats(s StatsSource) Option {
	return func(c *Console) { c.stats = s }
}

// WithClock overrides the clock used by the doctor listing.
func WithClock(now func() time.Time) Option {
	return func(c *Console) { c.now = now }
}

type command struct {
	label string
	run   func() error
}

// Console runs the menu loop against one registry.
type Console struct {
	reg      *registry.Registry
	in       *bufio.Scanner
	out      io.Writer
	loc      *time.Location
	pageSize int
	stats    StatsSource
	logger   zerolog.Logger
	now      func() time.Time

	keys     []string
	commands map[string]command
}

// New builds a console reading from in and writing to out.
func New(reg *registry.Registry, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		reg:      reg,
		in:       bufio.NewScanner(in),
		out:      out,
		loc:      time.Local,
		pageSize: pagination.DefaultLimit,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.keys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "0"}
	c.commands = map[string]command{
		"1":  {"Agregar paciente", c.addPatient},
		"2":  {"Agregar médico", c.addDoctor},
		"3":  {"Agendar turno", c.scheduleAppointment},
		"4":  {"Agregar especialidad", c.addSpecialty},
		"5":  {"Emitir receta", c.issuePrescription},
		"6":  {"Ver historia clínica", c.showHistory},
		"7":  {"Ver todos los turnos", c.listAppointments},
		"8":  {"Ver todos los pacientes", c.listPatients},
		"9":  {"Ver todos los médicos", c.listDoctors},
		"10": {"Ver estadísticas", c.showStats},
		"0":  {"Salir", nil},
	}
	return c
}

// Run shows the menu until the user exits or input ends.
func (c *Console) Run() error {
	for {
		c.printMenu()
		choice, err := c.prompt("\nSeleccione una opción: ")
		if err != nil {
			return c.finish(err)
		}
		if _, convErr := strconv.Atoi(choice); convErr != nil {
			c.println("\nDebe ingresar un número (0-10). Intente nuevamente.")
			continue
		}
		if choice == "0" {
			c.println("\n¡Hasta luego!")
			return nil
		}
		cmd, ok := c.commands[choice]
		if !ok {
			c.println("\nOpción inválida. Intente nuevamente.")
			continue
		}
		if err := c.dispatch(choice, cmd); err != nil {
			return c.finish(err)
		}
	}
}

// finish turns end of input into a clean exit.
func (c *Console) finish(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) printMenu() {
	c.println("\n--- Menú Clínica ---")
	for _, k := range c.keys {
		c.printf("%s) %s\n", k, c.commands[k].label)
	}
}

// dispatch runs one command. A panic inside the command is logged and
// reported, and the menu loop continues.
func (c *Console) dispatch(key string, cmd command) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			var stack [4096]byte
			n := runtime.Stack(stack[:], false)

			c.logger.Error().
				Str("option", key).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(stack[:n])).
				Msg("panic recovered")

			c.println("\nError inesperado. La operación fue cancelada.")
			err = nil
		}
	}()

	err = cmd.run()

	evt := c.logger.Debug()
	if err != nil {
		evt = c.logger.Warn().Err(err)
	}
	evt.
		Str("option", key).
		Str("command", cmd.label).
		Dur("latency", time.Since(start)).
		Msg("command")
	return err
}

// -- I/O helpers --

// prompt prints label and returns the next input line, trimmed. It returns
// io.EOF when input is exhausted.
func (c *Console) prompt(label string) (string, error) {
	c.printf("%s", label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
