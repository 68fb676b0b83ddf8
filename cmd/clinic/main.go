package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/clinic/internal/config"
	"github.com/ehr/clinic/internal/console"
	"github.com/ehr/clinic/internal/domain/registry"
	"github.com/ehr/clinic/internal/platform/logging"
	"github.com/ehr/clinic/internal/platform/metrics"
	"github.com/ehr/clinic/internal/platform/seed"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "clinic",
		Short:        "In-memory clinic management console",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd)
		},
	}

	rootCmd.AddCommand(consoleCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start the interactive clinic menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd)
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Work with YAML seed files",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a seed file into an empty registry and report what it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			env, err := setup(cmd)
			if err != nil {
				return err
			}
			res, err := seed.LoadFile(file, env.reg, env.loc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed ok: patients=%d doctors=%d appointments=%d prescriptions=%d\n",
				res.Patients, res.Doctors, res.Appointments, res.Prescriptions)
			return nil
		},
	}
	validateCmd.Flags().String("file", "", "path to the seed YAML file")
	_ = validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(validateCmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "clinic", version)
		},
	}
}

// environment is the wired set of services one command runs against.
type environment struct {
	cfg     *config.Config
	logger  zerolog.Logger
	metrics *metrics.Metrics
	reg     *registry.Registry
	loc     *time.Location
}

func setup(cmd *cobra.Command) (*environment, error) {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Logger
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.ResolvedLogFormat())
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Registry
	m := metrics.New()
	reg := registry.New(logger, m)

	return &environment{cfg: cfg, logger: logger, metrics: m, reg: reg, loc: loc}, nil
}

func runConsole(cmd *cobra.Command) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}

	if env.cfg.SeedFile != "" {
		res, err := seed.LoadFile(env.cfg.SeedFile, env.reg, env.loc)
		if err != nil {
			return err
		}
		env.logger.Info().
			Str("file", env.cfg.SeedFile).
			Int("patients", res.Patients).
			Int("doctors", res.Doctors).
			Int("appointments", res.Appointments).
			Int("prescriptions", res.Prescriptions).
			Msg("seed loaded")
	}

	c := console.New(env.reg, cmd.InOrStdin(), cmd.OutOrStdout(),
		console.WithLogger(env.logger),
		console.WithLocation(env.loc),
		console.WithPageSize(env.cfg.PageSize),
		console.WithStats(env.metrics),
	)
	return c.Run()
}
