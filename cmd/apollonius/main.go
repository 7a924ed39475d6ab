// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Command apollonius computes vertices, contacts and derived volumes of the
// additively weighted Voronoi diagram of balls read from stdin.
package main

import (
	"fmt"
	"os"

	"github.com/2dChan/apollonius/contacts"
	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/textio"
	"github.com/2dChan/apollonius/triangulation"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type contactsConfig struct {
	Probe       float64 `toml:"probe"`
	Step        float64 `toml:"step"`
	Projections int     `toml:"projections"`
	SIHDepth    int     `toml:"sih_depth"`
}

type config struct {
	Eps           float64        `toml:"eps"`
	LogLevel      string         `toml:"log_level"`
	Workers       int            `toml:"workers"`
	InitRadius    float64        `toml:"init_radius"`
	ExcludeHidden bool           `toml:"exclude_hidden"`
	Contacts      contactsConfig `toml:"contacts"`
}

func defaultConfig() config {
	return config{
		Eps:        float64(geom.DefaultTolerance),
		LogLevel:   logrus.InfoLevel.String(),
		Workers:    1,
		InitRadius: triangulation.DefaultInitRadius,
		Contacts: contactsConfig{
			Probe:       contacts.DefaultProbe,
			Step:        contacts.DefaultStep,
			Projections: contacts.DefaultProjections,
			SIHDepth:    contacts.DefaultSIHDepth,
		},
	}
}

// app carries the configuration and logger shared by the subcommands.
type app struct {
	configPath string
	flags      config
	cfg        config
	log        *logrus.Logger
}

func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	return &app{flags: defaultConfig()}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "apollonius",
		Short:         "Additively weighted Voronoi tessellation of balls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "TOML configuration file")
	pf.Float64Var(&a.flags.Eps, "eps", a.flags.Eps, "comparison tolerance")
	pf.StringVar(&a.flags.LogLevel, "log-level", a.flags.LogLevel, "log level written to stderr")
	pf.IntVar(&a.flags.Workers, "workers", a.flags.Workers, "parallel workers")
	pf.Float64Var(&a.flags.InitRadius, "init-radius-for-BSH", a.flags.InitRadius, "initial radius of the bounding spheres hierarchy")
	pf.BoolVar(&a.flags.ExcludeHidden, "exclude-hidden-balls", false, "leave out balls enclosed by other balls")

	root.AddCommand(
		newVerticesCmd(a),
		newContactsCmd(a),
		newQueryVerticesCmd(a),
		newTetrahedralVolumesCmd(a),
	)
	return root
}

// setup layers defaults, the configuration file and explicitly set flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := defaultConfig()
	if a.configPath != "" {
		data, err := os.ReadFile(a.configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", a.configPath, err)
		}
	}
	override(cmd, "eps", &cfg.Eps, a.flags.Eps)
	override(cmd, "log-level", &cfg.LogLevel, a.flags.LogLevel)
	override(cmd, "workers", &cfg.Workers, a.flags.Workers)
	override(cmd, "init-radius-for-BSH", &cfg.InitRadius, a.flags.InitRadius)
	override(cmd, "exclude-hidden-balls", &cfg.ExcludeHidden, a.flags.ExcludeHidden)
	override(cmd, "probe", &cfg.Contacts.Probe, a.flags.Contacts.Probe)
	override(cmd, "step", &cfg.Contacts.Step, a.flags.Contacts.Step)
	override(cmd, "projections", &cfg.Contacts.Projections, a.flags.Contacts.Projections)
	override(cmd, "sih-depth", &cfg.Contacts.SIHDepth, a.flags.Contacts.SIHDepth)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = logrus.New()
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(level)
	a.cfg = cfg
	return nil
}

func override[T any](cmd *cobra.Command, name string, dst *T, v T) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*dst = v
	}
}

func (a *app) triangulationOptions() []triangulation.Option {
	return []triangulation.Option{
		triangulation.WithEps(a.cfg.Eps),
		triangulation.WithInitRadius(a.cfg.InitRadius),
		triangulation.WithExcludeHidden(a.cfg.ExcludeHidden),
		triangulation.WithLogger(a.log),
	}
}

func (a *app) readSpheres(cmd *cobra.Command) ([]geom.Sphere, error) {
	spheres, err := textio.ReadSpheres(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read balls: %w", err)
	}
	a.log.WithField("balls", len(spheres)).Debug("input read")
	return spheres, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "apollonius:", err)
		os.Exit(1)
	}
}
