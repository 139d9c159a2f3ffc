/*
 * root.go, part of gorif.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"fmt"
	"math/rand"

	"github.com/rmera/gorif/cluster"
	"github.com/rmera/gorif/config"
	"github.com/rmera/gorif/logging"
	"github.com/spf13/cobra"
)

//Version is set at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Cpus       int
}

//app carries what every subcommand needs once the persistent flags are parsed.
type app struct {
	cfg *config.Config
	log logging.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}
	cmd := &cobra.Command{
		Use:     "gorif",
		Short:   "Pose ensemble clustering and rotamer and hbond ray scoring",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (GORIF_* variables override it)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error), overrides the config")
	pf.IntVar(&opts.Cpus, "cpus", 0, "worker goroutines for RMSDs and scoring, overrides the config (0: one per CPU)")

	cmd.AddCommand(newClusterCommand(a), newRandomCommand(a), newHBondCommand(a), newScoreCommand(a))
	return cmd
}

func (a *app) setup(opts *rootOptions) error {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		if !logging.ValidLevel(opts.LogLevel) {
			return fmt.Errorf("invalid --log-level %q", opts.LogLevel)
		}
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Cpus > 0 {
		cfg.Cluster.Cpus = opts.Cpus
	}
	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(log)
	a.cfg = cfg
	a.log = log.Named("gorif")
	return nil
}

func (a *app) clusterOptions() *cluster.Options {
	o := cluster.DefaultOptions()
	if a.cfg.Cluster.Cpus > 0 {
		o.Cpus(a.cfg.Cluster.Cpus)
	}
	o.Logger(a.log.Named("cluster"))
	if a.cfg.Cluster.Seed != 0 {
		o.Rand(rand.New(rand.NewSource(a.cfg.Cluster.Seed)))
	}
	return o
}
