/*
 * hbond.go, part of gorif.
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
	"io"

	rif "github.com/rmera/gorif"
	"github.com/rmera/gorif/logging"
	"github.com/rmera/gorif/rayio"
	"github.com/spf13/cobra"
)

type hbondFlags struct {
	rays, target string
	nonDir       float64
	fudge        float64
	cutoff       float64
}

func newHBondCommand(a *app) *cobra.Command {
	f := &hbondFlags{}
	cmd := &cobra.Command{
		Use:   "hbond",
		Short: "Score the hydrogen bonds between two sets of hbond rays",
		Long: `Scores every donor of --rays against every acceptor of --target, and every
donor of --target against every acceptor of --rays. Pairs scoring below --cutoff
are printed as "D|A index target-index score", followed by the total.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fudge") {
				f.fudge = a.cfg.Scorer.LongHBondFudgeDistance
			}
			if f.nonDir < 0 || f.nonDir > 1 {
				return fmt.Errorf("--nondir must be in [0,1], got %v", f.nonDir)
			}
			don, acc, err := rayio.LoadRays(f.rays)
			if err != nil {
				return err
			}
			tdon, tacc, err := rayio.LoadRays(f.target)
			if err != nil {
				return err
			}
			a.log.Info("loaded rays", logging.Int("donors", len(don)), logging.Int("acceptors", len(acc)),
				logging.Int("target_donors", len(tdon)), logging.Int("target_acceptors", len(tacc)))
			total, pairs := scorePairs(cmd.OutOrStdout(), don, acc, tdon, tacc, f)
			fmt.Fprintf(cmd.OutOrStdout(), "# total %.5f pairs %d\n", total, pairs)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.rays, "rays", "r", "", "ray file (required)")
	fl.StringVarP(&f.target, "target", "t", "", "target ray file (required)")
	fl.Float64Var(&f.nonDir, "nondir", 0, "weight of the direction independent term, in [0,1]")
	fl.Float64Var(&f.fudge, "fudge", 0, "long hbond fudge distance, overrides the config")
	fl.Float64Var(&f.cutoff, "cutoff", -0.01, "only pairs scoring below this are printed")
	_ = cmd.MarkFlagRequired("rays")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

//scorePairs writes the pairs scoring below the cutoff to w and returns the sum
//of their scores and their number.
func scorePairs(w io.Writer, don, acc, tdon, tacc []rif.HBondRay, f *hbondFlags) (float64, int) {
	var total float64
	var pairs int
	for i, d := range don {
		for j, t := range tacc {
			if s := rif.ScoreHBondRays(d, t, f.nonDir, f.fudge); s < f.cutoff {
				fmt.Fprintf(w, "D %d %d %.5f\n", i, j, s)
				total += s
				pairs++
			}
		}
	}
	for i, ac := range acc {
		for j, t := range tdon {
			if s := rif.ScoreHBondRays(t, ac, f.nonDir, f.fudge); s < f.cutoff {
				fmt.Fprintf(w, "A %d %d %.5f\n", i, j, s)
				total += s
				pairs++
			}
		}
	}
	return total, pairs
}
