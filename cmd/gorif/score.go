/*
 * score.go, part of gorif.
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
	"context"
	"fmt"
	"io"
	"runtime"

	rif "github.com/rmera/gorif"
	"github.com/rmera/gorif/logging"
	"github.com/rmera/gorif/rayio"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

type scoreFlags struct {
	library, target, placements, pose string
	clashRadius, spacing              float64
	grid                              bool
}

func newScoreCommand(a *app) *cobra.Command {
	f := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score rotamer placements against a target",
		Long: `Scores every placement in --placements, a rotamer of --library moved to the
target frame, against the hbond rays in --target. With --pose, every atom type sees
a clash field built from the atoms of the first pose in that file. Otherwise the
field is zero everywhere and only hydrogen bonds count.

The weights, bad_score_thresh and start_atom come from the scorer section of the
config. Prints "index rotamer score sat1 sat2 hbcount" per placement, then the best one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScore(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.library, "library", "l", "", "rotamer library file (required)")
	fl.StringVarP(&f.target, "target", "t", "", "target ray file (required)")
	fl.StringVarP(&f.placements, "placements", "p", "", "placement file (required)")
	fl.StringVar(&f.pose, "pose", "", "target pose file for the clash field")
	fl.Float64Var(&f.clashRadius, "clash-radius", 3.0, "distance below which rotamer atoms clash with the target, in A")
	fl.Float64Var(&f.spacing, "spacing", 0.5, "clash grid spacing, in A")
	fl.BoolVar(&f.grid, "grid", false, "score whole residues on the grid; hbonds then only fill the satisfaction slots")
	_ = cmd.MarkFlagRequired("library")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("placements")
	return cmd
}

type scored struct {
	score float64
	sat   rif.Satisfaction
}

func (a *app) runScore(ctx context.Context, w io.Writer, f *scoreFlags) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	lib, err := rayio.LoadLibrary(f.library)
	if err != nil {
		return err
	}
	tdon, tacc, err := rayio.LoadRays(f.target)
	if err != nil {
		return err
	}
	ps, err := rayio.LoadPlacements(f.placements)
	if err != nil {
		return err
	}
	for i, p := range ps {
		if p.Rotamer >= lib.Len() {
			return fmt.Errorf("placement %d: rotamer %d not in the library (%d rotamers)", i, p.Rotamer, lib.Len())
		}
	}
	fields, err := a.targetFields(f)
	if err != nil {
		return err
	}
	s, err := rif.NewScoreRotamerVsTarget(lib, fields, tdon, tacc)
	if err != nil {
		return err
	}
	a.cfg.Scorer.Apply(s)
	workers := a.cfg.Cluster.Cpus
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, len(ps)))
	if f.grid {
		if s.Scratch, err = rif.NewScratchPool(lib, workers); err != nil {
			return err
		}
		s.Grid = &rif.FieldGridScorer{Fields: fields}
	}
	a.log.Info("scoring placements", logging.Int("placements", len(ps)), logging.Int("rotamers", lib.Len()),
		logging.Int("workers", workers), logging.Bool("grid", f.grid))

	thresh, start := a.cfg.Scorer.BadScoreThresh, a.cfg.Scorer.StartAtom
	results := make([]scored, len(ps))
	g, gctx := errgroup.WithContext(ctx)
	for wk := 0; wk < workers; wk++ {
		wk := wk
		g.Go(func() error {
			for i := wk; i < len(ps); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				sat := rif.NewSatisfaction()
				sc := s.ScoreRotamerSat(ps[i].Rotamer, ps[i].X, &sat, true, thresh, start, wk)
				results[i] = scored{sc, sat}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	best := 0
	for i, r := range results {
		fmt.Fprintf(w, "%d %d %.5f %d %d %d\n", i, ps[i].Rotamer, r.score, r.sat.Sat1, r.sat.Sat2, r.sat.HBCount)
		if r.score < results[best].score {
			best = i
		}
	}
	if len(results) > 0 {
		fmt.Fprintf(w, "# best %d %.5f\n", best, results[best].score)
	}
	return nil
}

//targetFields returns the same field for every rif atom type: the clash grid
//of the target pose, if one was given, or zero.
func (a *app) targetFields(f *scoreFlags) ([]rif.Field, error) {
	var field rif.Field = rif.ConstantField(0)
	if f.pose != "" {
		poses, _, err := rayio.ReadPoses(f.pose)
		if err != nil {
			return nil, err
		}
		if len(poses) == 0 {
			return nil, fmt.Errorf("no poses in %s", f.pose)
		}
		atoms := make([]r3.Vec, poses[0].Len())
		for i := range atoms {
			atoms[i] = poses[0].Pos(i)
		}
		grid, err := rif.NewClashGrid(atoms, f.clashRadius, f.spacing)
		if err != nil {
			return nil, err
		}
		a.log.Debug("clash grid", logging.Int("atoms", len(atoms)), logging.Float64("spacing", grid.Resolution()))
		field = grid
	}
	fields := make([]rif.Field, rif.NumRifAtomTypes)
	for i := range fields {
		fields[i] = field
	}
	return fields, nil
}
