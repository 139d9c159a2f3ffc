/*
 * cluster.go, part of gorif.
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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/rmera/gorif/cluster"
	"github.com/rmera/gorif/clusterplot"
	"github.com/rmera/gorif/config"
	"github.com/rmera/gorif/histo"
	"github.com/rmera/gorif/logging"
	"github.com/rmera/gorif/pose"
	"github.com/rmera/gorif/rayio"
	"github.com/spf13/cobra"
)

type clusterFlags struct {
	in, out string
	method  string
	n       int
	frac    float64
	tol     float64
	table   string
	plot    string
	summary string
}

//runSummary is written as JSON with --summary.
type runSummary struct {
	RunID     string      `json:"run_id,omitempty"`
	Method    string      `json:"method"`
	Poses     int         `json:"poses"`
	Kept      int         `json:"kept"`
	Trials    []int       `json:"trials,omitempty"`
	Errors    []float64   `json:"errors,omitempty"`
	Frac      float64     `json:"frac,omitempty"`
	Converged bool        `json:"converged"`
	Indices   []int       `json:"indices,omitempty"`
	BinSizes  []int       `json:"bin_sizes,omitempty"`
	Sizes     *histo.Data `json:"size_histogram,omitempty"`
}

func newClusterCommand(a *app) *cobra.Command {
	f := &clusterFlags{}
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Reduce an ensemble of poses by CA RMSD clustering",
		Long: `Reads the poses (one frame of CA coordinates each) from --in, clusters them
and writes the representatives to --out.

  frac    the n largest bins must hold frac of the poses; writes their centers
  n       n bins; writes the first pose of each
  random  n poses picked at random`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg.Cluster
			flags := cmd.Flags()
			if flags.Changed("method") {
				c.Method = f.method
			}
			if flags.Changed("n") {
				c.N = f.n
			}
			if flags.Changed("frac") {
				c.Frac = f.frac
			}
			if flags.Changed("tol") {
				c.Tol = f.tol
			}
			cfg := *a.cfg
			cfg.Cluster = c
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.runCluster(cmd, c, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.in, "in", "i", "", "input frames file (required)")
	fl.StringVarP(&f.out, "out", "o", "", "output frames file (required)")
	fl.StringVarP(&f.method, "method", "m", config.DefaultClusterMethod, "frac, n or random")
	fl.IntVarP(&f.n, "n", "n", config.DefaultClusterN, "number of poses to keep")
	fl.Float64Var(&f.frac, "frac", config.DefaultClusterFrac, "fraction of the poses the kept bins must represent")
	fl.Float64Var(&f.tol, "tol", config.DefaultClusterTol, "tolerance on frac")
	fl.StringVar(&f.table, "table", "", "RMSD table cache: read if it exists, written otherwise")
	fl.StringVar(&f.plot, "plot", "", "prefix for PNG plots of the bin sizes and the search")
	fl.StringVar(&f.summary, "summary", "", "JSON file for a summary of the run (compressed by suffix)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newRandomCommand(a *app) *cobra.Command {
	var in, out string
	var n int
	var seed int64
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Keep n poses picked at random",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("--n must be ≥ 1, got %d", n)
			}
			if cmd.Flags().Changed("seed") {
				a.cfg.Cluster.Seed = seed
			}
			poses, header, err := rayio.ReadPoses(in)
			if err != nil {
				return err
			}
			kept := cluster.RandomSelection(poses, n, a.clusterOptions())
			a.log.Info("random selection", logging.Int("poses", len(poses)), logging.Int("kept", len(kept)))
			return rayio.WritePoses(out, kept, header)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&in, "in", "i", "", "input frames file (required)")
	fl.StringVarP(&out, "out", "o", "", "output frames file (required)")
	fl.IntVarP(&n, "n", "n", config.DefaultClusterN, "number of poses to keep")
	fl.Int64Var(&seed, "seed", 0, "random seed, overrides the config (0: from the clock)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) runCluster(cmd *cobra.Command, c config.ClusterConfig, f *clusterFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := a.log.With(logging.String("in", f.in), logging.String("method", c.Method))
	poses, header, err := rayio.ReadPoses(f.in)
	if err != nil {
		return err
	}
	log.Info("read poses", logging.Int("poses", len(poses)))
	o := a.clusterOptions()
	table, err := loadTable(f.table, len(poses), log)
	if err != nil {
		return err
	}

	var kept []*pose.Pose
	var sizes []int
	sum := runSummary{Method: c.Method, Poses: len(poses), Converged: true}
	switch {
	case c.N >= len(poses):
		log.Info("no more poses than requested, keeping all", logging.Int("n", c.N))
		kept = poses
	case c.Method == config.MethodRandom:
		kept = cluster.RandomSelection(poses, c.N, o)
	case c.Method == config.MethodN:
		if table == nil && f.table == "" {
			kept, err = cluster.LeavingN(ctx, poses, c.N, o)
			break
		}
		var bins [][]int
		bins, table, err = cluster.IntoNBins(ctx, poses, c.N, table, o)
		if err != nil {
			break
		}
		first := make([]int, len(bins))
		for i, b := range bins {
			first[i] = b[0]
			sizes = append(sizes, len(b))
		}
		kept = cluster.Pick(poses, first)
		sum.Indices = first
	default:
		var res *cluster.Result
		kept, res, err = cluster.LeavingNRepresentingFrac(ctx, poses, c.N, c.Frac, c.Tol, table, o)
		if err != nil {
			break
		}
		table = res.Table
		sizes = res.BinSizes
		sum.RunID, sum.Trials, sum.Errors = res.RunID, res.Trials, res.Errors
		sum.Frac, sum.Converged, sum.Indices = res.Frac, res.Converged, res.Indices
		if !res.Converged {
			log.Warn("search did not converge, using the last trial", logging.Float64("frac", res.Frac))
		}
		if f.plot != "" {
			if err = plotHistory(res, c.Tol, f.plot); err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}
	if f.table != "" && table != nil && !exists(f.table) {
		if err := rayio.SaveTable(f.table, table); err != nil {
			return err
		}
		log.Info("saved RMSD table", logging.String("table", f.table))
	}
	if len(sizes) > 0 {
		fmt.Fprint(cmd.OutOrStdout(), histo.StarBars(sizes, min(c.N, len(sizes))))
		if f.plot != "" {
			if err := plotSizes(sizes, c.N, f.plot); err != nil {
				return err
			}
		}
	}
	if header == nil {
		header = map[string]string{}
	}
	header["source"] = f.in
	header["method"] = c.Method
	header["kept"] = strconv.Itoa(len(kept))
	if err := rayio.WritePoses(f.out, kept, header); err != nil {
		return err
	}
	log.Info("wrote representatives", logging.String("out", f.out), logging.Int("kept", len(kept)))
	if f.summary == "" {
		return nil
	}
	sum.Kept = len(kept)
	if len(sizes) > 0 {
		sum.BinSizes = sizes
		sum.Sizes = histo.FromSizes(sizes)
	}
	return writeSummary(f.summary, &sum)
}

func writeSummary(name string, sum *runSummary) error {
	w, err := rayio.Create(name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

//loadTable returns the cached table in name, or nil if there is none.
func loadTable(name string, n int, log logging.Logger) (*cluster.Table, error) {
	if name == "" || !exists(name) {
		return nil, nil
	}
	t, err := rayio.LoadTable(name)
	if err != nil {
		return nil, err
	}
	if t.Len() != n {
		return nil, fmt.Errorf("RMSD table %s is for %d poses, not %d", name, t.Len(), n)
	}
	log.Info("loaded RMSD table", logging.String("table", name))
	return t, nil
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return !errors.Is(err, fs.ErrNotExist)
}

func plotSizes(sizes []int, n int, prefix string) error {
	p, err := clusterplot.BinSizes(sizes, n, "Bin sizes")
	if err != nil {
		return err
	}
	if err := clusterplot.Save(p, prefix+"_bins.png"); err != nil {
		return err
	}
	p, err = clusterplot.SizeHistogram(histo.FromSizes(sizes), "Bin size distribution")
	if err != nil {
		return err
	}
	return clusterplot.Save(p, prefix+"_sizes.png")
}

func plotHistory(res *cluster.Result, tol float64, prefix string) error {
	p, err := clusterplot.SearchHistory(res, tol, "Bin count search")
	if err != nil {
		return err
	}
	return clusterplot.Save(p, prefix+"_search.png")
}
