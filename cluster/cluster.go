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

package cluster

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rmera/gorif/histo"
	"github.com/rmera/gorif/logging"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//IntoNBins clusters the poses into n bins by average-link clustering on their CA RMSDs.
//rmsds is used if it matches the poses, otherwise a new table is computed. The table used is
//returned for reuse. Every pose index appears in exactly one bin.
func IntoNBins[P Pose](ctx context.Context, poses []P, n int, rmsds *Table, o *Options) ([][]int, *Table, error) {
	o = orDefault(o)
	if n < 1 || n > len(poses) {
		return nil, rmsds, Error{fmt.Sprintf("can't cluster %d poses into %d bins", len(poses), n), []string{"IntoNBins"}, true}
	}
	if rmsds.Len() != len(poses) {
		var err error
		rmsds, err = AllByAllRMSD(ctx, poses, o)
		if err != nil {
			return nil, nil, errDecorate(err, "IntoNBins")
		}
	}
	bins, err := rmsds.Tree().Cut(n)
	if err != nil {
		return nil, rmsds, errDecorate(err, "IntoNBins")
	}
	checkPartition(bins, len(poses))
	return bins, rmsds, nil
}

//LeavingN clusters the poses into n bins and returns the first pose of each.
//If n is not smaller than the number of poses, poses is returned unchanged.
func LeavingN[P Pose](ctx context.Context, poses []P, n int, o *Options) ([]P, error) {
	if n >= len(poses) {
		return poses, nil
	}
	bins, _, err := IntoNBins(ctx, poses, n, nil, o)
	if err != nil {
		return nil, errDecorate(err, "LeavingN")
	}
	ret := make([]P, 0, len(bins))
	for _, b := range bins {
		ret = append(ret, poses[b[0]])
	}
	return ret, nil
}

//FindClusterCenter returns the position, within indexes, of the pose with the
//smallest sum of RMSDs to all the other poses in indexes. Ties go to the first one.
func FindClusterCenter(indexes []int, rmsds mat.Symmetric) int {
	c, _ := clusterCenter(indexes, rmsds)
	return c
}

//clusterCenter returns the FindClusterCenter position and its RMSD sum.
func clusterCenter(indexes []int, rmsds mat.Symmetric) (int, float64) {
	if len(indexes) == 0 {
		panic(ErrEmptyBin)
	}
	sums := make([]float64, len(indexes))
	for i, index := range indexes {
		for _, ind := range indexes {
			sums[i] += rmsds.At(ind, index)
		}
	}
	c := floats.MinIdx(sums)
	return c, sums[c]
}

//Result describes a LeavingNRepresentingFrac run.
type Result struct {
	RunID     string
	Indices   []int     //indexes of the representative poses, largest bin first
	Trials    []int     //bin counts tried, in order
	Errors    []float64 //captured fraction minus the target, per trial
	BinSizes  []int     //sizes of the bins of the last trial, largest first
	Frac      float64   //fraction of the poses in the n largest bins of the last trial
	Converged bool
	Table     *Table
}

//LeavingNRepresentingFrac looks for a number of bins such that the n largest bins hold a
//fraction of the poses within tol of frac, and returns the center of each of those n bins.
//The search starts at n*trunc(1/frac) bins and moves from the last trial toward the closest
//previously tried count on the side that corrects the error (halving or quadrupling when there
//is none). It stops when the tolerance is met, or when the next count was already tried. In the
//latter case the last trial is used and Result.Converged is false; that is not an error.
func LeavingNRepresentingFrac[P Pose](ctx context.Context, poses []P, n int, frac, tol float64, rmsds *Table, o *Options) ([]P, *Result, error) {
	o = orDefault(o)
	if frac <= 0 || frac > 1 {
		return nil, nil, Error{fmt.Sprintf("fraction %v not in (0,1]", frac), []string{"LeavingNRepresentingFrac"}, true}
	}
	if tol < 0 {
		return nil, nil, Error{fmt.Sprintf("negative tolerance %v", tol), []string{"LeavingNRepresentingFrac"}, true}
	}
	if n < 1 || n > len(poses) {
		return nil, nil, Error{fmt.Sprintf("can't leave %d of %d poses", n, len(poses)), []string{"LeavingNRepresentingFrac"}, true}
	}
	res := &Result{RunID: uuid.NewString()}
	log := o.Logger().With(logging.String("run", res.RunID))
	ro := *o
	ro.logger = log
	trial := clamp(n*int(1.0/frac), 1, len(poses))
	var history []int //sorted
	var bins [][]int
	var idx []int
	for {
		res.Trials = append(res.Trials, trial)
		history = insertSorted(history, trial)
		log.Info("clustering round", logging.Int("round", len(res.Trials)), logging.Int("trial", trial))
		var err error
		bins, rmsds, err = IntoNBins(ctx, poses, trial, rmsds, &ro)
		if err != nil {
			return nil, nil, errDecorate(err, "LeavingNRepresentingFrac")
		}
		idx = bySize(bins)
		res.BinSizes = make([]int, len(idx))
		for i, b := range idx {
			res.BinSizes[i] = len(bins[b])
		}
		log.Debug("bin sizes\n" + histo.StarBars(res.BinSizes, n))

		count := 0
		for _, s := range res.BinSizes[:min(n, len(idx))] {
			count += s
		}
		res.Frac = float64(count) / float64(len(poses))
		e := res.Frac - frac
		res.Errors = append(res.Errors, e)
		log.Info("round error", logging.Float64("frac", res.Frac), logging.Float64("error", e))
		if math.Abs(e) < tol {
			res.Converged = true
			log.Info("tolerance satisfied, clustering complete", logging.Int("trial", trial))
			break
		}
		pos := sort.SearchInts(history, trial)
		other := pos - 1
		if e > 0 {
			other = pos + 1
		}
		switch {
		case other < 0:
			trial /= 2
		case other >= len(history):
			trial *= 4
		default:
			trial = (history[other] + trial) / 2
		}
		trial = clamp(trial, 1, len(poses))
		if contains(history, trial) {
			log.Info("repeating trial, clustering complete", logging.Int("trial", trial))
			break
		}
	}
	res.Table = rmsds
	ret := make([]P, 0, n)
	for _, b := range idx[:min(n, len(idx))] {
		c, sum := clusterCenter(bins[b], rmsds)
		log.Debug("cluster center", logging.Int("bin_size", len(bins[b])), logging.Int("center", bins[b][c]), logging.Float64("rmsd_sum", sum))
		res.Indices = append(res.Indices, bins[b][c])
		ret = append(ret, poses[bins[b][c]])
	}
	return ret, res, nil
}

//RandomSelection returns n poses taken at random, without repetition, using o.Rand().
//If n is not smaller than the number of poses, poses is returned unchanged.
func RandomSelection[P any](poses []P, n int, o *Options) []P {
	if n >= len(poses) {
		return poses
	}
	o = orDefault(o)
	if n < 0 {
		n = 0
	}
	perm := o.Rand().Perm(len(poses))
	return Pick(poses, perm[:n])
}

//Pick returns the elements of poses with the given indexes, in order.
func Pick[P any](poses []P, indexes []int) []P {
	ret := make([]P, len(indexes))
	for i, v := range indexes {
		ret[i] = poses[v]
	}
	return ret
}

//bySize returns the indexes of bins sorted by decreasing bin size. Equal sizes
//keep the bin order.
func bySize(bins [][]int) []int {
	idx := make([]int, len(bins))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return len(bins[idx[a]]) > len(bins[idx[b]]) })
	return idx
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func insertSorted(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func contains(sorted []int, v int) bool {
	i := sort.SearchInts(sorted, v)
	return i < len(sorted) && sorted[i] == v
}
