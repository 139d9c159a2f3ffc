/*
 * rmsd.go, part of gorif.
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
	"errors"
	"fmt"

	"github.com/rmera/gorif/align"
	"github.com/rmera/gorif/histo"
	"github.com/rmera/gorif/logging"
	v3 "github.com/rmera/gorif/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

//Pose is anything that can give a snapshot of its alpha carbon coordinates.
//The returned matrix must not be shared with the pose.
type Pose interface {
	CAlphas() (*v3.Matrix, error)
}

//Table is the symmetric, zero-diagonal matrix of pairwise RMSDs of an ensemble.
//It caches the average-link tree built from it, so it can be re-cut cheaply.
//A Table is not safe for concurrent use.
type Table struct {
	*mat.SymDense
	tree *Dendrogram
}

//NewTable wraps an existing RMSD matrix.
func NewTable(d *mat.SymDense) *Table {
	return &Table{SymDense: d}
}

//Len returns the number of poses in the table.
func (T *Table) Len() int {
	if T == nil || T.SymDense == nil {
		return 0
	}
	return T.SymmetricDim()
}

//Tree returns the average-link tree for the table, building it on the first call.
func (T *Table) Tree() *Dendrogram {
	if T.tree == nil {
		T.tree = AverageLink(T.SymDense)
	}
	return T.tree
}

//AllByAllRMSD returns the table of superimposed CA RMSDs between every pair of poses.
//The CA coordinates of each pose are taken once. The outer index is spread over
//o.Cpus() goroutines; the first failure (an error or a panic in a worker) stops the
//remaining work and is returned once every worker is done. A broken table invariant
//panics in the calling goroutine.
func AllByAllRMSD[P Pose](ctx context.Context, poses []P, o *Options) (*Table, error) {
	o = orDefault(o)
	log := o.Logger()
	n := len(poses)
	if n == 0 {
		return nil, Error{"no poses", []string{"AllByAllRMSD"}, true}
	}
	log.Info("calculating n^2 rmsd table", logging.Int("poses", n), logging.String("pairs", histo.KMGT(float64(n)*float64(n-1)/2, 5, 1)))
	cas, err := snapshots(ctx, poses, o.Cpus())
	if err != nil {
		return nil, errDecorate(err, "AllByAllRMSD")
	}
	table := mat.NewSymDense(n, nil)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Cpus())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() (err error) {
			defer recoverWorker(&err, i)
			if gctx.Err() != nil {
				return nil
			}
			for j := i + 1; j < n; j++ {
				rmsd, err := align.RMSD(cas[i], cas[j])
				if err != nil {
					return errDecorate(err, fmt.Sprintf("AllByAllRMSD: poses %d and %d", i, j))
				}
				if table.At(i, j) != 0 {
					panic(ErrCellWrittenTwice)
				}
				table.SetSym(i, j, rmsd)
			}
			return nil
		})
	}
	if err := wait(g); err != nil {
		return nil, err
	}
	//workers skip their work silently once the caller's context is done.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewTable(table), nil
}

//snapshots takes the CA coordinates of every pose, in parallel.
func snapshots[P Pose](ctx context.Context, poses []P, cpus int) ([]*v3.Matrix, error) {
	cas := make([]*v3.Matrix, len(poses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cpus)
	for i := range poses {
		i := i
		g.Go(func() (err error) {
			defer recoverWorker(&err, i)
			if err := gctx.Err(); err != nil {
				return err
			}
			ca, err := poses[i].CAlphas()
			if err != nil {
				return errDecorate(err, fmt.Sprintf("snapshots: pose %d", i))
			}
			cas[i] = ca
			return nil
		})
	}
	if err := wait(g); err != nil {
		return nil, err
	}
	return cas, nil
}

//workerPanic carries a PanicMsg raised in a worker out of its goroutine.
type workerPanic struct {
	msg PanicMsg
}

func (w workerPanic) Error() string { return string(w.msg) }

//recoverWorker turns a panic in a worker into an error. PanicMsg values are
//kept apart so wait can raise them again.
func recoverWorker(err *error, i int) {
	r := recover()
	if r == nil {
		return
	}
	if msg, ok := r.(PanicMsg); ok {
		*err = workerPanic{msg}
		return
	}
	*err = Error{fmt.Sprintf("worker for pose %d failed: %v", i, r), []string{"recoverWorker"}, true}
}

//wait waits for every worker in g and returns the first error, except
//for broken invariants, which panic here with the original PanicMsg.
func wait(g *errgroup.Group) error {
	err := g.Wait()
	var wp workerPanic
	if errors.As(err, &wp) {
		panic(wp.msg)
	}
	return err
}
