/*
 * linkage.go, part of gorif.
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
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

//Merge joins the clusters with ids A and B at distance Dist. Ids below the number of
//leaves are single poses; merge m creates the cluster with id leaves+m.
type Merge struct {
	A, B int
	Dist float64
}

//Dendrogram is the full tree produced by agglomerative clustering of n leaves.
type Dendrogram struct {
	n      int
	merges []Merge
}

//Leaves returns the number of elements clustered.
func (D *Dendrogram) Leaves() int { return D.n }

//Merges returns the merges, in the order they happened.
func (D *Dendrogram) Merges() []Merge { return D.merges }

//AverageLink clusters the elements described by the distance matrix d, always joining the
//pair of clusters with the smallest mean pairwise distance between their members, until a
//single cluster is left. Ties go to the pair with the lowest indexes.
func AverageLink(d mat.Symmetric) *Dendrogram {
	n := d.SymmetricDim()
	D := &Dendrogram{n: n, merges: make([]Merge, 0, max(n-1, 0))}
	if n < 2 {
		return D
	}
	dist := mat.NewSymDense(n, nil)
	dist.CopySym(d)
	size := make([]int, n)
	id := make([]int, n)
	active := make([]int, n) //slots still holding a cluster
	for i := range size {
		size[i] = 1
		id[i] = i
		active[i] = i
	}
	for len(active) > 1 {
		bi, bj := -1, -1 //positions in active
		best := 0.0
		for ii, i := range active {
			for jj := ii + 1; jj < len(active); jj++ {
				v := dist.At(i, active[jj])
				if bi < 0 || v < best {
					bi, bj, best = ii, jj, v
				}
			}
		}
		i, j := active[bi], active[bj]
		si, sj := float64(size[i]), float64(size[j])
		//Lance-Williams update for average linkage.
		for _, k := range active {
			if k == i || k == j {
				continue
			}
			dist.SetSym(k, i, (si*dist.At(k, i)+sj*dist.At(k, j))/(si+sj))
		}
		D.merges = append(D.merges, Merge{A: id[i], B: id[j], Dist: best})
		size[i] += size[j]
		id[i] = n + len(D.merges) - 1
		active = append(active[:bj], active[bj+1:]...)
	}
	return D
}

//Cut returns the k clusters left after the first Leaves()-k merges. Each cluster
//lists its members in increasing order, and the clusters are sorted by their first member.
func (D *Dendrogram) Cut(k int) ([][]int, error) {
	if k < 1 || k > D.n {
		return nil, Error{fmt.Sprintf("can't cut %d elements into %d clusters", D.n, k), []string{"Cut"}, true}
	}
	members := make([][]int, D.n, 2*D.n)
	for i := range members {
		members[i] = []int{i}
	}
	used := make([]bool, 2*D.n)
	for _, m := range D.merges[:D.n-k] {
		joined := append(append([]int(nil), members[m.A]...), members[m.B]...)
		members = append(members, joined)
		used[m.A], used[m.B] = true, true
	}
	bins := make([][]int, 0, k)
	for c, mem := range members {
		if used[c] {
			continue
		}
		sort.Ints(mem)
		bins = append(bins, mem)
	}
	sort.Slice(bins, func(a, b int) bool { return bins[a][0] < bins[b][0] })
	return bins, nil
}

//checkPartition panics unless bins hold each of 0..n-1 exactly once.
func checkPartition(bins [][]int, n int) {
	seen := make([]bool, n)
	count := 0
	for _, b := range bins {
		if len(b) == 0 {
			panic(ErrEmptyBin)
		}
		for _, v := range b {
			if v < 0 || v >= n || seen[v] {
				panic(ErrBadPartition)
			}
			seen[v] = true
			count++
		}
	}
	if count != n {
		panic(ErrBadPartition)
	}
}
