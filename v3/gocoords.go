/*
 * gocoords.go, part of gorif.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//Len is NVecs, so Matrix fits the usual sized-collection idiom.
func (F *Matrix) Len() int {
	return F.NVecs()
}

//SubVec subtracts the vector vec from each vector of the matrix A, putting
//the result on the receiver. Panics if matrices are mismatched.
func (F *Matrix) SubVec(A, vec *Matrix) {
	ar, ac := A.Dims()
	rr, rc := vec.Dims()
	fr, fc := F.Dims()
	if ac != rc || rr != 1 || ac != fc || ar != fr {
		panic(ErrShape)
	}
	v := vec.RawRowView(0)
	for i := 0; i < ar; i++ {
		floats.SubTo(F.RawRowView(i), A.RawRowView(i), v)
	}
}

//SomeVecs puts in the receiver the vectors of A with indexes in clist.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	ar, ac := A.Dims()
	fr, fc := F.Dims()
	if ac != fc || fr != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		if val < 0 || val >= ar {
			panic(ErrIndexOutOfRange)
		}
		copy(F.RawRowView(key), A.RawRowView(val))
	}
}

//SomeVecsSafe is like SomeVecs but returns an error instead of panicking.
func (F *Matrix) SomeVecsSafe(A *Matrix, clist []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case PanicMsg:
				err = Error{string(e), []string{"SomeVecsSafe"}, true}
			default:
				panic(r)
			}
		}
	}()
	F.SomeVecs(A, clist)
	return nil
}

//Centroid returns the geometric center of the vectors in A.
func Centroid(A *Matrix) *Matrix {
	n := A.NVecs()
	if n == 0 {
		panic(ErrShape)
	}
	c := Zeros(1)
	cr := c.RawRowView(0)
	for i := 0; i < n; i++ {
		floats.Add(cr, A.RawRowView(i))
	}
	floats.Scale(1/float64(n), cr)
	return c
}

//String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, _ := F.Dims()
	v := make([]string, 0, r+2)
	v = append(v, "\n[")
	for i := 0; i < r; i++ {
		row := F.RawRowView(i)
		pre := " "
		if i == 0 {
			pre = ""
		}
		v = append(v, fmt.Sprintf("%s%6.2f %6.2f %6.2f", pre, row[0], row[1], row[2]))
		if i < r-1 {
			v = append(v, "\n")
		}
	}
	v = append(v, " ]")
	return strings.Join(v, "")
}
