/*
 * gonum.go, part of gorif.
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

//gonum.go contains the glue between the Matrix type and gonum's mat package.

package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space. Within the package it is understood
//that a "vector" is a row vector, i.e. the cartesian coordinates of a point in 3D space.
type Matrix struct {
	*mat.Dense
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 || l == 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d or empty", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

//Errors

//Error is the error type returned by the functions in this package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix    = PanicMsg("gorif/v3: A Matrix should have 3 columns")
	ErrShape           = PanicMsg("gorif/v3: Dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("gorif/v3: index out of range")
)
