/*
 * xform.go, part of gorif.
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

package rif

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

//Xform is a rigid body transformation: a rotation followed by a translation.
//Rot holds the rows of the rotation matrix.
type Xform struct {
	Rot   [3]r3.Vec
	Trans r3.Vec
}

//Identity returns the transformation that leaves every point in place.
func Identity() Xform {
	return Xform{Rot: [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}}
}

//Translation returns a pure translation by t.
func Translation(t r3.Vec) Xform {
	x := Identity()
	x.Trans = t
	return x
}

//NewXform builds a transformation from a 3x3 rotation matrix and a translation.
func NewXform(rot *r3.Mat, trans r3.Vec) Xform {
	return Xform{Rot: [3]r3.Vec{rot.VecRow(0), rot.VecRow(1), rot.VecRow(2)}, Trans: trans}
}

//Mat returns the rotation part of x as a gonum 3x3 matrix.
func (x Xform) Mat() *r3.Mat {
	r := x.Rot
	return r3.NewMat([]float64{
		r[0].X, r[0].Y, r[0].Z,
		r[1].X, r[1].Y, r[1].Z,
		r[2].X, r[2].Y, r[2].Z,
	})
}

//Rotate applies only the rotation part of x to v.
func (x Xform) Rotate(v r3.Vec) r3.Vec {
	return r3.Vec{X: r3.Dot(x.Rot[0], v), Y: r3.Dot(x.Rot[1], v), Z: r3.Dot(x.Rot[2], v)}
}

//Apply moves the point p by x.
func (x Xform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(x.Rotate(p), x.Trans)
}

//Mul returns the composition x*y, which applies y first and then x.
func (x Xform) Mul(y Xform) Xform {
	var ret Xform
	yt := y.transposedRot()
	for i := 0; i < 3; i++ {
		ret.Rot[i] = r3.Vec{X: r3.Dot(x.Rot[i], yt[0]), Y: r3.Dot(x.Rot[i], yt[1]), Z: r3.Dot(x.Rot[i], yt[2])}
	}
	ret.Trans = x.Apply(y.Trans)
	return ret
}

//Inverse returns the transformation that undoes x.
func (x Xform) Inverse() Xform {
	ret := Xform{Rot: x.transposedRot()}
	ret.Trans = r3.Scale(-1, ret.Rotate(x.Trans))
	return ret
}

func (x Xform) transposedRot() [3]r3.Vec {
	r := x.Rot
	return [3]r3.Vec{
		{X: r[0].X, Y: r[1].X, Z: r[2].X},
		{X: r[0].Y, Y: r[1].Y, Z: r[2].Y},
		{X: r[0].Z, Y: r[1].Z, Z: r[2].Z},
	}
}

//Stub returns the local frame defined by three points, centered on b.
//The first axis points from b to a, the third is normal to the abc plane.
//It returns an error if the points are collinear.
func Stub(a, b, c r3.Vec) (Xform, error) {
	ba := r3.Sub(a, b)
	bc := r3.Sub(c, b)
	n := r3.Cross(ba, bc)
	if r3.Norm(ba) < appzero || r3.Norm(n) < appzero {
		return Xform{}, newError("Stub: points are collinear or coincident", "Stub")
	}
	e1 := r3.Unit(ba)
	e3 := r3.Unit(n)
	e2 := r3.Cross(e3, e1)
	//e1, e2, e3 are the columns of the rotation.
	return Xform{
		Rot: [3]r3.Vec{
			{X: e1.X, Y: e2.X, Z: e3.X},
			{X: e1.Y, Y: e2.Y, Z: e3.Y},
			{X: e1.Z, Y: e2.Z, Z: e3.Z},
		},
		Trans: b,
	}, nil
}

//AngleBetween returns the angle between u and v in radians.
func AngleBetween(u, v r3.Vec) float64 {
	c := r3.Cos(u, v)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}

const appzero = 1e-12
