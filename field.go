/*
 * field.go, part of gorif.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

//Field is a scalar field over space, queried at a point.
//Implementations must be safe for concurrent reads.
type Field interface {
	At(p r3.Vec) float64
}

//FieldFunc adapts an ordinary function to the Field interface.
type FieldFunc func(p r3.Vec) float64

//At returns f(p).
func (f FieldFunc) At(p r3.Vec) float64 { return f(p) }

//ConstantField has the same value everywhere.
type ConstantField float64

//At returns the constant value of the field.
func (c ConstantField) At(p r3.Vec) float64 { return float64(c) }

//VoxelGrid is a Field sampled on a regular grid spanning a box. Queries are
//answered with the value of the nearest voxel. Points outside the grid
//get the Outside value.
type VoxelGrid struct {
	Outside float64
	box     r3.Box
	res     float64
	nx      int
	ny      int
	nz      int
	data    []float64
}

//NewVoxelGrid returns a zero-valued grid covering box with voxels of side res.
func NewVoxelGrid(box r3.Box, res, outside float64) (*VoxelGrid, error) {
	if res <= 0 {
		return nil, newError(fmt.Sprintf("voxel size must be positive, got %g", res), "NewVoxelGrid")
	}
	if box.Empty() {
		return nil, newError("can't build a voxel grid over an empty box", "NewVoxelGrid")
	}
	size := box.Size()
	g := &VoxelGrid{Outside: outside, box: box, res: res}
	g.nx = int(math.Ceil(size.X/res)) + 1
	g.ny = int(math.Ceil(size.Y/res)) + 1
	g.nz = int(math.Ceil(size.Z/res)) + 1
	g.data = make([]float64, g.nx*g.ny*g.nz)
	return g, nil
}

//Dims returns the number of voxels along each axis.
func (g *VoxelGrid) Dims() (nx, ny, nz int) { return g.nx, g.ny, g.nz }

//Resolution returns the side of a voxel.
func (g *VoxelGrid) Resolution() float64 { return g.res }

//Box returns the box spanned by the grid.
func (g *VoxelGrid) Box() r3.Box { return g.box }

//Center returns the position of the center of voxel i, j, k.
func (g *VoxelGrid) Center(i, j, k int) r3.Vec {
	return r3.Add(g.box.Min, r3.Vec{X: float64(i) * g.res, Y: float64(j) * g.res, Z: float64(k) * g.res})
}

//Set sets the value of voxel i, j, k. It panics if the voxel is out of range.
func (g *VoxelGrid) Set(i, j, k int, v float64) {
	g.data[g.flat(i, j, k)] = v
}

//Voxel returns the value of voxel i, j, k. It panics if the voxel is out of range.
func (g *VoxelGrid) Voxel(i, j, k int) float64 {
	return g.data[g.flat(i, j, k)]
}

func (g *VoxelGrid) flat(i, j, k int) int {
	if i < 0 || j < 0 || k < 0 || i >= g.nx || j >= g.ny || k >= g.nz {
		panic(fmt.Sprintf("rif: voxel %d %d %d out of range %d %d %d", i, j, k, g.nx, g.ny, g.nz))
	}
	return (i*g.ny+j)*g.nz + k
}

//Index returns the voxel nearest to p and whether p falls within the grid.
func (g *VoxelGrid) Index(p r3.Vec) (i, j, k int, ok bool) {
	d := r3.Scale(1/g.res, r3.Sub(p, g.box.Min))
	i = int(math.Floor(d.X + 0.5))
	j = int(math.Floor(d.Y + 0.5))
	k = int(math.Floor(d.Z + 0.5))
	ok = i >= 0 && j >= 0 && k >= 0 && i < g.nx && j < g.ny && k < g.nz
	return i, j, k, ok
}

//At returns the value of the voxel nearest to p, or Outside.
func (g *VoxelGrid) At(p r3.Vec) float64 {
	i, j, k, ok := g.Index(p)
	if !ok {
		return g.Outside
	}
	return g.data[(i*g.ny+j)*g.nz+k]
}

//Fill samples f at the center of every voxel.
func (g *VoxelGrid) Fill(f Field) {
	for i := 0; i < g.nx; i++ {
		for j := 0; j < g.ny; j++ {
			for k := 0; k < g.nz; k++ {
				g.data[(i*g.ny+j)*g.nz+k] = f.At(g.Center(i, j, k))
			}
		}
	}
}

//NewClashGrid returns a grid holding, at each voxel, the summed overlap
//max(0, radius-d) with every atom in atoms, where d is the distance to the atom.
//The grid spans the atoms' bounding box padded by radius, and is zero outside.
func NewClashGrid(atoms []r3.Vec, radius, res float64) (*VoxelGrid, error) {
	if len(atoms) == 0 {
		return nil, newError("no atoms", "NewClashGrid")
	}
	if radius <= 0 {
		return nil, newError(fmt.Sprintf("clash radius must be positive, got %g", radius), "NewClashGrid")
	}
	box := r3.Box{Min: atoms[0], Max: atoms[0]}
	for _, a := range atoms[1:] {
		box.Min = r3.Vec{X: math.Min(box.Min.X, a.X), Y: math.Min(box.Min.Y, a.Y), Z: math.Min(box.Min.Z, a.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, a.X), Y: math.Max(box.Max.Y, a.Y), Z: math.Max(box.Max.Z, a.Z)}
	}
	pad := r3.Vec{X: radius, Y: radius, Z: radius}
	box = r3.Box{Min: r3.Sub(box.Min, pad), Max: r3.Add(box.Max, pad)}
	g, err := NewVoxelGrid(box, res, 0)
	if err != nil {
		return nil, errDecorate(err, "NewClashGrid")
	}
	g.Fill(FieldFunc(func(p r3.Vec) float64 {
		var over float64
		for _, a := range atoms {
			if d := r3.Norm(r3.Sub(p, a)); d < radius {
				over += radius - d
			}
		}
		return over
	}))
	return g, nil
}
