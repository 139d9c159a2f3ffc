/*
 * pose.go, part of gorif.
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

package pose

import (
	"fmt"
	"math"

	rif "github.com/rmera/gorif"
	v3 "github.com/rmera/gorif/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

//Atom contains the identity of an atom in a pose. Positions live in the pose's Coords.
type Atom struct {
	Name    string
	Symbol  string
	Molname string //residue name, three letters
	Molid   int    //residue number, starting from 1
	Chain   byte
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

//Heavy returns true if the atom is not a hydrogen.
func (A *Atom) Heavy() bool {
	return A.Symbol != "H" && A.Symbol != "D"
}

//Pose is a set of residues, each a contiguous run of atoms sharing a Molid,
//with one set of coordinates.
type Pose struct {
	Atoms    []*Atom
	Coords   *v3.Matrix
	resStart []int //index of the first atom of each residue, plus len(Atoms) at the end.
}

//NewPose builds a pose from atoms and their coordinates. Atoms of the same residue
//must be contiguous.
func NewPose(atoms []*Atom, coords *v3.Matrix) (*Pose, error) {
	if coords == nil || coords.NVecs() != len(atoms) {
		return nil, Error{fmt.Sprintf("%d atoms but coordinates for a different number", len(atoms)), []string{"NewPose"}, true}
	}
	if len(atoms) == 0 {
		return nil, Error{"empty pose", []string{"NewPose"}, true}
	}
	P := &Pose{Atoms: atoms, Coords: coords}
	seen := make(map[[2]int]bool)
	for i, at := range atoms {
		if at == nil {
			return nil, Error{fmt.Sprintf("atom %d is nil", i), []string{"NewPose"}, true}
		}
		if i > 0 && at.Molid == atoms[i-1].Molid && at.Chain == atoms[i-1].Chain {
			continue
		}
		key := [2]int{int(at.Chain), at.Molid}
		if seen[key] {
			return nil, Error{fmt.Sprintf("atoms of residue %d are not contiguous", at.Molid), []string{"NewPose"}, true}
		}
		seen[key] = true
		P.resStart = append(P.resStart, i)
	}
	P.resStart = append(P.resStart, len(atoms))
	return P, nil
}

//FromCA builds a pose with one ALA residue per vector of ca, each with only a CA atom.
func FromCA(ca *v3.Matrix) (*Pose, error) {
	n := ca.NVecs()
	atoms := make([]*Atom, n)
	for i := range atoms {
		atoms[i] = &Atom{Name: "CA", Symbol: "C", Molname: "ALA", Molid: i + 1, Chain: 'A'}
	}
	coords := v3.Zeros(n)
	coords.Copy(ca)
	p, err := NewPose(atoms, coords)
	if err != nil {
		return nil, errDecorate(err, "FromCA")
	}
	return p, nil
}

//Len returns the number of atoms in the pose.
func (P *Pose) Len() int { return len(P.Atoms) }

//NResidues returns the number of residues in the pose.
func (P *Pose) NResidues() int { return len(P.resStart) - 1 }

//Residue returns the range of atom indexes [first,last) of residue ir. Residues are numbered from 1.
//It panics if ir is out of range.
func (P *Pose) Residue(ir int) (first, last int) {
	if ir < 1 || ir > P.NResidues() {
		panic(fmt.Sprintf("pose: residue %d out of range 1-%d", ir, P.NResidues()))
	}
	return P.resStart[ir-1], P.resStart[ir]
}

//ResName returns the three letter name of residue ir.
func (P *Pose) ResName(ir int) string {
	f, _ := P.Residue(ir)
	return P.Atoms[f].Molname
}

//AtomIndex returns the index of the atom called name in residue ir, if there is one.
func (P *Pose) AtomIndex(ir int, name string) (int, bool) {
	f, l := P.Residue(ir)
	for i := f; i < l; i++ {
		if P.Atoms[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

//Pos returns the position of atom i.
func (P *Pose) Pos(i int) r3.Vec {
	r := P.Coords.RawRowView(i)
	return r3.Vec{X: r[0], Y: r[1], Z: r[2]}
}

//SetPos sets the position of atom i.
func (P *Pose) SetPos(i int, p r3.Vec) {
	r := P.Coords.RawRowView(i)
	r[0], r[1], r[2] = p.X, p.Y, p.Z
}

//Copy returns a deep copy of the pose.
func (P *Pose) Copy() *Pose {
	ret := &Pose{Atoms: make([]*Atom, len(P.Atoms)), Coords: v3.Zeros(P.Len())}
	for i, at := range P.Atoms {
		ret.Atoms[i] = at.Copy()
	}
	ret.Coords.Copy(P.Coords)
	ret.resStart = append([]int(nil), P.resStart...)
	return ret
}

//CAlphas returns a new matrix with the CA coordinates of every residue, in order.
//It returns an error if a residue has no CA atom.
func (P *Pose) CAlphas() (*v3.Matrix, error) {
	ret := v3.Zeros(P.NResidues())
	for ir := 1; ir <= P.NResidues(); ir++ {
		i, ok := P.AtomIndex(ir, "CA")
		if !ok {
			return nil, Error{fmt.Sprintf("residue %d (%s) has no CA atom", ir, P.ResName(ir)), []string{"CAlphas"}, true}
		}
		copy(ret.RawRowView(ir-1), P.Coords.RawRowView(i))
	}
	return ret, nil
}

//ApplyXform moves the whole pose by x.
func (P *Pose) ApplyXform(x rif.Xform) {
	P.XformResidues(x, 1, 0)
}

//XformResidues moves residues sres to eres (both included) by x. An eres of 0 means the last residue.
func (P *Pose) XformResidues(x rif.Xform, sres, eres int) {
	if eres == 0 {
		eres = P.NResidues()
	}
	first, _ := P.Residue(sres)
	_, last := P.Residue(eres)
	for i := first; i < last; i++ {
		P.SetPos(i, x.Apply(P.Pos(i)))
	}
}

//selected returns useres, or every residue if useres is empty.
func (P *Pose) selected(useres []int) ([]int, error) {
	if len(useres) == 0 {
		all := make([]int, P.NResidues())
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}
	for _, ir := range useres {
		if ir < 1 || ir > P.NResidues() {
			return nil, Error{fmt.Sprintf("residue number %d out of bounds", ir), []string{"selected"}, true}
		}
	}
	return useres, nil
}

//Center returns the geometric center of the heavy atoms of the residues in useres
//(every residue, if useres is empty).
func (P *Pose) Center(useres []int) (r3.Vec, error) {
	sel, err := P.selected(useres)
	if err != nil {
		return r3.Vec{}, errDecorate(err, "Center")
	}
	var cen r3.Vec
	count := 0
	for _, ir := range sel {
		f, l := P.Residue(ir)
		for i := f; i < l; i++ {
			if !P.Atoms[i].Heavy() {
				continue
			}
			cen = r3.Add(cen, P.Pos(i))
			count++
		}
	}
	if count == 0 {
		return r3.Vec{}, Error{"no heavy atoms in selection", []string{"Center"}, true}
	}
	return r3.Scale(1/float64(count), cen), nil
}

//RgRadius returns the radius of gyration and the maximum distance to the center
//for the residues in useres (every residue, if empty). Each residue is represented by
//its CB, or its CA if it has no CB, or its first atom. If allAtom is true, every heavy
//atom is used instead.
func (P *Pose) RgRadius(useres []int, allAtom bool) (rg, radius float64, err error) {
	sel, err := P.selected(useres)
	if err != nil {
		return 0, 0, errDecorate(err, "RgRadius")
	}
	cen, err := P.Center(sel)
	if err != nil {
		return 0, 0, errDecorate(err, "RgRadius")
	}
	var d2 []float64
	add := func(p r3.Vec) {
		d2 = append(d2, r3.Norm2(r3.Sub(p, cen)))
	}
	for _, ir := range sel {
		if allAtom {
			f, l := P.Residue(ir)
			for i := f; i < l; i++ {
				if P.Atoms[i].Heavy() {
					add(P.Pos(i))
				}
			}
			continue
		}
		i, ok := P.AtomIndex(ir, "CB")
		if !ok {
			i, ok = P.AtomIndex(ir, "CA")
		}
		if !ok {
			i, _ = P.Residue(ir)
		}
		add(P.Pos(i))
	}
	return math.Sqrt(stat.Mean(d2, nil)), math.Sqrt(floats.Max(d2)), nil
}

//GridPadding is added to each half side of a target's bounding box,
//so the box covers every interaction with the target.
const GridPadding = 5.0

//GridBox returns the bounding box of the heavy atoms of the residues in targetRes
//(every residue, if empty), with each side padded by GridPadding. It returns an error
//if the unpadded box is flat along some axis.
func (P *Pose) GridBox(targetRes []int) (r3.Box, error) {
	sel, err := P.selected(targetRes)
	if err != nil {
		return r3.Box{}, errDecorate(err, "GridBox")
	}
	min := r3.Vec{X: 9e9, Y: 9e9, Z: 9e9}
	max := r3.Vec{X: -9e9, Y: -9e9, Z: -9e9}
	for _, ir := range sel {
		f, l := P.Residue(ir)
		for i := f; i < l; i++ {
			if !P.Atoms[i].Heavy() {
				continue
			}
			p := P.Pos(i)
			min = r3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
			max = r3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
		}
	}
	box := r3.Box{Min: min, Max: max}
	if box.Empty() {
		return r3.Box{}, Error{fmt.Sprintf("grid radii must be positive, box is %v", box), []string{"GridBox"}, true}
	}
	pad := r3.Vec{X: GridPadding, Y: GridPadding, Z: GridPadding}
	return r3.Box{Min: r3.Sub(min, pad), Max: r3.Add(max, pad)}, nil
}
