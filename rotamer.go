/*
 * rotamer.go, part of gorif.
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

	"gonum.org/v1/gonum/spatial/r3"
)

//RotAtom is a heavy atom of a rotamer, in the rotamer's local frame.
//Type is the rif atom type, an index into the scorer's field set.
type RotAtom struct {
	Type int
	Pos  r3.Vec
}

//RotamerIndex is the read-only rotamer library a scorer works with.
//Implementations must be safe for concurrent reads.
type RotamerIndex interface {
	//Number of rotamers in the index.
	Len() int
	NHeavyAtoms(irot int) int
	//Heavy atom iatom of rotamer irot. The backbone atoms come first.
	Atom(irot, iatom int) RotAtom
	Donors(irot int) []HBondRay
	Acceptors(irot int) []HBondRay
	ResName(irot int) string
	NChi(irot int) int
	//Number of chi angles that only move polar hydrogens.
	NProtonChi(irot int) int
}

//Rotamer is one discrete side chain conformation.
type Rotamer struct {
	ResName    string
	Atoms      []RotAtom
	Donors     []HBondRay
	Acceptors  []HBondRay
	NChi       int
	NProtonChi int
}

//Library is an in-memory RotamerIndex.
type Library struct {
	rots []Rotamer
}

//NewLibrary returns a Library holding rots. It returns an error if some
//rotamer has more proton chis than chis, or atoms with negative types.
func NewLibrary(rots ...Rotamer) (*Library, error) {
	l := &Library{}
	for _, r := range rots {
		if _, err := l.Add(r); err != nil {
			return nil, errDecorate(err, "NewLibrary")
		}
	}
	return l, nil
}

//Add appends a rotamer to the library and returns its index.
func (l *Library) Add(r Rotamer) (int, error) {
	if r.NProtonChi > r.NChi || r.NProtonChi < 0 {
		return -1, newError(fmt.Sprintf("rotamer %s has %d proton chis but only %d chis", r.ResName, r.NProtonChi, r.NChi), "Library.Add")
	}
	for i, a := range r.Atoms {
		if a.Type < 0 || a.Type >= NumRifAtomTypes {
			return -1, newError(fmt.Sprintf("atom %d of rotamer %s has invalid type %d", i, r.ResName, a.Type), "Library.Add")
		}
	}
	l.rots = append(l.rots, r)
	return len(l.rots) - 1, nil
}

//Rotamer returns the rotamer with index irot.
func (l *Library) Rotamer(irot int) Rotamer { return l.rots[irot] }

func (l *Library) Len() int { return len(l.rots) }

func (l *Library) NHeavyAtoms(irot int) int { return len(l.rots[irot].Atoms) }

func (l *Library) Atom(irot, iatom int) RotAtom { return l.rots[irot].Atoms[iatom] }

func (l *Library) Donors(irot int) []HBondRay { return l.rots[irot].Donors }

func (l *Library) Acceptors(irot int) []HBondRay { return l.rots[irot].Acceptors }

func (l *Library) ResName(irot int) string { return l.rots[irot].ResName }

func (l *Library) NChi(irot int) int { return l.rots[irot].NChi }

func (l *Library) NProtonChi(irot int) int { return l.rots[irot].NProtonChi }
