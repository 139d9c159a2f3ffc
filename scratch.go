/*
 * scratch.go, part of gorif.
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
)

//PlacedResidue is a mutable copy of a rotamer's heavy atoms, moved to some
//position in space.
type PlacedResidue struct {
	Rotamer int
	ResName string
	Atoms   []RotAtom
}

//ApplyXform moves every atom of the residue by x, in place.
func (r *PlacedResidue) ApplyXform(x Xform) {
	for i := range r.Atoms {
		r.Atoms[i].Pos = x.Apply(r.Atoms[i].Pos)
	}
}

func (r *PlacedResidue) reset(idx RotamerIndex, irot int) {
	n := idx.NHeavyAtoms(irot)
	if cap(r.Atoms) < n {
		r.Atoms = make([]RotAtom, n)
	}
	r.Atoms = r.Atoms[:n]
	for i := 0; i < n; i++ {
		r.Atoms[i] = idx.Atom(irot, i)
	}
	r.Rotamer = irot
	r.ResName = idx.ResName(irot)
}

//GridScorer computes the one body energy of a placed residue against
//the target. It is the alternative to per atom field lookups.
type GridScorer interface {
	OneBodyEnergy(res *PlacedResidue) float64
}

//FieldGridScorer is a GridScorer summing, over every atom of the residue,
//the field of the atom's type at the atom's position.
type FieldGridScorer struct {
	Fields []Field
}

//OneBodyEnergy returns the sum of the field values at the residue's atoms.
func (f *FieldGridScorer) OneBodyEnergy(res *PlacedResidue) float64 {
	var e float64
	for _, a := range res.Atoms {
		e += f.Fields[a.Type].At(a.Pos)
	}
	return e
}

//ScratchPool holds one set of scratch residues per worker. A worker must only
//ever use its own slot, so no locking is involved.
type ScratchPool struct {
	index RotamerIndex
	slots []map[int]*PlacedResidue
}

//NewScratchPool returns a pool with workers slots over the rotamers in idx.
func NewScratchPool(idx RotamerIndex, workers int) (*ScratchPool, error) {
	if idx == nil {
		return nil, newError("nil rotamer index", "NewScratchPool")
	}
	if workers < 1 {
		return nil, newError(fmt.Sprintf("a scratch pool needs at least one worker, got %d", workers), "NewScratchPool")
	}
	p := &ScratchPool{index: idx, slots: make([]map[int]*PlacedResidue, workers)}
	for i := range p.slots {
		p.slots[i] = make(map[int]*PlacedResidue)
	}
	return p, nil
}

//Workers returns the number of worker slots in the pool.
func (p *ScratchPool) Workers() int { return len(p.slots) }

//AtIdentity returns worker's scratch copy of rotamer irot, reset to the
//rotamer's local coordinates. The residue stays owned by the pool and is
//overwritten by the next call with the same worker and rotamer.
func (p *ScratchPool) AtIdentity(worker, irot int) *PlacedResidue {
	if worker < 0 || worker >= len(p.slots) {
		panic(ErrWorker)
	}
	slot := p.slots[worker]
	r, ok := slot[irot]
	if !ok {
		r = new(PlacedResidue)
		slot[irot] = r
	}
	r.reset(p.index, irot)
	return r
}
