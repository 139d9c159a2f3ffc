/*
 * scorer.go, part of gorif.
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
)

const (
	untouchedSite = 9e9 //initial best score of every target site
	touchedSite   = 9e5 //sites with a best score at or below this were matched before
	noMatch       = 100.0
)

//Satisfaction collects, for one scoring call, the combined target slots
//(donors first, then acceptors) satisfied by the rotamer, and the number
//of hydrogen bonds counted for the multi-hbond bonus. -1 means an empty slot.
type Satisfaction struct {
	Sat1    int
	Sat2    int
	HBCount int
}

//NewSatisfaction returns a Satisfaction with both slots empty.
func NewSatisfaction() Satisfaction {
	return Satisfaction{Sat1: -1, Sat2: -1}
}

//fill records site in the first free slot. A site is never recorded twice.
func (s *Satisfaction) fill(site int) {
	if s.Sat1 == -1 || s.Sat1 == site {
		s.Sat1 = site
	} else if s.Sat2 == -1 || s.Sat2 == site {
		s.Sat2 = site
	}
}

//ScoreRotamerVsTarget scores placed rotamers against a fixed target.
//All fields are read-only once scoring starts, so a single value can be used
//concurrently from many goroutines, as long as each one passes its own worker
//index when a GridScorer is set.
type ScoreRotamerVsTarget struct {
	Rotamers RotamerIndex
	//One field per rif atom type.
	Fields          []Field
	TargetDonors    []HBondRay
	TargetAcceptors []HBondRay

	HBondWeight                 float64
	UpweightIface               float64
	UpweightMultiHBond          float64
	MinHBQualityForMulti        float64
	MinHBQualityForSatisfaction float64
	LongHBondFudgeDistance      float64

	//If Grid is not nil, the base score is the grid one body energy of a
	//scratch copy of the placed rotamer, and hydrogen bonds are only
	//computed to fill satisfaction slots. Scratch is then mandatory.
	Grid    GridScorer
	Scratch *ScratchPool
}

//NewScoreRotamerVsTarget returns a scorer with the default weights.
func NewScoreRotamerVsTarget(rots RotamerIndex, fields []Field, donors, acceptors []HBondRay) (*ScoreRotamerVsTarget, error) {
	if rots == nil {
		return nil, newError("nil rotamer index", "NewScoreRotamerVsTarget")
	}
	if len(fields) != NumRifAtomTypes {
		return nil, newError(fmt.Sprintf("need %d fields, one per rif atom type, got %d", NumRifAtomTypes, len(fields)), "NewScoreRotamerVsTarget")
	}
	for i, f := range fields {
		if f == nil {
			return nil, newError(fmt.Sprintf("field %d is nil", i), "NewScoreRotamerVsTarget")
		}
	}
	return &ScoreRotamerVsTarget{
		Rotamers:                    rots,
		Fields:                      fields,
		TargetDonors:                donors,
		TargetAcceptors:             acceptors,
		HBondWeight:                 2.0,
		UpweightIface:               1.0,
		UpweightMultiHBond:          0.0,
		MinHBQualityForMulti:        -0.5,
		MinHBQualityForSatisfaction: -0.6,
		LongHBondFudgeDistance:      0.0,
	}, nil
}

//NSlots returns the size of the combined satisfaction slot space.
func (s *ScoreRotamerVsTarget) NSlots() int {
	return len(s.TargetDonors) + len(s.TargetAcceptors)
}

//ScoreRotamer returns the score of rotamer irot placed by x, without
//satisfaction tracking. Hydrogen bonds are not evaluated if the base score is
//at or above badScoreThresh. Atoms before startAtom are not scored, which
//allows skipping the backbone. Grid scoring calls use worker 0.
func (s *ScoreRotamerVsTarget) ScoreRotamer(irot int, x Xform, badScoreThresh float64, startAtom int) float64 {
	sat := NewSatisfaction()
	return s.ScoreRotamerSat(irot, x, &sat, false, badScoreThresh, startAtom, 0)
}

//ScoreRotamerSat is like ScoreRotamer, but it also records the satisfied target
//slots and the hydrogen bond count in sat, which must be initialized by the caller
//(see NewSatisfaction). wantSats forces hydrogen bond evaluation when a GridScorer
//is in use. worker selects the scratch slot used for grid scoring.
func (s *ScoreRotamerVsTarget) ScoreRotamerSat(irot int, x Xform, sat *Satisfaction, wantSats bool, badScoreThresh float64, startAtom int, worker int) float64 {
	s.check()
	if sat == nil {
		tmp := NewSatisfaction()
		sat = &tmp
	}
	useGrid := s.Grid != nil
	var score float64
	if useGrid {
		res := s.Scratch.AtIdentity(worker, irot)
		res.ApplyXform(x)
		score += s.Grid.OneBodyEnergy(res)
	} else {
		for iatom := startAtom; iatom < s.Rotamers.NHeavyAtoms(irot); iatom++ {
			atom := s.Rotamers.Atom(irot, iatom)
			score += s.Fields[atom.Type].At(x.Apply(atom.Pos))
		}
	}

	calculateHBonds := score < badScoreThresh && (!useGrid || wantSats)
	if !calculateHBonds {
		return score * s.UpweightIface
	}
	var hbscore float64
	acceptors := s.Rotamers.Acceptors(irot)
	donors := s.Rotamers.Donors(irot)
	if len(acceptors) > 0 || len(donors) > 0 {
		hbscore += s.matchRays(XformRays(acceptors, x), s.TargetDonors, false, 0, sat)
		hbscore += s.matchRays(XformRays(donors, x), s.TargetAcceptors, true, len(s.TargetDonors), sat)
	}
	if s.UpweightMultiHBond != 0 {
		hbscore = s.multiHBond(irot, hbscore, sat.HBCount)
	}
	if hbscore < 0 && !useGrid {
		score += hbscore
	}
	return score * s.UpweightIface
}

func (s *ScoreRotamerVsTarget) check() {
	if s.Rotamers == nil {
		panic(ErrNilRotamerIndex)
	}
	if len(s.Fields) != NumRifAtomTypes {
		panic(ErrFieldCount)
	}
	if s.Grid != nil && s.Scratch == nil {
		panic(ErrNoScratchPool)
	}
}

//matchRays greedily matches each of the rotamer's rays to its best target ray
//and returns the weighted hydrogen bond score. rotDonors tells whether rays are
//donors (and targets acceptors) or the opposite. offset is added to target
//indexes to obtain satisfaction slots.
func (s *ScoreRotamerVsTarget) matchRays(rays, targets []HBondRay, rotDonors bool, offset int, sat *Satisfaction) float64 {
	if len(rays) == 0 || len(targets) == 0 {
		return 0
	}
	used := make([]float64, len(targets))
	for i := range used {
		used[i] = untouchedSite
	}
	var hbscore float64
	for _, ray := range rays {
		best := noMatch
		ibest := -1
		for i, tgt := range targets {
			var this float64
			if rotDonors {
				this = ScoreHBondRays(ray, tgt, 0, s.LongHBondFudgeDistance)
			} else {
				this = ScoreHBondRays(tgt, ray, 0, s.LongHBondFudgeDistance)
			}
			if this < best {
				best = this
				ibest = i
			}
		}
		if ibest < 0 || used[ibest] <= best {
			continue
		}
		prev := used[ibest]
		//best < prev here, so a site that already passed the threshold
		//passes it again.
		if prev < s.MinHBQualityForSatisfaction || best < s.MinHBQualityForSatisfaction {
			sat.fill(ibest + offset)
		}
		if s.UpweightMultiHBond != 0 && best < s.MinHBQualityForMulti && prev >= s.MinHBQualityForMulti {
			sat.HBCount++
		}
		if prev <= touchedSite {
			hbscore += (best - prev) * s.HBondWeight
		} else {
			hbscore += best * s.HBondWeight
		}
		used[ibest] = best
	}
	return hbscore
}

//multiHBond rescales hbscore according to the hydrogen bond count and the
//number of heavy atom chis of the rotamer. Hydroxyl residues are left alone.
func (s *ScoreRotamerVsTarget) multiHBond(irot int, hbscore float64, hbcount int) float64 {
	switch s.Rotamers.ResName(irot) {
	case "TYR", "SER", "THR":
		return hbscore
	}
	var scale, rate float64
	switch nchi := s.Rotamers.NChi(irot) - s.Rotamers.NProtonChi(irot); {
	case nchi <= 1:
		scale, rate = 1.0, 0.7
	case nchi == 2:
		scale, rate = 0.9, 1.0
	case nchi == 3:
		scale, rate = 0.7, 0.8
	default:
		scale, rate = 0.5, 0.7
	}
	var multihb float64
	if hbcount <= 1 {
		hbscore *= scale
	} else {
		multihb = rate * float64(hbcount-1)
	}
	multihb = math.Max(0, multihb)
	return hbscore + hbscore*multihb*s.UpweightMultiHBond
}
