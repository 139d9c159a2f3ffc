/*
 * hbond.go, part of gorif.
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

//ORBLEN is the distance from an acceptor's orbital center (the origin of an
//acceptor HBondRay) back to the acceptor heavy atom.
const ORBLEN = 0.61

//Optimal donor-acceptor heavy atom distance and the half width of the distance bump.
const (
	hbondOptimalDist = 2.00
	hbondDistWidth   = 0.8
	hbondTooClose    = 1.5
)

//HBondRay is an oriented point representing a hydrogen bond donor (hydrogen
//position and the direction of the bond) or an acceptor (orbital center and
//the direction of the orbital). Whether a ray is a donor or an acceptor
//depends on the list holding it.
type HBondRay struct {
	Origin    r3.Vec
	Direction r3.Vec
}

//Xformed returns a copy of the ray moved by x. The receiver is not modified.
func (r HBondRay) Xformed(x Xform) HBondRay {
	return HBondRay{Origin: x.Apply(r.Origin), Direction: x.Rotate(r.Direction)}
}

//XformRays returns copies of rays, all moved by x.
func XformRays(rays []HBondRay, x Xform) []HBondRay {
	ret := make([]HBondRay, len(rays))
	for i, r := range rays {
		ret[i] = r.Xformed(x)
	}
	return ret
}

//ScoreHBondRays returns the quality of the hydrogen bond between the donor don and the
//acceptor acc. The result is never positive: 0 means no bond, -1 is an ideal bond.
//nonDirFrac, in [0,1], blends the direction gated score with a purely distance based one.
//fudge is subtracted from the distance excess of long bonds.
func ScoreHBondRays(don, acc HBondRay, nonDirFrac, fudge float64) float64 {
	accHeavy := r3.Sub(acc.Origin, r3.Scale(ORBLEN, acc.Direction))
	dvec := r3.Sub(accHeavy, don.Origin)
	dist := r3.Norm(dvec)

	diff := dist - hbondOptimalDist
	if diff < 0 {
		diff *= hbondTooClose
	} else {
		diff = math.Max(0, diff-fudge)
	}
	diff = math.Max(-hbondDistWidth, math.Min(hbondDistWidth, diff))
	d := diff / hbondDistWidth
	bump := 1 - d*d
	score := -bump * bump

	var dirscore float64
	if dist > 0 {
		htoa := r3.Scale(1/dist, dvec)
		hdir := math.Max(0, r3.Dot(don.Direction, htoa))
		adir := math.Max(0, -r3.Dot(acc.Direction, htoa))
		dirscore = math.Max(0, hdir*hdir*adir)
	}
	return (1-nonDirFrac)*score*dirscore + nonDirFrac*score
}
