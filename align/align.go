/*
 * align.go, part of gorif.
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

package align

import (
	"fmt"
	"math"

	rif "github.com/rmera/gorif"
	"github.com/rmera/gorif/pose"
	v3 "github.com/rmera/gorif/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//DefaultAlignError is the largest deviation, in A, accepted when checking the
//transformation between two identical poses.
const DefaultAlignError = 0.2

//Super returns the rigid body transformation that best superimposes test onto templa
//(least squares, Kabsch), and the RMSD after the superposition.
//Both matrices must have the same number of vectors. Neither is modified.
func Super(test, templa *v3.Matrix) (rif.Xform, float64, error) {
	if err := sameShape(test, templa); err != nil {
		return rif.Xform{}, -1, errDecorate(err, "Super")
	}
	n := test.NVecs()
	ctest := v3.Centroid(test)
	ctempla := v3.Centroid(templa)
	p := v3.Zeros(n)
	p.SubVec(test, ctest)
	q := v3.Zeros(n)
	q.SubVec(templa, ctempla)

	//covariance matrix, H = P^T Q
	var h mat.Dense
	h.Mul(p.T(), q)
	var svd mat.SVD
	if ok := svd.Factorize(&h, mat.SVDFull); !ok {
		return rif.Xform{}, -1, Error{"SVD factorization failed", []string{"Super"}, true}
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	//R = V diag(1,1,d) U^T, where d corrects for reflections.
	var vut mat.Dense
	vut.Mul(&v, u.T())
	d := 1.0
	if mat.Det(&vut) < 0 {
		d = -1
	}
	diag := mat.NewDiagDense(3, []float64{1, 1, d})
	var rot, tmp mat.Dense
	tmp.Mul(&v, diag)
	rot.Mul(&tmp, u.T())

	r3rot := r3.NewMat(nil)
	r3rot.CloneFrom(&rot)
	ct := r3.Vec{X: ctest.At(0, 0), Y: ctest.At(0, 1), Z: ctest.At(0, 2)}
	cm := r3.Vec{X: ctempla.At(0, 0), Y: ctempla.At(0, 1), Z: ctempla.At(0, 2)}
	x := rif.NewXform(r3rot, r3.Sub(cm, r3rot.MulVec(ct)))
	var sum float64
	for i := 0; i < n; i++ {
		sum += r3.Norm2(r3.Sub(x.Apply(row(test, i)), row(templa, i)))
	}
	return x, math.Sqrt(sum / float64(n)), nil
}

//RMSD returns the root mean square deviation between test and templa after
//superimposing them.
func RMSD(test, templa *v3.Matrix) (float64, error) {
	_, rmsd, err := Super(test, templa)
	if err != nil {
		return -1, errDecorate(err, "RMSD")
	}
	return rmsd, nil
}

//RMSDNoSuper returns the root mean square deviation between test and templa
//in their current positions.
func RMSDNoSuper(test, templa *v3.Matrix) (float64, error) {
	if err := sameShape(test, templa); err != nil {
		return -1, errDecorate(err, "RMSDNoSuper")
	}
	n := test.NVecs()
	var sum float64
	for i := 0; i < n; i++ {
		sum += r3.Norm2(r3.Sub(row(test, i), row(templa, i)))
	}
	return math.Sqrt(sum / float64(n)), nil
}

//CARMSD returns the superimposed RMSD between the alpha carbons of two poses.
func CARMSD(p1, p2 *pose.Pose) (float64, error) {
	return SubsetCARMSD(p1, p2, nil, true)
}

//SubsetCARMSD returns the RMSD between the alpha carbons of the residues in sel
//(1-based, every residue if sel is empty) of two poses. The poses are superimposed
//on those alpha carbons first if superimpose is true.
func SubsetCARMSD(p1, p2 *pose.Pose, sel []int, superimpose bool) (float64, error) {
	if p1.NResidues() != p2.NResidues() {
		return -1, Error{fmt.Sprintf("poses have %d and %d residues", p1.NResidues(), p2.NResidues()), []string{"SubsetCARMSD"}, true}
	}
	ca1, err := p1.CAlphas()
	if err != nil {
		return -1, errDecorate(err, "SubsetCARMSD")
	}
	ca2, err := p2.CAlphas()
	if err != nil {
		return -1, errDecorate(err, "SubsetCARMSD")
	}
	if len(sel) > 0 {
		idx := make([]int, len(sel))
		for i, ir := range sel {
			idx[i] = ir - 1
		}
		s1 := v3.Zeros(len(idx))
		s2 := v3.Zeros(len(idx))
		if err := s1.SomeVecsSafe(ca1, idx); err != nil {
			return -1, errDecorate(err, "SubsetCARMSD")
		}
		if err := s2.SomeVecsSafe(ca2, idx); err != nil {
			return -1, errDecorate(err, "SubsetCARMSD")
		}
		ca1, ca2 = s1, s2
	}
	if superimpose {
		return RMSD(ca1, ca2)
	}
	return RMSDNoSuper(ca1, ca2)
}

//XformBetweenIdentical returns the transformation that moves p1 onto p2, where both poses
//are the same structure placed differently. The transformation is built from the backbone
//stubs (N, CA, C) of the first residue, after centering p1 on the center of its alanine-reduced
//backbone. The result is checked on the N atom of the first and of the middle residue; if either
//deviates by alignError or more, an error is returned.
func XformBetweenIdentical(p1, p2 *pose.Pose, alignError float64) (rif.Xform, error) {
	if p1.NResidues() != p2.NResidues() || p1.Len() != p2.Len() {
		return rif.Xform{}, Error{"poses are not identical", []string{"XformBetweenIdentical"}, true}
	}
	moveCenter, err := alaCenter(p1)
	if err != nil {
		return rif.Xform{}, errDecorate(err, "XformBetweenIdentical")
	}
	matchCenter, err := alaCenter(p2)
	if err != nil {
		return rif.Xform{}, errDecorate(err, "XformBetweenIdentical")
	}
	mid := p1.NResidues() / 2
	if mid < 1 {
		mid = 1
	}
	moveStub, err := backbone(p1, 1)
	if err != nil {
		return rif.Xform{}, errDecorate(err, "XformBetweenIdentical")
	}
	matchStub, err := backbone(p2, 1)
	if err != nil {
		return rif.Xform{}, errDecorate(err, "XformBetweenIdentical")
	}
	moveMid, err := backbone(p1, mid)
	if err != nil {
		return rif.Xform{}, errDecorate(err, "XformBetweenIdentical")
	}
	matchMid, err := backbone(p2, mid)
	if err != nil {
		return rif.Xform{}, errDecorate(err, "XformBetweenIdentical")
	}

	toCenter := rif.Translation(r3.Scale(-1, moveCenter))
	var centered [3]r3.Vec
	for i, p := range moveStub {
		centered[i] = toCenter.Apply(p)
	}
	matchX, err := rif.Stub(matchStub[0], matchStub[1], matchStub[2])
	if err != nil {
		return rif.Xform{}, errDecorate(err, "XformBetweenIdentical")
	}
	moveX, err := rif.Stub(centered[0], centered[1], centered[2])
	if err != nil {
		return rif.Xform{}, errDecorate(err, "XformBetweenIdentical")
	}
	centeredToMatch := matchX.Mul(moveX.Inverse())
	centeredToMatch.Trans = matchCenter

	check := func(what string, x rif.Xform, from, to r3.Vec) error {
		e := r3.Norm(r3.Sub(x.Apply(from), to))
		if e >= alignError {
			return Error{fmt.Sprintf("%s alignment error %5.3f is not below %5.3f", what, e, alignError), []string{"XformBetweenIdentical"}, true}
		}
		return nil
	}
	if err := check("centered residue 1", centeredToMatch, centered[0], matchStub[0]); err != nil {
		return rif.Xform{}, err
	}
	ret := centeredToMatch.Mul(toCenter)
	if err := check("residue 1", ret, moveStub[0], matchStub[0]); err != nil {
		return rif.Xform{}, err
	}
	if err := check(fmt.Sprintf("residue %d", mid), ret, moveMid[0], matchMid[0]); err != nil {
		return rif.Xform{}, err
	}
	return ret, nil
}

//backbone returns the N, CA and C positions of residue ir.
func backbone(p *pose.Pose, ir int) ([3]r3.Vec, error) {
	var ret [3]r3.Vec
	for i, name := range []string{"N", "CA", "C"} {
		at, ok := p.AtomIndex(ir, name)
		if !ok {
			return ret, Error{fmt.Sprintf("residue %d (%s) has no %s atom", ir, p.ResName(ir), name), []string{"backbone"}, true}
		}
		ret[i] = p.Pos(at)
	}
	return ret, nil
}

//alaCenter returns the center of the heavy atoms of p as if every residue but
//GLY, PRO and CYD were mutated to alanine.
func alaCenter(p *pose.Pose) (r3.Vec, error) {
	var cen r3.Vec
	count := 0
	for ir := 1; ir <= p.NResidues(); ir++ {
		keepAll := false
		switch p.ResName(ir) {
		case "GLY", "PRO", "CYD":
			keepAll = true
		}
		f, l := p.Residue(ir)
		for i := f; i < l; i++ {
			at := p.Atoms[i]
			if !at.Heavy() {
				continue
			}
			if !keepAll && !alaAtoms[at.Name] {
				continue
			}
			cen = r3.Add(cen, p.Pos(i))
			count++
		}
	}
	if count == 0 {
		return r3.Vec{}, Error{"no backbone atoms to center on", []string{"alaCenter"}, true}
	}
	return r3.Scale(1/float64(count), cen), nil
}

var alaAtoms = map[string]bool{"N": true, "CA": true, "C": true, "O": true, "CB": true}

func row(m *v3.Matrix, i int) r3.Vec {
	r := m.RawRowView(i)
	return r3.Vec{X: r[0], Y: r[1], Z: r[2]}
}

func sameShape(a, b *v3.Matrix) error {
	if a.NVecs() != b.NVecs() {
		return Error{fmt.Sprintf("mismatched number of vectors, %d and %d", a.NVecs(), b.NVecs()), []string{"sameShape"}, true}
	}
	if a.NVecs() == 0 {
		return Error{"no vectors to superimpose", []string{"sameShape"}, true}
	}
	return nil
}
