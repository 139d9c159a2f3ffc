package rif

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecInDelta(Te *testing.T, want, got r3.Vec, delta float64) {
	Te.Helper()
	assert.InDelta(Te, want.X, got.X, delta)
	assert.InDelta(Te, want.Y, got.Y, delta)
	assert.InDelta(Te, want.Z, got.Z, delta)
}

//rotZ returns a rotation of angle radians around Z, followed by trans.
func rotZ(angle float64, trans r3.Vec) Xform {
	c, s := math.Cos(angle), math.Sin(angle)
	return NewXform(r3.NewMat([]float64{c, -s, 0, s, c, 0, 0, 0, 1}), trans)
}

func TestXformApplyAndInverse(Te *testing.T) {
	x := rotZ(math.Pi/2, r3.Vec{X: 1, Y: 2, Z: 3})
	p := r3.Vec{X: 1}
	vecInDelta(Te, r3.Vec{X: 1, Y: 3, Z: 3}, x.Apply(p), 1e-12)
	vecInDelta(Te, p, x.Inverse().Apply(x.Apply(p)), 1e-12)
	id := x.Mul(x.Inverse())
	vecInDelta(Te, r3.Vec{X: 5, Y: -2, Z: 7}, id.Apply(r3.Vec{X: 5, Y: -2, Z: 7}), 1e-12)
}

func TestXformMulOrder(Te *testing.T) {
	rot := rotZ(math.Pi/2, r3.Vec{})
	tr := Translation(r3.Vec{X: 1})
	p := r3.Vec{}
	//translate first, then rotate
	vecInDelta(Te, r3.Vec{Y: 1}, rot.Mul(tr).Apply(p), 1e-12)
	vecInDelta(Te, r3.Vec{X: 1}, tr.Mul(rot).Apply(p), 1e-12)
	assert.InDelta(Te, 1.0, rot.Mat().Det(), 1e-12)
}

func TestStub(Te *testing.T) {
	a := r3.Vec{X: 1.46}
	b := r3.Vec{}
	c := r3.Vec{X: -0.5, Y: 1.4}
	s, err := Stub(a, b, c)
	require.NoError(Te, err)
	assert.InDelta(Te, 1.0, s.Mat().Det(), 1e-9)
	//The same stub built on moved points is the moved stub.
	x := rotZ(0.7, r3.Vec{X: -3, Y: 4, Z: 1})
	s2, err := Stub(x.Apply(a), x.Apply(b), x.Apply(c))
	require.NoError(Te, err)
	p := r3.Vec{X: 0.3, Y: -2, Z: 5}
	vecInDelta(Te, x.Mul(s).Apply(p), s2.Apply(p), 1e-9)

	_, err = Stub(a, b, r3.Vec{X: 3})
	assert.Error(Te, err)
}

func TestAngleBetween(Te *testing.T) {
	assert.InDelta(Te, math.Pi/2, AngleBetween(r3.Vec{X: 1}, r3.Vec{Y: 2}), 1e-12)
	assert.InDelta(Te, 0.0, AngleBetween(r3.Vec{X: 1}, r3.Vec{X: 2}), 1e-7)
}
