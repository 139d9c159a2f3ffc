package rif

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

//acceptorAt returns an acceptor ray whose heavy atom is at heavy, with its orbital pointing along dir.
func acceptorAt(heavy, dir r3.Vec) HBondRay {
	return HBondRay{Origin: r3.Add(heavy, r3.Scale(ORBLEN, dir)), Direction: dir}
}

var donorX = HBondRay{Origin: r3.Vec{}, Direction: r3.Vec{X: 1}}

func TestScoreHBondRaysIdeal(Te *testing.T) {
	acc := acceptorAt(r3.Vec{X: 2}, r3.Vec{X: -1})
	assert.InDelta(Te, -1.0, ScoreHBondRays(donorX, acc, 0, 0), 1e-9)
	assert.InDelta(Te, -1.0, ScoreHBondRays(donorX, acc, 1, 0), 1e-9)
}

func TestScoreHBondRaysDistance(Te *testing.T) {
	tests := []struct {
		name  string
		x     float64
		fudge float64
		want  float64
	}{
		{"too far", 4.0, 0, 0},
		{"at far boundary", 2.8, 0, 0},
		{"too close", 1.2, 0, 0},
		{"long", 2.4, 0, -0.5625},
		{"long with fudge", 2.4, 0.4, -1},
		{"short", 1.8, 0, -(1 - 0.375*0.375) * (1 - 0.375*0.375)},
	}
	for _, tt := range tests {
		Te.Run(tt.name, func(Te *testing.T) {
			acc := acceptorAt(r3.Vec{X: tt.x}, r3.Vec{X: -1})
			assert.InDelta(Te, tt.want, ScoreHBondRays(donorX, acc, 0, tt.fudge), 1e-9)
		})
	}
}

func TestScoreHBondRaysDirection(Te *testing.T) {
	//donor pointing away from the acceptor
	perp := HBondRay{Direction: r3.Vec{Y: 1}}
	acc := acceptorAt(r3.Vec{X: 2}, r3.Vec{X: -1})
	assert.InDelta(Te, 0.0, ScoreHBondRays(perp, acc, 0, 0), 1e-9)
	assert.InDelta(Te, -0.5, ScoreHBondRays(perp, acc, 0.5, 0), 1e-9)
	//acceptor orbital pointing away from the donor
	away := acceptorAt(r3.Vec{X: 2}, r3.Vec{X: 1})
	assert.InDelta(Te, 0.0, ScoreHBondRays(donorX, away, 0, 0), 1e-9)
}

func TestScoreHBondRaysNeverPositive(Te *testing.T) {
	rng := rand.New(rand.NewSource(42))
	rvec := func(scale float64) r3.Vec {
		return r3.Vec{X: scale * (rng.Float64()*2 - 1), Y: scale * (rng.Float64()*2 - 1), Z: scale * (rng.Float64()*2 - 1)}
	}
	for i := 0; i < 5000; i++ {
		don := HBondRay{Origin: rvec(4), Direction: r3.Unit(rvec(1))}
		acc := HBondRay{Origin: rvec(4), Direction: r3.Unit(rvec(1))}
		s := ScoreHBondRays(don, acc, rng.Float64(), rng.Float64())
		if s > 0 {
			Te.Fatalf("positive hbond score %g for %v %v", s, don, acc)
		}
	}
}

func TestXformRays(Te *testing.T) {
	rays := []HBondRay{donorX}
	moved := XformRays(rays, Translation(r3.Vec{Y: 3}))
	assert.Equal(Te, r3.Vec{Y: 3}, moved[0].Origin)
	assert.Equal(Te, r3.Vec{X: 1}, moved[0].Direction)
	assert.Equal(Te, r3.Vec{}, rays[0].Origin, "the original rays must not change")
}
