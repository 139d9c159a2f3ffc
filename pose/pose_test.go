package pose

import (
	"math"
	"strings"
	"testing"

	rif "github.com/rmera/gorif"
	v3 "github.com/rmera/gorif/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

//testPose returns a 4 residue pose: ALA (with a hydrogen), GLY, PRO, SER.
func testPose(Te *testing.T) *Pose {
	Te.Helper()
	type a struct {
		name, sym, res string
		id             int
		x, y, z        float64
	}
	layout := []a{
		{"N", "N", "ALA", 1, 0, 0, 0},
		{"CA", "C", "ALA", 1, 1, 0, 0},
		{"C", "C", "ALA", 1, 1, 1, 0},
		{"CB", "C", "ALA", 1, 1, -1, 0},
		{"H", "H", "ALA", 1, 40, 40, 40},
		{"N", "N", "GLY", 2, 2, 1, 0},
		{"CA", "C", "GLY", 2, 3, 1, 0},
		{"C", "C", "GLY", 2, 3, 2, 0},
		{"N", "N", "PRO", 3, 4, 2, 0},
		{"CA", "C", "PRO", 3, 5, 2, 1},
		{"C", "C", "PRO", 3, 5, 3, 1},
		{"N", "N", "SER", 4, 6, 3, 1},
		{"CA", "C", "SER", 4, 7, 3, 2},
		{"C", "C", "SER", 4, 7, 4, 2},
	}
	atoms := make([]*Atom, len(layout))
	data := make([]float64, 0, 3*len(layout))
	for i, s := range layout {
		atoms[i] = &Atom{Name: s.name, Symbol: s.sym, Molname: s.res, Molid: s.id, Chain: 'A'}
		data = append(data, s.x, s.y, s.z)
	}
	coords, err := v3.NewMatrix(data)
	require.NoError(Te, err)
	p, err := NewPose(atoms, coords)
	require.NoError(Te, err)
	return p
}

func TestNewPose(Te *testing.T) {
	p := testPose(Te)
	assert.Equal(Te, 4, p.NResidues())
	assert.Equal(Te, 14, p.Len())
	f, l := p.Residue(2)
	assert.Equal(Te, []int{5, 8}, []int{f, l})
	assert.Equal(Te, "PRO", p.ResName(3))
	assert.Panics(Te, func() { p.Residue(5) })

	atoms := []*Atom{{Molid: 1}, {Molid: 2}, {Molid: 1}}
	_, err := NewPose(atoms, v3.Zeros(3))
	assert.Error(Te, err, "scattered residues")
	_, err = NewPose(atoms, v3.Zeros(2))
	assert.Error(Te, err)
}

func TestCAlphasAndCopy(Te *testing.T) {
	p := testPose(Te)
	ca, err := p.CAlphas()
	require.NoError(Te, err)
	assert.Equal(Te, 4, ca.NVecs())
	assert.Equal(Te, []float64{5, 2, 1}, ca.RawRowView(2))

	c := p.Copy()
	c.ApplyXform(rif.Translation(r3.Vec{X: 10}))
	c.Atoms[0].Name = "X"
	assert.Equal(Te, 0.0, p.Pos(0).X, "copies must be independent")
	assert.Equal(Te, "N", p.Atoms[0].Name)
	assert.Equal(Te, 10.0, c.Pos(0).X)

	tr, err := FromCA(ca)
	require.NoError(Te, err)
	ca2, err := tr.CAlphas()
	require.NoError(Te, err)
	assert.Equal(Te, ca.RawMatrix().Data, ca2.RawMatrix().Data)

	noca, err := NewPose([]*Atom{{Name: "N", Molid: 1}}, v3.Zeros(1))
	require.NoError(Te, err)
	_, err = noca.CAlphas()
	assert.Error(Te, err)
}

func TestXformResidues(Te *testing.T) {
	p := testPose(Te)
	p.XformResidues(rif.Translation(r3.Vec{Z: 1}), 2, 3)
	assert.Equal(Te, 0.0, p.Pos(0).Z)
	assert.Equal(Te, 1.0, p.Pos(5).Z)
	assert.Equal(Te, 2.0, p.Pos(10).Z)
	assert.Equal(Te, 1.0, p.Pos(11).Z)
}

func TestCenterRgRadius(Te *testing.T) {
	p := testPose(Te)
	cen, err := p.Center([]int{1})
	require.NoError(Te, err)
	//the hydrogen is ignored
	assert.InDelta(Te, 0.75, cen.X, 1e-12)
	assert.InDelta(Te, 0.0, cen.Y, 1e-12)

	_, err = p.Center([]int{9})
	assert.Error(Te, err)

	rg, radius, err := p.RgRadius([]int{1, 2}, false)
	require.NoError(Te, err)
	//CB of ALA, CA of GLY
	cen, _ = p.Center([]int{1, 2})
	d1 := r3.Norm(r3.Sub(r3.Vec{X: 1, Y: -1}, cen))
	d2 := r3.Norm(r3.Sub(r3.Vec{X: 3, Y: 1}, cen))
	assert.InDelta(Te, math.Sqrt((d1*d1+d2*d2)/2), rg, 1e-12)
	assert.InDelta(Te, math.Max(d1, d2), radius, 1e-12)

	rgAll, radAll, err := p.RgRadius(nil, true)
	require.NoError(Te, err)
	assert.Greater(Te, rgAll, 0.0)
	assert.Less(Te, radAll, 10.0, "hydrogens must not count")
}

func TestGridBox(Te *testing.T) {
	p := testPose(Te)
	box, err := p.GridBox(nil)
	require.NoError(Te, err)
	assert.Equal(Te, r3.Vec{X: -5, Y: -6, Z: -5}, box.Min)
	assert.Equal(Te, r3.Vec{X: 12, Y: 9, Z: 7}, box.Max)
	_, err = p.GridBox([]int{1})
	assert.Error(Te, err, "ALA heavy atoms are flat along Z")
}

func TestParseResidueList(Te *testing.T) {
	p := testPose(Te)
	tests := []struct {
		name  string
		in    string
		noCGP bool
		want  []int
		err   bool
	}{
		{"empty selects all", "", false, []int{1, 2, 3, 4}, false},
		{"empty without CGP", "  \n", true, []int{1, 4}, false},
		{"single", "3", false, []int{3}, false},
		{"reversed range and dups", "4-2 3\n2", false, []int{2, 3, 4}, false},
		{"range without CGP", "1-4", true, []int{1, 4}, false},
		{"out of bounds", "5", false, nil, true},
		{"zero", "0-2", false, nil, true},
		{"garbage", "1-2-3", false, nil, true},
		{"not a number", "A", false, nil, true},
	}
	for _, tt := range tests {
		Te.Run(tt.name, func(Te *testing.T) {
			got, err := ParseResidueList(strings.NewReader(tt.in), p, tt.noCGP)
			if tt.err {
				assert.Error(Te, err)
				return
			}
			require.NoError(Te, err)
			assert.Equal(Te, tt.want, got)
		})
	}
}

func TestResListHash(Te *testing.T) {
	h1, err := ResListHash([]int{1, 2, 3})
	require.NoError(Te, err)
	assert.Len(Te, h1, 8)
	h2, _ := ResListHash([]int{1, 2, 3})
	h3, _ := ResListHash([]int{1, 2, 4})
	assert.Equal(Te, h1, h2)
	assert.NotEqual(Te, h1, h3)
	_, err = ResListHash(nil)
	assert.Error(Te, err)
}
