package cluster

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	rif "github.com/rmera/gorif"
	"github.com/rmera/gorif/align"
	"github.com/rmera/gorif/logging"
	"github.com/rmera/gorif/pose"
	v3 "github.com/rmera/gorif/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const nCA = 10

func randCA(r *rand.Rand, scale float64) []r3.Vec {
	ret := make([]r3.Vec, nCA)
	for i := range ret {
		ret[i] = r3.Vec{X: scale * r.NormFloat64(), Y: scale * r.NormFloat64(), Z: scale * r.NormFloat64()}
	}
	return ret
}

//families returns an ensemble with one family of 6 nearly identical poses (0-5),
//one family of 3 looser poses (6-8) and a lone pose (9). Every pose is placed at a random position.
func families(Te *testing.T) []*pose.Pose {
	Te.Helper()
	r := rand.New(rand.NewSource(42))
	fams := []struct {
		size  int
		noise float64
	}{{6, 0.05}, {3, 0.5}, {1, 0}}
	var ret []*pose.Pose
	for _, f := range fams {
		base := randCA(r, 6)
		for k := 0; k < f.size; k++ {
			noise := randCA(r, f.noise)
			x, err := rif.Stub(randCA(r, 5)[0], randCA(r, 5)[1], randCA(r, 5)[2])
			require.NoError(Te, err)
			x.Trans = randCA(r, 20)[0]
			ca := v3.Zeros(nCA)
			for i := range base {
				p := x.Apply(r3.Add(base[i], noise[i]))
				ca.Set(i, 0, p.X)
				ca.Set(i, 1, p.Y)
				ca.Set(i, 2, p.Z)
			}
			p, err := pose.FromCA(ca)
			require.NoError(Te, err)
			ret = append(ret, p)
		}
	}
	return ret
}

func testOptions(cpus int) *Options {
	o := DefaultOptions()
	o.Cpus(cpus)
	return o
}

func TestAllByAllRMSD(Te *testing.T) {
	poses := families(Te)
	table, err := AllByAllRMSD(context.Background(), poses, testOptions(4))
	require.NoError(Te, err)
	require.Equal(Te, len(poses), table.Len())
	serial, err := AllByAllRMSD(context.Background(), poses, testOptions(1))
	require.NoError(Te, err)
	for i := range poses {
		assert.Equal(Te, 0.0, table.At(i, i))
		for j := i + 1; j < len(poses); j++ {
			assert.Equal(Te, table.At(i, j), table.At(j, i))
			assert.Equal(Te, serial.At(i, j), table.At(i, j))
		}
	}
	want, err := align.CARMSD(poses[2], poses[7])
	require.NoError(Te, err)
	assert.InDelta(Te, want, table.At(2, 7), 1e-12)
	assert.Less(Te, table.At(0, 5), 0.5)
	assert.Greater(Te, table.At(0, 9), 2.0)
}

type badPose struct {
	err       error
	panics    bool
	invariant PanicMsg
}

func (b badPose) CAlphas() (*v3.Matrix, error) {
	if b.invariant != "" {
		panic(b.invariant)
	}
	if b.panics {
		panic("corrupted pose")
	}
	if b.err != nil {
		return nil, b.err
	}
	return v3.Zeros(nCA), nil
}

func TestAllByAllRMSDErrors(Te *testing.T) {
	ctx := context.Background()
	good := families(Te)
	mixed := func(extra Pose) []Pose {
		ret := []Pose{good[0], good[1], extra, good[2]}
		return ret
	}
	_, err := AllByAllRMSD(ctx, mixed(badPose{err: errors.New("no CA")}), nil)
	assert.ErrorContains(Te, err, "no CA")

	_, err = AllByAllRMSD(ctx, mixed(badPose{panics: true}), testOptions(3))
	assert.ErrorContains(Te, err, "corrupted pose")

	//broken invariants reach the caller as the original panic
	assert.PanicsWithValue(Te, ErrCellWrittenTwice, func() {
		AllByAllRMSD(ctx, mixed(badPose{invariant: ErrCellWrittenTwice}), testOptions(3))
	})

	short, err := pose.FromCA(v3.Zeros(3))
	require.NoError(Te, err)
	_, err = AllByAllRMSD(ctx, mixed(short), testOptions(2))
	assert.Error(Te, err)

	_, err = AllByAllRMSD(ctx, []Pose{}, nil)
	assert.Error(Te, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = AllByAllRMSD(cancelled, good, nil)
	assert.ErrorIs(Te, err, context.Canceled)
}

func TestWaitWorkers(Te *testing.T) {
	var g errgroup.Group
	g.Go(func() (err error) {
		defer recoverWorker(&err, 4)
		panic(ErrCellWrittenTwice)
	})
	assert.PanicsWithValue(Te, ErrCellWrittenTwice, func() { wait(&g) })

	var h errgroup.Group
	h.Go(func() (err error) {
		defer recoverWorker(&err, 4)
		panic("out of memory")
	})
	err := wait(&h)
	var cerr Error
	require.ErrorAs(Te, err, &cerr)
	assert.True(Te, cerr.Critical())
	assert.ErrorContains(Te, err, "worker for pose 4 failed")
}

func TestAverageLink(Te *testing.T) {
	//points on a line at 0, 1, 10, 11, 30
	x := []float64{0, 1, 10, 11, 30}
	d := mat.NewSymDense(len(x), nil)
	for i := range x {
		for j := i + 1; j < len(x); j++ {
			d.SetSym(i, j, x[j]-x[i])
		}
	}
	tree := AverageLink(d)
	assert.Equal(Te, 5, tree.Leaves())
	assert.Equal(Te, []Merge{{0, 1, 1}, {2, 3, 1}, {5, 6, 10}, {7, 4, 24.5}}, tree.Merges())

	cases := map[int][][]int{
		1: {{0, 1, 2, 3, 4}},
		2: {{0, 1, 2, 3}, {4}},
		3: {{0, 1}, {2, 3}, {4}},
		5: {{0}, {1}, {2}, {3}, {4}},
	}
	for k, want := range cases {
		got, err := tree.Cut(k)
		require.NoError(Te, err)
		assert.Equal(Te, want, got, "cut into %d", k)
	}
	_, err := tree.Cut(0)
	assert.Error(Te, err)
	_, err = tree.Cut(6)
	assert.Error(Te, err)
	//input is not modified
	assert.Equal(Te, 9.0, d.At(1, 2))

	single := AverageLink(mat.NewSymDense(1, nil))
	bins, err := single.Cut(1)
	require.NoError(Te, err)
	assert.Equal(Te, [][]int{{0}}, bins)
}

func TestCheckPartition(Te *testing.T) {
	assert.NotPanics(Te, func() { checkPartition([][]int{{2, 0}, {1}}, 3) })
	assert.PanicsWithValue(Te, ErrBadPartition, func() { checkPartition([][]int{{0, 1}, {1, 2}}, 3) })
	assert.PanicsWithValue(Te, ErrBadPartition, func() { checkPartition([][]int{{0, 1}}, 3) })
	assert.PanicsWithValue(Te, ErrEmptyBin, func() { checkPartition([][]int{{0, 1, 2}, {}}, 3) })
}

func TestIntoNBins(Te *testing.T) {
	ctx := context.Background()
	poses := families(Te)
	bins, table, err := IntoNBins(ctx, poses, 3, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, [][]int{{0, 1, 2, 3, 4, 5}, {6, 7, 8}, {9}}, bins)

	for n := 1; n <= len(poses); n++ {
		bins, again, err := IntoNBins(ctx, poses, n, table, nil)
		require.NoError(Te, err)
		assert.Same(Te, table, again, "table is reused")
		assert.Len(Te, bins, n)
		total := 0
		for _, b := range bins {
			total += len(b)
		}
		assert.Equal(Te, len(poses), total)
	}
	_, _, err = IntoNBins(ctx, poses, 0, table, nil)
	assert.Error(Te, err)
	_, _, err = IntoNBins(ctx, poses, len(poses)+1, table, nil)
	assert.Error(Te, err)
}

func TestLeavingN(Te *testing.T) {
	ctx := context.Background()
	poses := families(Te)
	same, err := LeavingN(ctx, poses, len(poses), nil)
	require.NoError(Te, err)
	assert.Equal(Te, poses, same)
	same, err = LeavingN(ctx, poses, 100, nil)
	require.NoError(Te, err)
	assert.Equal(Te, poses, same)

	left, err := LeavingN(ctx, poses, 3, nil)
	require.NoError(Te, err)
	require.Len(Te, left, 3)
	assert.Same(Te, poses[0], left[0])
	assert.Same(Te, poses[6], left[1])
	assert.Same(Te, poses[9], left[2])
}

func TestIdenticalPoses(Te *testing.T) {
	poses := families(Te)[:1]
	poses = append(poses, poses[0].Copy())
	bins, table, err := IntoNBins(context.Background(), poses, 1, nil, nil)
	require.NoError(Te, err)
	assert.Equal(Te, [][]int{{0, 1}}, bins)
	assert.InDelta(Te, 0, table.At(0, 1), 1e-9)
	c := FindClusterCenter(bins[0], table)
	assert.Contains(Te, []int{0, 1}, c)
}

func TestFindClusterCenter(Te *testing.T) {
	d := mat.NewSymDense(4, []float64{
		0, 1, 5, 2,
		1, 0, 4, 1,
		5, 4, 0, 3,
		2, 1, 3, 0,
	})
	//sums over {0,1,3}: 3, 2, 3
	assert.Equal(Te, 1, FindClusterCenter([]int{0, 1, 3}, d))
	//sums over {2,3,0}: 8, 5, 7
	assert.Equal(Te, 1, FindClusterCenter([]int{2, 3, 0}, d))
	assert.Equal(Te, 0, FindClusterCenter([]int{2}, d))
	c, sum := clusterCenter([]int{2, 3, 0}, d)
	assert.Equal(Te, 1, c)
	assert.Equal(Te, 5.0, sum)
	assert.PanicsWithValue(Te, ErrEmptyBin, func() { FindClusterCenter(nil, d) })
}

func TestLeavingNRepresentingFrac(Te *testing.T) {
	ctx := context.Background()
	poses := families(Te)
	core, logs := observer.New(zapcore.DebugLevel)
	o := DefaultOptions()
	o.Logger(logging.NewLoggerFromCore(core))

	//the 6 family is 60% of the ensemble. 1 bin holds everything, 4 bins split the
	//loose family, leaving the 6 family as the largest bin.
	left, res, err := LeavingNRepresentingFrac(ctx, poses, 1, 0.6, 0.05, nil, o)
	require.NoError(Te, err)
	assert.True(Te, res.Converged)
	assert.Equal(Te, []int{1, 4}, res.Trials)
	assert.InDelta(Te, 0.6, res.Frac, 1e-12)
	assert.Equal(Te, []int{6, 2, 1, 1}, res.BinSizes)
	require.Len(Te, left, 1)
	require.Len(Te, res.Indices, 1)
	assert.Less(Te, res.Indices[0], 6)
	assert.Same(Te, poses[res.Indices[0]], left[0])
	assert.NotEmpty(Te, res.RunID)

	assert.Equal(Te, 1, logs.FilterMessage("tolerance satisfied, clustering complete").Len())
	for _, e := range logs.All() {
		assert.Equal(Te, res.RunID, e.ContextMap()["run"], e.Message)
	}
	centers := logs.FilterMessage("cluster center").All()
	require.Len(Te, centers, 1)
	fields := centers[0].ContextMap()
	assert.Equal(Te, int64(res.Indices[0]), fields["center"])
	var want float64
	for j := 0; j < 6; j++ {
		want += res.Table.At(j, res.Indices[0])
	}
	assert.InDelta(Te, want, fields["rmsd_sum"], 1e-9)

	//reusing the table skips the RMSD computation.
	logs.TakeAll()
	_, res2, err := LeavingNRepresentingFrac(ctx, poses, 1, 0.6, 0.05, res.Table, o)
	require.NoError(Te, err)
	assert.Equal(Te, 0, logs.FilterMessage("calculating n^2 rmsd table").Len())
	assert.NotEqual(Te, res.RunID, res2.RunID)
}

func TestLeavingNRepresentingFracAllPoses(Te *testing.T) {
	ctx := context.Background()
	poses := families(Te)
	left, res, err := LeavingNRepresentingFrac(ctx, poses, len(poses), 1.0, 0.01, nil, nil)
	require.NoError(Te, err)
	assert.True(Te, res.Converged)
	assert.Equal(Te, []int{len(poses)}, res.Trials)
	assert.Equal(Te, 1.0, res.Frac)
	assert.ElementsMatch(Te, poses, left)

	_, res, err = LeavingNRepresentingFrac(ctx, poses, 2, 1.0, 0.01, res.Table, nil)
	require.NoError(Te, err)
	assert.True(Te, res.Converged)
	assert.Equal(Te, []int{2}, res.Trials)
}

func TestLeavingNRepresentingFracRepeating(Te *testing.T) {
	poses := families(Te)
	core, logs := observer.New(zapcore.InfoLevel)
	o := DefaultOptions()
	o.Logger(logging.NewLoggerFromCore(core))
	left, res, err := LeavingNRepresentingFrac(context.Background(), poses, 1, 0.6, 0, nil, o)
	require.NoError(Te, err)
	assert.False(Te, res.Converged)
	assert.Equal(Te, []int{1, 4}, res.Trials[:2])
	seen := map[int]bool{}
	for _, tr := range res.Trials {
		assert.False(Te, seen[tr], "trial %d repeated", tr)
		seen[tr] = true
		assert.True(Te, tr >= 1 && tr <= len(poses))
	}
	assert.Len(Te, left, 1)
	assert.Equal(Te, 1, logs.FilterMessage("repeating trial, clustering complete").Len())
}

func TestLeavingNRepresentingFracErrors(Te *testing.T) {
	ctx := context.Background()
	poses := families(Te)
	for _, frac := range []float64{0, -0.1, 1.1} {
		_, _, err := LeavingNRepresentingFrac(ctx, poses, 2, frac, 0.1, nil, nil)
		assert.Error(Te, err, "frac %v", frac)
	}
	_, _, err := LeavingNRepresentingFrac(ctx, poses, 0, 0.5, 0.1, nil, nil)
	assert.Error(Te, err)
	_, _, err = LeavingNRepresentingFrac(ctx, poses, 11, 0.5, 0.1, nil, nil)
	assert.Error(Te, err)
	_, _, err = LeavingNRepresentingFrac(ctx, poses, 2, 0.5, -1, nil, nil)
	assert.Error(Te, err)
}

func TestRandomSelection(Te *testing.T) {
	poses := []int{10, 11, 12, 13, 14, 15, 16, 17}
	o := DefaultOptions()
	o.Rand(rand.New(rand.NewSource(1)))
	got := RandomSelection(poses, 3, o)
	assert.Len(Te, got, 3)
	seen := map[int]bool{}
	for _, v := range got {
		assert.Contains(Te, poses, v)
		assert.False(Te, seen[v])
		seen[v] = true
	}
	o2 := DefaultOptions()
	o2.Rand(rand.New(rand.NewSource(1)))
	assert.Equal(Te, got, RandomSelection(poses, 3, o2), "same seed, same selection")

	assert.Equal(Te, poses, RandomSelection(poses, 8, nil))
	assert.Equal(Te, poses, RandomSelection(poses, 20, nil))
	assert.Empty(Te, RandomSelection(poses, -1, nil))
	assert.Equal(Te, []int{12, 10}, Pick(poses, []int{2, 0}))
}

func TestOptions(Te *testing.T) {
	o := DefaultOptions()
	assert.GreaterOrEqual(Te, o.Cpus(), 1)
	assert.Equal(Te, 3, o.Cpus(3))
	assert.Equal(Te, 3, o.Cpus(-2))
	assert.NotNil(Te, o.Logger(nil))
	assert.NotNil(Te, o.Rand())
}
