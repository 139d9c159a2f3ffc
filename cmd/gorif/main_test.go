/*
 * main_test.go, part of gorif.
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

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	rif "github.com/rmera/gorif"
	"github.com/rmera/gorif/pose"
	"github.com/rmera/gorif/rayio"
	v3 "github.com/rmera/gorif/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

//twoFamilies writes 9 poses, 6 around one conformation and 3 around a very
//different one, and returns the file name.
func twoFamilies(Te *testing.T) string {
	Te.Helper()
	rng := rand.New(rand.NewSource(7))
	var poses []*pose.Pose
	for i := 0; i < 9; i++ {
		c := v3.Zeros(8)
		for j := 0; j < 8; j++ {
			x, y, z := 3.8*float64(j), 0.0, 0.0
			if i >= 6 {
				y, z = 2*float64(j*j), -3*float64(j)
			}
			c.Set(j, 0, x+0.05*rng.NormFloat64())
			c.Set(j, 1, y+0.05*rng.NormFloat64())
			c.Set(j, 2, z+0.05*rng.NormFloat64())
		}
		p, err := pose.FromCA(c)
		require.NoError(Te, err)
		poses = append(poses, p)
	}
	name := filepath.Join(Te.TempDir(), "poses.stf")
	require.NoError(Te, rayio.WritePoses(name, poses, map[string]string{"name": "test"}))
	return name
}

func run(Te *testing.T, args ...string) (string, error) {
	Te.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestClusterN(Te *testing.T) {
	in := twoFamilies(Te)
	dir := Te.TempDir()
	out := filepath.Join(dir, "kept.stf")
	table := filepath.Join(dir, "rmsd.tab.zst")

	stdout, err := run(Te, "cluster", "-i", in, "-o", out, "-m", "n", "-n", "2", "--table", table, "--cpus", "2")
	require.NoError(Te, err)
	assert.Contains(Te, stdout, " 6 *****\n")
	assert.FileExists(Te, table)

	kept, header, err := rayio.ReadPoses(out)
	require.NoError(Te, err)
	assert.Len(Te, kept, 2)
	assert.Equal(Te, "n", header["method"])
	assert.Equal(Te, "test", header["name"])

	//the second run reuses the cached table
	_, err = run(Te, "cluster", "-i", in, "-o", out, "-m", "n", "-n", "2", "--table", table)
	require.NoError(Te, err)

	//without a table
	_, err = run(Te, "cluster", "-i", in, "-o", out, "-m", "n", "-n", "3")
	require.NoError(Te, err)
	kept, _, err = rayio.ReadPoses(out)
	require.NoError(Te, err)
	assert.Len(Te, kept, 3)
}

func TestClusterFrac(Te *testing.T) {
	in := twoFamilies(Te)
	dir := Te.TempDir()
	out := filepath.Join(dir, "kept.stf")
	prefix := filepath.Join(dir, "plot")

	summary := filepath.Join(dir, "summary.json")
	_, err := run(Te, "cluster", "-i", in, "-o", out, "-n", "2", "--frac", "0.9", "--tol", "0.5", "--plot", prefix, "--summary", summary)
	require.NoError(Te, err)
	kept, header, err := rayio.ReadPoses(out)
	require.NoError(Te, err)
	assert.Len(Te, kept, 2)
	assert.Equal(Te, "frac", header["method"])
	for _, suffix := range []string{"_bins.png", "_sizes.png", "_search.png"} {
		assert.FileExists(Te, prefix+suffix)
	}

	b, err := os.ReadFile(summary)
	require.NoError(Te, err)
	var sum runSummary
	require.NoError(Te, json.Unmarshal(b, &sum))
	assert.NotEmpty(Te, sum.RunID)
	assert.True(Te, sum.Converged)
	assert.Equal(Te, 9, sum.Poses)
	assert.Equal(Te, 2, sum.Kept)
	assert.Equal(Te, []int{2}, sum.Trials)
	assert.Equal(Te, []int{6, 3}, sum.BinSizes)
	assert.InDelta(Te, 1.0, sum.Frac, 1e-12)
	require.NotNil(Te, sum.Sizes)
	assert.Equal(Te, 2, sum.Sizes.Total())
}

func TestClusterAllAndRandom(Te *testing.T) {
	in := twoFamilies(Te)
	out := filepath.Join(Te.TempDir(), "kept.stf")

	_, err := run(Te, "cluster", "-i", in, "-o", out, "-n", "20")
	require.NoError(Te, err)
	kept, _, err := rayio.ReadPoses(out)
	require.NoError(Te, err)
	assert.Len(Te, kept, 9)

	_, err = run(Te, "random", "-i", in, "-o", out, "-n", "4", "--seed", "3")
	require.NoError(Te, err)
	kept, _, err = rayio.ReadPoses(out)
	require.NoError(Te, err)
	assert.Len(Te, kept, 4)

	_, err = run(Te, "cluster", "-i", in, "-o", out, "-m", "random", "-n", "5")
	require.NoError(Te, err)
	kept, _, err = rayio.ReadPoses(out)
	require.NoError(Te, err)
	assert.Len(Te, kept, 5)
}

func TestClusterErrors(Te *testing.T) {
	in := twoFamilies(Te)
	dir := Te.TempDir()
	out := filepath.Join(dir, "kept.stf")

	_, err := run(Te, "cluster", "-i", in, "-o", out, "-m", "kmeans")
	assert.Error(Te, err)
	_, err = run(Te, "cluster", "-i", filepath.Join(dir, "missing.stf"), "-o", out)
	assert.Error(Te, err)
	_, err = run(Te, "cluster", "-o", out)
	assert.Error(Te, err, "--in is required")
	_, err = run(Te, "random", "-i", in, "-o", out, "-n", "0")
	assert.Error(Te, err)
	_, err = run(Te, "--log-level", "loud", "cluster", "-i", in, "-o", out)
	assert.Error(Te, err)

	//a table for a different number of poses
	table := filepath.Join(dir, "rmsd.tab")
	require.NoError(Te, os.WriteFile(table, []byte("** 2\n0.5\n\n"), 0o644))
	_, err = run(Te, "cluster", "-i", in, "-o", out, "-m", "n", "-n", "2", "--table", table)
	assert.Error(Te, err)
}

func TestConfigFile(Te *testing.T) {
	in := twoFamilies(Te)
	dir := Te.TempDir()
	out := filepath.Join(dir, "kept.stf")
	cfg := filepath.Join(dir, "gorif.yaml")
	require.NoError(Te, os.WriteFile(cfg, []byte("cluster:\n  method: n\n  n: 3\n"), 0o644))

	_, err := run(Te, "-c", cfg, "cluster", "-i", in, "-o", out)
	require.NoError(Te, err)
	kept, header, err := rayio.ReadPoses(out)
	require.NoError(Te, err)
	assert.Len(Te, kept, 3)
	assert.Equal(Te, "n", header["method"])
}

func TestHBond(Te *testing.T) {
	dir := Te.TempDir()
	rays := filepath.Join(dir, "rays.txt")
	target := filepath.Join(dir, "target.txt.gz")
	donor := rif.HBondRay{Direction: r3.Vec{X: 1}}
	//acceptor heavy atom 2 A away, orbital pointing back to the donor
	acc := rif.HBondRay{Origin: r3.Vec{X: 2 - rif.ORBLEN}, Direction: r3.Vec{X: -1}}
	far := rif.HBondRay{Origin: r3.Vec{X: 50}, Direction: r3.Vec{X: -1}}
	require.NoError(Te, rayio.DumpRays(rays, []rif.HBondRay{donor}, nil))
	require.NoError(Te, rayio.DumpRays(target, nil, []rif.HBondRay{far, acc}))

	stdout, err := run(Te, "hbond", "-r", rays, "-t", target)
	require.NoError(Te, err)
	assert.Contains(Te, stdout, "D 0 1 -1.00000\n")
	assert.NotContains(Te, stdout, "D 0 0 ")
	assert.Contains(Te, stdout, "# total -1.00000 pairs 1\n")

	_, err = run(Te, "hbond", "-r", rays, "-t", target, "--nondir", "2")
	assert.Error(Te, err)
	_, err = run(Te, "hbond", "-r", rays)
	assert.Error(Te, err)
}

//scoreInputs writes a one rotamer library with a backbone N and a CH2, and an
//acceptor making an ideal hbond with the target donor when the rotamer is not
//moved. The target pose has an atom on the N, so the N overlaps it by 3 A and the
//CH2 by 2 A. The second placement is far from everything.
func scoreInputs(Te *testing.T) (lib, target, placements, targetPose string) {
	Te.Helper()
	dir := Te.TempDir()
	lib = filepath.Join(dir, "lib.txt")
	libText := fmt.Sprintf("ROT ASN 2 0\nATOM Nbb -3 0 0\nATOM CH2 -2 0 0\nA %v 0 0 -1 0 0\n", 2-rif.ORBLEN)
	require.NoError(Te, os.WriteFile(lib, []byte(libText), 0o644))
	target = filepath.Join(dir, "target.txt")
	require.NoError(Te, rayio.DumpRays(target, []rif.HBondRay{{Direction: r3.Vec{X: 1}}}, nil))
	placements = filepath.Join(dir, "placements.txt")
	require.NoError(Te, os.WriteFile(placements, []byte("0 1 0 0 0 1 0 0 0 1 0 0 0\n0 1 0 0 0 1 0 0 0 1 0 0 40\n"), 0o644))
	c := v3.Zeros(2)
	c.Set(0, 0, -3)
	c.Set(1, 0, -3)
	c.Set(1, 2, -20)
	p, err := pose.FromCA(c)
	require.NoError(Te, err)
	targetPose = filepath.Join(dir, "target.stf")
	require.NoError(Te, rayio.WritePoses(targetPose, []*pose.Pose{p}, nil))
	return lib, target, placements, targetPose
}

func TestScore(Te *testing.T) {
	lib, target, placements, tpose := scoreInputs(Te)
	args := []string{"score", "-l", lib, "-t", target, "-p", placements}

	//no clash field: only the hbond, with the default weight of 2
	stdout, err := run(Te, append([]string{"--cpus", "2"}, args...)...)
	require.NoError(Te, err)
	assert.Equal(Te, "0 0 -2.00000 0 -1 0\n1 0 0.00000 -1 -1 0\n# best 0 -2.00000\n", stdout)

	dir := Te.TempDir()
	cfg := filepath.Join(dir, "gorif.yaml")
	require.NoError(Te, os.WriteFile(cfg, []byte("scorer:\n  hbond_weight: 3\n  bad_score_thresh: 4\n"), 0o644))
	//the clash of 5 is over the threshold, so no hbonds are computed
	stdout, err = run(Te, append([]string{"-c", cfg}, append(args, "--pose", tpose)...)...)
	require.NoError(Te, err)
	assert.Contains(Te, stdout, "0 0 5.00000 -1 -1 0\n")
	assert.Contains(Te, stdout, "# best 1 0.00000\n")

	//skipping the backbone N leaves a clash of 2, under the threshold
	cfg2 := filepath.Join(dir, "gorif2.yaml")
	require.NoError(Te, os.WriteFile(cfg2, []byte("scorer:\n  hbond_weight: 3\n  bad_score_thresh: 4\n  start_atom: 1\n"), 0o644))
	stdout, err = run(Te, append([]string{"-c", cfg2}, append(args, "--pose", tpose)...)...)
	require.NoError(Te, err)
	assert.Contains(Te, stdout, "0 0 -1.00000 0 -1 0\n")

	//on the grid every atom counts and hbonds only fill the slots
	stdout, err = run(Te, append(args, "--pose", tpose, "--grid")...)
	require.NoError(Te, err)
	assert.Contains(Te, stdout, "0 0 5.00000 0 -1 0\n")

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(Te, os.WriteFile(bad, []byte("3 1 0 0 0 1 0 0 0 1 0 0 0\n"), 0o644))
	_, err = run(Te, "score", "-l", lib, "-t", target, "-p", bad)
	assert.ErrorContains(Te, err, "not in the library")
	_, err = run(Te, "score", "-l", lib, "-t", target)
	assert.Error(Te, err)
}
