/*
 * frames.go, part of gorif.
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

package rayio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rmera/gorif/pose"
	v3 "github.com/rmera/gorif/v3"
)

//DefaultPrec is the number of decimals kept for coordinates in frames files.
const DefaultPrec = 2

//Frames files hold an ensemble of coordinate sets with the same number of points, e.g.
//the CAs of each pose to cluster. The file starts with optional "key=value" header lines,
//followed by "** N", N being the number of points per frame. Each frame has N lines with
//3 integers (the coordinates times 10^prec), and ends with a line containing "*".

//FrameWriter writes a frames file.
type FrameWriter struct {
	w         io.WriteCloser
	b         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
	prec      int
	scale     float64
}

//NewFrameWriter creates a frames file with natoms points per frame. The header, if not nil,
//is written at the start of the file; a "prec" key in it sets the number of decimals kept.
func NewFrameWriter(name string, natoms int, header map[string]string) (*FrameWriter, error) {
	if natoms < 1 {
		return nil, Error{fmt.Sprintf("frames need at least one point, got %d", natoms), name, []string{"NewFrameWriter"}, true}
	}
	S := &FrameWriter{natoms: natoms, filename: name, prec: DefaultPrec}
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 0 || prec > 6 {
			return nil, Error{fmt.Sprintf("invalid precision %q", p), name, []string{"NewFrameWriter"}, true}
		}
		S.prec = prec
	}
	S.scale = math.Pow(10, float64(S.prec))
	w, err := Create(name)
	if err != nil {
		return nil, errDecorate(err, "NewFrameWriter")
	}
	S.w = w
	S.b = bufio.NewWriter(w)
	//sorted, so the same header always gives the same file.
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(S.b, "%s=%s\n", k, header[k])
	}
	fmt.Fprintf(S.b, "** %d\n", natoms)
	S.writeable = true
	return S, nil
}

//Len returns the number of points per frame.
func (S *FrameWriter) Len() int {
	return S.natoms
}

//WNext writes coord as the next frame.
func (S *FrameWriter) WNext(coord *v3.Matrix) error {
	if !S.writeable {
		return Error{"writer not initialized or already closed", S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{"nil coordinates given", S.filename, []string{"WNext"}, true}
	}
	if v := coord.NVecs(); v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	var temp [3]int
	for i := 0; i < S.natoms; i++ {
		S.b.WriteString(coordsEncode(coord.RawRowView(i), &temp, S.scale))
	}
	_, err := S.b.WriteString("*\n")
	if err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

//Close flushes and closes the file. The writer can't be used after this call.
func (S *FrameWriter) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	if err := S.b.Flush(); err != nil {
		S.w.Close()
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	if err := S.w.Close(); err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

func coordsEncode(f []float64, temp *[3]int, scale float64) string {
	for i := range temp {
		temp[i] = int(math.RoundToEven(f[i] * scale))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

func coordsDecode(str string, temp *[3]float64, scale float64) error {
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill formated coordinates line, %d fields: %q", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%s): %s", i, v, err.Error())
		}
		temp[i] = float64(f) / scale
	}
	return nil
}

//FrameReader reads a frames file.
type FrameReader struct {
	r        io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	scale    float64
	readable bool
}

//NewFrameReader opens a frames file for reading, and returns the reader and
//the header (empty if the file has none).
func NewFrameReader(name string) (*FrameReader, map[string]string, error) {
	r, err := Open(name)
	if err != nil {
		return nil, nil, errDecorate(err, "NewFrameReader")
	}
	S := &FrameReader{r: r, h: bufio.NewReader(r), natoms: -1, filename: name}
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			r.Close()
			return nil, nil, Error{"can't read header: " + err.Error(), name, []string{"NewFrameReader"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				r.Close()
				return nil, nil, Error{fmt.Sprintf("can't read the number of points from %q", str), name, []string{"NewFrameReader"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil || S.natoms < 1 {
				r.Close()
				return nil, nil, Error{fmt.Sprintf("can't read the number of points from %q", nat[1]), name, []string{"NewFrameReader"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			r.Close()
			return nil, nil, Error{fmt.Sprintf("malformed header line %q", str), name, []string{"NewFrameReader"}, true}
		}
		m[kv[0]] = kv[1]
	}
	prec := DefaultPrec
	if p, ok := m["prec"]; ok {
		prec, err = strconv.Atoi(p)
		if err != nil || prec < 0 || prec > 6 {
			r.Close()
			return nil, nil, Error{fmt.Sprintf("invalid precision %q", p), name, []string{"NewFrameReader"}, true}
		}
	}
	S.scale = math.Pow(10, float64(prec))
	S.readable = true
	return S, m, nil
}

//Readable returns true if Next can be called on the reader.
func (S *FrameReader) Readable() bool {
	return S.readable
}

//Len returns the number of points per frame.
func (S *FrameReader) Len() int {
	return S.natoms
}

//Next puts the next frame in c. If c is nil, the frame is read and checked,
//but discarded. At the end of the file, the reader is closed and an error
//that wraps io.EOF is returned.
func (S *FrameReader) Next(c *v3.Matrix) error {
	if !S.readable {
		return Error{"reader not initialized or already closed", S.filename, []string{"Next"}, true}
	}
	if c != nil && c.NVecs() != S.natoms {
		return Error{fmt.Sprintf("matrix for %d points given, but frames have %d", c.NVecs(), S.natoms), S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		str, err := S.h.ReadString('\n')
		if err != nil {
			//EOF is only normal before the first point of a frame.
			if err == io.EOF && i == 0 && str == "" {
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if err := coordsDecode(str, &temp, S.scale); err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue
		}
		copy(c.RawRowView(i), temp[:])
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		return Error{"can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(s, "*") {
		return Error{"wrong number of points in frame", S.filename, []string{"Next"}, true}
	}
	return nil
}

//Close closes the reader, and marks it as unreadable
func (S *FrameReader) Close() {
	if !S.readable {
		return
	}
	S.r.Close()
	S.readable = false
}

//ReadPoses reads every frame of the named file as a pose of CA atoms.
func ReadPoses(name string) ([]*pose.Pose, map[string]string, error) {
	S, header, err := NewFrameReader(name)
	if err != nil {
		return nil, nil, errDecorate(err, "ReadPoses")
	}
	defer S.Close()
	var poses []*pose.Pose
	c := v3.Zeros(S.Len())
	for {
		err := S.Next(c)
		if err != nil {
			if _, ok := err.(*lastFrameError); ok {
				break
			}
			return nil, nil, errDecorate(err, "ReadPoses")
		}
		p, err := pose.FromCA(c)
		if err != nil {
			return nil, nil, errDecorate(err, "ReadPoses")
		}
		poses = append(poses, p)
	}
	return poses, header, nil
}

//WritePoses writes the CA atoms of every pose as a frame of the named file.
func WritePoses(name string, poses []*pose.Pose, header map[string]string) error {
	if len(poses) == 0 {
		return Error{"no poses to write", name, []string{"WritePoses"}, true}
	}
	first, err := poses[0].CAlphas()
	if err != nil {
		return errDecorate(err, "WritePoses")
	}
	S, err := NewFrameWriter(name, first.NVecs(), header)
	if err != nil {
		return errDecorate(err, "WritePoses")
	}
	for i, p := range poses {
		ca := first
		if i > 0 {
			if ca, err = p.CAlphas(); err != nil {
				S.Close()
				return errDecorate(err, "WritePoses")
			}
		}
		if err := S.WNext(ca); err != nil {
			S.Close()
			return errDecorate(err, fmt.Sprintf("WritePoses: pose %d", i))
		}
	}
	return S.Close()
}
