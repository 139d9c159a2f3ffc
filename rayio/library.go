/*
 * library.go, part of gorif.
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
	"strconv"
	"strings"

	rif "github.com/rmera/gorif"
	"gonum.org/v1/gonum/spatial/r3"
)

//ReadLibrary reads a rotamer library. Each rotamer starts with a line
//"ROT resname nchi nprotonchi", followed by its heavy atoms, "ATOM type x y z"
//(type is a rif atom type name or number, backbone atoms first), and its rays,
//in the WriteRays format. Empty lines and lines starting with # are ignored.
func ReadLibrary(r io.Reader) (*rif.Library, error) {
	lib, err := rif.NewLibrary()
	if err != nil {
		return nil, errDecorate(err, "ReadLibrary")
	}
	var cur *rif.Rotamer
	flush := func() error {
		if cur == nil {
			return nil
		}
		_, err := lib.Add(*cur)
		return err
	}
	s := bufio.NewScanner(r)
	line := 0
	bad := func(format string, a ...interface{}) error {
		return Error{fmt.Sprintf("line %d: ", line) + fmt.Sprintf(format, a...), "", []string{"ReadLibrary"}, true}
	}
	for s.Scan() {
		line++
		str := strings.TrimSpace(s.Text())
		if str == "" || strings.HasPrefix(str, "#") {
			continue
		}
		fields := strings.Fields(str)
		if fields[0] == "ROT" {
			if err := flush(); err != nil {
				return nil, bad("%s", err.Error())
			}
			if len(fields) != 4 {
				return nil, bad("expected 4 fields, got %d", len(fields))
			}
			nchi, err1 := strconv.Atoi(fields[2])
			npchi, err2 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil {
				return nil, bad("bad chi counts %q %q", fields[2], fields[3])
			}
			cur = &rif.Rotamer{ResName: fields[1], NChi: nchi, NProtonChi: npchi}
			continue
		}
		if cur == nil {
			return nil, bad("%s before the first ROT line", fields[0])
		}
		switch fields[0] {
		case "ATOM":
			if len(fields) != 5 {
				return nil, bad("expected 5 fields, got %d", len(fields))
			}
			typ, ok := rif.RifAtomType(fields[1])
			if !ok {
				var err error
				if typ, err = strconv.Atoi(fields[1]); err != nil {
					return nil, bad("unknown atom type %q", fields[1])
				}
			}
			v, err := parseFloats(fields[2:])
			if err != nil {
				return nil, bad("%s", err.Error())
			}
			cur.Atoms = append(cur.Atoms, rif.RotAtom{Type: typ, Pos: r3.Vec{X: v[0], Y: v[1], Z: v[2]}})
		case "D", "A":
			if len(fields) != 7 {
				return nil, bad("expected 7 fields, got %d", len(fields))
			}
			v, err := parseFloats(fields[1:])
			if err != nil {
				return nil, bad("%s", err.Error())
			}
			ray := rif.HBondRay{Origin: r3.Vec{X: v[0], Y: v[1], Z: v[2]}, Direction: r3.Vec{X: v[3], Y: v[4], Z: v[5]}}
			if fields[0] == "D" {
				cur.Donors = append(cur.Donors, ray)
			} else {
				cur.Acceptors = append(cur.Acceptors, ray)
			}
		default:
			return nil, bad("unknown record %q", fields[0])
		}
	}
	if err := s.Err(); err != nil {
		return nil, Error{err.Error(), "", []string{"ReadLibrary"}, true}
	}
	if err := flush(); err != nil {
		return nil, bad("%s", err.Error())
	}
	if lib.Len() == 0 {
		return nil, Error{"no rotamers", "", []string{"ReadLibrary"}, true}
	}
	return lib, nil
}

//LoadLibrary reads the rotamer library in the named file, decompressing it according to its suffix.
func LoadLibrary(name string) (*rif.Library, error) {
	r, err := Open(name)
	if err != nil {
		return nil, errDecorate(err, "LoadLibrary")
	}
	defer r.Close()
	lib, err := ReadLibrary(r)
	if err != nil {
		return nil, errDecorate(withFile(err, name), "LoadLibrary")
	}
	return lib, nil
}

//Placement is a rotamer, by library index, moved to the target frame by X.
type Placement struct {
	Rotamer int
	X       rif.Xform
}

//ReadPlacements reads one placement per line: the rotamer index, the 9 elements
//of the rotation matrix, row by row, and the translation.
func ReadPlacements(r io.Reader) ([]Placement, error) {
	var ret []Placement
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		str := strings.TrimSpace(s.Text())
		if str == "" || strings.HasPrefix(str, "#") {
			continue
		}
		fields := strings.Fields(str)
		if len(fields) != 13 {
			return nil, Error{fmt.Sprintf("line %d: expected 13 fields, got %d", line, len(fields)), "", []string{"ReadPlacements"}, true}
		}
		irot, err := strconv.Atoi(fields[0])
		if err != nil || irot < 0 {
			return nil, Error{fmt.Sprintf("line %d: bad rotamer index %q", line, fields[0]), "", []string{"ReadPlacements"}, true}
		}
		v, err := parseFloats(fields[1:])
		if err != nil {
			return nil, Error{fmt.Sprintf("line %d: %s", line, err.Error()), "", []string{"ReadPlacements"}, true}
		}
		x := rif.NewXform(r3.NewMat(v[:9]), r3.Vec{X: v[9], Y: v[10], Z: v[11]})
		ret = append(ret, Placement{Rotamer: irot, X: x})
	}
	if err := s.Err(); err != nil {
		return nil, Error{err.Error(), "", []string{"ReadPlacements"}, true}
	}
	return ret, nil
}

//LoadPlacements reads the placements in the named file, decompressing it according to its suffix.
func LoadPlacements(name string) ([]Placement, error) {
	r, err := Open(name)
	if err != nil {
		return nil, errDecorate(err, "LoadPlacements")
	}
	defer r.Close()
	ps, err := ReadPlacements(r)
	if err != nil {
		return nil, errDecorate(withFile(err, name), "LoadPlacements")
	}
	return ps, nil
}

func parseFloats(fields []string) ([]float64, error) {
	v := make([]float64, len(fields))
	for i, f := range fields {
		var err error
		if v[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, err
		}
	}
	return v, nil
}

//withFile sets the file name of rayio errors.
func withFile(err error, name string) error {
	if e, ok := err.(Error); ok {
		e.filename = name
		return e
	}
	return err
}
