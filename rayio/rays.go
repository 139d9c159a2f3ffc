/*
 * rays.go, part of gorif.
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

//WriteRays writes the donor and acceptor rays to w, one per line:
//"D" or "A" followed by the origin and the direction. If x is given, the rays
//are moved by x before being written.
func WriteRays(w io.Writer, donors, acceptors []rif.HBondRay, x ...rif.Xform) error {
	bw := bufio.NewWriter(w)
	put := func(tag string, rays []rif.HBondRay) error {
		for _, r := range rays {
			if len(x) > 0 {
				r = r.Xformed(x[0])
			}
			o, d := r.Origin, r.Direction
			if _, err := fmt.Fprintf(bw, "%s %.5f %.5f %.5f %.5f %.5f %.5f\n", tag, o.X, o.Y, o.Z, d.X, d.Y, d.Z); err != nil {
				return err
			}
		}
		return nil
	}
	if err := put("D", donors); err != nil {
		return Error{err.Error(), "", []string{"WriteRays"}, true}
	}
	if err := put("A", acceptors); err != nil {
		return Error{err.Error(), "", []string{"WriteRays"}, true}
	}
	if err := bw.Flush(); err != nil {
		return Error{err.Error(), "", []string{"WriteRays"}, true}
	}
	return nil
}

//ReadRays reads rays in the format written by WriteRays. Empty lines and lines
//starting with # are ignored.
func ReadRays(r io.Reader) (donors, acceptors []rif.HBondRay, err error) {
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		str := strings.TrimSpace(s.Text())
		if str == "" || strings.HasPrefix(str, "#") {
			continue
		}
		fields := strings.Fields(str)
		if len(fields) != 7 {
			return nil, nil, Error{fmt.Sprintf("line %d: expected 7 fields, got %d", line, len(fields)), "", []string{"ReadRays"}, true}
		}
		var v [6]float64
		for i, f := range fields[1:] {
			v[i], err = strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("line %d: %s", line, err.Error()), "", []string{"ReadRays"}, true}
			}
		}
		ray := rif.HBondRay{Origin: r3.Vec{X: v[0], Y: v[1], Z: v[2]}, Direction: r3.Vec{X: v[3], Y: v[4], Z: v[5]}}
		switch fields[0] {
		case "D", "d":
			donors = append(donors, ray)
		case "A", "a":
			acceptors = append(acceptors, ray)
		default:
			return nil, nil, Error{fmt.Sprintf("line %d: unknown ray kind %q", line, fields[0]), "", []string{"ReadRays"}, true}
		}
	}
	if err := s.Err(); err != nil {
		return nil, nil, Error{err.Error(), "", []string{"ReadRays"}, true}
	}
	return donors, acceptors, nil
}

//DumpRays writes the rays to the named file, compressed according to its suffix.
func DumpRays(name string, donors, acceptors []rif.HBondRay, x ...rif.Xform) error {
	w, err := Create(name)
	if err != nil {
		return errDecorate(err, "DumpRays")
	}
	if err := WriteRays(w, donors, acceptors, x...); err != nil {
		w.Close()
		return errDecorate(err, "DumpRays")
	}
	if err := w.Close(); err != nil {
		return Error{err.Error(), name, []string{"DumpRays"}, true}
	}
	return nil
}

//LoadRays reads the rays in the named file, decompressing it according to its suffix.
func LoadRays(name string) (donors, acceptors []rif.HBondRay, err error) {
	r, err := Open(name)
	if err != nil {
		return nil, nil, errDecorate(err, "LoadRays")
	}
	defer r.Close()
	donors, acceptors, err = ReadRays(r)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			err = e
		}
		return nil, nil, errDecorate(err, "LoadRays")
	}
	return donors, acceptors, nil
}
