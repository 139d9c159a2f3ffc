/*
 * table.go, part of gorif.
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

	"github.com/rmera/gorif/cluster"
	"gonum.org/v1/gonum/mat"
)

//WriteTable writes the upper triangle of an RMSD table: a "** n" line, followed
//by one line per pose i with the RMSDs to the poses after it.
func WriteTable(w io.Writer, t *cluster.Table) error {
	n := t.Len()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "** %d\n", n)
	buf := make([]byte, 0, 16)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j > i+1 {
				bw.WriteByte(' ')
			}
			buf = strconv.AppendFloat(buf[:0], t.At(i, j), 'f', 5, 64)
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return Error{err.Error(), "", []string{"WriteTable"}, true}
	}
	return nil
}

//ReadTable reads a table written by WriteTable.
func ReadTable(r io.Reader) (*cluster.Table, error) {
	br := bufio.NewReader(r)
	head, err := br.ReadString('\n')
	if err != nil {
		return nil, Error{"can't read the table size: " + err.Error(), "", []string{"ReadTable"}, true}
	}
	fields := strings.Fields(head)
	if len(fields) != 2 || fields[0] != "**" {
		return nil, Error{fmt.Sprintf("malformed table header %q", strings.TrimSpace(head)), "", []string{"ReadTable"}, true}
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return nil, Error{fmt.Sprintf("bad table size %q", fields[1]), "", []string{"ReadTable"}, true}
	}
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		line, err := br.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return nil, Error{fmt.Sprintf("row %d: %s", i, err.Error()), "", []string{"ReadTable"}, true}
		}
		vals := strings.Fields(line)
		if len(vals) != n-i-1 {
			return nil, Error{fmt.Sprintf("row %d has %d values, expected %d", i, len(vals), n-i-1), "", []string{"ReadTable"}, true}
		}
		for k, s := range vals {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v < 0 {
				return nil, Error{fmt.Sprintf("row %d: bad RMSD %q", i, s), "", []string{"ReadTable"}, true}
			}
			d.SetSym(i, i+1+k, v)
		}
	}
	return cluster.NewTable(d), nil
}

//SaveTable writes the table to the named file, compressed according to its suffix.
func SaveTable(name string, t *cluster.Table) error {
	w, err := Create(name)
	if err != nil {
		return errDecorate(err, "SaveTable")
	}
	if err := WriteTable(w, t); err != nil {
		w.Close()
		return errDecorate(err, "SaveTable")
	}
	if err := w.Close(); err != nil {
		return Error{err.Error(), name, []string{"SaveTable"}, true}
	}
	return nil
}

//LoadTable reads a table from the named file, decompressing it according to its suffix.
func LoadTable(name string) (*cluster.Table, error) {
	r, err := Open(name)
	if err != nil {
		return nil, errDecorate(err, "LoadTable")
	}
	defer r.Close()
	t, err := ReadTable(r)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			err = e
		}
		return nil, errDecorate(err, "LoadTable")
	}
	return t, nil
}
