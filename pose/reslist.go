/*
 * reslist.go, part of gorif.
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

package pose

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

func isCGP(name string) bool {
	return name == "CYD" || name == "GLY" || name == "PRO"
}

//AllResidues returns the numbers of every residue in the pose. If noCGP is true,
//disulfide cysteines, glycines and prolines are left out.
func AllResidues(P *Pose, noCGP bool) []int {
	ret := make([]int, 0, P.NResidues())
	for ir := 1; ir <= P.NResidues(); ir++ {
		if noCGP && isCGP(P.ResName(ir)) {
			continue
		}
		ret = append(ret, ir)
	}
	return ret
}

//ParseResidueList reads whitespace separated residue numbers ("12") and inclusive
//ranges ("12-20", or "20-12") from r and returns the sorted, deduplicated list. If
//the input is empty, every residue is selected. Numbers outside the pose are an
//error. If noCGP is true, disulfide cysteines, glycines and prolines are skipped.
func ParseResidueList(r io.Reader, P *Pose, noCGP bool) ([]int, error) {
	uniq := make(map[int]bool)
	add := func(ir int) error {
		if ir < 1 || ir > P.NResidues() {
			return Error{fmt.Sprintf("residue number out of bounds %d", ir), []string{"ParseResidueList"}, true}
		}
		if noCGP && isCGP(P.ResName(ir)) {
			return nil
		}
		uniq[ir] = true
		return nil
	}
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	tokens := 0
	for sc.Scan() {
		tokens++
		s := sc.Text()
		splt := strings.Split(s, "-")
		switch len(splt) {
		case 1:
			ir, err := strconv.Atoi(splt[0])
			if err != nil {
				return nil, Error{"can't parse res line " + s, []string{"ParseResidueList"}, true}
			}
			if err := add(ir); err != nil {
				return nil, err
			}
		case 2:
			lb, err1 := strconv.Atoi(splt[0])
			ub, err2 := strconv.Atoi(splt[1])
			if err1 != nil || err2 != nil {
				return nil, Error{"can't parse res line " + s, []string{"ParseResidueList"}, true}
			}
			if ub < lb {
				lb, ub = ub, lb
			}
			for ir := lb; ir <= ub; ir++ {
				if err := add(ir); err != nil {
					return nil, err
				}
			}
		default:
			return nil, Error{"can't parse res line " + s, []string{"ParseResidueList"}, true}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, Error{"reading residue list: " + err.Error(), []string{"ParseResidueList"}, true}
	}
	if tokens == 0 {
		return AllResidues(P, noCGP), nil
	}
	ret := make([]int, 0, len(uniq))
	for ir := range uniq {
		ret = append(ret, ir)
	}
	sort.Ints(ret)
	return ret, nil
}

//ResListHash returns a short, stable identifier for a residue list: the last
//8 decimal digits of the list's 64 bit hash.
func ResListHash(reslist []int) (string, error) {
	if len(reslist) == 0 {
		return "", Error{"can't hash an empty residue list", []string{"ResListHash"}, true}
	}
	d := xxhash.New()
	var buf [8]byte
	for _, ir := range reslist {
		binary.LittleEndian.PutUint64(buf[:], uint64(ir))
		d.Write(buf[:])
	}
	s := fmt.Sprintf("%020d", d.Sum64())
	return s[len(s)-8:], nil
}
