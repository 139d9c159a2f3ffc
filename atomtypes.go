/*
 * atomtypes.go, part of gorif.
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

package rif

//NumRifAtomTypes is the size of a complete set of target fields:
//the 21 named heavy atom types plus the catch-all slot 0.
const NumRifAtomTypes = 22

//rifAtomTypes maps atom type names to rif atom type indexes.
var rifAtomTypes = map[string]int{
	"CNH2": 1,
	"COO":  2,
	"CH1":  3,
	"CH2":  4,
	"CH3":  5,
	"aroC": 6,
	"Ntrp": 7,
	"Nhis": 8,
	"NH2O": 9,
	"Nlys": 10,
	"Narg": 11,
	"Npro": 12,
	"OH":   13,
	"ONH2": 14,
	"OOC":  15,
	"Oaro": 16,
	"S":    17,
	"Nbb":  18,
	"CAbb": 19,
	"CObb": 20,
	"OCbb": 21,
	//beta atom type set
	"CH0":  6,
	"NtrR": 11,
	"SH1":  17,
}

//RifAtomType returns the rif atom type for the atom type name, and
//whether the name is known. Unknown names map to the catch-all type 0.
func RifAtomType(name string) (int, bool) {
	t, ok := rifAtomTypes[name]
	return t, ok
}

//RifAtomTypeNames returns a copy of the name to type table.
func RifAtomTypeNames() map[string]int {
	ret := make(map[string]int, len(rifAtomTypes))
	for k, v := range rifAtomTypes {
		ret[k] = v
	}
	return ret
}
