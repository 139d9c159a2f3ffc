/*
 * doc.go, part of gorif.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*
Package rif scores candidate rotamer placements against a docking target.

A placement is a rotamer (a discrete side chain conformation taken from a
RotamerIndex) moved by a rigid body Xform. Its score is the sum of per atom type
Field lookups at the placed heavy atoms, plus a hydrogen bond term obtained by
greedily matching the rotamer's donor and acceptor HBondRays against those of the
target. The hydrogen bond matching also reports up to two "satisfied" target sites.

The subpackages provide the rest of the machinery: pose (a minimal structural model),
align (superposition and CA RMSD), cluster (pose ensemble clustering and
representative selection), rayio (ray and RMSD table files), histo and clusterplot
(reports), logging and config. The gorif command in cmd/gorif glues them together.
*/
package rif
