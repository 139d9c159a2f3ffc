/*
 * errors.go, part of gorif.
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
	rif "github.com/rmera/gorif"
)

//errDecorate is a helper function that decorates errors implementing rif.Error
//with the caller's name before returning them. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(rif.Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}

//Error is the general structure for errors in this package. It fullfills rif.Error.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return "pose: " + err.message
}

//Decorate Adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }
