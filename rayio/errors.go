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

package rayio

import (
	"fmt"
	"io"

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

//Error is the general structure for rayio errors. It fullfills rif.Error.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return "rayio: " + err.message
	}
	return fmt.Sprintf("rayio: file %s: %s", err.filename, err.message)
}

//Decorate Adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file to which the error is associated
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

//lastFrameError signals the normal end of a frames file. It wraps io.EOF.
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing. It marks the error as the normal end of the file.
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Unwrap() error { return io.EOF }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
