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

package rif

import "fmt"

//Errors

//Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
//If passed an empty string, Decorate just returns the current decoration slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

//CError is the Error type returned by the rif package.
type CError struct {
	msg      string
	deco     []string
	critical bool
	err      error
}

func (err CError) Error() string {
	if err.err != nil {
		return fmt.Sprintf("%s: %v", err.msg, err.err)
	}
	return err.msg
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical returns whether the error is critical or it can be ignored.
func (err CError) Critical() bool { return err.critical }

//Unwrap returns the underlying error, if any.
func (err CError) Unwrap() error { return err.err }

func newError(msg string, caller string, cause ...error) *CError {
	e := &CError{msg: msg, deco: []string{caller}, critical: true}
	if len(cause) > 0 {
		e.err = cause[0]
	}
	return e
}

//errDecorate decorates err with the caller's name if err implements Error.
//Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilRotamerIndex = PanicMsg("rif: scorer has no rotamer index")
	ErrFieldCount      = PanicMsg("rif: scorer needs exactly one field per rif atom type")
	ErrNoScratchPool   = PanicMsg("rif: grid scoring needs a scratch pool")
	ErrWorker          = PanicMsg("rif: worker index out of range")
)
