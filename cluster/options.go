/*
 * options.go, part of gorif.
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

package cluster

import (
	"math/rand"
	"runtime"
	"time"

	"github.com/rmera/gorif/logging"
)

//Options contains the options shared by the clustering functions.
type Options struct {
	cpus   int
	logger logging.Logger
	rng    *rand.Rand
}

//DefaultOptions returns options that use all logical CPUs, log nothing,
//and take random numbers from a time-seeded source.
func DefaultOptions() *Options {
	r := new(Options)
	r.cpus = runtime.NumCPU()
	r.logger = logging.NewNopLogger()
	return r
}

//Cpus returns the number of gorutines to be used,
//and sets it to a new value, if given.
func (O *Options) Cpus(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	if O.cpus < 1 {
		O.cpus = 1
	}
	return O.cpus
}

//Logger returns the logger used to report progress,
//and sets it to a new value, if given.
func (O *Options) Logger(l ...logging.Logger) logging.Logger {
	if len(l) > 0 && l[0] != nil {
		O.logger = l[0]
	}
	if O.logger == nil {
		O.logger = logging.NewNopLogger()
	}
	return O.logger
}

//Rand returns the source of random numbers used by RandomSelection,
//and sets it to a new value, if given.
func (O *Options) Rand(r ...*rand.Rand) *rand.Rand {
	if len(r) > 0 && r[0] != nil {
		O.rng = r[0]
	}
	if O.rng == nil {
		O.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return O.rng
}

func orDefault(o *Options) *Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}
