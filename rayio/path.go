/*
 * path.go, part of gorif.
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
	"io"
	"os"
	"path/filepath"
)

//OpenForReadOnPath opens fname in the first directory of path where it exists and can be opened,
//decompressing by suffix. It returns the reader and the full name of the file opened.
func OpenForReadOnPath(path []string, fname string) (io.ReadCloser, string, error) {
	for _, dir := range path {
		full := filepath.Join(dir, fname)
		if _, err := os.Stat(full); err != nil {
			continue
		}
		r, err := Open(full)
		if err == nil {
			return r, full, nil
		}
	}
	return nil, "", Error{"not found on path", fname, []string{"OpenForReadOnPath"}, true}
}

//OpenForWriteOnPath creates fname in the first directory of path where that is possible,
//compressing by suffix. If createDirs is true, missing directories are created first.
//It returns the writer and the full name of the file created.
func OpenForWriteOnPath(path []string, fname string, createDirs bool) (io.WriteCloser, string, error) {
	for _, dir := range path {
		if createDirs {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				continue
			}
		}
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			continue
		}
		full := filepath.Join(dir, fname)
		w, err := Create(full)
		if err == nil {
			return w, full, nil
		}
	}
	return nil, "", Error{"can't be created on path", fname, []string{"OpenForWriteOnPath"}, true}
}
