/*
 * compress.go, part of gorif.
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
	"compress/lzw"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const lzwLitwidth int = 8

//Codec names the compression used for a file.
type Codec int

const (
	Plain Codec = iota
	Zstd
	Gzip
	Flate
	LZW
)

//CodecFor returns the codec selected by the suffix of name:
//.zst, .gz, .fl and .lzw. Any other name is plain text.
func CodecFor(name string) Codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		return Zstd
	case ".gz":
		return Gzip
	case ".fl":
		return Flate
	case ".lzw":
		return LZW
	default:
		return Plain
	}
}

//zstd.Decoder's Close doesn't return an error.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//stackedReader and stackedWriter close the compression layer, then the file.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriter) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

//NewReader returns a reader that decompresses r with the given codec.
func NewReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{d}, nil
	case Gzip:
		return gzip.NewReader(r)
	case Flate:
		return flate.NewReader(r), nil
	case LZW:
		return lzw.NewReader(r, lzw.MSB, lzwLitwidth), nil
	default:
		return io.NopCloser(r), nil
	}
}

//NewWriter returns a writer that compresses into w with the given codec.
//level is ignored for zstd (best compression is always used) and LZW.
func NewWriter(w io.Writer, c Codec, level int) (io.WriteCloser, error) {
	switch c {
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case Gzip:
		return gzip.NewWriterLevel(w, level)
	case Flate:
		return flate.NewWriter(w, level)
	case LZW:
		return lzw.NewWriter(w, lzw.MSB, lzwLitwidth), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

//Open opens the named file for reading, decompressing it according to its suffix.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"Open"}, true}
	}
	d, err := NewReader(bufio.NewReader(f), CodecFor(name))
	if err != nil {
		f.Close()
		return nil, Error{"can't start decompression: " + err.Error(), name, []string{"Open"}, true}
	}
	return &stackedReader{Reader: d, closers: []io.Closer{d, f}}, nil
}

//Create creates (or truncates) the named file for writing, compressing it according to its suffix.
//Closing the returned writer flushes the compression and closes the file.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"Create"}, true}
	}
	b := bufio.NewWriter(f)
	c, err := NewWriter(b, CodecFor(name), gzip.BestCompression)
	if err != nil {
		f.Close()
		return nil, Error{"can't start compression: " + err.Error(), name, []string{"Create"}, true}
	}
	return &stackedWriter{Writer: c, closers: []io.Closer{c, flusher{b}, f}}, nil
}

type flusher struct {
	*bufio.Writer
}

func (f flusher) Close() error { return f.Flush() }
