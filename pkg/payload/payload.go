// snappmp-go: Snapshot to PMP mod pack converter
// Copyright (C) 2026  Yishen Miao
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package payload decodes the versioned, compressed JSON blobs embedded in
// snapshot manifests.
package payload

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// Failed is the version reported when a payload could not be decoded.
const Failed byte = math.MaxUint8

// ErrEmpty is returned when the decompressed payload holds no version byte.
var ErrEmpty = errors.New("payload is empty")

// Result holds the outcome of Decode. On failure Version is Failed, Value is
// the zero value of T and Err describes the stage that failed.
type Result[T any] struct {
	Version byte
	Value   T
	Err     error
}

// OK reports whether the payload was decoded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Decode decodes a base64 string holding a gzip stream of a version byte
// followed by UTF-8 JSON. Decode never panics; every failure is reported
// through the returned Result.
func Decode[T any](s string) Result[T] {
	var v T

	ver, err := decode(s, &v)
	if err != nil {
		var zero T
		return Result[T]{Version: Failed, Value: zero, Err: err}
	}

	return Result[T]{Version: ver, Value: v}
}

func decode(s string, v any) (byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Failed, fmt.Errorf("unable to decode base64: %w", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return Failed, fmt.Errorf("unable to open gzip stream: %w", err)
	}

	defer zr.Close()

	b, err := io.ReadAll(zr)
	if err != nil {
		return Failed, fmt.Errorf("unable to decompress: %w", err)
	}

	if len(b) == 0 {
		return Failed, ErrEmpty
	}

	if err := decodeBody(b[0], b[1:], v); err != nil {
		return Failed, err
	}

	return b[0], nil
}

// decodeBody decodes the bytes following the version byte. All versions seen
// so far carry plain JSON; a new layout gets its own case here.
func decodeBody(ver byte, body []byte, v any) error {
	switch ver {
	default:
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("unable to unmarshal version %d payload: %w", ver, err)
		}
	}

	return nil
}

// Encode is the inverse of Decode. It marshals v to JSON, prefixes the
// version byte, compresses the result with gzip and returns it as base64.
func Encode[T any](v T, ver byte) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("unable to marshal payload: %w", err)
	}

	var buf bytes.Buffer

	zw := gzip.NewWriter(&buf)

	if _, err := zw.Write([]byte{ver}); err != nil {
		return "", fmt.Errorf("unable to compress: %w", err)
	}

	if _, err := zw.Write(body); err != nil {
		return "", fmt.Errorf("unable to compress: %w", err)
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("unable to compress: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
