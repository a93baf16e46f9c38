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

package pmp

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Archive writes every file below dir into a new zip file at fn. Entry names
// are the slash separated paths relative to dir.
func Archive(dir, fn string) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", fn, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close %s: %w", fn, cerr)
		}
	}()

	zw := zip.NewWriter(f)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		return addFile(zw, path, filepath.ToSlash(rel))
	})
	if err != nil {
		return fmt.Errorf("unable to archive %s: %w", dir, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to finish %s: %w", fn, err)
	}

	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	r, err := os.Open(path)
	if err != nil {
		return err
	}

	defer r.Close()

	st, err := r.Stat()
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(st)
	if err != nil {
		return err
	}

	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, r)

	return err
}

// ReadArchive returns the content of every file in the pack at fn, keyed by
// entry name.
func ReadArchive(fn string) (map[string][]byte, error) {
	zr, err := zip.OpenReader(fn)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", fn, err)
	}

	defer zr.Close()

	out := make(map[string][]byte, len(zr.File))

	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}

		r, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("unable to open %s: %w", zf.Name, err)
		}

		b, err := io.ReadAll(r)
		r.Close()

		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", zf.Name, err)
		}

		out[zf.Name] = b
	}

	return out, nil
}
