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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mys721tx/snappmp-go/pkg/payload"
	"github.com/mys721tx/snappmp-go/pkg/snapshot"
)

// Assemble stages the content of a pack in stage: meta.json,
// default_mod.json and a copy of every source file of info under its
// relative path. A missing source file stops the assembly and the partially
// staged directory is left behind.
func Assemble(log *slog.Logger, info *snapshot.Info, meta Metadata, src, stage string) (*DefaultMod, error) {
	if err := os.MkdirAll(stage, 0755); err != nil {
		return nil, fmt.Errorf("unable to create staging directory: %w", err)
	}

	if err := writeJSON(filepath.Join(stage, MetaName), meta, false); err != nil {
		return nil, err
	}

	mod := NewDefaultMod()
	mod.AddReplacements(info.FileReplacements)

	res := payload.Decode[[]ManipulationEntry](info.ManipulationString)
	if !res.OK() {
		log.Debug("Dropping manipulations", "error", res.Err)
	} else if res.Value != nil {
		log.Debug("Decoded manipulations", "version", res.Version, "count", len(res.Value))
		mod.Manipulations = res.Value
	}

	if err := writeJSON(filepath.Join(stage, DefaultModName), mod, true); err != nil {
		return nil, err
	}

	for _, rep := range info.FileReplacements {
		from := filepath.Join(src, rep.Source)
		to := filepath.Join(stage, rep.Source)

		log.Debug("Copying", "file", from)

		if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
			return nil, fmt.Errorf("unable to create directory for %s: %w", rep.Source, err)
		}

		if err := copyFile(from, to); err != nil {
			return nil, err
		}
	}

	return mod, nil
}

// writeJSON writes v to fn, indented with two spaces when indent is set.
func writeJSON(fn string, v any, indent bool) error {
	var (
		b   []byte
		err error
	)

	if indent {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}

	if err != nil {
		return fmt.Errorf("unable to marshal %s: %w", filepath.Base(fn), err)
	}

	if err := os.WriteFile(fn, b, 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", filepath.Base(fn), err)
	}

	return nil
}

// copyFile copies from to a new file to. It fails when to already exists.
func copyFile(from, to string) (err error) {
	r, err := os.Open(from)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", from, err)
	}

	defer r.Close()

	w, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", to, err)
	}

	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close %s: %w", to, cerr)
		}
	}()

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("unable to copy %s: %w", from, err)
	}

	return nil
}
