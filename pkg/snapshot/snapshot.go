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

package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ManifestName is the name of the manifest inside a snapshot directory.
const ManifestName = "snapshot.json"

var (
	// ErrAborted is wrapped by every error that means no pack should be
	// produced for the snapshot.
	ErrAborted = errors.New("snapshot aborted")
	// ErrMissing is returned when the manifest does not exist.
	ErrMissing = fmt.Errorf("%w: manifest not found", ErrAborted)
	// ErrUnreadable is returned when the manifest cannot be read.
	ErrUnreadable = fmt.Errorf("%w: manifest unreadable", ErrAborted)
	// ErrMalformed is returned when the manifest is not valid JSON or is null.
	ErrMalformed = fmt.Errorf("%w: manifest malformed", ErrAborted)
)

// Replacement maps one file of the snapshot to the game paths it replaces.
type Replacement struct {
	Source       string
	Destinations []string
}

// Replacements is a JSON object of source path to destination paths that
// keeps the order of its keys.
type Replacements []Replacement

// UnmarshalJSON decodes a JSON object in document order. A repeated key
// replaces the destinations of the first occurrence in place.
func (r *Replacements) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if tok == nil {
		*r = nil
		return nil
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	out := Replacements{}
	idx := map[string]int{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		src, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", tok)
		}

		var dst []string
		if err := dec.Decode(&dst); err != nil {
			return fmt.Errorf("replacement %q: %w", src, err)
		}

		if i, ok := idx[src]; ok {
			out[i].Destinations = dst
			continue
		}

		idx[src] = len(out)
		out = append(out, Replacement{Source: src, Destinations: dst})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out

	return nil
}

// MarshalJSON encodes the replacements as a JSON object in order.
func (r Replacements) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, rep := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(rep.Source)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(rep.Destinations)
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Info is the content of a snapshot manifest.
type Info struct {
	FileReplacements   Replacements
	ManipulationString string
}

// UnmarshalJSON decodes a manifest. Field names are matched exactly; a
// differently cased key is ignored.
func (i *Info) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage

	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var out Info

	if raw, ok := fields["FileReplacements"]; ok {
		if err := json.Unmarshal(raw, &out.FileReplacements); err != nil {
			return fmt.Errorf("FileReplacements: %w", err)
		}
	}

	if raw, ok := fields["ManipulationString"]; ok {
		if err := json.Unmarshal(raw, &out.ManipulationString); err != nil {
			return fmt.Errorf("ManipulationString: %w", err)
		}
	}

	*i = out

	return nil
}

// Load reads the manifest of the snapshot in dir. Every error returned by
// Load wraps ErrAborted.
func Load(dir string) (*Info, error) {
	fn := filepath.Join(dir, ManifestName)

	b, err := os.ReadFile(fn)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, fn)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, err)
	}

	var info *Info

	if err := json.Unmarshal(b, &info); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	if info == nil {
		return nil, fmt.Errorf("%w: manifest is null", ErrMalformed)
	}

	return info, nil
}
