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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mys721tx/snappmp-go/pkg/snapshot"
)

// Outcome is the result of an export. Exactly one of Archive and Aborted is
// set.
type Outcome struct {
	// Archive is the path of the written pack.
	Archive string
	// Aborted is the reason the snapshot was skipped.
	Aborted error
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger of the Exporter.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		e.log = l
	}
}

// WithIDGenerator sets the generator of the identifier that makes pack and
// staging names unique.
func WithIDGenerator(gen func() string) Option {
	return func(e *Exporter) {
		e.newID = gen
	}
}

// WithAuthor overrides the author written to meta.json.
func WithAuthor(a string) Option {
	return func(e *Exporter) {
		e.author = a
	}
}

// Exporter converts snapshot directories into packs inside a working
// directory.
type Exporter struct {
	dir    string
	author string
	newID  func() string
	remove func(string) error
	log    *slog.Logger
}

// NewExporter returns an Exporter writing to dir.
func NewExporter(dir string, opts ...Option) *Exporter {
	e := &Exporter{
		dir:    dir,
		author: Author,
		newID:  uuid.NewString,
		remove: os.RemoveAll,
		log:    slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Export converts the snapshot in src into {dir}/{name}_{id}.pmp, where name
// is the name of the directory src refers to. A snapshot whose manifest cannot be loaded is
// logged and reported through Outcome.Aborted with a nil error. Errors while
// staging or archiving are returned and the staging directory is kept. When
// only the removal of the staging directory fails, the written pack is still
// reported in Outcome.Archive.
func (e *Exporter) Export(src string) (Outcome, error) {
	e.log.Debug("Operating on snapshot", "path", src)

	info, err := snapshot.Load(src)
	if err != nil {
		e.log.Warn("Skipping snapshot", "path", src, "error", err)

		return Outcome{Aborted: err}, nil
	}

	abs, err := filepath.Abs(src)
	if err != nil {
		return Outcome{}, fmt.Errorf("unable to assemble %s: %w", src, err)
	}

	name := filepath.Base(abs)
	id := fmt.Sprintf("%s_%s", name, e.newID())
	stage := filepath.Join(e.dir, "temp_"+id)
	fn := filepath.Join(e.dir, id+Ext)

	meta := Metadata{Name: name, Author: e.author}

	if _, err := Assemble(e.log, info, meta, src, stage); err != nil {
		return Outcome{}, fmt.Errorf("unable to assemble %s: %w", name, err)
	}

	if err := Archive(stage, fn); err != nil {
		return Outcome{}, fmt.Errorf("unable to pack %s: %w", name, err)
	}

	if err := e.remove(stage); err != nil {
		return Outcome{Archive: fn}, fmt.Errorf("unable to remove %s: %w", stage, err)
	}

	e.log.Info("Wrote pack", "path", fn)

	return Outcome{Archive: fn}, nil
}
