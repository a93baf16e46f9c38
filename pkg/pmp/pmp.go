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

// Package pmp assembles and writes PMP mod packs from snapshots.
package pmp

import (
	"encoding/json"

	"github.com/mys721tx/snappmp-go/pkg/snapshot"
)

const (
	// Author is written to the metadata of every pack.
	Author = "SnapperFork"
	// Ext is the extension of a pack.
	Ext = ".pmp"
	// MetaName is the name of the metadata file inside a pack.
	MetaName = "meta.json"
	// DefaultModName is the name of the default option file inside a pack.
	DefaultModName = "default_mod.json"
)

// ManipulationEntry is a manipulation record. Its content is passed through
// as is.
type ManipulationEntry = json.RawMessage

// Metadata is the content of meta.json.
type Metadata struct {
	Name   string
	Author string
}

// DefaultMod is the content of default_mod.json. Files maps a game path to
// the file of the pack that replaces it.
type DefaultMod struct {
	Files         map[string]string
	Manipulations []ManipulationEntry
}

// NewDefaultMod returns a DefaultMod with no files and no manipulations.
func NewDefaultMod() *DefaultMod {
	return &DefaultMod{
		Files:         map[string]string{},
		Manipulations: []ManipulationEntry{},
	}
}

// AddReplacements inverts the replacements into Files. Sources and their
// destinations are visited in order, so a game path claimed by several
// sources ends up with the last one.
func (m *DefaultMod) AddReplacements(r snapshot.Replacements) {
	for _, rep := range r {
		for _, dst := range rep.Destinations {
			m.Files[dst] = rep.Source
		}
	}
}
