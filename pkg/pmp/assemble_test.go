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

package pmp_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mys721tx/snappmp-go/pkg/payload"
	"github.com/mys721tx/snappmp-go/pkg/pmp"
	"github.com/mys721tx/snappmp-go/pkg/snapshot"
)

func TestAssemble(t *testing.T) {
	entries := []json.RawMessage{
		json.RawMessage(`{"Type":"Eqp","Manipulation":{"Entry":7,"SetId":1}}`),
		json.RawMessage(`{"Type":"Imc","Manipulation":{"Entry":{"MaterialId":2}}}`),
	}

	enc, err := payload.Encode(entries, 0)
	require.NoError(t, err)

	src := makeSnapshot(t, "snap", map[string]any{}, map[string]string{
		"a.tex":           "a",
		"chara/eq/b.mdl":  "b",
		"chara/eq/c.mtrl": "c",
	})

	info := &snapshot.Info{
		FileReplacements: snapshot.Replacements{
			{Source: "a.tex", Destinations: []string{"mat/a.tex"}},
			{Source: "chara/eq/b.mdl", Destinations: []string{"chara/b.mdl"}},
			{Source: "chara/eq/c.mtrl", Destinations: []string{"chara/c.mtrl", "chara/c2.mtrl"}},
		},
		ManipulationString: enc,
	}

	stage := filepath.Join(t.TempDir(), "stage")

	mod, err := pmp.Assemble(discard, info, pmp.Metadata{Name: "snap", Author: pmp.Author}, src, stage)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"mat/a.tex":     "a.tex",
		"chara/b.mdl":   "chara/eq/b.mdl",
		"chara/c.mtrl":  "chara/eq/c.mtrl",
		"chara/c2.mtrl": "chara/eq/c.mtrl",
	}, mod.Files)
	require.Len(t, mod.Manipulations, 2)

	meta, err := os.ReadFile(filepath.Join(stage, pmp.MetaName))
	require.NoError(t, err)
	assert.Equal(t, `{"Name":"snap","Author":"SnapperFork"}`, string(meta))

	b, err := os.ReadFile(filepath.Join(stage, pmp.DefaultModName))
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  \"Files\": {")

	var written struct {
		Files         map[string]string
		Manipulations []json.RawMessage
	}
	require.NoError(t, json.Unmarshal(b, &written))
	assert.Equal(t, mod.Files, written.Files)
	require.Len(t, written.Manipulations, 2)
	assert.JSONEq(t, string(entries[0]), string(written.Manipulations[0]))
	assert.JSONEq(t, string(entries[1]), string(written.Manipulations[1]))

	for fn, content := range map[string]string{"a.tex": "a", "chara/eq/b.mdl": "b", "chara/eq/c.mtrl": "c"} {
		got, err := os.ReadFile(filepath.Join(stage, fn))
		require.NoError(t, err)
		assert.Equal(t, content, string(got))
	}

	// Files are staged under their source path only.
	assert.NoFileExists(t, filepath.Join(stage, "mat/a.tex"))
	assert.NoFileExists(t, filepath.Join(stage, "chara/c2.mtrl"))
}

func TestAssembleBadManipulations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "garbage", input: "definitely not a payload"},
		{name: "null list", input: mustEncode(t, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := makeSnapshot(t, "snap", map[string]any{}, map[string]string{"a.tex": "a"})
			stage := filepath.Join(t.TempDir(), "stage")

			info := &snapshot.Info{
				FileReplacements:   snapshot.Replacements{{Source: "a.tex", Destinations: []string{"mat/a.tex"}}},
				ManipulationString: tt.input,
			}

			mod, err := pmp.Assemble(discard, info, pmp.Metadata{Name: "snap", Author: pmp.Author}, src, stage)
			require.NoError(t, err)

			assert.NotNil(t, mod.Manipulations)
			assert.Empty(t, mod.Manipulations)
			assert.Equal(t, map[string]string{"mat/a.tex": "a.tex"}, mod.Files)

			b, err := os.ReadFile(filepath.Join(stage, pmp.DefaultModName))
			require.NoError(t, err)
			assert.Contains(t, string(b), `"Manipulations": []`)
			assert.FileExists(t, filepath.Join(stage, "a.tex"))
		})
	}
}

func TestAssembleMissingSource(t *testing.T) {
	src := makeSnapshot(t, "snap", map[string]any{}, map[string]string{"a.tex": "a"})
	stage := filepath.Join(t.TempDir(), "stage")

	info := &snapshot.Info{
		FileReplacements: snapshot.Replacements{
			{Source: "a.tex", Destinations: []string{"mat/a.tex"}},
			{Source: "gone.tex", Destinations: []string{"mat/gone.tex"}},
		},
	}

	_, err := pmp.Assemble(discard, info, pmp.Metadata{Name: "snap"}, src, stage)

	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.DirExists(t, stage)
	assert.FileExists(t, filepath.Join(stage, pmp.MetaName))
}

func TestAssembleExistingStage(t *testing.T) {
	src := makeSnapshot(t, "snap", map[string]any{}, nil)
	stage := t.TempDir()

	_, err := pmp.Assemble(discard, &snapshot.Info{}, pmp.Metadata{Name: "snap"}, src, stage)

	assert.NoError(t, err)
	assert.FileExists(t, filepath.Join(stage, pmp.DefaultModName))
}

func TestAssembleSourceClashesWithMeta(t *testing.T) {
	src := makeSnapshot(t, "snap", map[string]any{}, map[string]string{pmp.MetaName: "{}"})
	stage := filepath.Join(t.TempDir(), "stage")

	info := &snapshot.Info{
		FileReplacements: snapshot.Replacements{{Source: pmp.MetaName, Destinations: []string{"x"}}},
	}

	_, err := pmp.Assemble(discard, info, pmp.Metadata{Name: "snap"}, src, stage)

	assert.ErrorIs(t, err, os.ErrExist)
}

func mustEncode(t *testing.T, v []json.RawMessage) string {
	t.Helper()

	s, err := payload.Encode(v, 0)
	require.NoError(t, err)

	return s
}
