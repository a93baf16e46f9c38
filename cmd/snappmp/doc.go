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

/*
snappmp converts snapshot directories into PMP mod packs.

A snapshot directory holds a snapshot.json manifest and the mod files it
references. convert writes one <name>_<uuid>.pmp file per snapshot into the
working directory. The pack holds meta.json, default_mod.json and a copy of
every referenced file.

inspect prints the manipulations embedded in a snapshot. encode turns a JSON
file into a manipulation payload.

Usage:
	snappmp [--config file] [--working-dir dir] [--verbose] convert <snapshot>...
	snappmp inspect <snapshot>
	snappmp encode [--payload-version n] <file.json>

*/
package main
