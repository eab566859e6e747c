/*
Copyright © 2026 the STG authors.
This file is part of STG.

STG is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

STG is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with STG.  If not, see <http://www.gnu.org/licenses/>.
*/

package stg

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ctessum/sparse"
)

// Guidebook specifies the methods a file format handler must provide for
// its product family to be usable as an STG input.
type Guidebook interface {
	// Name is the format name, for use in messages.
	Name() string

	// Match reports whether the named file belongs to this guidebook's
	// format family. It must be a pure function of the path string.
	Match(path string) bool

	// ParseDatetime extracts the acquisition time from the file name.
	// It fails only when the expected token layout is absent; token
	// values are not validated beyond what time parsing rejects.
	ParseDatetime(path string) (time.Time, error)

	// Platform determines which satellite and instrument the named
	// file came from. An unrecognized platform token is fatal.
	Platform(path string) (Platform, Instrument, error)

	// VariableNames maps caller-facing variable names to the names used
	// on disk. An empty request returns the format's default variable
	// set; names this guidebook does not recognize are dropped without
	// error, since a caller may ask several guidebooks the same
	// question and only one will recognize any given name.
	VariableNames(requested []string) []string

	// Open opens the named file for reading. The returned File is owned
	// by the caller and must be closed exactly once.
	Open(path string) (File, error)

	// LoadVariable reads one named on-disk variable, undoing the
	// format's quantization (fill value, scale, offset) and returning
	// floating-point data with missing cells set to NaN. Exactly one of
	// path or f must be supplied; if f is nil the file is opened from
	// path and returned so the caller can reuse and eventually close it.
	LoadVariable(name, path string, f File, outType DType) (File, *sparse.DenseArray, error)

	// LoadAuxData loads geolocation and solar/sensor geometry and
	// derives the day/night illumination masks. minScanAngle gates mask
	// validity for formats that carry per-pixel scan geometry.
	LoadAuxData(path string, f File, minScanAngle float64) (File, *MaskSet, error)
}

// Registry is a fixed, ordered collection of guidebooks. Match predicates
// are probed in registration order so that dispatch is reproducible even
// if two predicates could claim the same name.
type Registry struct {
	guidebooks []Guidebook
}

// NewRegistry creates a registry that probes the given guidebooks in order.
func NewRegistry(guidebooks ...Guidebook) *Registry {
	return &Registry{guidebooks: guidebooks}
}

// Resolve returns the first guidebook whose Match predicate claims the
// named file, or a NoMatchingFormatError if none do.
func (r *Registry) Resolve(path string) (Guidebook, error) {
	for _, g := range r.guidebooks {
		if g.Match(path) {
			return g, nil
		}
	}
	return nil, &NoMatchingFormatError{Path: path}
}

// Guidebooks returns the registry contents in probe order.
func (r *Registry) Guidebooks() []Guidebook {
	return r.guidebooks
}

// DefaultRegistry returns a registry holding all the guidebooks STG
// knows about, with the default day/night line.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewMODISGuidebook(DayNightLine),
		NewCLAVRxGuidebook(DayNightLine),
		NewCTPGuidebook(),
	)
}

// filename strips the directory from a file path so that match and
// token parsing operate on the name alone.
func filename(path string) string {
	return filepath.Base(path)
}

// resolveNames implements the shared alias-table lookup behavior:
// an empty request yields the defaults, unrecognized names are dropped,
// and lookups are case-insensitive. The result is sorted so repeated
// calls are deterministic.
func resolveNames(requested []string, aliases map[string]string, defaults []string) []string {
	set := make(map[string]bool)
	if len(requested) == 0 {
		for _, name := range defaults {
			set[name] = true
		}
	} else {
		for _, name := range requested {
			if onDisk, ok := aliases[strings.ToLower(name)]; ok {
				set[onDisk] = true
			}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
