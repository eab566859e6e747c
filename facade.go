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
	"time"

	"github.com/ctessum/sparse"
)

// The package-level functions below resolve the guidebook for a file
// path through the default registry and delegate to it, so callers that
// process mixed batches of files don't need to track formats themselves.

var defaultRegistry = DefaultRegistry()

// ResolveGuidebook returns the guidebook responsible for the named file.
func ResolveGuidebook(path string) (Guidebook, error) {
	return defaultRegistry.Resolve(path)
}

// ParseDatetimeFromFilename extracts the acquisition time indicated by
// the file name.
func ParseDatetimeFromFilename(path string) (time.Time, error) {
	g, err := ResolveGuidebook(path)
	if err != nil {
		return time.Time{}, err
	}
	return g.ParseDatetime(path)
}

// PlatformFromFilename determines which satellite and instrument the
// named file came from.
func PlatformFromFilename(path string) (Platform, Instrument, error) {
	g, err := ResolveGuidebook(path)
	if err != nil {
		return "", "", err
	}
	return g.Platform(path)
}

// VariableNames returns the on-disk variable names to process from the
// named file. An empty request selects the format's default set.
func VariableNames(path string, requested []string) ([]string, error) {
	g, err := ResolveGuidebook(path)
	if err != nil {
		return nil, err
	}
	return g.VariableNames(requested), nil
}

// OpenFile opens the named data file with its format's open semantics.
func OpenFile(path string) (File, error) {
	g, err := ResolveGuidebook(path)
	if err != nil {
		return nil, err
	}
	return g.Open(path)
}

// CloseFile closes a file previously opened through OpenFile.
func CloseFile(f File) error {
	if f == nil {
		return nil
	}
	return f.Close()
}

// LoadVariableFromFile loads and normalizes one named variable. Exactly
// one of path or f must be supplied; a handle opened here is returned
// so the caller can reuse it for further loads and eventually close it.
func LoadVariableFromFile(name, path string, f File, outType DType) (File, *sparse.DenseArray, error) {
	g, err := ResolveGuidebook(path)
	if err != nil {
		return f, nil, err
	}
	return g.LoadVariable(name, path, f, outType)
}

// LoadAuxData loads the auxiliary data for the named file and derives
// its day/night illumination masks.
func LoadAuxData(path string, minScanAngle float64, f File) (File, *MaskSet, error) {
	g, err := ResolveGuidebook(path)
	if err != nil {
		return f, nil, err
	}
	return g.LoadAuxData(path, f, minScanAngle)
}
