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

// Package stg extracts per-instrument geophysical variables from satellite
// product files (swath datasets and per-orbit flat binary files) and
// normalizes them into a common in-memory representation for regridding.
// Each supported file family is described by a Guidebook, which knows the
// family's file naming conventions, variable name tables, and calibration
// metadata. Callers typically resolve a guidebook for a file path, load the
// variables they need, and then build the day/night illumination masks from
// the file's geometry variables.
package stg

import (
	"github.com/ctessum/sparse"
)

// Version gives the version number of this version of STG.
const Version = "0.3.1"

// Platform identifies the satellite a data file came from.
type Platform string

// The satellites whose products STG can read.
const (
	PlatformAqua   Platform = "aqua"
	PlatformTerra  Platform = "terra"
	PlatformNOAA15 Platform = "noaa-15"
	PlatformNOAA16 Platform = "noaa-16"
	PlatformNOAA17 Platform = "noaa-17"
	PlatformNOAA18 Platform = "noaa-18"
	PlatformNOAA19 Platform = "noaa-19"
	PlatformMetopA Platform = "metop-a"
	PlatformMetopB Platform = "metop-b"
)

// Instrument identifies the sensor that acquired a data file.
type Instrument string

// The instruments whose products STG can read.
const (
	InstrumentMODIS Instrument = "modis"
	InstrumentHIRS  Instrument = "hirs"
)

// DType specifies the numeric type that loaded data should be cast to
// before normalization.
type DType int

const (
	// DefaultType selects the guidebook's preferred type for the
	// variable being loaded (Float32 when no preference is recorded).
	DefaultType DType = iota
	Float32
	Float64
	Int8
	Int16
	Int32
)

// DayNightLine is the default solar zenith angle [degrees] separating
// day cells from night cells in the illumination masks.
const DayNightLine = 84.0

// Mask is a boolean array with the same shape as the data it classifies.
type Mask struct {
	Shape    []int
	Elements []bool
}

// newMask returns a Mask of the given shape with all cells false.
func newMask(shape ...int) *Mask {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Mask{
		Shape:    append([]int{}, shape...),
		Elements: make([]bool, n),
	}
}

// MaskSet holds the geolocation arrays and illumination masks derived
// from one file's geometry variables. Day and Night are mutually
// exclusive for every cell, but cells with invalid scan geometry are
// a member of neither.
type MaskSet struct {
	Lon, Lat   *sparse.DenseArray
	Day, Night *Mask
}

// File is an open, format-specific data file. A File is owned exclusively
// by the caller that opened it and must be closed exactly once.
type File interface {
	Close() error
}
