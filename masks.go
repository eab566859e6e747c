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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// physical constants for the zenith-to-scan-angle conversion
const (
	earthRadius = 6371.03 // km
	orbitAlt    = 825     // km
	dtr         = 0.01745329
)

// satelliteZenithToScanAngle converts a satellite zenith angle [degrees]
// to the equivalent scan angle [degrees].
//
// This comes directly from the satz2scang formula.
func satelliteZenithToScanAngle(zenith float64) float64 {
	fac := earthRadius / (earthRadius + orbitAlt)
	return math.Asin(math.Sin(zenith*dtr)*fac) / dtr
}

// zenithMasks builds a MaskSet from solar and sensor zenith angles.
// A cell is valid when its scan angle, derived from the sensor zenith,
// is at most minScanAngle; valid cells with solar zenith below
// dayNightLine are day, the remaining valid cells are night. Cells with
// out-of-range scan geometry are in neither mask.
func zenithMasks(lon, lat, solarZenith, sensorZenith *sparse.DenseArray, minScanAngle, dayNightLine float64) (*MaskSet, error) {
	for _, a := range []*sparse.DenseArray{lat, solarZenith, sensorZenith} {
		if len(a.Elements) != len(lon.Elements) {
			return nil, fmt.Errorf("stg: geometry variable shapes don't match: %v != %v", a.Shape, lon.Shape)
		}
	}
	day := newMask(solarZenith.Shape...)
	night := newMask(solarZenith.Shape...)
	for i, sz := range solarZenith.Elements {
		scanAngle := satelliteZenithToScanAngle(sensorZenith.Elements[i])
		if !(scanAngle <= minScanAngle) {
			continue
		}
		// Both comparisons are false for NaN solar zenith cells, which
		// belong to neither mask.
		if sz < dayNightLine {
			day.Elements[i] = true
		} else if sz >= dayNightLine {
			night.Elements[i] = true
		}
	}
	return &MaskSet{Lon: lon, Lat: lat, Day: day, Night: night}, nil
}

// flagMasks builds a MaskSet from a packed day/night flag field, where
// flag 1 marks day cells and flag 2 marks night cells. No scan angle
// gating is applied.
func flagMasks(lon, lat, flag *sparse.DenseArray) *MaskSet {
	day := newMask(flag.Shape...)
	night := newMask(flag.Shape...)
	for i, v := range flag.Elements {
		switch v {
		case 1:
			day.Elements[i] = true
		case 2:
			night.Elements[i] = true
		}
	}
	return &MaskSet{Lon: lon, Lat: lat, Day: day, Night: night}
}
