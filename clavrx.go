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
	"strings"
	"time"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// variable names expected in CLAVR-x files
const (
	clavrxLatitude     = "latitude"
	clavrxLongitude    = "longitude"
	clavrxSolarZenith  = "solar_zenith_angle"
	clavrxSensorZenith = "sensor_zenith_angle"
	clavrxCloudMask    = "cloud_mask"
	clavrxCloudHeight  = "cld_height_acha"
	clavrxCloudType    = "cloud_type"
)

// clavrxAliases maps what callers call variables to the names in the files.
var clavrxAliases = map[string]string{
	"latitude":  clavrxLatitude,
	"lat":       clavrxLatitude,
	"longitude": clavrxLongitude,
	"lon":       clavrxLongitude,
	"solar zenith": clavrxSolarZenith,
	"sunzen":       clavrxSolarZenith,
	"sensor zenith":  clavrxSensorZenith,
	"satzen":         clavrxSensorZenith,
	"viewing zenith": clavrxSensorZenith,
	"cloud mask":   clavrxCloudMask,
	"cloud height": clavrxCloudHeight,
	"cloud type":   clavrxCloudType,
}

// clavrxTypes gives the preferred output type per variable.
var clavrxTypes = map[string]DType{
	clavrxLatitude:     Float32,
	clavrxLongitude:    Float32,
	clavrxSolarZenith:  Float32,
	clavrxSensorZenith: Float32,
	clavrxCloudMask:    Int8,
	clavrxCloudHeight:  Float32,
	clavrxCloudType:    Int8,
}

// clavrxDefaults is the variable set processed when the caller requests none.
var clavrxDefaults = []string{clavrxCloudMask}

// CLAVRxGuidebook describes the CLAVR-x cloud product swath files.
type CLAVRxGuidebook struct {
	dayNightLine float64
}

// NewCLAVRxGuidebook creates a guidebook for CLAVR-x files, splitting the
// illumination masks at solar zenith angle dayNightLine [degrees].
func NewCLAVRxGuidebook(dayNightLine float64) *CLAVRxGuidebook {
	return &CLAVRxGuidebook{dayNightLine: dayNightLine}
}

// Name returns the format name.
func (g *CLAVRxGuidebook) Name() string { return "CLAVR-x" }

// Match reports whether the named file looks like a CLAVR-x file.
func (g *CLAVRxGuidebook) Match(path string) bool {
	name := filename(path)
	return strings.HasPrefix(name, "CLAVRx") && strings.HasSuffix(name, "hdf")
}

// ParseDatetime extracts the acquisition time from a CLAVR-x file name,
// for example CLAVRx_MOD021KM.t1.14015.1230.hdf.
func (g *CLAVRxGuidebook) ParseDatetime(path string) (time.Time, error) {
	name := filename(path)
	tokens := strings.Split(name, ".")
	if len(tokens) < 4 {
		return time.Time{}, fmt.Errorf("stg: file name %s does not contain a CLAVR-x datetime", path)
	}
	t, err := time.ParseInLocation("060021504", tokens[2]+tokens[3], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("stg: parsing datetime from file name %s: %v", path, err)
	}
	return t, nil
}

// Platform determines the satellite from the file name's sensor token.
func (g *CLAVRxGuidebook) Platform(path string) (Platform, Instrument, error) {
	name := filename(path)
	tokens := strings.Split(name, ".")
	if len(tokens) < 2 {
		return "", "", &UnsupportedPlatformError{Path: path, Token: name}
	}
	switch tokens[1] {
	case "a1":
		return PlatformAqua, InstrumentMODIS, nil
	case "t1":
		return PlatformTerra, InstrumentMODIS, nil
	}
	return "", "", &UnsupportedPlatformError{Path: path, Token: tokens[1]}
}

// VariableNames resolves caller-facing variable names to on-disk names.
func (g *CLAVRxGuidebook) VariableNames(requested []string) []string {
	return resolveNames(requested, clavrxAliases, clavrxDefaults)
}

// Open opens the named CLAVR-x file.
func (g *CLAVRxGuidebook) Open(path string) (File, error) {
	return openSwath(path)
}

// LoadVariable loads one named variable from a CLAVR-x file, undoing the
// calibration convention final = raw * scale + offset.
func (g *CLAVRxGuidebook) LoadVariable(name, path string, f File, outType DType) (File, *sparse.DenseArray, error) {
	opened := f == nil
	s, err := swathHandle(g, name, path, f)
	if err != nil {
		return f, nil, err
	}
	if outType == DefaultType {
		outType = preferredType(clavrxTypes, name)
	}
	data, err := loadSwathVariable(s, name, outType, clavrxUnscale)
	if err != nil && opened {
		s.Close()
		return nil, nil, err
	}
	return s, data, err
}

// LoadAuxData loads geolocation and geometry and builds the day/night masks.
func (g *CLAVRxGuidebook) LoadAuxData(path string, f File, minScanAngle float64) (File, *MaskSet, error) {
	opened := f == nil
	fail := func(f File, err error) (File, *MaskSet, error) {
		if opened && f != nil {
			f.Close()
			f = nil
		}
		return f, nil, err
	}
	f, lon, err := g.LoadVariable(clavrxLongitude, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	f, lat, err := g.LoadVariable(clavrxLatitude, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	f, solar, err := g.LoadVariable(clavrxSolarZenith, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	f, sensor, err := g.LoadVariable(clavrxSensorZenith, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	masks, err := zenithMasks(lon, lat, solar, sensor, minScanAngle, g.dayNightLine)
	if err != nil {
		return fail(f, err)
	}
	return f, masks, nil
}

// clavrxUnscale applies the calibration convention
// final = raw * scale + offset.
func clavrxUnscale(elements []float64, scale, offset float64) {
	if scale != 1 {
		floats.Scale(scale, elements)
	}
	if offset != 0 {
		floats.AddConst(offset, elements)
	}
}
