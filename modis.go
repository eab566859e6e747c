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

// variable names expected in MODIS cloud product files
const (
	modisCloudPhase         = "Cloud_Phase_Infrared"
	modisCloudTopTemp       = "Cloud_Top_Temperature"
	modisCloudTopPress      = "Cloud_Top_Pressure"
	modisCloudEffEmiss      = "Cloud_Effective_Emissivity"
	modisCloudTopPress1km   = "cloud_top_pressure_1km"
	modisCloudTopTemp1km    = "cloud_top_temperature_1km"
	modisCloudEffRadius16   = "Cloud_Effective_Radius_16"
	modisCloudEffRadius37   = "Cloud_Effective_Radius_37"
	modisCloudOpticalThick  = "Cloud_Optical_Thickness"
	modisCloudWaterPath     = "Cloud_Water_Path"
	modisQA1km              = "Quality_Assurance_1km"
	modisLatitude           = "Latitude"
	modisLongitude          = "Longitude"
	modisSolarZenith        = "Solar_Zenith"
	modisSensorZenith       = "Sensor_Zenith"
	modisCloudMultiLayer    = "Cloud_Multi_Layer_Flag"
	modisRadianceVariance   = "Radiance_Variance"
	modisBrightnessTemp     = "Brightness_Temperature"
)

// modisAliases maps what callers call variables to the names in the files.
var modisAliases = map[string]string{
	"cloud phase":            modisCloudPhase,
	"cloud_phase_infrared":   modisCloudPhase,
	"irphase":                modisCloudPhase,
	"cloud top temperature":  modisCloudTopTemp,
	"ctt5km":                 modisCloudTopTemp,
	"cloud_top_temperature":  modisCloudTopTemp,
	"cloud top pressure":     modisCloudTopPress,
	"ctp5km":                 modisCloudTopPress,
	"pressure":               modisCloudTopPress,
	"effective cloud emissivity": modisCloudEffEmiss,
	"ctp1km":                 modisCloudTopPress1km,
	"ctt1km":                 modisCloudTopTemp1km,
	"re16":                       modisCloudEffRadius16,
	"cloud_effective_radius_16":  modisCloudEffRadius16,
	"re37":                       modisCloudEffRadius37,
	"cloud_effective_radius_37":  modisCloudEffRadius37,
	"tau":                       modisCloudOpticalThick,
	"cloud_optical_thickness":   modisCloudOpticalThick,
	"optical thickness":         modisCloudOpticalThick,
	"cwp":              modisCloudWaterPath,
	"cloud_water_path": modisCloudWaterPath,
	"cloud water path": modisCloudWaterPath,
	"retphase":               modisQA1km,
	"retrieval phase":        modisQA1km,
	"retqflag":               modisQA1km,
	"retrieval_quality_flag": modisQA1km,
	"latitude":  modisLatitude,
	"lat":       modisLatitude,
	"longitude": modisLongitude,
	"lon":       modisLongitude,
	"solar zenith": modisSolarZenith,
	"sunzen":       modisSolarZenith,
	"sensor zenith":  modisSensorZenith,
	"satzen":         modisSensorZenith,
	"viewing zenith": modisSensorZenith,
	"multilayer":             modisCloudMultiLayer,
	"cloud_multi_layer_flag": modisCloudMultiLayer,
	"overlap":                modisCloudMultiLayer,
	"variance":             modisRadianceVariance,
	"radiance_variance":    modisRadianceVariance,
	"radiance_variability": modisRadianceVariance,
	"brightness_temperature": modisBrightnessTemp,
	"bt":                     modisBrightnessTemp,
}

// modisTypes gives the preferred output type per variable.
var modisTypes = map[string]DType{
	modisCloudPhase:        Float32,
	modisCloudTopTemp:      Float32,
	modisCloudTopPress:     Float32,
	modisCloudEffEmiss:     Float32,
	modisCloudTopPress1km:  Float32,
	modisCloudTopTemp1km:   Float32,
	modisCloudEffRadius16:  Float32,
	modisCloudEffRadius37:  Float32,
	modisCloudOpticalThick: Float32,
	modisCloudWaterPath:    Float32,
	modisQA1km:             Float32,
	modisLatitude:          Float32,
	modisLongitude:         Float32,
	modisSolarZenith:       Float32,
	modisSensorZenith:      Float32,
	modisCloudMultiLayer:   Float32,
	modisRadianceVariance:  Float32,
	modisBrightnessTemp:    Float32,
}

// modisDefaults is the variable set processed when the caller requests none.
var modisDefaults = []string{modisCloudTopPress}

// MODISGuidebook describes the MODIS cloud product swath files.
type MODISGuidebook struct {
	// dayNightLine is the solar zenith angle [degrees] separating day
	// from night in the illumination masks.
	dayNightLine float64
}

// NewMODISGuidebook creates a guidebook for MODIS cloud product files,
// splitting the illumination masks at solar zenith angle dayNightLine
// [degrees].
func NewMODISGuidebook(dayNightLine float64) *MODISGuidebook {
	return &MODISGuidebook{dayNightLine: dayNightLine}
}

// Name returns the format name.
func (g *MODISGuidebook) Name() string { return "MODIS" }

// Match reports whether the named file looks like a MODIS file.
func (g *MODISGuidebook) Match(path string) bool {
	name := filename(path)
	return (strings.HasPrefix(name, "MYD") || strings.HasPrefix(name, "MOD")) && strings.HasSuffix(name, "hdf")
}

// ParseDatetime extracts the acquisition time from a MODIS file name,
// for example MOD06_L2.A2014015.1230.051.hdf.
func (g *MODISGuidebook) ParseDatetime(path string) (time.Time, error) {
	name := filename(path)
	tokens := strings.Split(name, ".")
	if len(tokens) < 3 {
		return time.Time{}, fmt.Errorf("stg: file name %s does not contain a MODIS datetime", path)
	}
	t, err := time.ParseInLocation("A20060021504", tokens[1]+tokens[2], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("stg: parsing datetime from file name %s: %v", path, err)
	}
	return t, nil
}

// Platform determines the satellite from the file name prefix.
func (g *MODISGuidebook) Platform(path string) (Platform, Instrument, error) {
	name := filename(path)
	switch {
	case strings.HasPrefix(name, "MYD"):
		return PlatformAqua, InstrumentMODIS, nil
	case strings.HasPrefix(name, "MOD"):
		return PlatformTerra, InstrumentMODIS, nil
	}
	token := name
	if len(token) > 3 {
		token = token[:3]
	}
	return "", "", &UnsupportedPlatformError{Path: path, Token: token}
}

// VariableNames resolves caller-facing variable names to on-disk names.
func (g *MODISGuidebook) VariableNames(requested []string) []string {
	return resolveNames(requested, modisAliases, modisDefaults)
}

// Open opens the named MODIS file.
func (g *MODISGuidebook) Open(path string) (File, error) {
	return openSwath(path)
}

// LoadVariable loads one named variable from a MODIS file, undoing the
// MODIS calibration convention final = scale * (raw - offset).
func (g *MODISGuidebook) LoadVariable(name, path string, f File, outType DType) (File, *sparse.DenseArray, error) {
	opened := f == nil
	s, err := swathHandle(g, name, path, f)
	if err != nil {
		return f, nil, err
	}
	if outType == DefaultType {
		outType = preferredType(modisTypes, name)
	}
	data, err := loadSwathVariable(s, name, outType, modisUnscale)
	if err != nil && opened {
		s.Close()
		return nil, nil, err
	}
	return s, data, err
}

// LoadAuxData loads geolocation and geometry and builds the day/night masks.
func (g *MODISGuidebook) LoadAuxData(path string, f File, minScanAngle float64) (File, *MaskSet, error) {
	opened := f == nil
	fail := func(f File, err error) (File, *MaskSet, error) {
		if opened && f != nil {
			f.Close()
			f = nil
		}
		return f, nil, err
	}
	f, lon, err := g.LoadVariable(modisLongitude, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	f, lat, err := g.LoadVariable(modisLatitude, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	f, solar, err := g.LoadVariable(modisSolarZenith, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	f, sensor, err := g.LoadVariable(modisSensorZenith, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	masks, err := zenithMasks(lon, lat, solar, sensor, minScanAngle, g.dayNightLine)
	if err != nil {
		return fail(f, err)
	}
	return f, masks, nil
}

// modisUnscale applies the MODIS calibration convention
// final = scale * (raw - offset). This differs from the convention the
// other swath formats use; do not unify them.
func modisUnscale(elements []float64, scale, offset float64) {
	if offset != 0 {
		floats.AddConst(-offset, elements)
	}
	if scale != 1 {
		floats.Scale(scale, elements)
	}
}
