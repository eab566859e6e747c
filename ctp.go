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
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ctessum/sparse"
)

// variable names expected in the per-orbit CTP files
const (
	ctpLatitude        = "Latitude"
	ctpLongitude       = "Longitude"
	ctpCloudTopPress   = "Cloud_Top_Pressure"
	ctpCloudTopHeight  = "Cloud_Top_Height"
	ctpCloudTopTemp    = "Cloud_Top_Temperature"
	ctpEffCloudAmount  = "Effective_Cloud_Amount"
	ctpMethodFlag      = "Retrieval_Method_Flag"
	ctpDayNightFlag    = "Day_Night_Flag"
	ctpDirectionFlag   = "Direction_Flag"
	ctpViewingZenith   = "Viewing_Zenith"
	ctpScanLineTime    = "Scan_Line_Time"
	ctpCloudFraction   = "Cloud_Fraction"
	ctpLandFraction    = "Land_Fraction"
	ctpResultsFlag     = "Results_Flag"
	ctpUTLSFlag        = "UTLS_Flag"
)

// The fixed record layout of a per-orbit CTP file: every record holds
// these fields in this order, each one a ctpRows×ctpCols grid of 4-byte
// floats.
var ctpFields = []string{
	ctpLatitude,
	ctpLongitude,
	ctpCloudTopPress,
	ctpCloudTopHeight,
	ctpCloudTopTemp,
	ctpEffCloudAmount,
	ctpMethodFlag,
	ctpDayNightFlag,
	ctpDirectionFlag,
	ctpViewingZenith,
	ctpScanLineTime,
	ctpCloudFraction,
	ctpLandFraction,
	ctpResultsFlag,
	ctpUTLSFlag,
}

const (
	ctpRows = 1100
	ctpCols = 56
)

// ctpAliases maps what callers call variables to the names in the files.
var ctpAliases = map[string]string{
	"latitude":  ctpLatitude,
	"lat":       ctpLatitude,
	"longitude": ctpLongitude,
	"lon":       ctpLongitude,
	"cloud top pressure": ctpCloudTopPress,
	"pressure":           ctpCloudTopPress,
	"cloud top height": ctpCloudTopHeight,
	"height":           ctpCloudTopHeight,
	"cloud top temperature": ctpCloudTopTemp,
	"ctt5km":                ctpCloudTopTemp,
	"cloud_top_temperature": ctpCloudTopTemp,
	"amount":                 ctpEffCloudAmount,
	"cloud amount":           ctpEffCloudAmount,
	"effective cloud amount": ctpEffCloudAmount,
}

// ctpValidRanges gives the valid numeric range per variable, where one
// is defined; cells outside the range are treated as missing.
var ctpValidRanges = map[string][2]float64{
	ctpLatitude:      {-90, 90},
	ctpLongitude:     {-180, 180},
	ctpDayNightFlag:  {1, 2},
	ctpDirectionFlag: {1, 2},
	ctpViewingZenith: {0, 90},
	ctpScanLineTime:  {0, 86400000},
	ctpCloudFraction: {0, 1},
	ctpLandFraction:  {0, 1},
	ctpResultsFlag:   {0, 3},
	ctpUTLSFlag:      {0, 2},
}

// ctpFillValues gives the fill constant per variable, where one is defined.
var ctpFillValues = map[string]float64{
	ctpCloudTopPress:  -99.9,
	ctpCloudTopHeight: -99.9,
	ctpCloudTopTemp:   -99.9,
	ctpEffCloudAmount: -99.9,
	ctpMethodFlag:     -99,
}

// ctpPlatforms maps the 2-character station code in a CTP file name to
// the satellite that acquired the orbit.
var ctpPlatforms = map[string]Platform{
	"NK": PlatformNOAA15,
	"NL": PlatformNOAA16,
	"NM": PlatformNOAA17,
	"NN": PlatformNOAA18,
	"NP": PlatformNOAA19,
	"M2": PlatformMetopA, // yes, M2 really does = metop-a
	"M1": PlatformMetopB,
}

// CTPGuidebook describes the per-orbit flat binary CTP product files.
type CTPGuidebook struct{}

// NewCTPGuidebook creates a guidebook for per-orbit CTP files.
func NewCTPGuidebook() *CTPGuidebook {
	return &CTPGuidebook{}
}

// Name returns the format name.
func (g *CTPGuidebook) Name() string { return "CTP" }

// Match reports whether the named file looks like a per-orbit CTP file.
func (g *CTPGuidebook) Match(path string) bool {
	return strings.HasSuffix(filename(path), "ctp.bin")
}

// ctpDatetimeToken finds the index of the file name token holding the
// D<yy><doy> date stamp, or -1 if there is none.
func ctpDatetimeToken(tokens []string) int {
	for i, t := range tokens {
		if len(t) >= 6 && t[0] == 'D' {
			return i
		}
	}
	return -1
}

// ParseDatetime extracts the acquisition time from a CTP file name, for
// example NSS.HIRX.NP.D14015.S1230.E1425.B2600506.GC.ctp.bin. The date
// and start-time stamps may also appear joined in a single token.
func (g *CTPGuidebook) ParseDatetime(path string) (time.Time, error) {
	name := filename(path)
	tokens := strings.Split(name, ".")
	i := ctpDatetimeToken(tokens)
	if i < 0 {
		return time.Time{}, fmt.Errorf("stg: file name %s does not contain a CTP datetime", path)
	}
	stamp := tokens[i]
	if !strings.Contains(stamp, "S") && i+1 < len(tokens) {
		stamp += tokens[i+1]
	}
	t, err := time.ParseInLocation("D06002S1504", stamp, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("stg: parsing datetime from file name %s: %v", path, err)
	}
	return t, nil
}

// Platform determines the satellite from the station code preceding the
// date stamp in the file name. An unrecognized station code is fatal.
func (g *CTPGuidebook) Platform(path string) (Platform, Instrument, error) {
	name := filename(path)
	tokens := strings.Split(name, ".")
	i := ctpDatetimeToken(tokens)
	if i < 1 {
		return "", "", &UnsupportedPlatformError{Path: path, Token: name}
	}
	code := tokens[i-1]
	platform, ok := ctpPlatforms[code]
	if !ok {
		return "", "", &UnsupportedPlatformError{Path: path, Token: code}
	}
	return platform, InstrumentHIRS, nil
}

// VariableNames resolves caller-facing variable names to on-disk names.
// By default every field in the record layout is processed.
func (g *CTPGuidebook) VariableNames(requested []string) []string {
	return resolveNames(requested, ctpAliases, ctpFields)
}

// ctpFile is a per-orbit CTP file read fully into memory; the format is
// not self-describing, so the whole record array is decoded in one pass
// at open time.
type ctpFile struct {
	path    string
	records int
	fields  map[string][]float32
}

// Close releases the decoded record array.
func (c *ctpFile) Close() error {
	c.fields = nil
	return nil
}

// Open reads and decodes the named CTP file.
func (g *CTPGuidebook) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stg: opening %s: %v", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stg: opening %s: %v", path, err)
	}
	const cellBytes = 4
	recordSize := int64(len(ctpFields) * ctpRows * ctpCols * cellBytes)
	if info.Size() == 0 || info.Size()%recordSize != 0 {
		return nil, fmt.Errorf("stg: file %s size %d is not a whole number of %d-byte CTP records", path, info.Size(), recordSize)
	}
	records := int(info.Size() / recordSize)

	fields := make(map[string][]float32, len(ctpFields))
	for _, name := range ctpFields {
		fields[name] = make([]float32, 0, records*ctpRows*ctpCols)
	}
	r := bufio.NewReader(f)
	block := make([]float32, ctpRows*ctpCols)
	for rec := 0; rec < records; rec++ {
		for _, name := range ctpFields {
			if err := binary.Read(r, binary.LittleEndian, block); err != nil {
				return nil, fmt.Errorf("stg: reading record %d of %s: %v", rec, path, err)
			}
			fields[name] = append(fields[name], block...)
		}
	}
	return &ctpFile{path: path, records: records, fields: fields}, nil
}

// LoadVariable loads one named field from a CTP file. The format has no
// scale or offset step; cells holding the field's fill constant and
// cells outside its valid range are both marked missing.
func (g *CTPGuidebook) LoadVariable(name, path string, f File, outType DType) (File, *sparse.DenseArray, error) {
	if f == nil && path == "" {
		return nil, nil, &MissingSourceError{Variable: name}
	}
	opened := f == nil
	if f == nil {
		var err error
		f, err = g.Open(path)
		if err != nil {
			return nil, nil, err
		}
	}
	c, ok := f.(*ctpFile)
	if !ok {
		return f, nil, fmt.Errorf("stg: %s guidebook given a %T file handle", g.Name(), f)
	}

	raw, ok := c.fields[name]
	if !ok {
		if opened {
			f.Close()
			f = nil
		}
		return f, nil, &VariableNotFoundError{Path: c.path, Variable: name}
	}

	data := sparse.ZerosDense(c.records, ctpRows, ctpCols)
	for i, v := range raw {
		data.Elements[i] = float64(v)
	}
	if fill, ok := ctpFillValues[name]; ok {
		// Compare in float32 space: the file stores single precision, so
		// a widened -99.9 would never compare equal to the constant.
		fill32 := float32(fill)
		for i, v := range raw {
			if v == fill32 {
				data.Elements[i] = math.NaN()
			}
		}
	}
	if valid, ok := ctpValidRanges[name]; ok {
		for i, v := range data.Elements {
			if v < valid[0] || v > valid[1] {
				data.Elements[i] = math.NaN()
			}
		}
	}
	if outType == DefaultType {
		outType = Float32
	}
	castElements(outType, data.Elements)
	return f, data, nil
}

// LoadAuxData loads geolocation and builds the day/night masks from the
// packed day/night flag field. The format does not carry per-pixel scan
// geometry in this path, so no scan angle gating is applied.
func (g *CTPGuidebook) LoadAuxData(path string, f File, minScanAngle float64) (File, *MaskSet, error) {
	opened := f == nil
	fail := func(f File, err error) (File, *MaskSet, error) {
		if opened && f != nil {
			f.Close()
			f = nil
		}
		return f, nil, err
	}
	f, lon, err := g.LoadVariable(ctpLongitude, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	f, lat, err := g.LoadVariable(ctpLatitude, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	f, flag, err := g.LoadVariable(ctpDayNightFlag, path, f, DefaultType)
	if err != nil {
		return fail(f, err)
	}
	return f, flagMasks(lon, lat, flag), nil
}
