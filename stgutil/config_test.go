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

package stgutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/lnashier/viper"
	"github.com/spacetimegrid/stg"
)

func TestParseOutputType(t *testing.T) {
	tests := []struct {
		name string
		want stg.DType
	}{
		{"", stg.DefaultType},
		{"float32", stg.Float32},
		{"Float64", stg.Float64},
		{" int8 ", stg.Int8},
		{"int16", stg.Int16},
		{"int32", stg.Int32},
	}
	for _, test := range tests {
		got, err := parseOutputType(test.name)
		if err != nil {
			t.Errorf("%q: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: want %v, got %v", test.name, test.want, got)
		}
	}
	if _, err := parseOutputType("complex128"); err == nil {
		t.Error("expected an error for an unknown type name")
	}
}

func TestPipelineConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("MinScanAngle", 28.0)
	cfg.Set("DayNightLine", 80.0)
	cfg.Set("Variables", []string{"pressure", "lat"})
	cfg.Set("OutputType", "float64")

	c, err := PipelineConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.MinScanAngle != 28 || c.DayNightLine != 80 {
		t.Errorf("want angles 28/80, got %v/%v", c.MinScanAngle, c.DayNightLine)
	}
	if !reflect.DeepEqual(c.Variables, []string{"pressure", "lat"}) {
		t.Errorf("want [pressure lat], got %v", c.Variables)
	}
	if c.OutputType != stg.Float64 {
		t.Errorf("want Float64, got %v", c.OutputType)
	}
}

func TestIdentify(t *testing.T) {
	if err := Identify("MOD06_L2.A2014015.1230.051.hdf"); err != nil {
		t.Error(err)
	}
	if err := Identify("notes.txt"); err == nil {
		t.Error("expected an error for an unrecognized name")
	}
}

// writeMODISFixture writes a minimal MODIS-named swath file holding
// geolocation, geometry, and a cloud top pressure field.
func writeMODISFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "MOD06_L2.A2014015.1230.051.hdf")
	h := cdf.NewHeader([]string{"Cell_Along_Swath", "Cell_Across_Swath"}, []int{1, 2})
	dims := []string{"Cell_Along_Swath", "Cell_Across_Swath"}
	for _, v := range []string{"Longitude", "Latitude", "Solar_Zenith", "Sensor_Zenith", "Cloud_Top_Pressure"} {
		h.AddVariable(v, dims, []float32{0})
	}
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	values := map[string][]float32{
		"Longitude":          {-100, -101},
		"Latitude":           {40, 41},
		"Solar_Zenith":       {30, 120},
		"Sensor_Zenith":      {0, 5},
		"Cloud_Top_Pressure": {850, 500},
	}
	for v, data := range values {
		w := cf.Writer(v, []int{0, 0}, []int{1, 2})
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeMODISFixture(t, t.TempDir())
	cfg := &Config{
		MinScanAngle: 32,
		DayNightLine: stg.DayNightLine,
		Variables:    []string{"pressure"},
		OutputType:   stg.DefaultType,
	}
	if err := Load(path, cfg); err != nil {
		t.Fatal(err)
	}
}

func TestLoadUnknownVariable(t *testing.T) {
	path := writeMODISFixture(t, t.TempDir())
	cfg := &Config{
		MinScanAngle: 32,
		DayNightLine: stg.DayNightLine,
		// Unrecognized names resolve to an empty set, so the load only
		// derives the masks.
		Variables:  []string{"bogus"},
		OutputType: stg.DefaultType,
	}
	if err := Load(path, cfg); err != nil {
		t.Fatal(err)
	}
}
