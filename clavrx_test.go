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
	"math"
	"path/filepath"
	"testing"
	"time"
)

func TestCLAVRxParseDatetime(t *testing.T) {
	g := NewCLAVRxGuidebook(DayNightLine)
	tests := []struct {
		path string
		want time.Time
	}{
		{"CLAVRx_MOD021KM.t1.14015.1230.hdf", time.Date(2014, 1, 15, 12, 30, 0, 0, time.UTC)},
		{"CLAVRx_MYD021KM.a1.06002.1504.hdf", time.Date(2006, 1, 2, 15, 4, 0, 0, time.UTC)},
	}
	for _, test := range tests {
		got, err := g.ParseDatetime(test.path)
		if err != nil {
			t.Errorf("%s: %v", test.path, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("%s: want %v, got %v", test.path, test.want, got)
		}
	}
	if _, err := g.ParseDatetime("CLAVRx_MOD021KM.hdf"); err == nil {
		t.Error("expected an error for a name without a datetime")
	}
}

func TestCLAVRxPlatform(t *testing.T) {
	g := NewCLAVRxGuidebook(DayNightLine)
	tests := []struct {
		path     string
		platform Platform
	}{
		{"CLAVRx_MYD021KM.a1.14015.1230.hdf", PlatformAqua},
		{"CLAVRx_MOD021KM.t1.14015.1230.hdf", PlatformTerra},
	}
	for _, test := range tests {
		platform, instrument, err := g.Platform(test.path)
		if err != nil {
			t.Errorf("%s: %v", test.path, err)
			continue
		}
		if platform != test.platform || instrument != InstrumentMODIS {
			t.Errorf("%s: want %s/%s, got %s/%s", test.path,
				test.platform, InstrumentMODIS, platform, instrument)
		}
	}
	_, _, err := g.Platform("CLAVRx_XXX021KM.n9.14015.1230.hdf")
	if _, ok := err.(*UnsupportedPlatformError); !ok {
		t.Errorf("want UnsupportedPlatformError, got %v", err)
	}
}

// CLAVR-x files store final = raw * scale + offset, the opposite
// convention from MODIS.
func TestCLAVRxUnscale(t *testing.T) {
	elements := []float64{5, 7, math.NaN()}
	clavrxUnscale(elements, 2, 1)
	if elements[0] != 11 || elements[1] != 15 {
		t.Errorf("want [11 15], got %v", elements[:2])
	}
	if !math.IsNaN(elements[2]) {
		t.Errorf("want NaN preserved, got %v", elements[2])
	}
}

func TestCLAVRxLoadVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CLAVRx_MOD021KM.t1.14015.1230.hdf")
	writeSwathFixture(t, path, 2, 2, []testVariable{{
		name: clavrxCloudHeight,
		data: []int16{-128, 5, 7, 9},
		attrs: map[string]interface{}{
			fillValueAttr: []int16{-128},
			scaleAttr:     []float64{2},
			offsetAttr:    []float64{1},
		},
	}})
	g := NewCLAVRxGuidebook(DayNightLine)
	f, data, err := g.LoadVariable(clavrxCloudHeight, path, nil, DefaultType)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	want := []float64{math.NaN(), 11, 15, 19}
	for i, w := range want {
		got := data.Elements[i]
		if math.IsNaN(w) != math.IsNaN(got) || (!math.IsNaN(w) && got != w) {
			t.Errorf("element %d: want %v, got %v", i, w, got)
		}
	}
}

func TestCLAVRxLoadAuxData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CLAVRx_MYD021KM.a1.14015.1230.hdf")
	writeSwathFixture(t, path, 1, 3, []testVariable{
		{name: clavrxLongitude, data: []float32{-100, -101, -102}},
		{name: clavrxLatitude, data: []float32{40, 41, 42}},
		{name: clavrxSolarZenith, data: []float32{84, 20, 20}},
		{name: clavrxSensorZenith, data: []float32{5, 5, 80}},
	})
	g := NewCLAVRxGuidebook(DayNightLine)
	f, masks, err := g.LoadAuxData(path, nil, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	// A solar zenith exactly on the day/night line is night.
	wantDay := []bool{false, true, false}
	wantNight := []bool{true, false, false}
	for i := range wantDay {
		if masks.Day.Elements[i] != wantDay[i] || masks.Night.Elements[i] != wantNight[i] {
			t.Errorf("element %d: want day=%v night=%v, got day=%v night=%v", i,
				wantDay[i], wantNight[i], masks.Day.Elements[i], masks.Night.Elements[i])
		}
	}
}
