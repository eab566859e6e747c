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
	"os"
	"testing"

	"github.com/ctessum/cdf"
)

// testVariable describes one dataset in a generated swath fixture file.
type testVariable struct {
	name  string
	data  interface{}
	attrs map[string]interface{}
}

// writeSwathFixture writes a ny×nx swath file holding the given
// variables to path.
func writeSwathFixture(t *testing.T, path string, ny, nx int, vars []testVariable) {
	t.Helper()
	h := cdf.NewHeader([]string{"Cell_Along_Swath", "Cell_Across_Swath"}, []int{ny, nx})
	for _, v := range vars {
		h.AddVariable(v.name, []string{"Cell_Along_Swath", "Cell_Across_Swath"}, zeroTemplate(t, v.data))
		for name, val := range v.attrs {
			h.AddAttribute(v.name, name, val)
		}
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
	for _, v := range vars {
		w := cf.Writer(v.name, []int{0, 0}, []int{ny, nx})
		if _, err := w.Write(v.data); err != nil {
			t.Fatalf("writing %s: %v", v.name, err)
		}
	}
}

// zeroTemplate returns a one-element slice of the same element type as
// data, for declaring the variable's type in the file header.
func zeroTemplate(t *testing.T, data interface{}) interface{} {
	t.Helper()
	switch data.(type) {
	case []float32:
		return []float32{0}
	case []float64:
		return []float64{0}
	case []int32:
		return []int32{0}
	case []int16:
		return []int16{0}
	case []uint8:
		return []uint8{0}
	}
	t.Fatalf("unsupported fixture data type %T", data)
	return nil
}

func TestLoadSwathVariableFill(t *testing.T) {
	path := t.TempDir() + "/fill.hdf"
	writeSwathFixture(t, path, 2, 2, []testVariable{{
		name:  "field",
		data:  []int16{10, -9999, 30, 40},
		attrs: map[string]interface{}{fillValueAttr: []int16{-9999}},
	}})
	s, err := openSwath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	data, err := loadSwathVariable(s, "field", Float32, clavrxUnscale)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{10, math.NaN(), 30, 40}
	for i, w := range want {
		got := data.Elements[i]
		if math.IsNaN(w) != math.IsNaN(got) || (!math.IsNaN(w) && got != w) {
			t.Errorf("element %d: want %v, got %v", i, w, got)
		}
	}
}

// A variable with neither calibration metadata nor scale attributes is
// returned unscaled.
func TestLoadSwathVariableTrivialScale(t *testing.T) {
	path := t.TempDir() + "/plain.hdf"
	writeSwathFixture(t, path, 1, 3, []testVariable{{
		name: "field",
		data: []float32{1.5, 2.5, 3.5},
	}})
	s, err := openSwath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	data, err := loadSwathVariable(s, "field", Float32, clavrxUnscale)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1.5, 2.5, 3.5}
	for i, w := range want {
		if data.Elements[i] != w {
			t.Errorf("element %d: want %v, got %v", i, w, data.Elements[i])
		}
	}
}

// The scale factor and add offset attributes apply when there is no
// packed calibration record.
func TestLoadSwathVariableAttributeScale(t *testing.T) {
	path := t.TempDir() + "/attr.hdf"
	writeSwathFixture(t, path, 1, 2, []testVariable{{
		name: "field",
		data: []int16{5, 7},
		attrs: map[string]interface{}{
			scaleAttr:  []float64{2},
			offsetAttr: []float64{1},
		},
	}})
	s, err := openSwath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	data, err := loadSwathVariable(s, "field", Float32, clavrxUnscale)
	if err != nil {
		t.Fatal(err)
	}
	// final = raw * scale + offset
	want := []float64{11, 15}
	for i, w := range want {
		if data.Elements[i] != w {
			t.Errorf("element %d: want %v, got %v", i, w, data.Elements[i])
		}
	}
}

// A packed calibration record takes precedence and supplies the type.
func TestLoadSwathVariableCalibration(t *testing.T) {
	path := t.TempDir() + "/cal.hdf"
	writeSwathFixture(t, path, 1, 2, []testVariable{{
		name: "field",
		data: []int16{5, 7},
		attrs: map[string]interface{}{
			nativeTypeAttr: []int32{22}, // int16
			scaleAttr:      []float64{2},
			offsetAttr:     []float64{1},
		},
	}})
	s, err := openSwath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	cal, ok := s.getCalibration("field")
	if !ok {
		t.Fatal("expected a calibration record")
	}
	if cal.scale != 2 || cal.offset != 1 || cal.dtype != Int16 {
		t.Errorf("want scale 2 offset 1 type Int16, got %+v", cal)
	}
	data, err := loadSwathVariable(s, "field", Float32, clavrxUnscale)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{11, 15}
	for i, w := range want {
		if data.Elements[i] != w {
			t.Errorf("element %d: want %v, got %v", i, w, data.Elements[i])
		}
	}
}

// Scaling without a decodable calibration type is fatal.
func TestLoadSwathVariableCalibrationError(t *testing.T) {
	path := t.TempDir() + "/badcal.hdf"
	writeSwathFixture(t, path, 1, 2, []testVariable{{
		name: "field",
		data: []int16{5, 7},
		attrs: map[string]interface{}{
			nativeTypeAttr: []int32{999}, // not a known type code
			scaleAttr:      []float64{2},
		},
	}})
	s, err := openSwath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	_, err = loadSwathVariable(s, "field", Float32, clavrxUnscale)
	if _, ok := err.(*CalibrationError); !ok {
		t.Errorf("want CalibrationError, got %v", err)
	}
}

func TestLoadSwathVariableNotFound(t *testing.T) {
	path := t.TempDir() + "/missing.hdf"
	writeSwathFixture(t, path, 1, 1, []testVariable{{
		name: "present",
		data: []float32{1},
	}})
	s, err := openSwath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	_, err = loadSwathVariable(s, "absent", Float32, clavrxUnscale)
	verr, ok := err.(*VariableNotFoundError)
	if !ok {
		t.Fatalf("want VariableNotFoundError, got %v", err)
	}
	if verr.Variable != "absent" {
		t.Errorf("want variable 'absent' in error, got %q", verr.Variable)
	}
}

func TestSwathHandleMissingSource(t *testing.T) {
	g := NewMODISGuidebook(DayNightLine)
	_, err := swathHandle(g, "field", "", nil)
	if _, ok := err.(*MissingSourceError); !ok {
		t.Errorf("want MissingSourceError, got %v", err)
	}
}

func TestCastElements(t *testing.T) {
	elements := []float64{1.7, -2.3, math.NaN()}
	castElements(Int16, elements)
	if elements[0] != 1 || elements[1] != -2 {
		t.Errorf("want truncation toward zero, got %v", elements)
	}
	if !math.IsNaN(elements[2]) {
		t.Errorf("want NaN preserved, got %v", elements[2])
	}
}
