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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Attribute names shared by the swath dataset formats.
const (
	scaleAttr      = "scale_factor"
	offsetAttr     = "add_offset"
	fillValueAttr  = "_FillValue"
	scaleErrAttr   = "scale_factor_err"
	offsetErrAttr  = "add_offset_err"
	nativeTypeAttr = "calibrated_nt"
)

// swathFile is an open self-describing swath dataset.
type swathFile struct {
	path string
	f    *os.File
	cf   *cdf.File
}

// Close closes the underlying file.
func (s *swathFile) Close() error {
	return s.f.Close()
}

// openSwath opens the named swath dataset file.
func openSwath(path string) (*swathFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stg: opening %s: %v", path, err)
	}
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stg: opening %s: %v", path, err)
	}
	return &swathFile{path: path, f: f, cf: cf}, nil
}

// hasVariable reports whether the named dataset appears in the file's
// variable catalog.
func (s *swathFile) hasVariable(name string) bool {
	for _, v := range s.cf.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// attribute returns the named attribute of the given variable, or nil
// if the variable does not carry it.
func (s *swathFile) attribute(variable, name string) interface{} {
	for _, a := range s.cf.Header.Attributes(variable) {
		if a == name {
			return s.cf.Header.GetAttribute(variable, name)
		}
	}
	return nil
}

// swathHandle implements the path-or-handle contract shared by the swath
// guidebooks: exactly one of path or f must be supplied, and a handle
// opened here is returned to the caller, who then owns it.
func swathHandle(g Guidebook, name, path string, f File) (*swathFile, error) {
	if f == nil && path == "" {
		return nil, &MissingSourceError{Variable: name}
	}
	if f == nil {
		return openSwath(path)
	}
	s, ok := f.(*swathFile)
	if !ok {
		return nil, fmt.Errorf("stg: %s guidebook given a %T file handle", g.Name(), f)
	}
	return s, nil
}

// preferredType looks up a guidebook's preferred output type for a
// variable, falling back to Float32.
func preferredType(types map[string]DType, name string) DType {
	if t, ok := types[name]; ok {
		return t
	}
	return Float32
}

// calibration holds the unscaling metadata for one variable as recorded
// by the format's calibration accessor.
type calibration struct {
	scale, scaleErr   float64
	offset, offsetErr float64
	dtype             DType
}

// getCalibration reads a variable's calibration record. The record is
// only usable when the native type attribute is present; otherwise ok is
// false and the caller falls back to reading the scale and offset
// attributes directly.
func (s *swathFile) getCalibration(variable string) (calibration, bool) {
	nt := s.attribute(variable, nativeTypeAttr)
	if nt == nil {
		return calibration{}, false
	}
	code, _, ok := attrNumber(nt)
	if !ok {
		return calibration{}, false
	}
	dtype, ok := dtypeFromCode(int(code))
	if !ok {
		return calibration{}, false
	}
	cal := calibration{scale: 1, dtype: dtype}
	if v, _, ok := attrNumber(s.attribute(variable, scaleAttr)); ok {
		cal.scale = v
	}
	if v, _, ok := attrNumber(s.attribute(variable, offsetAttr)); ok {
		cal.offset = v
	}
	if v, _, ok := attrNumber(s.attribute(variable, scaleErrAttr)); ok {
		cal.scaleErr = v
	}
	if v, _, ok := attrNumber(s.attribute(variable, offsetErrAttr)); ok {
		cal.offsetErr = v
	}
	return cal, true
}

// unscaleFunc undoes a format's quantization in place. NaN sentinel
// cells propagate through the arithmetic unchanged.
type unscaleFunc func(elements []float64, scale, offset float64)

// loadSwathVariable reads one named dataset from an open swath file,
// replaces fill values with NaN, and undoes the format's quantization
// using the given unscale formula.
func loadSwathVariable(s *swathFile, name string, outType DType, unscale unscaleFunc) (*sparse.DenseArray, error) {
	if !s.hasVariable(name) {
		return nil, &VariableNotFoundError{Path: s.path, Variable: name}
	}

	dims := s.cf.Header.Lengths(name)
	n := 1
	for _, d := range dims {
		n *= d
	}
	r := s.cf.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("stg: reading variable %s from %s: %v", name, s.path, err)
	}
	data := sparse.ZerosDense(dims...)
	if err := toFloat64s(buf, data.Elements); err != nil {
		return nil, fmt.Errorf("stg: reading variable %s from %s: %v", name, s.path, err)
	}
	castElements(outType, data.Elements)

	scale, offset := 1.0, 0.0
	haveType := false
	if cal, ok := s.getCalibration(name); ok {
		scale, offset = cal.scale, cal.offset
		haveType = true
	} else {
		// Read the scale factor and add offset by hand; the attributes'
		// own numeric types stand in for the missing calibration type.
		// A calibration type attribute that is present but undecodable
		// means the metadata is corrupt, so no type is assumed.
		if v, _, ok := attrNumber(s.attribute(name, offsetAttr)); ok {
			offset = v
		}
		if v, _, ok := attrNumber(s.attribute(name, scaleAttr)); ok {
			scale = v
		}
		haveType = s.attribute(name, nativeTypeAttr) == nil
	}

	fill := math.NaN()
	if v, _, ok := attrNumber(s.attribute(name, fillValueAttr)); ok {
		fill = v
	}
	if !math.IsNaN(fill) {
		for i, e := range data.Elements {
			if e == fill {
				data.Elements[i] = math.NaN()
			}
		}
	}

	// Don't do the scaling pass if there is nothing to undo.
	if scale == 1.0 && offset == 0.0 {
		return data, nil
	}

	// If we don't have a type here the calibration metadata is corrupt.
	if !haveType {
		return nil, &CalibrationError{Path: s.path, Variable: name}
	}
	unscale(data.Elements, scale, offset)
	return data, nil
}

// attrNumber converts the first element of an attribute value to a
// float64 along with the numeric type the attribute was stored as.
func attrNumber(attr interface{}) (float64, DType, bool) {
	switch a := attr.(type) {
	case []float64:
		if len(a) > 0 {
			return a[0], Float64, true
		}
	case []float32:
		if len(a) > 0 {
			return float64(a[0]), Float32, true
		}
	case []int32:
		if len(a) > 0 {
			return float64(a[0]), Int32, true
		}
	case []int16:
		if len(a) > 0 {
			return float64(a[0]), Int16, true
		}
	case []int8:
		if len(a) > 0 {
			return float64(a[0]), Int8, true
		}
	case []uint8:
		// Byte-typed attributes come back unsigned.
		if len(a) > 0 {
			return float64(a[0]), Int8, true
		}
	}
	return 0, DefaultType, false
}

// dtypeFromCode maps the calibration record's native type code to a DType.
func dtypeFromCode(code int) (DType, bool) {
	switch code {
	case 5:
		return Float32, true
	case 6:
		return Float64, true
	case 20, 21:
		return Int8, true
	case 22, 23:
		return Int16, true
	case 24, 25:
		return Int32, true
	}
	return DefaultType, false
}

// toFloat64s copies a typed slice read from a dataset into dst.
func toFloat64s(buf interface{}, dst []float64) error {
	switch b := buf.(type) {
	case []float64:
		copy(dst, b)
	case []float32:
		for i, v := range b {
			dst[i] = float64(v)
		}
	case []int32:
		for i, v := range b {
			dst[i] = float64(v)
		}
	case []int16:
		for i, v := range b {
			dst[i] = float64(v)
		}
	case []int8:
		for i, v := range b {
			dst[i] = float64(v)
		}
	case []uint8:
		for i, v := range b {
			dst[i] = float64(v)
		}
	default:
		return fmt.Errorf("unsupported data type %T", buf)
	}
	return nil
}

// castElements converts data in place to the requested output numeric
// type. Float64 output leaves the data as read.
func castElements(outType DType, elements []float64) {
	switch outType {
	case Float32:
		for i, v := range elements {
			elements[i] = float64(float32(v))
		}
	case Int8:
		for i, v := range elements {
			if !math.IsNaN(v) {
				elements[i] = float64(int8(int64(v)))
			}
		}
	case Int16:
		for i, v := range elements {
			if !math.IsNaN(v) {
				elements[i] = float64(int16(int64(v)))
			}
		}
	case Int32:
		for i, v := range elements {
			if !math.IsNaN(v) {
				elements[i] = float64(int32(int64(v)))
			}
		}
	}
}
