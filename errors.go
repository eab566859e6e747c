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

import "fmt"

// NoMatchingFormatError is returned when no registered guidebook claims
// the given file. Callers must not proceed without a guidebook.
type NoMatchingFormatError struct {
	Path string
}

func (e *NoMatchingFormatError) Error() string {
	return fmt.Sprintf("stg: no guidebook matches file %s", e.Path)
}

// UnsupportedPlatformError is returned when a filename token does not
// appear in the guidebook's platform table.
type UnsupportedPlatformError struct {
	Path  string
	Token string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("stg: unknown platform token %q in file name %s", e.Token, e.Path)
}

// VariableNotFoundError is returned when a requested dataset is absent
// from the opened file's variable catalog.
type VariableNotFoundError struct {
	Path     string
	Variable string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("stg: variable %s is not present in file %s", e.Variable, e.Path)
}

// MissingSourceError is returned when a load is requested with neither
// a file path nor an open file handle. This is a usage error.
type MissingSourceError struct {
	Variable string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("stg: loading %s: a file path or open file must be given", e.Variable)
}

// CalibrationError is returned when a variable requires unscaling but
// no numeric type could be determined from its calibration metadata,
// which indicates corrupt or unexpected metadata.
type CalibrationError struct {
	Path     string
	Variable string
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("stg: variable %s in file %s requires scaling but has no usable calibration type", e.Variable, e.Path)
}
