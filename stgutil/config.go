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
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spacetimegrid/stg"
	"github.com/spf13/cast"
)

// Config holds the settings for one run of the extraction pipeline.
type Config struct {
	// MinScanAngle is the maximum instrument scan angle [degrees] for
	// which cells are kept in the illumination masks.
	MinScanAngle float64

	// DayNightLine is the solar zenith angle [degrees] separating the
	// day mask from the night mask.
	DayNightLine float64

	// Variables lists the caller-facing names of the variables to
	// load. Empty means each format's default set.
	Variables []string

	// OutputType is the numeric type loaded data is cast to.
	OutputType stg.DType
}

// PipelineConfig assembles a pipeline Config from configuration
// information.
func PipelineConfig(cfg *viper.Viper) (*Config, error) {
	variables, err := configVariables(cfg)
	if err != nil {
		return nil, err
	}
	outputType, err := parseOutputType(cfg.GetString("OutputType"))
	if err != nil {
		return nil, err
	}
	return &Config{
		MinScanAngle: cfg.GetFloat64("MinScanAngle"),
		DayNightLine: cfg.GetFloat64("DayNightLine"),
		Variables:    variables,
		OutputType:   outputType,
	}, nil
}

// configVariables returns the configured variable list. Viper stores
// flag-set string slices and file-set lists differently, so convert
// whatever is there.
func configVariables(cfg *viper.Viper) ([]string, error) {
	variables, err := cast.ToStringSliceE(cfg.Get("Variables"))
	if err != nil {
		return nil, fmt.Errorf("stg: problem reading Variables configuration: %v", err)
	}
	return variables, nil
}

// parseOutputType converts a type name from the configuration to a
// DType. An empty name selects each format's preferred type.
func parseOutputType(name string) (stg.DType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return stg.DefaultType, nil
	case "float32":
		return stg.Float32, nil
	case "float64":
		return stg.Float64, nil
	case "int8":
		return stg.Int8, nil
	case "int16":
		return stg.Int16, nil
	case "int32":
		return stg.Int32, nil
	default:
		return stg.DefaultType, fmt.Errorf("stg: invalid OutputType '%s'", name)
	}
}

// registry builds a guidebook registry honoring the configured
// day/night line.
func (c *Config) registry() *stg.Registry {
	return stg.NewRegistry(
		stg.NewMODISGuidebook(c.DayNightLine),
		stg.NewCLAVRxGuidebook(c.DayNightLine),
		stg.NewCTPGuidebook(),
	)
}

// Identify logs the format family, platform, instrument, and
// acquisition time indicated by the name of the file at path. The file
// itself is not opened.
func Identify(path string) error {
	g, err := stg.ResolveGuidebook(path)
	if err != nil {
		return err
	}
	platform, instrument, err := g.Platform(path)
	if err != nil {
		return err
	}
	datetime, err := g.ParseDatetime(path)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"file":       path,
		"format":     g.Name(),
		"platform":   platform,
		"instrument": instrument,
		"datetime":   datetime.Format("2006-01-02 15:04 MST"),
	}).Info("identified file")
	return nil
}

// Load runs the extraction pipeline on the file at path: it loads and
// normalizes the configured variables, derives the day/night masks,
// and logs a summary of each array.
func Load(path string, cfg *Config) error {
	g, err := cfg.registry().Resolve(path)
	if err != nil {
		return err
	}
	f, err := g.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := g.VariableNames(cfg.Variables)
	for _, name := range names {
		_, data, err := g.LoadVariable(name, path, f, cfg.OutputType)
		if err != nil {
			return err
		}
		valid, min, max, mean := summarize(data)
		logrus.WithFields(logrus.Fields{
			"file":     path,
			"variable": name,
			"shape":    data.Shape,
			"valid":    valid,
			"min":      min,
			"max":      max,
			"mean":     mean,
		}).Info("loaded variable")
	}

	_, masks, err := g.LoadAuxData(path, f, cfg.MinScanAngle)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"file":  path,
		"day":   maskCount(masks.Day),
		"night": maskCount(masks.Night),
	}).Info("derived illumination masks")
	return nil
}

// summarize returns the count, minimum, maximum, and mean of the
// non-missing elements of data.
func summarize(data *sparse.DenseArray) (valid int, min, max, mean float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	var sum float64
	for _, v := range data.Elements {
		if math.IsNaN(v) {
			continue
		}
		valid++
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if valid == 0 {
		return 0, math.NaN(), math.NaN(), math.NaN()
	}
	return valid, min, max, sum / float64(valid)
}

// maskCount returns the number of set cells in m.
func maskCount(m *stg.Mask) int {
	var n int
	for _, set := range m.Elements {
		if set {
			n++
		}
	}
	return n
}
