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

// Package stgutil holds the configuration and command-line glue around
// the STG variable extraction pipeline.
package stgutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spacetimegrid/stg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("STG")

	// Options are the configuration options available to STG.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the logging verbosity (debug, info, warning, error).`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MinScanAngle",
			usage: `
              MinScanAngle is the maximum instrument scan angle [degrees]
              for which cells are included in the day and night masks.`,
			defaultVal: 32.0,
			flagsets:   []*pflag.FlagSet{loadCmd.Flags()},
		},
		{
			name: "DayNightLine",
			usage: `
              DayNightLine is the solar zenith angle [degrees] separating
              day cells from night cells in the illumination masks.`,
			defaultVal: stg.DayNightLine,
			flagsets:   []*pflag.FlagSet{loadCmd.Flags()},
		},
		{
			name: "Variables",
			usage: `
              Variables lists the caller-facing names of the variables to
              process. When empty, each file's format default set is used.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{varsCmd.Flags(), loadCmd.Flags()},
		},
		{
			name: "OutputType",
			usage: `
              OutputType is the numeric type loaded data is cast to
              (float32, float64, int8, int16, or int32). The default
              selects each format's preferred type per variable.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{loadCmd.Flags()},
		},
	}

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(identifyCmd)
	Root.AddCommand(varsCmd)
	Root.AddCommand(loadCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("stg: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLog applies the configured logging verbosity.
func setLog() error {
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("stg: problem setting log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "stg",
	Short: "Extract satellite product variables for space-time gridding.",
	Long: `STG reads satellite cloud product files (MODIS and CLAVR-x swath
files and per-orbit CTP binary files), normalizes the variables they
hold, and derives day/night illumination masks for regridding.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'STG_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLog()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of STG.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("STG v%s\n", stg.Version)
	},
	DisableAutoGenTag: true,
}

// identifyCmd reports what each named file is, using only its file name.
var identifyCmd = &cobra.Command{
	Use:   "identify [files]",
	Short: "Identify data files by name",
	Long: `identify determines, for each named file, which format family it
belongs to and which satellite, instrument, and acquisition time its
file name indicates. The files are not opened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("stg: no files were given to identify")
		}
		for _, path := range args {
			if err := Identify(path); err != nil {
				return err
			}
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// varsCmd reports the on-disk variable names that would be processed.
var varsCmd = &cobra.Command{
	Use:   "vars [files]",
	Short: "List the variables to process from data files",
	Long: `vars lists, for each named file, the on-disk variable names that
would be processed, resolving the caller-facing names given in the
Variables configuration through the file's format alias table. With no
Variables configured, the format's default set is listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("stg: no files were given")
		}
		requested, err := configVariables(Cfg)
		if err != nil {
			return err
		}
		for _, path := range args {
			names, err := stg.VariableNames(path, requested)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"file":      path,
				"variables": names,
			}).Info("resolved variable names")
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// loadCmd loads and normalizes variables and masks, reporting summaries.
var loadCmd = &cobra.Command{
	Use:   "load [files]",
	Short: "Load and normalize variables from data files",
	Long: `load reads each named file, normalizes the configured variables
(or the format's default set), derives the day/night illumination
masks, and logs a summary of each loaded array. It exercises the full
extraction pipeline without writing anything to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("stg: no files were given to load")
		}
		cfg, err := PipelineConfig(Cfg)
		if err != nil {
			return err
		}
		for _, path := range args {
			if err := Load(path, cfg); err != nil {
				return err
			}
		}
		return nil
	},
	DisableAutoGenTag: true,
}
