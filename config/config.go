package config

import (
	"io/ioutil"
	"os"
	"reflect"

	"github.com/creasty/defaults"
)

// DefaultConfigPath is consulted when no config file is given on the command line
const DefaultConfigPath = "/etc/ml-ids/config.yaml"

//Version is filled at compile time with the git version of ml-ids
var Version = "v0.0.0-dev"

// ExactVersion is filled by the build process
var ExactVersion = "v0.0.0-dev"

type (
	//Config holds the configuration for the running system
	Config struct {
		R RunningCfg
		S StaticCfg
	}
)

// LoadConfig initializes a Config struct with values read
// from a config file. It takes a string for the path to the file.
// An empty path falls back to DefaultConfigPath, and a missing default
// file leaves the built in defaults in place.
func LoadConfig(userConfig string) (*Config, error) {
	config := &Config{}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	cfgPath := userConfig
	if cfgPath == "" {
		cfgPath = DefaultConfigPath
	}

	cfgFile, err := ioutil.ReadFile(cfgPath)
	if err != nil {
		if userConfig != "" || !os.IsNotExist(err) {
			return nil, err
		}
		cfgFile = nil
	}

	// Deserialize the yaml file contents into the static config
	if err := parseStaticConfig(cfgFile, &config.S); err != nil {
		return nil, err
	}

	// grab the version constants set by the build process
	config.S.Version = Version
	config.S.ExactVersion = ExactVersion

	// Use the static config to initialize the running config
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.Struct {
			for j := 0; j < f.Len(); j++ {
				expandConfig(f.Index(j))
			}
		}
	}
}

// OverrideInputs replaces the configured input files with the given paths,
// which are decoded using the fallback encodings, and rebuilds the
// running config
func (c *Config) OverrideInputs(paths []string) error {
	c.S.Pipeline.Files = make([]SourceFileStaticCfg, 0, len(paths))
	for _, path := range paths {
		c.S.Pipeline.Files = append(c.S.Pipeline.Files, SourceFileStaticCfg{Path: cleanPath(path)})
	}
	return initRunningConfig(&c.S, &c.R)
}
