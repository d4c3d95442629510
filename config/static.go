package config

import (
	"path/filepath"
	"reflect"

	"github.com/KashifMalik777/ml-ids/pkg/schema"
	yaml "gopkg.in/yaml.v2"
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		Pipeline     PipelineStaticCfg `yaml:"Pipeline"`
		Log          LogStaticCfg      `yaml:"LogConfig"`
		Model        ModelStaticCfg    `yaml:"Model"`
		Server       ServerStaticCfg   `yaml:"Server"`
		UserConfig   UserCfgStaticCfg  `yaml:"UserConfig"`
		Version      string            `yaml:"-"`
		ExactVersion string            `yaml:"-"`
	}

	//PipelineStaticCfg controls the data preparation pipeline
	PipelineStaticCfg struct {
		Files             []SourceFileStaticCfg `yaml:"Files"`
		FallbackEncodings []string              `yaml:"FallbackEncodings" default:"[\"utf-8\", \"windows-1252\"]"`
		LabelColumn       string                `yaml:"LabelColumn" default:"label"`
		PreferredFeatures []string              `yaml:"PreferredFeatures"`
		RatioColumns      []string              `yaml:"RatioColumns" default:"[\"flow_bytes_s\", \"flow_packets_s\"]"`
		OutputPath        string                `yaml:"OutputPath" default:"data/processed_dataset.parquet"`
		LoadThreads       int                   `yaml:"LoadThreads" default:"4"`
		OnColumnCollision string                `yaml:"OnColumnCollision" default:"warn"`
	}

	//SourceFileStaticCfg names one input table. An empty Encoding
	//means the FallbackEncodings are tried in order.
	SourceFileStaticCfg struct {
		Path     string `yaml:"Path"`
		Encoding string `yaml:"Encoding"`
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"2"`
		LogPath   string `yaml:"LogPath" default:"/var/lib/ml-ids/logs"`
		LogToFile bool   `yaml:"LogToFile"`
	}

	//ModelStaticCfg controls the training step
	ModelStaticCfg struct {
		ModelPath      string  `yaml:"ModelPath" default:"models/model.json"`
		TestSize       float64 `yaml:"TestSize" default:"0.2"`
		Seed           int64   `yaml:"Seed" default:"42"`
		MaxIterations  int     `yaml:"MaxIterations" default:"1000"`
		LearningRate   float64 `yaml:"LearningRate" default:"0.1"`
		L2             float64 `yaml:"L2" default:"0.0001"`
		Threshold      float64 `yaml:"Threshold" default:"0.5"`
		BalanceClasses bool    `yaml:"BalanceClasses"`
	}

	//ServerStaticCfg controls the inference endpoint
	ServerStaticCfg struct {
		Address string `yaml:"Address" default:"127.0.0.1:8000"`
	}

	//UserCfgStaticCfg contains settings which affect the user experience
	UserCfgStaticCfg struct {
		UpdateCheckFrequency int `yaml:"UpdateCheckFrequency" default:"14"`
	}
)

// parseStaticConfig parses the yaml contents of a config file into
// the given StaticCfg
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {
	err := yaml.Unmarshal(cfgFile, config)
	if err != nil {
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	config.Log.LogPath = cleanPath(config.Log.LogPath)
	config.Pipeline.OutputPath = cleanPath(config.Pipeline.OutputPath)
	config.Model.ModelPath = cleanPath(config.Model.ModelPath)
	for i := range config.Pipeline.Files {
		config.Pipeline.Files[i].Path = cleanPath(config.Pipeline.Files[i].Path)
	}

	if len(config.Pipeline.PreferredFeatures) == 0 {
		config.Pipeline.PreferredFeatures = DefaultPreferredFeatures()
	}

	// column names are matched after normalization, so raw headers
	// such as "Flow Bytes/s" are accepted here too
	config.Pipeline.LabelColumn = schema.CanonicalName(config.Pipeline.LabelColumn)
	canonicalNames(config.Pipeline.PreferredFeatures)
	canonicalNames(config.Pipeline.RatioColumns)

	return nil
}

func canonicalNames(names []string) {
	for i, name := range names {
		names[i] = schema.CanonicalName(name)
	}
}

func cleanPath(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// DefaultPreferredFeatures returns the canonical names of the flow features
// kept in the prepared dataset, in output order, ending with the label column.
func DefaultPreferredFeatures() []string {
	return []string{
		"flow_duration",
		"total_fwd_packets",
		"total_backward_packets",
		"total_length_of_fwd_packets",
		"total_length_of_bwd_packets",
		"fwd_packet_length_mean",
		"bwd_packet_length_mean",
		"flow_bytes_s",
		"flow_iat_mean",
		"flow_iat_std",
		"flow_iat_max",
		"flow_iat_min",
		"fwd_iat_mean",
		"fwd_iat_std",
		"fwd_iat_max",
		"fwd_iat_min",
		"bwd_iat_mean",
		"bwd_iat_std",
		"bwd_iat_max",
		"bwd_iat_min",
		"min_packet_length",
		"max_packet_length",
		"packet_length_mean",
		"packet_length_std",
		"packet_length_variance",
		"average_packet_size",
		"avg_fwd_segment_size",
		"avg_bwd_segment_size",
		"label",
	}
}
