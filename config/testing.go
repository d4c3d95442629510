package config

import (
	"github.com/creasty/defaults"
)

const testConfig = `
Pipeline:
    FallbackEncodings: [utf-8, windows-1252]
    LabelColumn: label
    LoadThreads: 2
    OnColumnCollision: warn
LogConfig:
    LogLevel: 3
    LogToFile: false
Model:
    TestSize: 0.25
    Seed: 7
    MaxIterations: 300
    LearningRate: 0.5
UserConfig:
    UpdateCheckFrequency: 0
`

// LoadTestingConfig loads the hard coded testing config pointed at the
// given input files and output artifact
func LoadTestingConfig(inputs []string, outputPath string) (*Config, error) {
	config := &Config{}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	// Deserialize the yaml file contents into the static config
	if err := parseStaticConfig([]byte(testConfig), &config.S); err != nil {
		return nil, err
	}

	config.S.Pipeline.Files = make([]SourceFileStaticCfg, 0, len(inputs))
	for _, input := range inputs {
		config.S.Pipeline.Files = append(config.S.Pipeline.Files, SourceFileStaticCfg{Path: input})
	}
	config.S.Pipeline.OutputPath = outputPath

	config.S.Version = "v0.0.0+testing"
	config.S.ExactVersion = "v0.0.0+testing"

	// Use the static config to initialize the running config
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}
