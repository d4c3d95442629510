package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KashifMalik777/ml-ids/pkg/schema"
	"github.com/blang/semver"
	"golang.org/x/text/encoding/htmlindex"
)

type (
	//RunningCfg holds configuration options that are parsed at run time
	RunningCfg struct {
		Pipeline PipelineRunningCfg
		Version  semver.Version
	}

	//PipelineRunningCfg holds the validated pipeline settings
	PipelineRunningCfg struct {
		Sources         []SourceRunningCfg
		CollisionPolicy schema.CollisionPolicy
	}

	//SourceRunningCfg ties an input path to the encodings which
	//should be attempted, in order, when decoding it
	SourceRunningCfg struct {
		Path      string
		Encodings []string
	}
)

// initRunningConfig uses data in the static config initialize
// the passed in running config
func initRunningConfig(static *StaticCfg, running *RunningCfg) error {
	var err error

	if static.Pipeline.LabelColumn == "" {
		return errors.New("a label column must be configured")
	}

	if static.Pipeline.LoadThreads < 1 {
		return fmt.Errorf("invalid number of load threads: %d", static.Pipeline.LoadThreads)
	}

	if static.Model.TestSize <= 0 || static.Model.TestSize >= 1 {
		return fmt.Errorf("test size must be between 0 and 1, got %g", static.Model.TestSize)
	}

	fallback := make([]string, 0, len(static.Pipeline.FallbackEncodings))
	for _, name := range static.Pipeline.FallbackEncodings {
		canonical, err := canonicalEncoding(name)
		if err != nil {
			return err
		}
		fallback = append(fallback, canonical)
	}
	if len(fallback) == 0 {
		fallback = []string{"utf-8"}
	}

	running.Pipeline.Sources = make([]SourceRunningCfg, 0, len(static.Pipeline.Files))
	for _, file := range static.Pipeline.Files {
		if file.Path == "" {
			return errors.New("input file entries must have a path")
		}
		src := SourceRunningCfg{Path: file.Path, Encodings: fallback}
		if file.Encoding != "" {
			canonical, err := canonicalEncoding(file.Encoding)
			if err != nil {
				return fmt.Errorf("%s: %w", file.Path, err)
			}
			src.Encodings = []string{canonical}
		}
		running.Pipeline.Sources = append(running.Pipeline.Sources, src)
	}

	running.Pipeline.CollisionPolicy, err = schema.ParseCollisionPolicy(static.Pipeline.OnColumnCollision)
	if err != nil {
		return err
	}

	running.Version, err = semver.ParseTolerant(static.Version)
	if err != nil {
		return err
	}

	return nil
}

// canonicalEncoding resolves an encoding label such as "latin1" or "cp1252"
// to its WHATWG name
func canonicalEncoding(name string) (string, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return canonical, nil
}
