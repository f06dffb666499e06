package main

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/chihaya/benc/arena"
	"github.com/chihaya/benc/bencode"
	httpfrontend "github.com/chihaya/benc/frontend/http"
)

// CodecConfig holds the parser limits.
type CodecConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// Codec returns the bencode.Codec described by cfg.
func (cfg CodecConfig) Codec() bencode.Codec {
	return bencode.Codec{MaxDepth: cfg.MaxDepth}
}

// Config represents the configuration used for executing benc.
type Config struct {
	Debug       bool                `yaml:"debug"`
	MetricsAddr string              `yaml:"metrics_addr"`
	Codec       CodecConfig         `yaml:"codec"`
	Arena       arena.Config        `yaml:"arena"`
	HTTPConfig  httpfrontend.Config `yaml:"http"`
}

// ConfigFile represents a namespaced YAML configation file.
type ConfigFile struct {
	Benc Config `yaml:"benc"`
}

// ParseConfigFile returns a new ConfigFile given the path to a YAML
// configuration file.
//
// It supports relative and absolute paths and environment variables.
func ParseConfigFile(path string) (*ConfigFile, error) {
	if path == "" {
		return nil, errors.New("no config path specified")
	}

	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config")
	}
	defer f.Close()

	contents, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	var cfgFile ConfigFile
	err = yaml.UnmarshalStrict(contents, &cfgFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	return &cfgFile, nil
}
