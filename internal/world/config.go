package world

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MapConfig describes one terrain file: its numeric slot in the candidate
// filenames and its dimensions in blocks. Dimensions are configuration,
// not something the flat file format records.
type MapConfig struct {
	Index  int `yaml:"index"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config drives a world load. The zero value plus a data directory is a
// working configuration; the YAML file is optional.
type Config struct {
	DataDir string      `yaml:"data_dir"`
	Maps    []MapConfig `yaml:"maps"`

	ArtCacheSize     int `yaml:"art_cache_size"`
	TextureCacheSize int `yaml:"texture_cache_size"`
	BlockCacheSize   int `yaml:"block_cache_size"`
}

// defaultMaps lists the shipped terrain files and their block dimensions.
var defaultMaps = []MapConfig{
	{Index: 0, Width: 896, Height: 512},
	{Index: 1, Width: 896, Height: 512},
	{Index: 2, Width: 288, Height: 200},
	{Index: 3, Width: 320, Height: 256},
	{Index: 4, Width: 181, Height: 181},
	{Index: 5, Width: 160, Height: 512},
}

// DefaultConfig returns the stock configuration for a data directory.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Maps:    append([]MapConfig(nil), defaultMaps...),
	}
}

// LoadConfig reads a YAML configuration file. Fields left out keep their
// defaults; an empty maps list falls back to the shipped set.
func LoadConfig(path string) (Config, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %v", path)
	}

	cfg := Config{}
	if err := yaml.Unmarshal(p, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %v", path)
	}
	if len(cfg.Maps) == 0 {
		cfg.Maps = append([]MapConfig(nil), defaultMaps...)
	}
	return cfg, nil
}
