package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileConfig is the on-disk configuration shape. Every field is optional;
// command-line flags override whatever the file sets.
type fileConfig struct {
	Render renderConfig      `toml:"render"`
	Play   playConfig        `toml:"play"`
	Serve  serveConfig       `toml:"serve"`
	Theme  map[string]string `toml:"theme"`
}

type renderConfig struct {
	Width            float64  `toml:"width"`
	Height           float64  `toml:"height"`
	PixelRatio       float64  `toml:"pixel_ratio"`
	Formats          []string `toml:"formats"`
	FPS              int      `toml:"fps"`
	TransitionFrames int      `toml:"transition_frames"`
	Easing           string   `toml:"easing"`
	GIFScale         float64  `toml:"gif_scale"`
}

type playConfig struct {
	FPS int `toml:"fps"`
}

type serveConfig struct {
	Addr     string `toml:"addr"`
	Traces   string `toml:"traces"`
	StoreURL string `toml:"store_url"`
	CacheURL string `toml:"cache_url"`
}

// loadConfig reads the config file. An explicit path that doesn't exist is
// an error; a missing default file yields the zero config.
func (c *CLI) loadConfig() (fileConfig, error) {
	var cfg fileConfig

	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
