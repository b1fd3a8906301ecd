// loader.go — Config JSON persistence and sample generation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a config JSON file and validates the result. Decoding starts
// from Default(), so omitted fields keep their defaults while explicit
// values, including invalid ones, go through validation as written.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config as indented JSON.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SampleJSON returns a starter config for thumbgen init.
func SampleJSON() string {
	return `{
  "courseName": "CS 101",
  "titleTemplate": "Week # Overview",
  "startNumber": 1,
  "batchCount": 10,
  "fontName": "",
  "fontSize": 60,
  "textMargin": 100,
  "lineSpacing": 0.3,
  "textColor": "#ffffff",
  "backgroundColor": "#d73f09",
  "backgroundImage": "",
  "pattern": "",
  "patternOpacity": 100,
  "width": 1280,
  "height": 720
}
`
}
