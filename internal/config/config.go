package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file-level configuration of the viewer process.
type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`

	// Backend selects the rendering context requested at window creation:
	// "gl41" (desktop core profile) or "gles3".
	Backend string `yaml:"backend"`

	// FPSLimit caps the frame loop; 0 means uncapped.
	FPSLimit int `yaml:"fps_limit"`

	// StatsAddr, when set, serves frame timings over websocket.
	StatsAddr string `yaml:"stats_addr,omitempty"`
}

func Default() Config {
	return Config{
		Width:    900,
		Height:   600,
		Title:    "sceneloop",
		Backend:  BackendGL41,
		FPSLimit: 120,
	}
}

const (
	BackendGL41  = "gl41"
	BackendGLES3 = "gles3"
)

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
