// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DEFAULT []byte

type Camera struct {
	FOV    float32 `yaml:"fov" json:"fov"`
	ZNear  float32 `yaml:"zNear" json:"zNear"`
	ZFar   float32 `yaml:"zFar" json:"zFar"`
	Width  int     `yaml:"width" json:"width"`
	Height int     `yaml:"height" json:"height"`
}

type Config struct {
	// BaseDir holds the maps and textures, directly or inside *.pk3 files.
	BaseDir           string   `yaml:"baseDir" json:"baseDir"`
	Map               string   `yaml:"map" json:"map"`
	Spawn             int      `yaml:"spawn" json:"spawn"`
	SpawnCapacity     int      `yaml:"spawnCapacity" json:"spawnCapacity"`
	TextureExtensions []string `yaml:"textureExtensions" json:"textureExtensions"`
	LightmapGamma     float32  `yaml:"lightmapGamma" json:"lightmapGamma"`
	MaxLumpBytes      int64    `yaml:"maxLumpBytes" json:"maxLumpBytes"`
	MaxFPS            int      `yaml:"maxFPS" json:"maxFPS"`
	Camera            Camera   `yaml:"camera" json:"camera"`
}

func decode(name string, data []byte, c *Config) error {
	switch filepath.Ext(name) {
	case ".json":
		return json.Unmarshal(data, c)
	case ".yaml", ".yml", "":
		d := yaml.NewDecoder(bytes.NewReader(data))
		d.KnownFields(true)
		if err := d.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
	return errors.New("not in a valid format")
}

// Process reads the provided configuration files in order on top of the
// default configuration. Later files override earlier ones.
func Process(configPaths []string) (*Config, error) {
	c := &Config{}
	if err := decode("<default>.yaml", DEFAULT, c); err != nil {
		return nil, errors.Wrap(err, "invalid default config file")
	}
	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not process config file %s", path)
		}
		if err := decode(path, data, c); err != nil {
			return nil, errors.Wrapf(err, "could not merge config file %s", path)
		}
		if err := c.Validate(); err != nil {
			return nil, errors.Wrapf(err, "config file %s is not valid", path)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Map == "":
		return errors.New("map is empty")
	case c.Spawn < 0:
		return errors.Errorf("spawn %d is negative", c.Spawn)
	case c.SpawnCapacity <= 0:
		return errors.Errorf("spawnCapacity %d must be positive", c.SpawnCapacity)
	case len(c.TextureExtensions) == 0:
		return errors.New("textureExtensions is empty")
	case c.LightmapGamma <= 0:
		return errors.Errorf("lightmapGamma %v must be positive", c.LightmapGamma)
	case c.MaxLumpBytes <= 0:
		return errors.Errorf("maxLumpBytes %d must be positive", c.MaxLumpBytes)
	case c.MaxFPS <= 0:
		return errors.Errorf("maxFPS %d must be positive", c.MaxFPS)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return errors.Errorf("camera fov %v is not in (0, 180)", c.Camera.FOV)
	case c.Camera.ZNear <= 0 || c.Camera.ZFar <= c.Camera.ZNear:
		return errors.Errorf("camera clip range %v..%v is invalid", c.Camera.ZNear, c.Camera.ZFar)
	case c.Camera.Width <= 0 || c.Camera.Height <= 0:
		return errors.Errorf("camera viewport %dx%d is invalid", c.Camera.Width, c.Camera.Height)
	}
	return nil
}

// YAML returns the configuration as it would be written to a file.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
