// Package config loads default settings for rq from a YAML file.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/nojima/restreq/request"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds defaults that command line flags may override.
type Config struct {
	// Style is "url", "query", "json" or "form".
	Style string `yaml:"style,omitempty"`
	// Timeout is a duration string ("5s") or a number of seconds.
	Timeout string            `yaml:"timeout,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Follow  *bool             `yaml:"follow,omitempty"`
	Verify  *bool             `yaml:"verify,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/restreq/config.yaml, or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "restreq", "config.yaml")
}

// Load reads the config file at path. A missing file yields an empty Config
// unless mustExist is set.
func Load(path string, mustExist bool) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) && !mustExist {
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}
	if c.Style != "" {
		if _, err := request.ParseParameterStyle(c.Style); err != nil {
			return nil, errors.Wrap(err, "invalid style in config file")
		}
	}
	return &c, nil
}

// ParameterStyle returns the configured style, or nil when none is set.
func (c *Config) ParameterStyle() request.ParameterStyle {
	if c.Style == "" {
		return nil
	}
	style, err := request.ParseParameterStyle(c.Style)
	if err != nil {
		return nil
	}
	return style
}

func (c *Config) FollowRedirects() bool {
	return c.Follow != nil && *c.Follow
}

func (c *Config) SkipVerify() bool {
	return c.Verify != nil && !*c.Verify
}
