package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Vanity struct {
		MaxNameLength int      `yaml:"max_name_length"`
		BannedWords   []string `yaml:"banned_words"`
		RolePosition  int      `yaml:"role_position"`
		SetNickname   bool     `yaml:"set_nickname"`
		PaletteSwatch bool     `yaml:"palette_swatch"`
	} `yaml:"vanity"`
	Cleanup struct {
		IntervalMinutes float64 `yaml:"interval_minutes"`
	} `yaml:"cleanup"`
	Storage struct {
		Backend     string `yaml:"backend"`
		DataFile    string `yaml:"data_file"`
		RedisPrefix string `yaml:"redis_prefix"`
	} `yaml:"storage"`
}

// Default returns the configuration used when no config.yml is present.
// Values read from a file are layered on top of these.
func Default() *Config {
	config := &Config{}
	config.Vanity.MaxNameLength = 32
	config.Vanity.BannedWords = []string{"admin", "mod", "owner"}
	config.Vanity.RolePosition = 1
	config.Vanity.SetNickname = true
	config.Vanity.PaletteSwatch = true
	config.Cleanup.IntervalMinutes = 10
	config.Storage.Backend = "file"
	config.Storage.DataFile = "vanity_roles.json"
	config.Storage.RedisPrefix = "vanitybot"
	return config
}

func LoadConfig(path string) (*Config, error) {
	config := Default()

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
