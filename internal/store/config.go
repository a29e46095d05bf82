package store

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config resolves where the store lives and which AI provider defaults
// apply before the persisted settings document is consulted.
type Config struct {
	BasePath string
	Provider string
}

// LoadConfig reads an optional .gyomucal config file (current directory
// or home) plus GYOMUCAL_* environment variables. Every value has a
// working default, so a missing config file is not an error.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName(".gyomucal") // .yaml implicit
	v.SetEnvPrefix("GYOMUCAL")
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err == nil {
		v.SetDefault("path", filepath.Join(home, ".gyomucal", "data"))
		v.AddConfigPath(home)
	}
	v.SetDefault("provider", "auto")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	return Config{
		BasePath: v.GetString("path"),
		Provider: v.GetString("provider"),
	}, nil
}
