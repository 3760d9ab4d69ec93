// Package config owns the viper configuration engine: defaults, environment bindings and the toml file.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/qkd/kdplayer/constant"
	"github.com/qkd/kdplayer/filesystem"
	"github.com/qkd/kdplayer/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps config keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and env bindings, then reads kdplayer.toml if present.
func Setup() error {
	viper.SetConfigName(constant.KDPlayer)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.KDPlayer)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

// Path is the file `config write` creates.
func Path() string {
	return filepath.Join(where.Config(), constant.KDPlayer+".toml")
}

// Write persists the current values, creating the file when missing.
func Write() error {
	return viper.WriteConfigAs(Path())
}
