// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"os"
	"strings"

	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const configDir = ".mimo-simulator"

// SetDefaults registers the optional values of the configuration
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scenario", SuburbanMacro)
	v.SetDefault("systemType", SystemMIMO)
	v.SetDefault("S", 2)
	v.SetDefault("U", 2)
	v.SetDefault("BS", 1)
	v.SetDefault("MS", 1)
	v.SetDefault("N", 6)
	v.SetDefault("M", MaxSubpaths)
	v.SetDefault("rho_DS_AS", 0.5)
	v.SetDefault("rho_SF_AS", -0.6)
	v.SetDefault("rho_SF_DS", -0.6)
	v.SetDefault("zetha_SF", 0.5)
	v.SetDefault("Antenna_Sectors", 3)
	v.SetDefault("f_c", 2e9)
	v.SetDefault("power", 1.0)
	v.SetDefault("noise", 1e-13)
	v.SetDefault("seed", 1)
	v.SetDefault("velocity", 2.0)
	v.SetDefault("time", 0.0)
	v.SetDefault("bsSpacing", 0.5)
	v.SetDefault("msSpacing", 0.5)
	v.SetDefault("policy", PolicyWaterFilling)
	v.SetDefault("maxIterations", 1000)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", "0")
}

// NewViper returns a viper instance with the search paths, defaults and the
// MIMO environment prefix of the simulator
func NewViper(configname string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configname)
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/" + configDir)
	v.AddConfigPath("/etc/mimo-simulator")
	v.SetEnvPrefix("MIMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadConfig loads the named configuration file into cfg
func LoadConfig(cfg *Config, configname string) error {
	return LoadConfigWith(NewViper(configname), cfg)
}

// LoadConfigWith reads and decodes the configuration of an already prepared viper instance
func LoadConfigWith(v *viper.Viper, cfg *Config) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.NewInvalid("unable to read config: %v", err)
		}
		log.Warnf("Config file not found, using defaults: %v", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return errors.NewInvalid("unable to decode config: %v", err)
	}
	log.Debugf("Loaded config %s", v.ConfigFileUsed())
	return nil
}

// DumpConfig writes the effective configuration as YAML
func DumpConfig(cfg *Config, path string) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternal("failed to marshal config: %v", err)
	}
	return os.WriteFile(path, b, 0644)
}
