// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

const (
	// MaxSubpaths is the length of the standard subpath offset tables
	MaxSubpaths = 20

	PolicyWaterFilling = "waterfilling"
	PolicyUniform      = "uniform"
)

// Config simulation configuration
type Config struct {
	Scenario       string      `mapstructure:"scenario" yaml:"scenario"`
	SystemType     string      `mapstructure:"systemType" yaml:"systemType"`
	Overrides      Scenario    `mapstructure:"overrides" yaml:"overrides"` // raw values used for unknown scenario names
	S              int         `mapstructure:"S" yaml:"S"`                 // BS antenna elements
	U              int         `mapstructure:"U" yaml:"U"`                 // MS antenna elements
	BS             int         `mapstructure:"BS" yaml:"BS"`
	MS             int         `mapstructure:"MS" yaml:"MS"`
	N              int         `mapstructure:"N" yaml:"N"` // paths
	M              int         `mapstructure:"M" yaml:"M"` // subpaths per path
	RhoDSAS        float64     `mapstructure:"rho_DS_AS" yaml:"rho_DS_AS"`
	RhoSFAS        float64     `mapstructure:"rho_SF_AS" yaml:"rho_SF_AS"`
	RhoSFDS        float64     `mapstructure:"rho_SF_DS" yaml:"rho_SF_DS"`
	ZethaSF        float64     `mapstructure:"zetha_SF" yaml:"zetha_SF"`
	AntennaSectors int         `mapstructure:"Antenna_Sectors" yaml:"Antenna_Sectors"`
	Frequency      float64     `mapstructure:"f_c" yaml:"f_c"`     // carrier frequency in Hz
	Power          float64     `mapstructure:"power" yaml:"power"` // total transmit power in W
	Noise          float64     `mapstructure:"noise" yaml:"noise"` // noise power in W
	Seed           uint64      `mapstructure:"seed" yaml:"seed"`
	Velocity       float64     `mapstructure:"velocity" yaml:"velocity"` // MS speed in m/s
	Time           float64     `mapstructure:"time" yaml:"time"`
	BSSpacing      float64     `mapstructure:"bsSpacing" yaml:"bsSpacing"` // in wavelengths
	MSSpacing      float64     `mapstructure:"msSpacing" yaml:"msSpacing"` // in wavelengths
	Policy         string      `mapstructure:"policy" yaml:"policy"`
	Workers        int         `mapstructure:"workers" yaml:"workers"`
	MaxIterations  int         `mapstructure:"maxIterations" yaml:"maxIterations"`
	Redis          RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig connection settings of the snapshot store
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	DB       string `mapstructure:"db" yaml:"db"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}

// Validate checks that the parameters required by the simulation entry point are present
func (c *Config) Validate() error {
	switch {
	case c.S <= 0 || c.U <= 0:
		return errors.NewInvalid("antenna counts must be positive: S=%d U=%d", c.S, c.U)
	case c.N <= 0:
		return errors.NewInvalid("number of paths must be positive: N=%d", c.N)
	case c.M <= 0 || c.M > MaxSubpaths:
		return errors.NewInvalid("number of subpaths must be in [1, %d]: M=%d", MaxSubpaths, c.M)
	case c.AntennaSectors == 0:
		return errors.NewInvalid("Antenna_Sectors is required")
	case c.Frequency <= 0:
		return errors.NewInvalid("carrier frequency must be positive: f_c=%v", c.Frequency)
	case c.Power < 0:
		return errors.NewInvalid("total power must not be negative: power=%v", c.Power)
	case c.Noise <= 0:
		return errors.NewInvalid("noise power must be positive: noise=%v", c.Noise)
	case c.Policy != "" && c.Policy != PolicyWaterFilling && c.Policy != PolicyUniform:
		return errors.NewInvalid("unknown allocation policy %q", c.Policy)
	}
	return nil
}

// Geometry BS/MS placement and orientation of one link, angles in degrees
type Geometry struct {
	Distance float64 `mapstructure:"distance" yaml:"distance"` // meters
	OmegaBS  float64 `mapstructure:"omegaBS" yaml:"omegaBS"`   // BS array broadside w.r.t. north
	OmegaMS  float64 `mapstructure:"omegaMS" yaml:"omegaMS"`   // MS array broadside w.r.t. north
	ThetaBS  float64 `mapstructure:"thetaBS" yaml:"thetaBS"`   // LOS AoD w.r.t. BS broadside
	ThetaMS  float64 `mapstructure:"thetaMS" yaml:"thetaMS"`   // LOS AoA w.r.t. MS broadside
	ThetaV   float64 `mapstructure:"thetaV" yaml:"thetaV"`     // velocity heading w.r.t. MS broadside
}
