package model

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

const (
	SuburbanMacro = "Suburban Macro"
	UrbanMacro    = "Urban Macro"
	UrbanMicro    = "Urban Micro"

	SystemMIMO = "MIMO"
)

// Environment deployment geometry constants
type Environment struct {
	Name     string  `mapstructure:"name" yaml:"name"`
	BSHeight float64 `mapstructure:"h_bs" yaml:"h_bs"` // meters
	MSHeight float64 `mapstructure:"h_ms" yaml:"h_ms"` // meters
	C        float64 `mapstructure:"C" yaml:"C"`       // path loss offset in dB
	D        float64 `mapstructure:"d" yaml:"d"`       // BS to BS distance in km
	R        float64 `mapstructure:"R" yaml:"R"`       // cell radius in meters
}

// CommunicationSystem statistical constants of the system type
type CommunicationSystem struct {
	Type    string  `mapstructure:"type" yaml:"type"`
	MeanAS  float64 `mapstructure:"mean_AS" yaml:"mean_AS"`
	DBS     float64 `mapstructure:"dBS" yaml:"dBS"` // BS element spacing in wavelengths
	EpsAS   float64 `mapstructure:"eps_AS" yaml:"eps_AS"`
	MuAS    float64 `mapstructure:"mu_AS" yaml:"mu_AS"`
	EpsDS   float64 `mapstructure:"eps_DS" yaml:"eps_DS"`
	MuDS    float64 `mapstructure:"mu_DS" yaml:"mu_DS"`
	SigmaSH float64 `mapstructure:"sigma_SH" yaml:"sigma_SH"`
	RDS     float64 `mapstructure:"r_DS" yaml:"r_DS"`
	RAS     float64 `mapstructure:"r_AS" yaml:"r_AS"`
}

// Scenario is an environment together with the statistics of its system type
type Scenario struct {
	Environment `mapstructure:",squash" yaml:",inline"`
	System      CommunicationSystem `mapstructure:"system" yaml:"system"`
}

// Warning is a non fatal diagnostic raised while resolving a scenario
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

const WarnUnknownScenario = "UNKNOWN_SCENARIO"

var environments = map[string]Environment{
	SuburbanMacro: {Name: SuburbanMacro, BSHeight: 32, MSHeight: 1.5, C: 0, D: 3, R: 1700},
	UrbanMacro:    {Name: UrbanMacro, BSHeight: 32, MSHeight: 1.5, C: 3, D: 3, R: 1200},
	// no C offset is defined for microcells
	UrbanMicro: {Name: UrbanMicro, BSHeight: 12.5, MSHeight: 1.5, C: 0, D: 1, R: 500},
}

var mimoSystems = map[string]CommunicationSystem{
	SuburbanMacro: {
		Type: SystemMIMO, MeanAS: 5, DBS: 6,
		EpsAS: 0.13, MuAS: 0.69, EpsDS: 0.18, MuDS: -6.18,
		SigmaSH: 8, RDS: 1.4, RAS: 1.2,
	},
	UrbanMacro: {
		Type: SystemMIMO, MeanAS: 2, DBS: 4,
		EpsAS: 0.34, MuAS: 0.81, EpsDS: 0.288, MuDS: -6.80,
		SigmaSH: 8, RDS: 1.7, RAS: 1.3,
	},
	// r_DS and r_AS are not applicable for microcells
	UrbanMicro: {
		Type: SystemMIMO, MeanAS: 16, DBS: 2,
		SigmaSH: 10,
	},
}

// LookupScenario resolves a named profile. The system constants come from the
// preset table when systemType is MIMO and from overrides otherwise. Unknown
// names never fail: the override values are used as they are and a warning is
// returned.
func LookupScenario(name, systemType string, overrides Scenario) (Scenario, []Warning) {
	var warnings []Warning

	env, ok := environments[name]
	if !ok {
		w := Warning{
			Code:    WarnUnknownScenario,
			Message: fmt.Sprintf("no valid scenario option %q was selected, using provided parameters as defaults", name),
		}
		log.Warn(w.Message)
		warnings = append(warnings, w)
		env = overrides.Environment
		env.Name = name
	}

	system := overrides.System
	if systemType == SystemMIMO {
		if preset, ok := mimoSystems[name]; ok {
			system = preset
		}
	}
	system.Type = systemType

	log.Debugf("Resolved scenario %s/%s: %+v %+v", name, systemType, env, system)
	return Scenario{Environment: env, System: system}, warnings
}

// ScenarioNames lists the built-in profiles
func ScenarioNames() []string {
	return []string{SuburbanMacro, UrbanMacro, UrbanMicro}
}
