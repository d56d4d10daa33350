package model

import (
	"github.com/onosproject/onos-api/go/onos/ransim/types"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// PathInfo one externally measured path, angles in degrees
type PathInfo struct {
	Delay    float64 `json:"delay" mapstructure:"delay" yaml:"delay"`
	Power    float64 `json:"power" mapstructure:"power" yaml:"power"`
	AoDAngle float64 `json:"aod_angle" mapstructure:"aod_angle" yaml:"aod_angle"`
	AoAAngle float64 `json:"aoa_angle" mapstructure:"aoa_angle" yaml:"aoa_angle"`
}

// ChannelData paths of one BS-UE link supplied by an external system
type ChannelData struct {
	BSID  types.GnbID `json:"bs_id" mapstructure:"bs_id" yaml:"bs_id"`
	UEID  types.IMSI  `json:"ue_id" mapstructure:"ue_id" yaml:"ue_id"`
	Paths []PathInfo  `json:"paths" mapstructure:"paths" yaml:"paths"`
}

// AddPath appends a path to the link
func (c *ChannelData) AddPath(p PathInfo) {
	c.Paths = append(c.Paths, p)
}

// Summarize returns a flat view of the link for reporting
func (c *ChannelData) Summarize() map[string]interface{} {
	paths := make([]map[string]float64, 0, len(c.Paths))
	for _, p := range c.Paths {
		paths = append(paths, map[string]float64{
			"delay":     p.Delay,
			"power":     p.Power,
			"aod_angle": p.AoDAngle,
			"aoa_angle": p.AoAAngle,
		})
	}
	return map[string]interface{}{
		"bs_id": c.BSID,
		"ue_id": c.UEID,
		"paths": paths,
	}
}

// Validate checks that the link carries usable paths
func (c *ChannelData) Validate() error {
	if len(c.Paths) == 0 {
		return errors.NewInvalid("channel %d-%d has no paths", c.BSID, c.UEID)
	}
	for i, p := range c.Paths {
		if p.Power < 0 || p.Delay < 0 {
			return errors.NewInvalid("channel %d-%d path %d has negative power or delay", c.BSID, c.UEID, i)
		}
	}
	return nil
}

// Delays returns the path delays in order
func (c *ChannelData) Delays() []float64 {
	out := make([]float64, len(c.Paths))
	for i, p := range c.Paths {
		out[i] = p.Delay
	}
	return out
}

// Powers returns the path powers in order
func (c *ChannelData) Powers() []float64 {
	out := make([]float64, len(c.Paths))
	for i, p := range c.Paths {
		out[i] = p.Power
	}
	return out
}

// AoDs returns the departure angle deviations in order
func (c *ChannelData) AoDs() []float64 {
	out := make([]float64, len(c.Paths))
	for i, p := range c.Paths {
		out[i] = p.AoDAngle
	}
	return out
}

// AoAs returns the arrival angle deviations in order
func (c *ChannelData) AoAs() []float64 {
	out := make([]float64, len(c.Paths))
	for i, p := range c.Paths {
		out[i] = p.AoAAngle
	}
	return out
}
