// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0
//

package utils

import (
	"math"
	"os"
)

// SpeedOfLight in m/s
const SpeedOfLight = 3e8

/**
 * Rounds number to decimals
 */
func RoundToDecimal(value float64, decimals int) float64 {
	intValue := value * math.Pow10(decimals)
	return math.Round(intValue) / math.Pow10(decimals)
}

// NormalizeAngle maps an angle in degrees to the interval (-180, 180]
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg+180, 360)
	if a < 0 {
		a += 360
	}
	a -= 180
	if a <= -180 {
		a += 360
	}
	return a
}

// NormalizeAngles normalizes every entry of an N×M angle grid into a new grid
func NormalizeAngles(angles [][]float64) [][]float64 {
	out := make([][]float64, len(angles))
	for n, row := range angles {
		out[n] = make([]float64, len(row))
		for m, a := range row {
			out[n][m] = NormalizeAngle(a)
		}
	}
	return out
}

func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Wavelength returns the carrier wavelength in meters for a frequency in Hz
func Wavelength(frequencyHz float64) float64 {
	return SpeedOfLight / frequencyHz
}

func GetEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func DbToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

func LinearToDb(linear float64) float64 {
	return 10 * math.Log10(linear)
}

func MwToDbm(mw float64) float64 {
	return 10 * math.Log10(mw)
}

func DbmToMw(dbm float64) float64 {
	return math.Pow(10, dbm/10)
}

// WattToDbm converts a power in W to dBm
func WattToDbm(w float64) float64 {
	return MwToDbm(w * 1000)
}

// DbmToWatt converts a power in dBm to W
func DbmToWatt(dbm float64) float64 {
	return DbmToMw(dbm) / 1000
}

func If[T any](cond bool, vtrue, vfalse T) T {
	if cond {
		return vtrue
	}
	return vfalse
}

// IsFinite reports whether every value is neither NaN nor infinite
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
