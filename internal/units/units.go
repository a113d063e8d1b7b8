// Package units converts temperatures, speeds and distances between the
// metric and imperial systems.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// System is the measurement system requested by a caller.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// TemperatureUnit is the unit a temperature value is expressed in.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

const (
	kmPerMile = 1.609344
)

// ParseSystem maps a caller supplied unit system to a System.
// An empty string selects Metric.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Metric):
		return Metric, nil
	case string(Imperial):
		return Imperial, nil
	default:
		return "", fmt.Errorf("unsupported unit system %q", s)
	}
}

func (s System) TemperatureUnit() TemperatureUnit {
	if s == Imperial {
		return Fahrenheit
	}
	return Celsius
}

// SpeedUnit is the wind speed unit label for the system.
func (s System) SpeedUnit() string {
	if s == Imperial {
		return "mph"
	}
	return "km/h"
}

// Conversions are exact; callers round for display.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

func KphToMph(kph float64) float64 {
	return kph / kmPerMile
}

func MphToKph(mph float64) float64 {
	return mph * kmPerMile
}

func KmToMiles(km float64) float64 {
	return km / kmPerMile
}

func MilesToKm(mi float64) float64 {
	return mi * kmPerMile
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ConvertTemperature expresses value (given in from) in the temperature unit
// of the target system. Converted values are rounded to one decimal.
func ConvertTemperature(value float64, from TemperatureUnit, to System) (float64, TemperatureUnit) {
	target := to.TemperatureUnit()
	switch {
	case from == target:
		return value, target
	case from == Fahrenheit:
		return Round1(FahrenheitToCelsius(value)), target
	default:
		return Round1(CelsiusToFahrenheit(value)), target
	}
}

var windPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)(?:\s+to\s+(\d+(?:\.\d+)?))?\s*(mph|km/h|kph|kmh)\s*$`)

// ConvertWindSpeed rewrites a provider wind string such as "10 mph" or
// "5 to 10 mph" into the speed unit of the target system. Strings that do
// not follow that shape are returned unchanged.
func ConvertWindSpeed(s string, to System) string {
	m := windPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	fromImperial := strings.EqualFold(m[3], "mph")
	convert := func(raw string) string {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		switch {
		case fromImperial && to == Metric:
			v = MphToKph(v)
		case !fromImperial && to == Imperial:
			v = KphToMph(v)
		}
		return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	}

	out := convert(m[1])
	if m[2] != "" {
		out += " to " + convert(m[2])
	}
	return out + " " + to.SpeedUnit()
}
